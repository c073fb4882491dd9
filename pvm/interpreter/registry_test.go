package interpreter

import (
	"testing"

	"github.com/colorfulnotion/jampvm/pvm/program"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryCoversInstructionSet(t *testing.T) {
	for i := 0; i < 256; i++ {
		opcode := byte(i)
		d := Lookup(opcode)
		if !program.IsValidOpcode(opcode) {
			assert.Nil(t, d, "opcode %d should be unassigned", i)
			continue
		}
		require.NotNil(t, d, "opcode %d (%s) missing", i, program.OpcodeToString(opcode))
		assert.Equal(t, opcode, d.Opcode)
		assert.Equal(t, program.OpcodeToString(opcode), d.Name)
		assert.Equal(t, program.IsBasicBlockTerminator(opcode), d.Terminates, d.Name)
		assert.Equal(t, TrapCost, d.Gas)
	}
}

func TestBlockBeginningsFollowTerminatingDescriptors(t *testing.T) {
	for i := 0; i < 256; i++ {
		d := Lookup(byte(i))
		if d == nil {
			continue
		}
		p, err := program.New([]byte{d.Opcode, 0, 0, 0, program.TRAP}, []bool{true, false, false, false, true}, nil, 0)
		require.NoError(t, err)
		assert.Equal(t, d.Terminates, IsBlockBeginning(p, 4), d.Name)
	}
}

func TestNewRegistryRejectsDuplicates(t *testing.T) {
	list := []Descriptor{op(program.TRAP, evalTrap), op(program.TRAP, evalFallthrough)}
	require.Panics(t, func() { newRegistry(list) })

	require.Panics(t, func() { newRegistry([]Descriptor{{Opcode: 2, Name: "bogus"}}) })
}

func TestDecodersPerForm(t *testing.T) {
	args, err := Lookup(program.LOAD_IMM_JUMP).Decode([]byte{program.LOAD_IMM_JUMP, 0x12, 0x07, 0xfc})
	require.NoError(t, err)
	assert.Equal(t, 2, args.RegA)
	assert.Equal(t, uint64(7), args.Vx)
	assert.Equal(t, int64(-4), args.Offset)
	assert.Equal(t, uint32(6), args.target(10))

	_, err = Lookup(program.ADD_64).Decode([]byte{program.ADD_64, 0x21})
	require.Error(t, err)
}
