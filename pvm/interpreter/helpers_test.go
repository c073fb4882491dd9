package interpreter

import (
	"testing"

	"github.com/colorfulnotion/jampvm/pvm/memory"
	"github.com/colorfulnotion/jampvm/pvm/program"
	"github.com/stretchr/testify/require"
)

// assembler concatenates instructions, marking the first byte of each as
// an instruction start.
type assembler struct {
	code  []byte
	mask  []bool
	jumps []uint32
}

func (a *assembler) add(instr ...byte) *assembler {
	a.code = append(a.code, instr...)
	a.mask = append(a.mask, true)
	for range instr[1:] {
		a.mask = append(a.mask, false)
	}
	return a
}

// pc is the address the next added instruction will get.
func (a *assembler) pc() uint32 {
	return uint32(len(a.code))
}

func (a *assembler) jumpTable(targets ...uint32) *assembler {
	a.jumps = targets
	return a
}

func (a *assembler) build(t *testing.T) *program.Program {
	t.Helper()
	p, err := program.New(a.code, a.mask, a.jumps, 4)
	require.NoError(t, err)
	return p
}

func newTestContext(t *testing.T, a *assembler, gas int64) *Context {
	return NewContext(a.build(t), memory.NewDefaultSandbox(), gas, [NumRegisters]uint64{})
}
