package testvector

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/colorfulnotion/jampvm/pvm/pvmtypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ADD_32 r9 = r7 + r8; TRAP
const add32Vector = `{
	"name": "inst_add_32_then_trap",
	"initial-regs": [0, 0, 0, 0, 0, 0, 0, 1, 2, 0, 0, 0, 0],
	"initial-pc": 0,
	"initial-page-map": [],
	"initial-memory": [],
	"initial-gas": 10000,
	"program": [0, 0, 4, 190, 135, 9, 0, 9],
	"expected-status": "panic",
	"expected-regs": [0, 0, 0, 0, 0, 0, 0, 1, 2, 3, 0, 0, 0],
	"expected-pc": 3,
	"expected-memory": [],
	"expected-gas": 9998
}`

// STORE_U32 [0x20000] = r7; TRAP
const storeVector = `{
	"name": "inst_store_u32",
	"initial-regs": [0, 0, 0, 0, 0, 0, 0, 305419896, 0, 0, 0, 0, 0],
	"initial-pc": 0,
	"initial-page-map": [{"address": 131072, "length": 4096, "is-writable": true}],
	"initial-memory": [{"address": 131076, "contents": [170]}],
	"initial-gas": 100,
	"program": [0, 0, 6, 61, 7, 0, 0, 2, 0, 33],
	"expected-status": "panic",
	"expected-regs": [0, 0, 0, 0, 0, 0, 0, 305419896, 0, 0, 0, 0, 0],
	"expected-pc": 5,
	"expected-memory": [{"address": 131072, "contents": [120, 86, 52, 18, 170]}],
	"expected-gas": 98
}`

// the same store with nothing mapped
const storeFaultVector = `{
	"name": "inst_store_u32_fault",
	"initial-regs": [0, 0, 0, 0, 0, 0, 0, 305419896, 0, 0, 0, 0, 0],
	"initial-pc": 0,
	"initial-page-map": [],
	"initial-memory": [],
	"initial-gas": 100,
	"program": [0, 0, 6, 61, 7, 0, 0, 2, 0, 33],
	"expected-status": "page-fault",
	"expected-regs": [0, 0, 0, 0, 0, 0, 0, 305419896, 0, 0, 0, 0, 0],
	"expected-pc": 0,
	"expected-memory": [],
	"expected-gas": 99,
	"expected-page-fault-address": 131072
}`

func runVector(t *testing.T, raw string) (*TestCase, *Outcome) {
	t.Helper()
	tc, err := Parse([]byte(raw))
	require.NoError(t, err)
	out, err := Run(tc)
	require.NoError(t, err)
	return tc, out
}

func TestVectorsMatch(t *testing.T) {
	for _, raw := range []string{add32Vector, storeVector, storeFaultVector} {
		tc, out := runVector(t, raw)
		t.Run(tc.Name, func(t *testing.T) {
			d, err := Compare(tc, out)
			require.NoError(t, err)
			assert.True(t, d.Match, d.Text)
			assert.Empty(t, d.Text)
		})
	}
}

func TestVectorOutcome(t *testing.T) {
	_, out := runVector(t, storeFaultVector)
	assert.Equal(t, pvmtypes.PageFaultAt(0x20000), out.Exit)
	assert.Equal(t, "page-fault", out.Status())
	assert.Equal(t, int64(99), out.Gas)
}

func TestVectorMismatch(t *testing.T) {
	tc, out := runVector(t, add32Vector)
	tc.ExpectedRegs[9] = 4
	tc.ExpectedGas = 9000

	d, err := Compare(tc, out)
	require.NoError(t, err)
	assert.False(t, d.Match)
	assert.Contains(t, d.Text, "regs")
	assert.Contains(t, d.Text, "gas")
}

func TestVectorMismatchInHighRegisterBits(t *testing.T) {
	tc, out := runVector(t, add32Vector)
	out.Regs[12] = 1<<63 + 1
	tc.ExpectedRegs[12] = 1 << 63

	d, err := Compare(tc, out)
	require.NoError(t, err)
	assert.False(t, d.Match)
	assert.Contains(t, d.Text, "0x8000000000000001")

	tc.ExpectedRegs[12] = 1<<63 + 1
	d, err = Compare(tc, out)
	require.NoError(t, err)
	assert.True(t, d.Match, d.Text)
}

func TestTrapStatusAlias(t *testing.T) {
	tc, out := runVector(t, add32Vector)
	tc.ExpectedStatus = "trap"

	d, err := Compare(tc, out)
	require.NoError(t, err)
	assert.True(t, d.Match, d.Text)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inst_add_32.json")
	require.NoError(t, os.WriteFile(path, []byte(add32Vector), 0o644))

	tc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "inst_add_32_then_trap", tc.Name)
	assert.Equal(t, []byte{0, 0, 4, 190, 135, 9, 0, 9}, tc.Program)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	_, err = Parse([]byte(`{"initial-regs": [0,0,0,0,0,0,0,0,0,0,0,0,0,0]}`))
	require.Error(t, err)
}

func TestMalformedProgramPanics(t *testing.T) {
	tc, err := Parse([]byte(add32Vector))
	require.NoError(t, err)
	tc.Program = []byte{0x00, 0x05}

	out, err := Run(tc)
	require.NoError(t, err)
	assert.Equal(t, pvmtypes.Panic(), out.Exit)
	assert.Equal(t, int64(10000), out.Gas)
}
