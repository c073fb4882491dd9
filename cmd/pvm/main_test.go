package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/colorfulnotion/jampvm/common"
	"github.com/colorfulnotion/jampvm/pvm/program"
	"github.com/colorfulnotion/jampvm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the pvm command line with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

// writeProgram encodes instrs as a program blob in a temp file.
func writeProgram(t *testing.T, instrs ...[]byte) (string, []byte) {
	t.Helper()
	var code []byte
	var mask []bool
	for _, in := range instrs {
		code = append(code, in...)
		mask = append(mask, true)
		for range in[1:] {
			mask = append(mask, false)
		}
	}
	p, err := program.New(code, mask, nil, 4)
	require.NoError(t, err)
	return writeFile(t, "prog.pvm", p.Encode())
}

func writeFile(t *testing.T, name string, data []byte) (string, []byte) {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path, data
}

var (
	loadImm42 = []byte{program.LOAD_IMM, 0x07, 0x2a}
	trap      = []byte{program.TRAP}
)

func TestRunBareProgram(t *testing.T) {
	path, _ := writeProgram(t, loadImm42, trap)

	out, err := execute(t, "run", path, "--gas", "100")
	require.NoError(t, err)
	assert.Contains(t, out, "exit: panic")
	assert.Contains(t, out, "pc:   3")
	assert.Contains(t, out, "gas:  98")
	assert.Contains(t, out, "a0  = 0x000000000000002a")
}

func TestRunStandardProgram(t *testing.T) {
	p, err := program.New([]byte{program.JUMP_IND, 0x00}, []bool{true, false}, nil, 4)
	require.NoError(t, err)
	code := p.Encode()

	var blob []byte
	blob = append(blob, types.E_l(0, 3)...)
	blob = append(blob, types.E_l(0, 3)...)
	blob = append(blob, types.E_l(0, 2)...)
	blob = append(blob, types.E_l(4096, 3)...)
	blob = append(blob, types.E_l(uint64(len(code)), 4)...)
	blob = append(blob, code...)
	path, _ := writeFile(t, "std.pvm", blob)

	out, err := execute(t, "run", path, "--standard", "--arg", "0x0102")
	require.NoError(t, err)
	assert.Equal(t, "halt gas_used=1 output=0x0102\n", out)

	_, err = execute(t, "run", path, "--standard", "--arg", "zz")
	require.Error(t, err)
}

func TestInspectCommands(t *testing.T) {
	path, _ := writeProgram(t, loadImm42, trap)

	out, err := execute(t, "disasm", path)
	require.NoError(t, err)
	assert.Contains(t, out, "LOAD_IMM a0, 0x2a")
	assert.Contains(t, out, "TRAP")

	out, err = execute(t, "stats", path)
	require.NoError(t, err)
	assert.Contains(t, out, "instructions:    2")
	assert.Contains(t, out, "basic blocks:    1")

	out, err = execute(t, "blocks", path)
	require.NoError(t, err)
	assert.Contains(t, out, "block @0")
	assert.Contains(t, out, "0: LOAD_IMM a0, 0x2a")
	assert.Contains(t, out, "3: TRAP")

	_, err = execute(t, "disasm", filepath.Join(t.TempDir(), "missing.pvm"))
	require.Error(t, err)
}

const addVector = `{
	"name": "inst_add_32",
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

func TestVectorCommand(t *testing.T) {
	good, _ := writeFile(t, "good.json", []byte(addVector))
	bad, _ := writeFile(t, "bad.json", []byte(strings.Replace(addVector, `"expected-gas": 9998`, `"expected-gas": 1`, 1)))

	out, err := execute(t, "vector", "-v", good)
	require.NoError(t, err)
	assert.Contains(t, out, "PASS inst_add_32")
	assert.Contains(t, out, "1/1 vectors passed")

	out, err = execute(t, "vector", good, bad)
	require.Error(t, err)
	assert.Contains(t, out, "FAIL inst_add_32")
	assert.Contains(t, out, "1/2 vectors passed")
}

func TestStoreCommands(t *testing.T) {
	path, blob := writeProgram(t, loadImm42, trap)
	db := filepath.Join(t.TempDir(), "programs")
	hash := common.Blake2Hash(blob).Hex()

	out, err := execute(t, "store", "--db", db, "put", path)
	require.NoError(t, err)
	assert.Equal(t, hash+" "+path+"\n", out)

	out, err = execute(t, "store", "--db", db, "ls")
	require.NoError(t, err)
	assert.Equal(t, hash+"\n", out)

	out, err = execute(t, "run", hash, "--store", db, "--gas", "100")
	require.NoError(t, err)
	assert.Contains(t, out, "a0  = 0x000000000000002a")

	dst := filepath.Join(t.TempDir(), "copy.pvm")
	_, err = execute(t, "store", "--db", db, "get", hash, "-o", dst)
	require.NoError(t, err)
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, blob, got)

	_, err = execute(t, "store", "--db", db, "rm", hash)
	require.NoError(t, err)
	_, err = execute(t, "store", "--db", db, "get", hash)
	require.Error(t, err)
	_, err = execute(t, "store", "--db", db, "get", "0x1234")
	require.Error(t, err)
}

func TestDebugger(t *testing.T) {
	path, _ := writeProgram(t, []byte{program.ECALLI}, trap)
	src := programSource{gas: 100, arg: "0x"}
	vm, err := src.machine(path)
	require.NoError(t, err)
	d := newDebugger(vm)

	var out bytes.Buffer
	assert.False(t, d.exec("dis", &out))
	assert.Contains(t, out.String(), "0: ECALLI 0")

	out.Reset()
	assert.False(t, d.exec("step", &out))
	assert.Contains(t, out.String(), "host call 0 -> r7 = 0x59")
	assert.Contains(t, out.String(), "pc=1 gas=89 next 1: TRAP")

	out.Reset()
	d.exec("step 5", &out)
	assert.Contains(t, out.String(), "machine stopped: panic")
	assert.Equal(t, 2, d.steps)

	out.Reset()
	d.exec("run", &out)
	assert.Contains(t, out.String(), "exit: panic")
	assert.Contains(t, out.String(), "gas:  88")

	out.Reset()
	d.exec("mem 0x10 4", &out)
	assert.Contains(t, out.String(), "00000000  00 00 00 00")

	out.Reset()
	d.exec("mem 0xffffff", &out)
	assert.Contains(t, out.String(), "read 0xffffff+64")

	out.Reset()
	d.exec("bogus", &out)
	assert.Contains(t, out.String(), `unknown command "bogus"`)

	assert.True(t, d.exec("quit", &out))
}

func TestRunTraced(t *testing.T) {
	path, _ := writeProgram(t, []byte{program.ECALLI, 0x00}, loadImm42, trap)
	tracePath := filepath.Join(t.TempDir(), "run.jsonl")

	out, err := execute(t, "run", path, "--gas", "100", "--trace", tracePath)
	require.NoError(t, err)
	assert.Contains(t, out, "exit: panic")

	data, err := os.ReadFile(tracePath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], `"exit":"host-call"`)
	assert.Contains(t, lines[1], `"name":"LOAD_IMM"`)
	assert.Contains(t, lines[2], `"exit":"panic"`)
	assert.Contains(t, out, "gas:  87")
}
