// Package interpreter executes decoded PVM programs one instruction at a time.
package interpreter

import (
	"errors"

	"github.com/colorfulnotion/jampvm/pvm/memory"
	"github.com/colorfulnotion/jampvm/pvm/program"
	"github.com/colorfulnotion/jampvm/pvm/pvmtypes"
	"github.com/colorfulnotion/jampvm/types"
)

const NumRegisters = 13

// Context is the mutable state of one invocation. It is owned by a single
// goroutine: the dispatch loop mutates it in place and callers only touch it
// between runs (host calls, page provisioning).
type Context struct {
	PC        uint32
	Gas       int64
	Registers [NumRegisters]uint64
	Memory    memory.Memory
	Program   *program.Program
}

func NewContext(prog *program.Program, mem memory.Memory, gas int64, regs [NumRegisters]uint64) *Context {
	return &Context{
		Gas:       gas,
		Registers: regs,
		Memory:    mem,
		Program:   prog,
	}
}

// Clone copies the context. Memory is deep-copied only when it implements
// memory.Snapshotter; otherwise the clone shares it.
func (c *Context) Clone() *Context {
	cp := *c
	if s, ok := c.Memory.(memory.Snapshotter); ok {
		cp.Memory = s.Snapshot()
	}
	return &cp
}

func (c *Context) Reg(i int) uint64 {
	return c.Registers[min(NumRegisters-1, i)]
}

func (c *Context) SetReg(i int, v uint64) {
	c.Registers[min(NumRegisters-1, i)] = v
}

// memoryExit converts a memory error into the exit reason the loop reports.
func memoryExit(err error) pvmtypes.ExitReason {
	var pf *memory.PageFault
	if errors.As(err, &pf) {
		return pvmtypes.PageFaultAt(pf.Address)
	}
	return pvmtypes.Panic()
}

// load reads an n-byte little-endian value.
func (c *Context) load(addr uint32, n uint32) (uint64, pvmtypes.ExitReason) {
	b, err := c.Memory.GetBytes(addr, n)
	if err != nil {
		return 0, memoryExit(err)
	}
	return types.DecodeE_l(b), pvmtypes.Continue()
}

// store writes the low n bytes of v little-endian.
func (c *Context) store(addr uint32, v uint64, n uint32) pvmtypes.ExitReason {
	if err := c.Memory.SetBytes(addr, types.E_l(v, n)); err != nil {
		return memoryExit(err)
	}
	return pvmtypes.Continue()
}
