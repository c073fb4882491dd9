package program

import (
	"fmt"

	"github.com/colorfulnotion/jampvm/jamerrors"
	"github.com/colorfulnotion/jampvm/pvm/memory"
	"github.com/colorfulnotion/jampvm/pvm/pvmtypes"
	"github.com/colorfulnotion/jampvm/types"
)

// Fixed addresses of the standard program layout (GP A.7).
const (
	StackTop    = (1 << 32) - 2*pvmtypes.Z_Z - pvmtypes.Z_I
	ArgsAddress = (1 << 32) - pvmtypes.Z_Z - pvmtypes.Z_I
)

// StandardProgram is a program blob in the standard layout together with
// the registers and memory it starts with.
type StandardProgram struct {
	*Program
	Registers [13]uint64
	Memory    *memory.PagedRAM

	ROData    []byte
	RWData    []byte
	HeapPages uint32
	StackSize uint32
}

func (r *blobReader) fixed(field string, l int) (uint64, error) {
	b, err := r.bytes(field, uint64(l))
	if err != nil {
		return 0, err
	}
	return types.DecodeE_l(b), nil
}

// DecodeStandard parses E_3(|o|) E_3(|w|) E_2(z) E_3(s) o w E_4(|c|) c, where
// c is a program blob, and lays out memory and registers for args.
func DecodeStandard(blob []byte, args []byte) (*StandardProgram, error) {
	r := &blobReader{buf: blob}

	oLen, err := r.fixed("ro data length", 3)
	if err != nil {
		return nil, err
	}
	wLen, err := r.fixed("rw data length", 3)
	if err != nil {
		return nil, err
	}
	z, err := r.fixed("heap pages", 2)
	if err != nil {
		return nil, err
	}
	s, err := r.fixed("stack size", 3)
	if err != nil {
		return nil, err
	}
	o, err := r.bytes("ro data", oLen)
	if err != nil {
		return nil, err
	}
	w, err := r.bytes("rw data", wLen)
	if err != nil {
		return nil, err
	}
	cLen, err := r.fixed("code blob length", 4)
	if err != nil {
		return nil, err
	}
	c, err := r.bytes("code blob", cLen)
	if err != nil {
		return nil, err
	}
	if r.remaining() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes after code blob", jamerrors.ErrPInconsistent, r.remaining())
	}
	if uint64(len(args)) > pvmtypes.Z_I {
		return nil, fmt.Errorf("%w: %d argument bytes exceed %d", jamerrors.ErrPLayout, len(args), pvmtypes.Z_I)
	}

	zo := pvmtypes.ZFunc(oLen)
	zw := pvmtypes.ZFunc(wLen + z*pvmtypes.Z_P)
	zs := pvmtypes.ZFunc(s)
	if required := 5*pvmtypes.Z_Z + zo + zw + zs + pvmtypes.Z_I; required > 1<<32 {
		return nil, fmt.Errorf("%w: layout needs %d bytes", jamerrors.ErrPLayout, required)
	}

	prog, err := Decode(c)
	if err != nil {
		return nil, err
	}

	sp := &StandardProgram{
		Program:   prog,
		Memory:    memory.NewPagedRAM(),
		ROData:    o,
		RWData:    w,
		HeapPages: uint32(z),
		StackSize: uint32(s),
	}
	if err := sp.layout(uint32(zo), args); err != nil {
		return nil, err
	}
	sp.Registers[0] = pvmtypes.HaltAddress
	sp.Registers[1] = StackTop
	sp.Registers[7] = ArgsAddress
	sp.Registers[8] = uint64(len(args))
	return sp, nil
}

func pages(bytes uint32) uint32 {
	return pvmtypes.CeilingDivide(bytes, memory.PageSize)
}

func (sp *StandardProgram) layout(zo uint32, args []byte) error {
	ram := sp.Memory

	roStart := uint32(pvmtypes.Z_Z)
	if err := ram.SetAccess(roStart/memory.PageSize, pages(uint32(len(sp.ROData))), memory.ReadOnly); err != nil {
		return err
	}
	ram.Load(roStart, sp.ROData)

	rwStart := 2*uint32(pvmtypes.Z_Z) + zo
	rwPages := pages(uint32(len(sp.RWData))) + sp.HeapPages
	if err := ram.SetAccess(rwStart/memory.PageSize, rwPages, memory.ReadWrite); err != nil {
		return err
	}
	ram.Load(rwStart, sp.RWData)
	ram.SetHeapPointer(rwStart + rwPages*memory.PageSize)

	stackPages := pages(sp.StackSize)
	if err := ram.SetAccess(StackTop/memory.PageSize-stackPages, stackPages, memory.ReadWrite); err != nil {
		return err
	}

	if err := ram.SetAccess(ArgsAddress/memory.PageSize, pages(uint32(len(args))), memory.ReadOnly); err != nil {
		return err
	}
	ram.Load(ArgsAddress, args)
	return nil
}
