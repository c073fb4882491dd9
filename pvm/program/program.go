package program

import (
	"fmt"

	"github.com/colorfulnotion/jampvm/jamerrors"
	"github.com/colorfulnotion/jampvm/types"
)

// MaxJumpEntryWidth is the widest jump-table entry a blob may declare.
const MaxJumpEntryWidth = 4

// Program is a decoded program blob. It is never mutated after Decode and
// may be shared by any number of concurrently running machines.
type Program struct {
	Code           []byte
	Mask           []bool
	JumpTable      []uint32
	JumpEntryWidth uint8

	blockStart []bool
}

// blobReader walks a program blob, failing instead of reading past its end.
type blobReader struct {
	buf []byte
	pos int
}

func (r *blobReader) remaining() int {
	return len(r.buf) - r.pos
}

func (r *blobReader) natural(field string) (uint64, error) {
	v, n := types.DecodeE(r.buf[r.pos:])
	if n == 0 {
		return 0, fmt.Errorf("%w: %s at offset %d", jamerrors.ErrPTruncated, field, r.pos)
	}
	r.pos += int(n)
	return v, nil
}

func (r *blobReader) bytes(field string, n uint64) ([]byte, error) {
	if n > uint64(r.remaining()) {
		return nil, fmt.Errorf("%w: %s needs %d bytes, %d left", jamerrors.ErrPTruncated, field, n, r.remaining())
	}
	b := r.buf[r.pos : r.pos+int(n)]
	r.pos += int(n)
	return b, nil
}

// Decode parses E(|j|) ++ E_1(z) ++ E(|c|) ++ E_z(j) ++ c ++ k (GP A.2).
// It never panics; every malformation is reported as an error.
func Decode(blob []byte) (*Program, error) {
	r := &blobReader{buf: blob}

	jumpCount, err := r.natural("jump table length")
	if err != nil {
		return nil, err
	}
	zb, err := r.bytes("jump entry width", 1)
	if err != nil {
		return nil, err
	}
	z := zb[0]
	if z > MaxJumpEntryWidth {
		return nil, fmt.Errorf("%w: jump entry width %d", jamerrors.ErrPInconsistent, z)
	}
	if z == 0 && jumpCount > 0 {
		return nil, fmt.Errorf("%w: %d jump entries of width 0", jamerrors.ErrPInconsistent, jumpCount)
	}
	codeLen, err := r.natural("code length")
	if err != nil {
		return nil, err
	}
	if z > 0 && jumpCount > uint64(r.remaining())/uint64(z) {
		return nil, fmt.Errorf("%w: %d jump entries of width %d", jamerrors.ErrPTruncated, jumpCount, z)
	}
	table, err := r.bytes("jump table", jumpCount*uint64(z))
	if err != nil {
		return nil, err
	}
	code, err := r.bytes("code", codeLen)
	if err != nil {
		return nil, err
	}
	maskLen := (codeLen + 7) / 8
	if maskLen > uint64(r.remaining()) {
		return nil, fmt.Errorf("%w: mask needs %d bytes, %d left", jamerrors.ErrPBadMask, maskLen, r.remaining())
	}
	packed, _ := r.bytes("mask", maskLen)
	if r.remaining() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes after mask", jamerrors.ErrPInconsistent, r.remaining())
	}

	p := &Program{
		Code:           append([]byte(nil), code...),
		Mask:           expandBits(packed, int(codeLen)),
		JumpTable:      make([]uint32, jumpCount),
		JumpEntryWidth: z,
	}
	for i := range p.JumpTable {
		off := i * int(z)
		p.JumpTable[i] = uint32(types.DecodeE_l(table[off : off+int(z)]))
	}
	p.blockStart = p.computeBlockStarts()
	return p, nil
}

// New builds a Program from already decoded parts. mask must have one entry per code byte.
func New(code []byte, mask []bool, jumpTable []uint32, z uint8) (*Program, error) {
	if len(mask) != len(code) {
		return nil, fmt.Errorf("%w: %d mask bits for %d code bytes", jamerrors.ErrPBadMask, len(mask), len(code))
	}
	if z > MaxJumpEntryWidth || (z == 0 && len(jumpTable) > 0) {
		return nil, fmt.Errorf("%w: jump entry width %d", jamerrors.ErrPInconsistent, z)
	}
	p := &Program{
		Code:           append([]byte(nil), code...),
		Mask:           append([]bool(nil), mask...),
		JumpTable:      append([]uint32(nil), jumpTable...),
		JumpEntryWidth: z,
	}
	p.blockStart = p.computeBlockStarts()
	return p, nil
}

// Encode serializes p back into the blob layout read by Decode.
func (p *Program) Encode() []byte {
	out := types.E(uint64(len(p.JumpTable)))
	out = append(out, p.JumpEntryWidth)
	out = append(out, types.E(uint64(len(p.Code)))...)
	for _, j := range p.JumpTable {
		out = append(out, types.E_l(uint64(j), uint32(p.JumpEntryWidth))...)
	}
	out = append(out, p.Code...)
	return append(out, packBits(p.Mask)...)
}

// expandBits unpacks an LSB-first bitmask into n booleans.
func expandBits(packed []byte, n int) []bool {
	mask := make([]bool, n)
	for i := range mask {
		mask[i] = packed[i/8]&(1<<(i%8)) != 0
	}
	return mask
}

func packBits(mask []bool) []byte {
	packed := make([]byte, (len(mask)+7)/8)
	for i, set := range mask {
		if set {
			packed[i/8] |= 1 << (i % 8)
		}
	}
	return packed
}

// computeBlockStarts marks every instruction start that is either the first
// code byte or follows a block-terminating instruction.
func (p *Program) computeBlockStarts() []bool {
	starts := make([]bool, len(p.Code))
	prev := -1
	for i := range p.Code {
		if !p.Mask[i] {
			continue
		}
		if i == 0 || (prev >= 0 && IsBasicBlockTerminator(p.Code[prev])) {
			starts[i] = true
		}
		prev = i
	}
	return starts
}

// Len is the code length in bytes.
func (p *Program) Len() uint32 {
	return uint32(len(p.Code))
}

// IsInstructionStart reports whether pc is in range and flagged in the mask.
func (p *Program) IsInstructionStart(pc uint32) bool {
	return uint64(pc) < uint64(len(p.Code)) && p.Mask[pc]
}

// IsBlockBeginning reports whether pc is a legal control transfer target.
func (p *Program) IsBlockBeginning(pc uint32) bool {
	return uint64(pc) < uint64(len(p.blockStart)) && p.blockStart[pc]
}

// Skip is the operand length of the instruction at pc.
func (p *Program) Skip(pc uint32) uint32 {
	return Skip(p.Mask, pc)
}

// Window returns the opcode byte and operands of the instruction at pc,
// clamped to the end of the code. pc must be an instruction start.
func (p *Program) Window(pc uint32) []byte {
	end := uint64(pc) + uint64(p.Skip(pc)) + 1
	if end > uint64(len(p.Code)) {
		end = uint64(len(p.Code))
	}
	return p.Code[pc:end]
}

// NextPC is the address of the instruction following the one at pc.
func (p *Program) NextPC(pc uint32) uint32 {
	return pc + p.Skip(pc) + 1
}
