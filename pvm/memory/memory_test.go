package memory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func requireFault(t *testing.T, err error, addr uint32) {
	t.Helper()
	var pf *PageFault
	require.True(t, errors.As(err, &pf), "expected page fault, got %v", err)
	require.Equal(t, addr, pf.Address)
}

func TestSandboxBounds(t *testing.T) {
	s := NewSandbox(16)
	require.NoError(t, s.SetBytes(12, []byte{1, 2, 3, 4}))
	got, err := s.GetBytes(12, 4)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 4}, got)

	_, err = s.Get(16)
	requireFault(t, err, 16)

	_, err = s.GetBytes(0xffff_fff0, 0x20)
	requireFault(t, err, 0xffff_fff0)

	require.True(t, s.Readable(100, 0))
	require.False(t, s.Readable(15, 2))
	require.Equal(t, uint32(DefaultSandboxSize), NewDefaultSandbox().Size())
}

func TestSandboxFailedWriteIsAtomic(t *testing.T) {
	s := NewSandbox(8)
	require.NoError(t, s.SetBytes(0, []byte{9, 9, 9, 9, 9, 9, 9, 9}))

	err := s.SetBytes(6, []byte{1, 2, 3, 4})
	requireFault(t, err, 8)

	got, err := s.GetBytes(0, 8)
	require.NoError(t, err)
	require.Equal(t, []byte{9, 9, 9, 9, 9, 9, 9, 9}, got)
}

func TestPagedRAMAccess(t *testing.T) {
	ram := NewPagedRAM()
	require.NoError(t, ram.SetAccess(1, 1, ReadOnly))
	require.NoError(t, ram.SetAccess(2, 1, ReadWrite))

	// write straddling the ro/rw boundary faults on the first ro byte
	err := ram.SetBytes(2*PageSize-2, []byte{1, 2, 3, 4})
	requireFault(t, err, 2*PageSize-2)

	require.NoError(t, ram.SetBytes(2*PageSize, []byte{0xaa, 0xbb}))
	got, err := ram.GetBytes(2*PageSize-1, 3)
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0xaa, 0xbb}, got)

	// read running into an unmapped page faults at that page's start
	_, err = ram.GetBytes(3*PageSize-1, 2)
	requireFault(t, err, 3*PageSize)

	_, err = ram.Get(0)
	requireFault(t, err, 0)

	require.Equal(t, []uint32{2}, ram.DirtyPages())
	require.Equal(t, []uint32{1, 2}, ram.MappedPages())
	require.Error(t, ram.SetAccess(TotalPages-1, 2, ReadOnly))
}

func TestPagedRAMLoadAndSnapshot(t *testing.T) {
	ram := NewPagedRAM()
	ram.Load(PageSize-1, []byte{7, 8})
	require.Equal(t, ReadOnly, ram.AccessOf(PageSize))
	require.False(t, ram.Writable(PageSize-1, 2))

	snap := ram.Snapshot().(*PagedRAM)
	require.NoError(t, ram.SetAccess(0, 2, ReadWrite))
	require.NoError(t, ram.Set(PageSize, 0x55))

	b, err := snap.GetBytes(PageSize-1, 2)
	require.NoError(t, err)
	require.Equal(t, []byte{7, 8}, b)
	require.False(t, snap.Writable(PageSize, 1))
}

func TestPagedRAMSbrk(t *testing.T) {
	ram := NewPagedRAM()
	ram.SetHeapPointer(4 * PageSize)

	require.Equal(t, uint64(4*PageSize), ram.Sbrk(0))
	require.Equal(t, uint64(4*PageSize), ram.Sbrk(PageSize+1))
	require.Equal(t, uint32(5*PageSize+1), ram.HeapPointer())
	require.True(t, ram.Writable(4*PageSize, 2*PageSize))
	require.False(t, ram.Readable(6*PageSize, 1))

	require.Equal(t, uint64(0), ram.Sbrk(1<<32))
}

func TestPagedRAMSbrkAtTopOfAddressSpace(t *testing.T) {
	ram := NewPagedRAM()
	ram.SetHeapPointer(0xffff_f000)

	require.Equal(t, uint64(0), ram.Sbrk(PageSize))
	require.Equal(t, uint32(0xffff_f000), ram.HeapPointer())
	require.Equal(t, uint64(0xffff_f000), ram.Sbrk(0))
	require.Empty(t, ram.MappedPages())

	require.Equal(t, uint64(0xffff_f000), ram.Sbrk(PageSize-1))
	require.Equal(t, uint32(0xffff_ffff), ram.HeapPointer())
	require.True(t, ram.Writable(0xffff_f000, PageSize))
}

func TestPagedRAMRangeDoesNotWrap(t *testing.T) {
	ram := NewPagedRAM()
	require.NoError(t, ram.SetAccess(0, 1, ReadWrite))
	require.NoError(t, ram.SetAccess(TotalPages-1, 1, ReadWrite))

	err := ram.SetBytes(0xffff_fffe, []byte{1, 2, 3, 4})
	requireFault(t, err, 0xffff_fffe)
	_, err = ram.GetBytes(0xffff_ffff, 2)
	requireFault(t, err, 0xffff_ffff)
	require.False(t, ram.Readable(0xffff_f000, PageSize+1))

	low, err := ram.GetBytes(0, 2)
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0}, low)
	high, err := ram.GetBytes(0xffff_fffe, 2)
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0}, high)
	require.Empty(t, ram.DirtyPages())

	require.NoError(t, ram.SetBytes(0xffff_fffe, []byte{5, 6}))
	high, err = ram.GetBytes(0xffff_fffe, 2)
	require.NoError(t, err)
	require.Equal(t, []byte{5, 6}, high)
}
