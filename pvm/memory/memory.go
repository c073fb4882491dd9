// Package memory implements the address spaces a PVM instance reads and
// writes: a flat bounds-checked Sandbox and a paged RAM with per-page access.
package memory

import "fmt"

// Memory is the byte-addressable space seen by executing code. Every failed
// access returns a *PageFault and leaves the memory unchanged.
type Memory interface {
	Get(addr uint32) (byte, error)
	Set(addr uint32, v byte) error
	GetBytes(addr uint32, n uint32) ([]byte, error)
	SetBytes(addr uint32, data []byte) error
	Readable(addr uint32, n uint32) bool
}

// Allocator is implemented by memories that can grow a heap for SBRK.
type Allocator interface {
	// Sbrk extends the heap by size bytes and returns the previous heap
	// pointer, or 0 when the heap cannot grow.
	Sbrk(size uint64) uint64
}

// Snapshotter is implemented by memories that can be deep-copied.
type Snapshotter interface {
	Snapshot() Memory
}

// PageFault reports the first address of an access that is not provisioned.
type PageFault struct {
	Address uint32
}

func (f *PageFault) Error() string {
	return fmt.Sprintf("page fault at 0x%x", f.Address)
}
