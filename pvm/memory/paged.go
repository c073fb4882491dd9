package memory

import (
	"fmt"
	"sort"
)

const (
	PageSize   = 1 << 12
	TotalPages = (1 << 32) / PageSize
)

// Access is the permission of one page.
type Access uint8

const (
	Inaccessible Access = iota
	ReadOnly
	ReadWrite
)

func (a Access) String() string {
	switch a {
	case ReadOnly:
		return "ro"
	case ReadWrite:
		return "rw"
	}
	return "none"
}

func (a Access) readable() bool { return a != Inaccessible }
func (a Access) writable() bool { return a == ReadWrite }

type Page struct {
	Value  []byte
	Access Access
	Dirty  bool
}

func (p *Page) ensureData() {
	if p.Value == nil {
		p.Value = make([]byte, PageSize)
	}
}

// PagedRAM is the full 32-bit address space split into 4 KiB pages. Pages
// start inaccessible; only pages given an Access are backed by storage.
type PagedRAM struct {
	pages       map[uint32]*Page
	heapPointer uint32
}

func NewPagedRAM() *PagedRAM {
	return &PagedRAM{pages: make(map[uint32]*Page)}
}

func (ram *PagedRAM) HeapPointer() uint32 {
	return ram.heapPointer
}

func (ram *PagedRAM) SetHeapPointer(pointer uint32) {
	ram.heapPointer = pointer
}

// SetAccess sets the permission of count pages starting at page index first.
func (ram *PagedRAM) SetAccess(first uint32, count uint32, mode Access) error {
	if uint64(first)+uint64(count) > TotalPages {
		return fmt.Errorf("pages [%d, %d) outside the address space", first, uint64(first)+uint64(count))
	}
	for i := first; i < first+count; i++ {
		if mode == Inaccessible {
			delete(ram.pages, i)
			continue
		}
		p, ok := ram.pages[i]
		if !ok {
			p = &Page{}
			ram.pages[i] = p
		}
		p.Access = mode
	}
	return nil
}

// AccessOf returns the permission of the page holding addr.
func (ram *PagedRAM) AccessOf(addr uint32) Access {
	if p, ok := ram.pages[addr/PageSize]; ok {
		return p.Access
	}
	return Inaccessible
}

// scan returns a fault for the first byte of [addr, addr+n) whose page
// fails ok. A range running past the top of the address space faults at
// addr once every page below the top passes.
func (ram *PagedRAM) scan(addr uint32, n uint32, ok func(Access) bool) error {
	remaining := uint64(n)
	cur := uint64(addr)
	for remaining > 0 {
		if cur >= 1<<32 {
			return &PageFault{Address: addr}
		}
		if !ok(ram.AccessOf(uint32(cur))) {
			return &PageFault{Address: uint32(cur)}
		}
		step := PageSize - cur%PageSize
		if step >= remaining {
			return nil
		}
		remaining -= step
		cur += step
	}
	return nil
}

func (ram *PagedRAM) Readable(addr uint32, n uint32) bool {
	return ram.scan(addr, n, Access.readable) == nil
}

// Writable reports whether [addr, addr+n) may be written.
func (ram *PagedRAM) Writable(addr uint32, n uint32) bool {
	return ram.scan(addr, n, Access.writable) == nil
}

func (ram *PagedRAM) Get(addr uint32) (byte, error) {
	b, err := ram.GetBytes(addr, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (ram *PagedRAM) Set(addr uint32, v byte) error {
	return ram.SetBytes(addr, []byte{v})
}

func (ram *PagedRAM) GetBytes(addr uint32, n uint32) ([]byte, error) {
	if err := ram.scan(addr, n, Access.readable); err != nil {
		return nil, err
	}
	return ram.read(addr, n), nil
}

func (ram *PagedRAM) SetBytes(addr uint32, data []byte) error {
	if err := ram.scan(addr, uint32(len(data)), Access.writable); err != nil {
		return err
	}
	ram.write(addr, data)
	return nil
}

// Load writes data ignoring page permissions, mapping missing pages as
// read-only. It is used to lay out a program image before execution.
func (ram *PagedRAM) Load(addr uint32, data []byte) {
	cur := addr
	for i := 0; i < len(data); {
		page := cur / PageSize
		if _, ok := ram.pages[page]; !ok {
			ram.pages[page] = &Page{Access: ReadOnly}
		}
		step := min(len(data)-i, int(PageSize-cur%PageSize))
		ram.write(cur, data[i:i+step])
		i += step
		cur += uint32(step)
	}
}

func (ram *PagedRAM) read(addr uint32, n uint32) []byte {
	out := make([]byte, 0, n)
	cur := addr
	for remaining := n; remaining > 0; {
		p := ram.pages[cur/PageSize]
		off := cur % PageSize
		step := min(remaining, PageSize-off)
		if p.Value == nil {
			out = append(out, make([]byte, step)...)
		} else {
			out = append(out, p.Value[off:off+step]...)
		}
		remaining -= step
		cur += step
	}
	return out
}

func (ram *PagedRAM) write(addr uint32, data []byte) {
	cur := addr
	for len(data) > 0 {
		p := ram.pages[cur/PageSize]
		p.ensureData()
		off := cur % PageSize
		n := copy(p.Value[off:], data)
		p.Dirty = true
		data = data[n:]
		cur += uint32(n)
	}
}

// Sbrk grows the heap, mapping any newly touched pages read-write. It
// returns 0 and leaves the heap unchanged when the new heap pointer would
// not fit below 2^32.
func (ram *PagedRAM) Sbrk(size uint64) uint64 {
	prev := ram.heapPointer
	if size == 0 {
		return uint64(prev)
	}
	next := uint64(prev) + size
	if next >= 1<<32 {
		return 0
	}
	firstPage := (uint64(prev) + PageSize - 1) / PageSize
	lastPage := (next + PageSize - 1) / PageSize
	for i := firstPage; i < lastPage; i++ {
		if p, ok := ram.pages[uint32(i)]; ok {
			p.Access = ReadWrite
			continue
		}
		ram.pages[uint32(i)] = &Page{Access: ReadWrite}
	}
	ram.heapPointer = uint32(next)
	return uint64(prev)
}

// DirtyPages lists the indices of pages written since creation, ascending.
func (ram *PagedRAM) DirtyPages() []uint32 {
	var idx []uint32
	for i, p := range ram.pages {
		if p.Dirty {
			idx = append(idx, i)
		}
	}
	sort.Slice(idx, func(a, b int) bool { return idx[a] < idx[b] })
	return idx
}

// MappedPages lists every accessible page index with its permission, ascending.
func (ram *PagedRAM) MappedPages() []uint32 {
	idx := make([]uint32, 0, len(ram.pages))
	for i := range ram.pages {
		idx = append(idx, i)
	}
	sort.Slice(idx, func(a, b int) bool { return idx[a] < idx[b] })
	return idx
}

func (ram *PagedRAM) Snapshot() Memory {
	cp := &PagedRAM{pages: make(map[uint32]*Page, len(ram.pages)), heapPointer: ram.heapPointer}
	for i, p := range ram.pages {
		q := &Page{Access: p.Access, Dirty: p.Dirty}
		if p.Value != nil {
			q.Value = append([]byte(nil), p.Value...)
		}
		cp.pages[i] = q
	}
	return cp
}
