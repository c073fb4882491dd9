package memory

// DefaultSandboxSize is the size of a Sandbox built with NewDefaultSandbox.
const DefaultSandboxSize = 64 * 1024

// Sandbox is a fixed-size flat memory starting at address 0. Ranges never
// wrap around the end of the address space.
type Sandbox struct {
	buf []byte
}

func NewSandbox(size uint32) *Sandbox {
	return &Sandbox{buf: make([]byte, size)}
}

func NewDefaultSandbox() *Sandbox {
	return NewSandbox(DefaultSandboxSize)
}

func (s *Sandbox) Size() uint32 {
	return uint32(len(s.buf))
}

// check returns a fault unless [addr, addr+n) lies inside the buffer.
func (s *Sandbox) check(addr uint32, n uint32) error {
	size := uint64(len(s.buf))
	if n == 0 || uint64(addr)+uint64(n) <= size {
		return nil
	}
	first := uint64(addr)
	if first < size {
		first = size
	}
	return &PageFault{Address: uint32(first)}
}

func (s *Sandbox) Get(addr uint32) (byte, error) {
	if err := s.check(addr, 1); err != nil {
		return 0, err
	}
	return s.buf[addr], nil
}

func (s *Sandbox) Set(addr uint32, v byte) error {
	if err := s.check(addr, 1); err != nil {
		return err
	}
	s.buf[addr] = v
	return nil
}

func (s *Sandbox) GetBytes(addr uint32, n uint32) ([]byte, error) {
	if err := s.check(addr, n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, s.buf[addr:])
	return out, nil
}

func (s *Sandbox) SetBytes(addr uint32, data []byte) error {
	if err := s.check(addr, uint32(len(data))); err != nil {
		return err
	}
	copy(s.buf[addr:], data)
	return nil
}

func (s *Sandbox) Readable(addr uint32, n uint32) bool {
	return s.check(addr, n) == nil
}

func (s *Sandbox) Snapshot() Memory {
	return &Sandbox{buf: append([]byte(nil), s.buf...)}
}
