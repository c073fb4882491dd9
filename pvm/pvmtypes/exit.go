package pvmtypes

import "fmt"

// ExitKind tags an ExitReason.
type ExitKind uint8

const (
	// ExitContinue is only produced by instruction handlers and host
	// functions; the dispatch loop never returns it.
	ExitContinue ExitKind = iota
	ExitHalt
	ExitPanic
	ExitOutOfGas
	ExitHostCall
	ExitPageFault
)

func (k ExitKind) String() string {
	switch k {
	case ExitContinue:
		return "continue"
	case ExitHalt:
		return "halt"
	case ExitPanic:
		return "panic"
	case ExitOutOfGas:
		return "out-of-gas"
	case ExitHostCall:
		return "host-call"
	case ExitPageFault:
		return "page-fault"
	}
	return fmt.Sprintf("exit(%d)", uint8(k))
}

// ExitReason is the outcome of an instruction or of a whole run. HostCall is
// meaningful only for ExitHostCall and Address only for ExitPageFault.
type ExitReason struct {
	Kind     ExitKind
	HostCall uint32
	Address  uint32
}

func Continue() ExitReason { return ExitReason{Kind: ExitContinue} }
func Halt() ExitReason { return ExitReason{Kind: ExitHalt} }
func Panic() ExitReason { return ExitReason{Kind: ExitPanic} }
func OutOfGas() ExitReason { return ExitReason{Kind: ExitOutOfGas} }

func HostCall(id uint32) ExitReason {
	return ExitReason{Kind: ExitHostCall, HostCall: id}
}

func PageFaultAt(addr uint32) ExitReason {
	return ExitReason{Kind: ExitPageFault, Address: addr}
}

// Stops reports whether the dispatch loop must return this reason.
func (e ExitReason) Stops() bool {
	return e.Kind != ExitContinue
}

// Terminal reports whether the machine can never be resumed after e.
func (e ExitReason) Terminal() bool {
	switch e.Kind {
	case ExitHalt, ExitPanic, ExitOutOfGas:
		return true
	}
	return false
}

// MachineState maps the reason onto the HALT/PANIC/FAULT/HOST/OOG codes.
// Continue has no machine state and reports -1.
func (e ExitReason) MachineState() int {
	switch e.Kind {
	case ExitHalt:
		return HALT
	case ExitPanic:
		return PANIC
	case ExitPageFault:
		return FAULT
	case ExitHostCall:
		return HOST
	case ExitOutOfGas:
		return OOG
	}
	return -1
}

func (e ExitReason) String() string {
	switch e.Kind {
	case ExitHostCall:
		return fmt.Sprintf("host-call(%d %s)", e.HostCall, HostFnToName(e.HostCall))
	case ExitPageFault:
		return fmt.Sprintf("page-fault(0x%x)", e.Address)
	}
	return e.Kind.String()
}
