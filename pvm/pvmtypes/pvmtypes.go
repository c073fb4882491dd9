// Package pvmtypes consolidates shared types, interfaces, and constants for the PVM.
package pvmtypes

import "golang.org/x/exp/constraints"

// ============================================================================
// Machine State Constants
// ============================================================================

const (
	HALT  = 0 // regular halt
	PANIC = 1 // panic
	FAULT = 2 // page-fault
	HOST  = 3 // host-call
	OOG   = 4 // out-of-gas
)

// ============================================================================
// Host Function Result Codes
// ============================================================================

const (
	OK   uint64 = 0
	NONE uint64 = (1 << 64) - 1
	WHAT uint64 = (1 << 64) - 2
	OOB  uint64 = (1 << 64) - 3
	WHO  uint64 = (1 << 64) - 4
	FULL uint64 = (1 << 64) - 5
	CORE uint64 = (1 << 64) - 6
	CASH uint64 = (1 << 64) - 7
	LOW  uint64 = (1 << 64) - 8
	HUH  uint64 = (1 << 64) - 9
)

// ============================================================================
// ABI Constants
// ============================================================================

const (
	Z_A = 2 // dynamic jump alignment

	Z_P = (1 << 12) // page size
	Z_I = (1 << 24) // maximum argument size
	Z_Z = (1 << 16) // standard zone size

	// HaltAddress is the dynamic jump target that halts the machine.
	HaltAddress = (1 << 32) - (1 << 16)
)

func CeilingDivide[T constraints.Unsigned](a, b T) T {
	return (a + b - 1) / b
}

// address is the set of integer types wide enough to hold a zone size.
type address interface {
	~uint32 | ~uint64
}

// PFunc rounds x up to a page boundary.
func PFunc[T address](x T) T {
	return Z_P * CeilingDivide(x, T(Z_P))
}

// ZFunc rounds x up to a zone boundary.
func ZFunc[T address](x T) T {
	return Z_Z * CeilingDivide(x, T(Z_Z))
}

// ============================================================================
// Host Function Identifiers
// ============================================================================

const (
	GAS               = 0   // Gas metering
	FETCH             = 1   // Fetch work package data
	LOOKUP            = 2   // Lookup service state
	READ              = 3   // Read from service state
	WRITE             = 4   // Write to service state
	INFO              = 5   // Query service information
	HISTORICAL_LOOKUP = 6   // Lookup historical state
	EXPORT            = 7   // Export data
	MACHINE           = 8   // Create child VM
	PEEK              = 9   // Peek child VM memory
	POKE              = 10  // Poke child VM memory
	PAGES             = 11  // Query VM memory pages
	INVOKE            = 12  // Invoke child VM
	EXPUNGE           = 13  // Destroy child VM
	LOG               = 100 // Debug logging
)

var hostFnNames = map[uint32]string{
	GAS:               "GAS",
	FETCH:             "FETCH",
	LOOKUP:            "LOOKUP",
	READ:              "READ",
	WRITE:             "WRITE",
	INFO:              "INFO",
	HISTORICAL_LOOKUP: "HISTORICAL_LOOKUP",
	EXPORT:            "EXPORT",
	MACHINE:           "MACHINE",
	PEEK:              "PEEK",
	POKE:              "POKE",
	PAGES:             "PAGES",
	INVOKE:            "INVOKE",
	EXPUNGE:           "EXPUNGE",
	LOG:               "LOG",
}

// HostFnToName returns the human-readable name for a host function ID
func HostFnToName(hostFn uint32) string {
	if name, ok := hostFnNames[hostFn]; ok {
		return name
	}
	return "UNKNOWN"
}
