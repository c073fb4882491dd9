package jamerrors

import (
	"errors"
	"strings"
)

// Program (P) Errors
var (
	ErrPDomain       = errors.New("P1|Domain: Numeric helper called outside its domain.")
	ErrPTruncated    = errors.New("P2|Truncated: Program blob ended before a declared field.")
	ErrPInconsistent = errors.New("P3|Inconsistent: Program blob lengths do not agree with each other.")
	ErrPBadMask      = errors.New("P4|BadMask: Instruction mask does not cover the code.")
	ErrPBadOperands  = errors.New("P5|BadOperands: Operand bytes shorter than the instruction requires.")
	ErrPLayout       = errors.New("P6|Layout: Standard program sections do not fit the address space.")
)

// Service (S) Errors
var (
	ErrSIndexSpaceExhausted = errors.New("S1|IndexSpaceExhausted: Every service index is occupied.")
)

// Storage (K) Errors
var (
	ErrKNotFound  = errors.New("K1|NotFound: No program stored under the code hash.")
	ErrKCorrupted = errors.New("K2|Corrupted: Stored program does not match its code hash.")
	ErrKEmptyBlob = errors.New("K3|EmptyBlob: Refusing to store an empty program.")
)

var known = []error{
	ErrPDomain, ErrPTruncated, ErrPInconsistent, ErrPBadMask, ErrPBadOperands, ErrPLayout,
	ErrSIndexSpaceExhausted,
	ErrKNotFound, ErrKCorrupted, ErrKEmptyBlob,
}

// sentinel returns the registered error wrapped somewhere in err, or err itself.
func sentinel(err error) error {
	for _, k := range known {
		if errors.Is(err, k) {
			return k
		}
	}
	return err
}

// GetErrorName extracts the error name from the error message.
func GetErrorName(err error) string {
	if err == nil {
		return "No Error"
	}
	errStr := sentinel(err).Error()
	if !strings.Contains(errStr, "|") || !strings.Contains(errStr, ":") {
		return errStr
	}
	parts := strings.SplitN(errStr, "|", 2)
	nameParts := strings.SplitN(parts[1], ":", 2)
	return strings.TrimSpace(nameParts[0])
}

func GetErrorNames(errs []error) []string {
	errStrs := make([]string, len(errs))
	for i, err := range errs {
		errStrs[i] = GetErrorName(err)
	}
	return errStrs
}

// GetErrorCode extracts the error code from the error message.
func GetErrorCode(err error) string {
	if err == nil {
		return ""
	}
	errStr := sentinel(err).Error()
	if !strings.Contains(errStr, "|") {
		return ""
	}
	parts := strings.SplitN(errStr, "|", 2)
	return strings.TrimSpace(parts[0])
}

// GetErrorCodeWithName returns the error code and name in the format "Code_ErrorName".
func GetErrorCodeWithName(err error) string {
	code := GetErrorCode(err)
	name := GetErrorName(err)
	if code == "" || name == "" {
		return ""
	}
	return code + "_" + name
}

// GetErrorDesc extracts the error description from the error message.
func GetErrorDesc(err error) string {
	if err == nil {
		return ""
	}
	parts := strings.SplitN(sentinel(err).Error(), ":", 2)
	if len(parts) < 2 {
		return "DESC NOT SET"
	}
	return strings.TrimSpace(parts[1])
}
