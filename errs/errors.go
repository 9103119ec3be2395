// Package errs defines the typed error kinds shared across the core.
//
// The shape is an ErrorCode enum plus a Description, rather than ad hoc
// sentinel errors, so callers can branch on the kind of failure without
// string matching.
package errs

import "fmt"

// ErrorCode identifies the kind of failure a core operation reports.
type ErrorCode int

const (
	// InvalidEncoding marks malformed DER, base58, varint, or BEEF container bytes.
	InvalidEncoding ErrorCode = iota

	// OutOfRangeScalar marks a scalar that is zero or >= the group order.
	OutOfRangeScalar

	// NotOnCurve marks a parsed point that fails the curve equation.
	NotOnCurve

	// MissingForkid marks a sighash type byte lacking the 0x40 FORKID bit.
	MissingForkid

	// MissingSourceOutput marks a signing template invoked on an input
	// whose source output metadata is absent.
	MissingSourceOutput

	// IndexOutOfRange marks an input index, vout, or Merkle leaf offset
	// beyond the bounds of the structure being addressed.
	IndexOutOfRange

	// VerificationFailure marks a signature, HMAC, GCM tag, or base58
	// checksum mismatch.
	VerificationFailure

	// BumpMalformed marks a Merkle path that contradicts itself or
	// violates the CVE-2012-2459 duplicate-pair rule.
	BumpMalformed

	// TruncatedInput marks a parser that ran past the end of its buffer.
	TruncatedInput

	// InvalidParameter marks an invoice number, key ID, or protocol
	// string that violates BRC-43.
	InvalidParameter
)

var codeNames = map[ErrorCode]string{
	InvalidEncoding:     "InvalidEncoding",
	OutOfRangeScalar:    "OutOfRangeScalar",
	NotOnCurve:          "NotOnCurve",
	MissingForkid:       "MissingForkid",
	MissingSourceOutput: "MissingSourceOutput",
	IndexOutOfRange:     "IndexOutOfRange",
	VerificationFailure: "VerificationFailure",
	BumpMalformed:       "BumpMalformed",
	TruncatedInput:      "TruncatedInput",
	InvalidParameter:    "InvalidParameter",
}

// String returns the ErrorCode in human-readable form.
func (c ErrorCode) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("UnknownErrorCode(%d)", int(c))
}

// Error is the concrete error type every fallible core operation returns.
type Error struct {
	Code        ErrorCode
	Description string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// New builds an *Error for the given code.
func New(code ErrorCode, description string) *Error {
	return &Error{Code: code, Description: description}
}

// Newf builds an *Error with a formatted description.
func Newf(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{Code: code, Description: fmt.Sprintf(format, args...)}
}

// Is reports whether err is an *Error of the given code. It also
// understands wrapped errors via errors.As-compatible unwrapping.
func Is(err error, code ErrorCode) bool {
	var e *Error
	for err != nil {
		if ce, ok := err.(*Error); ok {
			e = ce
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return e != nil && e.Code == code
}
