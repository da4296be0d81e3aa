// Package errs defines the sentinel errors shared by all sumo packages.
//
// Errors are returned wrapped with context via fmt.Errorf("...: %w", err);
// callers match them with errors.Is.
package errs

import "errors"

// Argument and state errors.
var (
	// ErrDimensionMismatch is returned when vector, matrix or case sizes disagree.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrDimensionOutOfBounds is returned for empty inputs or indexes outside a valid range.
	ErrDimensionOutOfBounds = errors.New("dimension out of bounds")
	// ErrInvalidValue is returned when a value is outside the domain of an operation,
	// e.g. the logarithm of a non-positive number or an unknown categorical value.
	ErrInvalidValue = errors.New("invalid value")
	// ErrInvalidState is returned when an object is used before it is fully initialised.
	ErrInvalidState = errors.New("invalid state")
	// ErrInvalidOption is returned by functional options that reject their argument.
	ErrInvalidOption = errors.New("invalid option")
)

// Numerical errors.
var (
	// ErrSingular is returned when a matrix factorisation meets a zero pivot.
	ErrSingular = errors.New("singular matrix")
	// ErrNotConverged is returned when an iterative decomposition fails to converge.
	ErrNotConverged = errors.New("decomposition did not converge")
)

// Serialization errors.
var (
	ErrInvalidHeaderSize   = errors.New("invalid header size")
	ErrInvalidMagicNumber  = errors.New("invalid magic number")
	ErrKindMismatch        = errors.New("payload kind mismatch")
	ErrChecksumMismatch    = errors.New("payload checksum mismatch")
	ErrShortBuffer         = errors.New("short buffer")
	ErrUnsupportedVersion  = errors.New("unsupported version")
	ErrInvalidCompression  = errors.New("invalid compression type")
	ErrTrailingPayloadData = errors.New("trailing payload data")
)
