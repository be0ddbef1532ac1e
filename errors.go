package units

import "errors"

// Parsing and conversion failures wrap one of these sentinel errors, so
// callers can branch on the failure kind with [errors.Is] while still
// receiving a descriptive message.
var (
	// ErrEmptyInput indicates that an input string was empty.
	ErrEmptyInput = errors.New("empty input")

	// ErrInvalidFormat indicates that an input string did not match
	// the canonical grammar of the value type being parsed.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrUnknownUnit indicates that a unit suffix was not found in the
	// unit table of the value type being parsed.
	ErrUnknownUnit = errors.New("unknown unit")

	// ErrNegativeValue indicates that a negative magnitude was supplied
	// where only non-negative values are representable.
	ErrNegativeValue = errors.New("negative value")

	// ErrNonFiniteValue indicates that NaN or an infinity was supplied
	// where a finite number is required.
	ErrNonFiniteValue = errors.New("non-finite value")

	// ErrOverflow indicates that scaling or rounding would exceed the
	// representable integer range.
	ErrOverflow = errors.New("value overflow")

	// ErrPrecisionLoss indicates a conversion to a magnitude that cannot
	// represent the value exactly.
	ErrPrecisionLoss = errors.New("precision loss")
)
