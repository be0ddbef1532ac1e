package units

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"math"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/govalues/decimal"
)

// ThreadCount type represents a number of worker threads.
// The zero value is "0".
//
// A thread count is either given as an absolute number or derived from the
// number of processors available to the process via the per-core multiplier
// grammar, e.g. "1.5C".
// Valid thread counts lie in [0, 2^32 - 1].
// ThreadCount is designed to be safe for concurrent use by multiple
// goroutines.
type ThreadCount int64

const maxThreadCount = math.MaxUint32

// availableProcessorCount is computed once and treated as an immutable
// snapshot for the remainder of the process lifetime.
// Logical CPUs visible to the runtime stand in for physical cores.
var availableProcessorCount = sync.OnceValue(func() int {
	return runtime.NumCPU()
})

// AvailableProcessorCount returns the number of processors the per-core
// multiplier grammar scales by.
func AvailableProcessorCount() int {
	return availableProcessorCount()
}

// ExactThreadCount returns a thread count equal to the given number.
//
// ExactThreadCount returns an error if the number is negative or exceeds
// 2^32 - 1.
func ExactThreadCount(count int64) (ThreadCount, error) {
	if count < 0 {
		return 0, fmt.Errorf("thread count cannot be negative: %w", ErrNegativeValue)
	}
	if count > maxThreadCount {
		return 0, fmt.Errorf("thread count is greater than 2^32 - 1: %w", ErrOverflow)
	}
	return ThreadCount(count), nil
}

// ParseThreadCount converts a string to a thread count.
// The input string must be either a non-negative integer, e.g. "8", or a
// decimal number followed by the per-core multiplier suffix "C", e.g.
// "0.5C"; a space before the suffix is permitted.
// Multiplier values are scaled by [AvailableProcessorCount] and rounded to
// the nearest integer, ties up.
//
// ParseThreadCount returns an error if:
//   - the string is empty or does not parse as an integer or multiplier;
//   - the count or multiplier is negative;
//   - the resulting count exceeds 2^32 - 1.
func ParseThreadCount(s string) (ThreadCount, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, fmt.Errorf("parsing thread count: %w", ErrEmptyInput)
	}
	if strings.HasSuffix(trimmed, "C") {
		multiplier := strings.TrimSpace(strings.TrimSuffix(trimmed, "C"))
		return multipliedThreadCount(multiplier)
	}
	count, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("thread count is greater than 2^32 - 1: %w", ErrOverflow)
		}
		return 0, fmt.Errorf("cannot parse value '%s' as integer: %w", trimmed, ErrInvalidFormat)
	}
	return ExactThreadCount(count)
}

// multipliedThreadCount scales a per-core multiplier by the available
// processor count using exact decimal arithmetic.
func multipliedThreadCount(multiplier string) (ThreadCount, error) {
	m, err := decimal.Parse(multiplier)
	if err != nil {
		return 0, fmt.Errorf("cannot parse value '%s' as float: %w", multiplier, ErrInvalidFormat)
	}
	if m.IsNeg() {
		return 0, fmt.Errorf("thread multiplier cannot be negative: %w", ErrNegativeValue)
	}
	cores := decimal.MustNew(int64(AvailableProcessorCount()), 0)
	product, err := m.Mul(cores)
	if err != nil {
		return 0, fmt.Errorf("thread count is greater than 2^32 - 1: %w", ErrOverflow)
	}
	count, err := roundHalfUpInt64(product)
	if err != nil {
		return 0, fmt.Errorf("thread count is greater than 2^32 - 1: %w", ErrOverflow)
	}
	return ExactThreadCount(count)
}

// MustParseThreadCount is like [ParseThreadCount] but panics if the string
// cannot be parsed.
// It simplifies safe initialization of global variables holding thread
// counts.
func MustParseThreadCount(s string) ThreadCount {
	t, err := ParseThreadCount(s)
	if err != nil {
		panic(fmt.Sprintf("ParseThreadCount(%q) failed: %v", s, err))
	}
	return t
}

// BoundedThreadCount parses a thread count and clamps it into the inclusive
// range given by min and max, which are themselves thread count strings.
// Out-of-range values are clamped, not rejected.
func BoundedThreadCount(value, min, max string) (ThreadCount, error) {
	t, err := ParseThreadCount(value)
	if err != nil {
		return 0, err
	}
	lo, err := ParseThreadCount(min)
	if err != nil {
		return 0, fmt.Errorf("parsing lower bound: %w", err)
	}
	hi, err := ParseThreadCount(max)
	if err != nil {
		return 0, fmt.Errorf("parsing upper bound: %w", err)
	}
	switch {
	case t < lo:
		return lo, nil
	case t > hi:
		return hi, nil
	}
	return t, nil
}

// Threads returns the thread count as an int.
func (t ThreadCount) Threads() int {
	return int(t)
}

// Cmp compares thread counts and returns:
//
//	-1 if t < o
//	 0 if t = o
//	+1 if t > o
func (t ThreadCount) Cmp(o ThreadCount) int {
	switch {
	case t < o:
		return -1
	case t > o:
		return 1
	}
	return 0
}

// Equal reports whether two thread counts are equal.
func (t ThreadCount) Equal(o ThreadCount) bool {
	return t == o
}

// String method implements the [fmt.Stringer] interface and returns the
// absolute thread count in decimal notation.
// The per-core multiplier form is a parse-time convenience and is never
// emitted.
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (t ThreadCount) String() string {
	return strconv.FormatInt(int64(t), 10)
}

// MarshalText implements the [encoding.TextMarshaler] interface.
//
// [encoding.TextMarshaler]: https://pkg.go.dev/encoding#TextMarshaler
func (t ThreadCount) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
// See also constructor [ParseThreadCount].
//
// [encoding.TextUnmarshaler]: https://pkg.go.dev/encoding#TextUnmarshaler
func (t *ThreadCount) UnmarshalText(text []byte) error {
	var err error
	*t, err = ParseThreadCount(string(text))
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", ThreadCount(0), err)
	}
	return nil
}

// MarshalJSON implements the [json.Marshaler] interface.
//
// [json.Marshaler]: https://pkg.go.dev/encoding/json#Marshaler
func (t ThreadCount) MarshalJSON() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalJSON implements the [json.Unmarshaler] interface.
// Both bare integers and quoted strings, including the per-core multiplier
// form, are accepted.
//
// [json.Unmarshaler]: https://pkg.go.dev/encoding/json#Unmarshaler
func (t *ThreadCount) UnmarshalJSON(text []byte) error {
	if string(text) == "null" {
		return nil
	}
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		text = text[1 : len(text)-1]
	}
	var err error
	*t, err = ParseThreadCount(string(text))
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", ThreadCount(0), err)
	}
	return nil
}

// Scan implements the [sql.Scanner] interface.
//
// [sql.Scanner]: https://pkg.go.dev/database/sql#Scanner
func (t *ThreadCount) Scan(value any) error {
	var err error
	switch value := value.(type) {
	case string:
		*t, err = ParseThreadCount(value)
	case []byte:
		*t, err = ParseThreadCount(string(value))
	case int64:
		*t, err = ExactThreadCount(value)
	case nil:
		err = fmt.Errorf("%T does not support null values, use %T or *%T", ThreadCount(0), NullThreadCount{}, ThreadCount(0))
	default:
		err = fmt.Errorf("type %T is not supported", value)
	}
	if err != nil {
		err = fmt.Errorf("converting from %T to %T: %w", value, ThreadCount(0), err)
	}
	return err
}

// NullThreadCount represents a thread count that can be null.
// Its zero value is null.
// NullThreadCount is not thread-safe.
type NullThreadCount struct {
	ThreadCount ThreadCount
	Valid       bool
}

// Scan implements the [sql.Scanner] interface.
// See also method [ThreadCount.Scan].
//
// [sql.Scanner]: https://pkg.go.dev/database/sql#Scanner
func (n *NullThreadCount) Scan(value any) error {
	if value == nil {
		n.ThreadCount = 0
		n.Valid = false
		return nil
	}
	n.Valid = true
	return n.ThreadCount.Scan(value)
}

// Value implements the [driver.Valuer] interface.
// A null thread count is stored as SQL NULL; a valid one is stored as an
// integer.
//
// [driver.Valuer]: https://pkg.go.dev/database/sql/driver#Valuer
func (n NullThreadCount) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return int64(n.ThreadCount), nil
}

// UnmarshalJSON implements the [json.Unmarshaler] interface.
// See also method [ThreadCount.UnmarshalJSON].
//
// [json.Unmarshaler]: https://pkg.go.dev/encoding/json#Unmarshaler
func (n *NullThreadCount) UnmarshalJSON(text []byte) error {
	if string(text) == "null" {
		n.ThreadCount = 0
		n.Valid = false
		return nil
	}
	n.Valid = true
	return n.ThreadCount.UnmarshalJSON(text)
}

// MarshalJSON implements the [json.Marshaler] interface.
// See also method [ThreadCount.MarshalJSON].
//
// [json.Marshaler]: https://pkg.go.dev/encoding/json#Marshaler
func (n NullThreadCount) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return n.ThreadCount.MarshalJSON()
}
