package units

import (
	"database/sql/driver"
	"fmt"
	"math"
	"math/bits"
	"regexp"
	"strconv"
)

// Count type represents an exact number of discrete items.
// The zero value is "0".
//
// Count stores a non-negative integer together with a display magnitude
// drawn from the shared power-of-1000 [Magnitude] table.
// Conversions between magnitudes are exact: a conversion that cannot be
// represented without loss fails instead of rounding.
// Count is designed to be safe for concurrent use by multiple goroutines.
type Count struct {
	value     int64 // always non-negative
	magnitude Magnitude
}

var countPattern = regexp.MustCompile(`^\s*(\d+)\s*([a-zA-Z]?)\s*$`)

// NewCount returns a count of the given value at the given magnitude.
//
// NewCount returns an error if the value is negative.
func NewCount(value int64, magnitude Magnitude) (Count, error) {
	if value < 0 {
		return Count{}, fmt.Errorf("count %v%v: %w", value, magnitude, ErrNegativeValue)
	}
	return Count{value: value, magnitude: magnitude}, nil
}

// MustNewCount is like [NewCount] but panics if the count cannot be
// constructed.
// It simplifies safe initialization of global variables holding counts.
func MustNewCount(value int64, magnitude Magnitude) Count {
	c, err := NewCount(value, magnitude)
	if err != nil {
		panic(fmt.Sprintf("NewCount(%v, %v) failed: %v", value, magnitude, err))
	}
	return c
}

// SuccinctRoundedCount returns a count converted to the first magnitude in
// which its value reads below 1000, rounding the fractional part to the
// nearest integer.
// See also method [Count.SuccinctRounded].
func SuccinctRoundedCount(value int64, magnitude Magnitude) (Count, error) {
	c, err := NewCount(value, magnitude)
	if err != nil {
		return Count{}, err
	}
	return c.SuccinctRounded(), nil
}

// ParseCount converts a string to a count.
// The input string must consist of a non-negative integer followed by an
// optional magnitude suffix, e.g. "1500", "23K".
// The grammar deliberately admits no fractional part.
//
// ParseCount returns an error if:
//   - the string is empty or does not match the grammar;
//   - the magnitude suffix is not in the magnitude table;
//   - the integer does not fit an int64.
func ParseCount(s string) (Count, error) {
	if s == "" {
		return Count{}, fmt.Errorf("parsing count: %w", ErrEmptyInput)
	}
	match := countPattern.FindStringSubmatch(s)
	if match == nil {
		return Count{}, fmt.Errorf("%q is not a valid count string: %w", s, ErrInvalidFormat)
	}
	magnitude, err := ParseMagnitude(match[2])
	if err != nil {
		return Count{}, fmt.Errorf("parsing count %q: %w", s, err)
	}
	value, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return Count{}, fmt.Errorf("parsing count %q: %w", s, ErrOverflow)
	}
	return Count{value: value, magnitude: magnitude}, nil
}

// MustParseCount is like [ParseCount] but panics if the string cannot be
// parsed.
// It simplifies safe initialization of global variables holding counts.
func MustParseCount(s string) Count {
	c, err := ParseCount(s)
	if err != nil {
		panic(fmt.Sprintf("ParseCount(%q) failed: %v", s, err))
	}
	return c
}

// Amount returns the stored value expressed in the count's own magnitude.
func (c Count) Amount() int64 {
	return c.value
}

// Magnitude returns the magnitude the count is expressed in.
func (c Count) Magnitude() Magnitude {
	return c.magnitude
}

// Value returns the count expressed in the given magnitude.
//
// Value returns an error if:
//   - the value at the target magnitude does not fit an int64;
//   - the target magnitude is larger and does not divide the value evenly,
//     which would lose precision.
func (c Count) Value(magnitude Magnitude) (int64, error) {
	if c.value == 0 {
		return 0, nil
	}
	cur, target := c.magnitude.Factor(), magnitude.Factor()
	if cur >= target {
		// Factors are powers of 1000, so the ratio is always exact.
		scale := cur / target
		if c.value > math.MaxInt64/scale {
			return 0, fmt.Errorf("unable to represent %v in %q: %w", c, magnitude, ErrOverflow)
		}
		return c.value * scale, nil
	}
	scale := target / cur
	if c.value%scale != 0 {
		return 0, fmt.Errorf("unable to represent %v in %q, conversion would cause a precision loss: %w", c, magnitude, ErrPrecisionLoss)
	}
	return c.value / scale, nil
}

// ConvertTo returns an equal count expressed in the given magnitude.
// See method [Count.Value] for the error conditions.
func (c Count) ConvertTo(magnitude Magnitude) (Count, error) {
	value, err := c.Value(magnitude)
	if err != nil {
		return Count{}, err
	}
	return Count{value: value, magnitude: magnitude}, nil
}

// SuccinctRounded returns the count converted to the first magnitude in
// which its value reads below 1000, rounding the fractional part to the
// nearest integer.
// The resulting value always lies in [0, 1000), except at the top magnitude.
func (c Count) SuccinctRounded() Count {
	cur := float64(c.magnitude.Factor())
	for m := range magnitudeFactors {
		converted := float64(c.value) * cur / float64(magnitudeFactors[m])
		if converted < 1000 {
			return Count{value: int64(math.Floor(converted + 0.5)), magnitude: Magnitude(m)}
		}
	}
	// Values too large even for the top magnitude keep it anyway.
	top := Magnitude(len(magnitudeFactors) - 1)
	return Count{value: int64(math.Floor(float64(c.value)*cur/float64(top.Factor()) + 0.5)), magnitude: top}
}

// Cmp compares counts by their values normalized to the base magnitude
// and returns:
//
//	-1 if c < o
//	 0 if c = o
//	+1 if c > o
//
// The comparison is carried out in 128-bit arithmetic, so it never
// overflows regardless of the magnitudes involved.
func (c Count) Cmp(o Count) int {
	chi, clo := bits.Mul64(uint64(c.value), uint64(c.magnitude.Factor()))
	ohi, olo := bits.Mul64(uint64(o.value), uint64(o.magnitude.Factor()))
	switch {
	case chi != ohi:
		return cmpUint64(chi, ohi)
	default:
		return cmpUint64(clo, olo)
	}
}

func cmpUint64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Equal reports whether two counts represent the same number of items,
// regardless of their magnitudes.
func (c Count) Equal(o Count) bool {
	return c.Cmp(o) == 0
}

// String method implements the [fmt.Stringer] interface and returns the
// value followed by the magnitude suffix, e.g. "23K".
// This form doubles as the serialized form.
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (c Count) String() string {
	return strconv.FormatInt(c.value, 10) + c.magnitude.String()
}

// MarshalText implements the [encoding.TextMarshaler] interface.
//
// [encoding.TextMarshaler]: https://pkg.go.dev/encoding#TextMarshaler
func (c Count) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
// See also constructor [ParseCount].
//
// [encoding.TextUnmarshaler]: https://pkg.go.dev/encoding#TextUnmarshaler
func (c *Count) UnmarshalText(text []byte) error {
	var err error
	*c, err = ParseCount(string(text))
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", Count{}, err)
	}
	return nil
}

// MarshalJSON implements the [json.Marshaler] interface.
//
// [json.Marshaler]: https://pkg.go.dev/encoding/json#Marshaler
func (c Count) MarshalJSON() ([]byte, error) {
	text := make([]byte, 0, 24)
	text = append(text, '"')
	text = append(text, c.String()...)
	text = append(text, '"')
	return text, nil
}

// UnmarshalJSON implements the [json.Unmarshaler] interface.
// See also constructor [ParseCount].
//
// [json.Unmarshaler]: https://pkg.go.dev/encoding/json#Unmarshaler
func (c *Count) UnmarshalJSON(text []byte) error {
	if string(text) == "null" {
		return nil
	}
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		text = text[1 : len(text)-1]
	}
	var err error
	*c, err = ParseCount(string(text))
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", Count{}, err)
	}
	return nil
}

// Scan implements the [sql.Scanner] interface.
//
// [sql.Scanner]: https://pkg.go.dev/database/sql#Scanner
func (c *Count) Scan(value any) error {
	var err error
	switch value := value.(type) {
	case string:
		*c, err = ParseCount(value)
	case []byte:
		*c, err = ParseCount(string(value))
	case int64:
		*c, err = NewCount(value, Single)
	case nil:
		err = fmt.Errorf("%T does not support null values, use %T or *%T", Count{}, NullCount{}, Count{})
	default:
		err = fmt.Errorf("type %T is not supported", value)
	}
	if err != nil {
		err = fmt.Errorf("converting from %T to %T: %w", value, Count{}, err)
	}
	return err
}

// NullCount represents a count that can be null.
// Its zero value is null.
// NullCount is not thread-safe.
type NullCount struct {
	Count Count
	Valid bool
}

// Scan implements the [sql.Scanner] interface.
// See also method [Count.Scan].
//
// [sql.Scanner]: https://pkg.go.dev/database/sql#Scanner
func (n *NullCount) Scan(value any) error {
	if value == nil {
		n.Count = Count{}
		n.Valid = false
		return nil
	}
	n.Valid = true
	return n.Count.Scan(value)
}

// Value implements the [driver.Valuer] interface.
// A null count is stored as SQL NULL; a valid one is stored in its
// serialized <value><suffix> form.
//
// [driver.Valuer]: https://pkg.go.dev/database/sql/driver#Valuer
func (n NullCount) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return n.Count.String(), nil
}

// UnmarshalJSON implements the [json.Unmarshaler] interface.
// See also method [Count.UnmarshalJSON].
//
// [json.Unmarshaler]: https://pkg.go.dev/encoding/json#Unmarshaler
func (n *NullCount) UnmarshalJSON(text []byte) error {
	if string(text) == "null" {
		n.Count = Count{}
		n.Valid = false
		return nil
	}
	n.Valid = true
	return n.Count.UnmarshalJSON(text)
}

// MarshalJSON implements the [json.Marshaler] interface.
// See also method [Count.MarshalJSON].
//
// [json.Marshaler]: https://pkg.go.dev/encoding/json#Marshaler
func (n NullCount) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return n.Count.MarshalJSON()
}
