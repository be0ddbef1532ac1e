package units

import (
	"database/sql/driver"
	"fmt"
	"math"
	"math/bits"
	"regexp"
	"strconv"
)

// Quantity type represents a general-purpose counted value.
// The zero value is "0".
//
// Quantity is the twin of [Count] over the same power-of-1000 [Magnitude]
// table and follows the same exact-conversion contract; it exists as a
// distinct type so that APIs can tell genuinely countable items apart from
// abstract quantities.
// Quantity is designed to be safe for concurrent use by multiple goroutines.
type Quantity struct {
	value     int64 // always non-negative
	magnitude Magnitude
}

var quantityPattern = regexp.MustCompile(`^\s*(\d+)\s*([a-zA-Z]?)\s*$`)

// NewQuantity returns a quantity of the given value at the given magnitude.
//
// NewQuantity returns an error if the value is negative.
func NewQuantity(value int64, magnitude Magnitude) (Quantity, error) {
	if value < 0 {
		return Quantity{}, fmt.Errorf("quantity %v%v: %w", value, magnitude, ErrNegativeValue)
	}
	return Quantity{value: value, magnitude: magnitude}, nil
}

// MustNewQuantity is like [NewQuantity] but panics if the quantity cannot
// be constructed.
func MustNewQuantity(value int64, magnitude Magnitude) Quantity {
	q, err := NewQuantity(value, magnitude)
	if err != nil {
		panic(fmt.Sprintf("NewQuantity(%v, %v) failed: %v", value, magnitude, err))
	}
	return q
}

// SuccinctRoundedQuantity returns a quantity converted to the first
// magnitude in which its value reads below 1000, rounding the fractional
// part to the nearest integer.
// See also method [Quantity.SuccinctRounded].
func SuccinctRoundedQuantity(value int64, magnitude Magnitude) (Quantity, error) {
	q, err := NewQuantity(value, magnitude)
	if err != nil {
		return Quantity{}, err
	}
	return q.SuccinctRounded(), nil
}

// ParseQuantity converts a string to a quantity.
// The grammar is identical to [ParseCount]: a non-negative integer followed
// by an optional magnitude suffix.
//
// ParseQuantity returns an error if:
//   - the string is empty or does not match the grammar;
//   - the magnitude suffix is not in the magnitude table;
//   - the integer does not fit an int64.
func ParseQuantity(s string) (Quantity, error) {
	if s == "" {
		return Quantity{}, fmt.Errorf("parsing quantity: %w", ErrEmptyInput)
	}
	match := quantityPattern.FindStringSubmatch(s)
	if match == nil {
		return Quantity{}, fmt.Errorf("%q is not a valid quantity string: %w", s, ErrInvalidFormat)
	}
	magnitude, err := ParseMagnitude(match[2])
	if err != nil {
		return Quantity{}, fmt.Errorf("parsing quantity %q: %w", s, err)
	}
	value, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return Quantity{}, fmt.Errorf("parsing quantity %q: %w", s, ErrOverflow)
	}
	return Quantity{value: value, magnitude: magnitude}, nil
}

// MustParseQuantity is like [ParseQuantity] but panics if the string cannot
// be parsed.
func MustParseQuantity(s string) Quantity {
	q, err := ParseQuantity(s)
	if err != nil {
		panic(fmt.Sprintf("ParseQuantity(%q) failed: %v", s, err))
	}
	return q
}

// Amount returns the stored value expressed in the quantity's own magnitude.
func (q Quantity) Amount() int64 {
	return q.value
}

// Magnitude returns the magnitude the quantity is expressed in.
func (q Quantity) Magnitude() Magnitude {
	return q.magnitude
}

// Value returns the quantity expressed in the given magnitude.
//
// Value returns an error if:
//   - the value at the target magnitude does not fit an int64;
//   - the target magnitude is larger and does not divide the value evenly,
//     which would lose precision.
func (q Quantity) Value(magnitude Magnitude) (int64, error) {
	if q.value == 0 {
		return 0, nil
	}
	cur, target := q.magnitude.Factor(), magnitude.Factor()
	if cur >= target {
		scale := cur / target
		if q.value > math.MaxInt64/scale {
			return 0, fmt.Errorf("unable to represent %v in %q: %w", q, magnitude, ErrOverflow)
		}
		return q.value * scale, nil
	}
	scale := target / cur
	if q.value%scale != 0 {
		return 0, fmt.Errorf("unable to represent %v in %q, conversion would cause a precision loss: %w", q, magnitude, ErrPrecisionLoss)
	}
	return q.value / scale, nil
}

// ConvertTo returns an equal quantity expressed in the given magnitude.
// See method [Quantity.Value] for the error conditions.
func (q Quantity) ConvertTo(magnitude Magnitude) (Quantity, error) {
	value, err := q.Value(magnitude)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{value: value, magnitude: magnitude}, nil
}

// SuccinctRounded returns the quantity converted to the first magnitude in
// which its value reads below 1000, rounding the fractional part to the
// nearest integer.
// The resulting value always lies in [0, 1000), except at the top magnitude.
func (q Quantity) SuccinctRounded() Quantity {
	cur := float64(q.magnitude.Factor())
	for m := range magnitudeFactors {
		converted := float64(q.value) * cur / float64(magnitudeFactors[m])
		if converted < 1000 {
			return Quantity{value: int64(math.Floor(converted + 0.5)), magnitude: Magnitude(m)}
		}
	}
	top := Magnitude(len(magnitudeFactors) - 1)
	return Quantity{value: int64(math.Floor(float64(q.value)*cur/float64(top.Factor()) + 0.5)), magnitude: top}
}

// Cmp compares quantities by their values normalized to the base magnitude
// and returns:
//
//	-1 if q < o
//	 0 if q = o
//	+1 if q > o
func (q Quantity) Cmp(o Quantity) int {
	qhi, qlo := bits.Mul64(uint64(q.value), uint64(q.magnitude.Factor()))
	ohi, olo := bits.Mul64(uint64(o.value), uint64(o.magnitude.Factor()))
	if qhi != ohi {
		return cmpUint64(qhi, ohi)
	}
	return cmpUint64(qlo, olo)
}

// Equal reports whether two quantities represent the same value,
// regardless of their magnitudes.
func (q Quantity) Equal(o Quantity) bool {
	return q.Cmp(o) == 0
}

// String method implements the [fmt.Stringer] interface and returns the
// value followed by the magnitude suffix, e.g. "1M".
// This form doubles as the serialized form.
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (q Quantity) String() string {
	return strconv.FormatInt(q.value, 10) + q.magnitude.String()
}

// MarshalText implements the [encoding.TextMarshaler] interface.
//
// [encoding.TextMarshaler]: https://pkg.go.dev/encoding#TextMarshaler
func (q Quantity) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
// See also constructor [ParseQuantity].
//
// [encoding.TextUnmarshaler]: https://pkg.go.dev/encoding#TextUnmarshaler
func (q *Quantity) UnmarshalText(text []byte) error {
	var err error
	*q, err = ParseQuantity(string(text))
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", Quantity{}, err)
	}
	return nil
}

// MarshalJSON implements the [json.Marshaler] interface.
//
// [json.Marshaler]: https://pkg.go.dev/encoding/json#Marshaler
func (q Quantity) MarshalJSON() ([]byte, error) {
	text := make([]byte, 0, 24)
	text = append(text, '"')
	text = append(text, q.String()...)
	text = append(text, '"')
	return text, nil
}

// UnmarshalJSON implements the [json.Unmarshaler] interface.
// See also constructor [ParseQuantity].
//
// [json.Unmarshaler]: https://pkg.go.dev/encoding/json#Unmarshaler
func (q *Quantity) UnmarshalJSON(text []byte) error {
	if string(text) == "null" {
		return nil
	}
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		text = text[1 : len(text)-1]
	}
	var err error
	*q, err = ParseQuantity(string(text))
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", Quantity{}, err)
	}
	return nil
}

// Scan implements the [sql.Scanner] interface.
//
// [sql.Scanner]: https://pkg.go.dev/database/sql#Scanner
func (q *Quantity) Scan(value any) error {
	var err error
	switch value := value.(type) {
	case string:
		*q, err = ParseQuantity(value)
	case []byte:
		*q, err = ParseQuantity(string(value))
	case int64:
		*q, err = NewQuantity(value, Single)
	case nil:
		err = fmt.Errorf("%T does not support null values, use %T or *%T", Quantity{}, NullQuantity{}, Quantity{})
	default:
		err = fmt.Errorf("type %T is not supported", value)
	}
	if err != nil {
		err = fmt.Errorf("converting from %T to %T: %w", value, Quantity{}, err)
	}
	return err
}

// NullQuantity represents a quantity that can be null.
// Its zero value is null.
// NullQuantity is not thread-safe.
type NullQuantity struct {
	Quantity Quantity
	Valid    bool
}

// Scan implements the [sql.Scanner] interface.
// See also method [Quantity.Scan].
//
// [sql.Scanner]: https://pkg.go.dev/database/sql#Scanner
func (n *NullQuantity) Scan(value any) error {
	if value == nil {
		n.Quantity = Quantity{}
		n.Valid = false
		return nil
	}
	n.Valid = true
	return n.Quantity.Scan(value)
}

// Value implements the [driver.Valuer] interface.
// A null quantity is stored as SQL NULL; a valid one is stored in its
// serialized <value><suffix> form.
//
// [driver.Valuer]: https://pkg.go.dev/database/sql/driver#Valuer
func (n NullQuantity) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return n.Quantity.String(), nil
}

// UnmarshalJSON implements the [json.Unmarshaler] interface.
// See also method [Quantity.UnmarshalJSON].
//
// [json.Unmarshaler]: https://pkg.go.dev/encoding/json#Unmarshaler
func (n *NullQuantity) UnmarshalJSON(text []byte) error {
	if string(text) == "null" {
		n.Quantity = Quantity{}
		n.Valid = false
		return nil
	}
	n.Valid = true
	return n.Quantity.UnmarshalJSON(text)
}

// MarshalJSON implements the [json.Marshaler] interface.
// See also method [Quantity.MarshalJSON].
//
// [json.Marshaler]: https://pkg.go.dev/encoding/json#Marshaler
func (n NullQuantity) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return n.Quantity.MarshalJSON()
}
