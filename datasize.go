package units

import (
	"database/sql/driver"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/govalues/decimal"
)

// ByteUnit represents a unit of digital information.
// The zero value is [Byte].
//
// ByteUnit is implemented as an integer index into in-memory arrays that
// store the scale factor and suffix of each unit.
// The arrays are ordered by strictly increasing scale factor, which the
// succinct-unit selection relies on.
type ByteUnit uint8

// Supported byte units, in increasing magnitude.
// Scale factors are powers of 1024.
const (
	Byte ByteUnit = iota
	Kilobyte
	Megabyte
	Gigabyte
	Terabyte
	Petabyte
	Exabyte
)

var (
	byteUnitBytes = [...]int64{
		1,
		1 << 10,
		1 << 20,
		1 << 30,
		1 << 40,
		1 << 50,
		1 << 60,
	}
	byteUnitSuffixes = [...]string{"B", "kB", "MB", "GB", "TB", "PB", "EB"}
	byteUnitLookup   = map[string]ByteUnit{
		"B":  Byte,
		"kB": Kilobyte,
		"MB": Megabyte,
		"GB": Gigabyte,
		"TB": Terabyte,
		"PB": Petabyte,
		"EB": Exabyte,
	}
)

// ParseByteUnit converts a unit suffix to a byte unit.
// Suffixes are case-sensitive: "kB", not "KB".
//
// ParseByteUnit returns an error if the suffix is not in the unit table.
func ParseByteUnit(suffix string) (ByteUnit, error) {
	u, ok := byteUnitLookup[suffix]
	if !ok {
		return Byte, fmt.Errorf("%w %q", ErrUnknownUnit, suffix)
	}
	return u, nil
}

// Bytes returns the number of bytes in one unit.
func (u ByteUnit) Bytes() int64 {
	return byteUnitBytes[u]
}

// String method implements the [fmt.Stringer] interface and returns
// the suffix of the unit, e.g. "kB".
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (u ByteUnit) String() string {
	return byteUnitSuffixes[u]
}

// DataSize type represents an amount of digital information.
// The zero value is "0B".
//
// DataSize is stored as an exact non-negative number of bytes together with
// a preferred display unit.
// The display unit affects only the default string representation; it never
// affects equality, ordering, or the serialized form.
// DataSize is designed to be safe for concurrent use by multiple goroutines.
type DataSize struct {
	bytes int64    // always non-negative
	unit  ByteUnit // preferred display unit
}

var dataSizePattern = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)\s*([a-zA-Z]+)\s*$`)

// NewDataSize returns a data size equal to amount expressed in the given unit.
// The unit becomes the display unit of the result.
//
// NewDataSize returns an error if:
//   - the amount is negative;
//   - the amount converted to bytes does not fit an int64.
func NewDataSize(amount int64, unit ByteUnit) (DataSize, error) {
	if amount < 0 {
		return DataSize{}, fmt.Errorf("data size %v%v: %w", amount, unit, ErrNegativeValue)
	}
	factor := unit.Bytes()
	if amount > math.MaxInt64/factor {
		return DataSize{}, fmt.Errorf("%v%v is too large to be represented in bytes: %w", amount, unit, ErrOverflow)
	}
	return DataSize{bytes: amount * factor, unit: unit}, nil
}

// MustNewDataSize is like [NewDataSize] but panics if the data size cannot be
// constructed.
// It simplifies safe initialization of global variables holding data sizes.
func MustNewDataSize(amount int64, unit ByteUnit) DataSize {
	s, err := NewDataSize(amount, unit)
	if err != nil {
		panic(fmt.Sprintf("NewDataSize(%v, %v) failed: %v", amount, unit, err))
	}
	return s
}

// DataSizeFromBytes returns a data size equal to the given number of bytes,
// displayed in bytes.
// No scaling occurs, hence no overflow is possible.
//
// DataSizeFromBytes returns an error if bytes is negative.
func DataSizeFromBytes(bytes int64) (DataSize, error) {
	if bytes < 0 {
		return DataSize{}, fmt.Errorf("data size %vB: %w", bytes, ErrNegativeValue)
	}
	return DataSize{bytes: bytes, unit: Byte}, nil
}

// SuccinctBytes returns a data size equal to the given number of bytes,
// displayed in the largest unit whose scale factor does not exceed the byte
// count.
// Prefer [DataSizeFromBytes] when succinct display is not needed.
//
// SuccinctBytes returns an error if bytes is negative.
func SuccinctBytes(bytes int64) (DataSize, error) {
	s, err := DataSizeFromBytes(bytes)
	if err != nil {
		return DataSize{}, err
	}
	return s.Succinct(), nil
}

// ParseDataSize converts a string to a data size.
// The input string must consist of a non-negative decimal number immediately
// or space-followed by a unit suffix, e.g. "10MB", "1234.567kB".
// Numbers without a fractional part are parsed exactly; numbers with a
// fractional part are scaled using exact decimal arithmetic and rounded to
// the nearest byte, ties up.
// The display unit of the result is the parsed unit.
//
// ParseDataSize returns an error if:
//   - the string is empty or does not match the grammar;
//   - the unit suffix is not in the unit table;
//   - the byte count does not fit an int64.
func ParseDataSize(s string) (DataSize, error) {
	if s == "" {
		return DataSize{}, fmt.Errorf("parsing data size: %w", ErrEmptyInput)
	}
	// Fast path for the serialized <bytes>B form.
	if n := len(s); n > 1 && n <= 20 && s[n-1] == 'B' && allDigits(s[:n-1]) {
		if bytes, err := strconv.ParseInt(s[:n-1], 10, 64); err == nil {
			return DataSizeFromBytes(bytes)
		}
	}
	match := dataSizePattern.FindStringSubmatch(s)
	if match == nil {
		return DataSize{}, fmt.Errorf("%q is not a valid data size string: %w", s, ErrInvalidFormat)
	}
	unit, err := ParseByteUnit(match[2])
	if err != nil {
		return DataSize{}, fmt.Errorf("parsing data size %q: %w", s, err)
	}
	number := match[1]
	if !strings.Contains(number, ".") {
		// Decimal-free numbers parse as exact integers to avoid precision loss.
		amount, err := strconv.ParseInt(number, 10, 64)
		if err != nil {
			return DataSize{}, fmt.Errorf("parsing data size %q: %w", s, ErrOverflow)
		}
		return NewDataSize(amount, unit)
	}
	bytes, err := scaleToInt64(number, unit.Bytes())
	if err != nil {
		return DataSize{}, fmt.Errorf("parsing data size %q: %w", s, err)
	}
	return DataSize{bytes: bytes, unit: unit}, nil
}

// MustParseDataSize is like [ParseDataSize] but panics if the string cannot
// be parsed.
// It simplifies safe initialization of global variables holding data sizes.
func MustParseDataSize(s string) DataSize {
	d, err := ParseDataSize(s)
	if err != nil {
		panic(fmt.Sprintf("ParseDataSize(%q) failed: %v", s, err))
	}
	return d
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}

// Bytes returns the exact number of bytes.
func (s DataSize) Bytes() int64 {
	return s.bytes
}

// Unit returns the preferred display unit.
func (s DataSize) Unit() ByteUnit {
	return s.unit
}

// Value returns the size expressed in the given unit.
// The result is exact only when the byte count is a multiple of the unit's
// scale factor.
// See also method [DataSize.RoundTo].
func (s DataSize) Value(unit ByteUnit) float64 {
	if unit == Byte {
		return float64(s.bytes)
	}
	return float64(s.bytes) / float64(unit.Bytes())
}

// RoundTo returns the size expressed in the given unit, rounded to the
// nearest integer, ties up.
//
// RoundTo returns an error if the rounded value does not fit an int64.
func (s DataSize) RoundTo(unit ByteUnit) (int64, error) {
	if unit == Byte {
		return s.bytes, nil
	}
	// Whole int64 values at scale 0 always construct.
	q, err := decimal.MustNew(s.bytes, 0).Quo(decimal.MustNew(unit.Bytes(), 0))
	if err != nil {
		return 0, fmt.Errorf("rounding %v to %v: %w", s, unit, ErrOverflow)
	}
	rounded, err := roundHalfUpInt64(q)
	if err != nil {
		return 0, fmt.Errorf("rounding %v to %v: %w", s, unit, err)
	}
	return rounded, nil
}

// To returns a data size with the given display unit.
// The underlying byte count never changes; only the default string
// representation is affected.
// See also method [DataSize.Succinct].
func (s DataSize) To(unit ByteUnit) DataSize {
	if unit == s.unit {
		return s
	}
	return DataSize{bytes: s.bytes, unit: unit}
}

// Succinct returns a data size displayed in the largest unit whose scale
// factor does not exceed the byte count.
// The underlying byte count never changes.
func (s DataSize) Succinct() DataSize {
	return s.To(succinctByteUnit(s.bytes))
}

// succinctByteUnit picks the largest unit whose factor is less than or equal
// to the byte count, defaulting to Byte.
func succinctByteUnit(bytes int64) ByteUnit {
	unit := Byte
	for u := range byteUnitBytes {
		if byteUnitBytes[u] > bytes {
			break
		}
		unit = ByteUnit(u)
	}
	return unit
}

// IsZero returns:
//
//	true  if s = 0B
//	false otherwise
func (s DataSize) IsZero() bool {
	return s.bytes == 0
}

// Cmp compares data sizes by their byte counts and returns:
//
//	-1 if s < t
//	 0 if s = t
//	+1 if s > t
//
// The display units play no part in the comparison.
func (s DataSize) Cmp(t DataSize) int {
	switch {
	case s.bytes < t.bytes:
		return -1
	case s.bytes > t.bytes:
		return 1
	}
	return 0
}

// Equal reports whether two data sizes represent the same number of bytes,
// regardless of their display units.
func (s DataSize) Equal(t DataSize) bool {
	return s.Cmp(t) == 0
}

// String method implements the [fmt.Stringer] interface and returns the
// human-readable representation of the data size in its display unit:
// exact unit values render as an integer followed by the suffix, inexact
// values render with two decimal places.
// This form is locale-independent but not canonical; for the serialized form
// see method [DataSize.MarshalText].
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (s DataSize) String() string {
	if s.unit == Byte {
		return s.bytesString()
	}
	v := s.Value(s.unit)
	if math.Floor(v) == v {
		return strconv.FormatInt(int64(v), 10) + s.unit.String()
	}
	return strconv.FormatFloat(v, 'f', 2, 64) + s.unit.String()
}

// bytesString returns the canonical <bytes>B form.
func (s DataSize) bytesString() string {
	return strconv.FormatInt(s.bytes, 10) + "B"
}

// MarshalText implements the [encoding.TextMarshaler] interface.
// MarshalText always returns the exact byte count with a "B" suffix,
// regardless of the display unit.
//
// [encoding.TextMarshaler]: https://pkg.go.dev/encoding#TextMarshaler
func (s DataSize) MarshalText() ([]byte, error) {
	return []byte(s.bytesString()), nil
}

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
// See also constructor [ParseDataSize].
//
// [encoding.TextUnmarshaler]: https://pkg.go.dev/encoding#TextUnmarshaler
func (s *DataSize) UnmarshalText(text []byte) error {
	var err error
	*s, err = ParseDataSize(string(text))
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", DataSize{}, err)
	}
	return nil
}

// MarshalJSON implements the [json.Marshaler] interface.
// MarshalJSON always returns a quoted byte count with a "B" suffix.
//
// [json.Marshaler]: https://pkg.go.dev/encoding/json#Marshaler
func (s DataSize) MarshalJSON() ([]byte, error) {
	text := make([]byte, 0, 24)
	text = append(text, '"')
	text = append(text, s.bytesString()...)
	text = append(text, '"')
	return text, nil
}

// UnmarshalJSON implements the [json.Unmarshaler] interface.
// See also constructor [ParseDataSize].
//
// [json.Unmarshaler]: https://pkg.go.dev/encoding/json#Unmarshaler
func (s *DataSize) UnmarshalJSON(text []byte) error {
	if string(text) == "null" {
		return nil
	}
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		text = text[1 : len(text)-1]
	}
	var err error
	*s, err = ParseDataSize(string(text))
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", DataSize{}, err)
	}
	return nil
}

// Scan implements the [sql.Scanner] interface.
//
// [sql.Scanner]: https://pkg.go.dev/database/sql#Scanner
func (s *DataSize) Scan(value any) error {
	var err error
	switch value := value.(type) {
	case string:
		*s, err = ParseDataSize(value)
	case []byte:
		*s, err = ParseDataSize(string(value))
	case int64:
		*s, err = DataSizeFromBytes(value)
	case nil:
		err = fmt.Errorf("%T does not support null values, use %T or *%T", DataSize{}, NullDataSize{}, DataSize{})
	default:
		err = fmt.Errorf("type %T is not supported", value)
	}
	if err != nil {
		err = fmt.Errorf("converting from %T to %T: %w", value, DataSize{}, err)
	}
	return err
}

// NullDataSize represents a data size that can be null.
// Its zero value is null.
// NullDataSize is not thread-safe.
type NullDataSize struct {
	DataSize DataSize
	Valid    bool
}

// Scan implements the [sql.Scanner] interface.
// See also method [DataSize.Scan].
//
// [sql.Scanner]: https://pkg.go.dev/database/sql#Scanner
func (n *NullDataSize) Scan(value any) error {
	if value == nil {
		n.DataSize = DataSize{}
		n.Valid = false
		return nil
	}
	n.Valid = true
	return n.DataSize.Scan(value)
}

// Value implements the [driver.Valuer] interface.
// A null data size is stored as SQL NULL; a valid one is stored in its
// canonical <bytes>B form.
//
// [driver.Valuer]: https://pkg.go.dev/database/sql/driver#Valuer
func (n NullDataSize) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return n.DataSize.bytesString(), nil
}

// UnmarshalJSON implements the [json.Unmarshaler] interface.
// See also method [DataSize.UnmarshalJSON].
//
// [json.Unmarshaler]: https://pkg.go.dev/encoding/json#Unmarshaler
func (n *NullDataSize) UnmarshalJSON(text []byte) error {
	if string(text) == "null" {
		n.DataSize = DataSize{}
		n.Valid = false
		return nil
	}
	n.Valid = true
	return n.DataSize.UnmarshalJSON(text)
}

// MarshalJSON implements the [json.Marshaler] interface.
// See also method [DataSize.MarshalJSON].
//
// [json.Marshaler]: https://pkg.go.dev/encoding/json#Marshaler
func (n NullDataSize) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return n.DataSize.MarshalJSON()
}
