package units

import (
	"database/sql/driver"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"
)

// TimeUnit represents a unit of elapsed time.
// The zero value is [Nanoseconds].
//
// TimeUnit is implemented as an integer index into in-memory arrays that
// store the length of each unit in nanoseconds and its abbreviation.
// The arrays are ordered by strictly increasing unit length; unlike the
// byte and count tables, the ratios between adjacent entries are not a
// single power (1000, 1000, 1000, 60, 60, 24).
type TimeUnit uint8

// Supported time units, in increasing magnitude.
const (
	Nanoseconds TimeUnit = iota
	Microseconds
	Milliseconds
	Seconds
	Minutes
	Hours
	Days
)

var (
	timeUnitNanos = [...]int64{
		1,
		1_000,
		1_000_000,
		1_000_000_000,
		60 * 1_000_000_000,
		60 * 60 * 1_000_000_000,
		24 * 60 * 60 * 1_000_000_000,
	}
	timeUnitSuffixes = [...]string{"ns", "us", "ms", "s", "m", "h", "d"}
	timeUnitLookup   = map[string]TimeUnit{
		"ns": Nanoseconds,
		"us": Microseconds,
		"ms": Milliseconds,
		"s":  Seconds,
		"m":  Minutes,
		"h":  Hours,
		"d":  Days,
	}
)

// ParseTimeUnit converts an abbreviation to a time unit.
//
// ParseTimeUnit returns an error if the abbreviation is not in the unit table.
func ParseTimeUnit(abbrev string) (TimeUnit, error) {
	u, ok := timeUnitLookup[abbrev]
	if !ok {
		return Nanoseconds, fmt.Errorf("%w %q", ErrUnknownUnit, abbrev)
	}
	return u, nil
}

// Nanos returns the length of one unit in nanoseconds.
func (u TimeUnit) Nanos() int64 {
	return timeUnitNanos[u]
}

// String method implements the [fmt.Stringer] interface and returns
// the abbreviation of the unit, e.g. "ms".
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (u TimeUnit) String() string {
	return timeUnitSuffixes[u]
}

// Duration type represents a span of elapsed time.
// The zero value is "0.00ns".
//
// Duration stores a finite non-negative floating-point magnitude together
// with the unit it is expressed in.
// The unit affects only the default string representation; equality and
// ordering are defined over the normalized value.
// Duration is designed to be safe for concurrent use by multiple goroutines.
type Duration struct {
	value float64 // always finite and non-negative
	unit  TimeUnit
}

var durationPattern = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)\s*([a-zA-Z]+)\s*$`)

// NewDuration returns a duration of the given magnitude in the given unit.
//
// NewDuration returns an error if the magnitude is negative, NaN, or infinite.
func NewDuration(value float64, unit TimeUnit) (Duration, error) {
	if math.IsInf(value, 0) {
		return Duration{}, fmt.Errorf("duration is infinite: %w", ErrNonFiniteValue)
	}
	if math.IsNaN(value) {
		return Duration{}, fmt.Errorf("duration is not a number: %w", ErrNonFiniteValue)
	}
	if value < 0 {
		return Duration{}, fmt.Errorf("duration %v%v: %w", value, unit, ErrNegativeValue)
	}
	return Duration{value: value, unit: unit}, nil
}

// MustNewDuration is like [NewDuration] but panics if the duration cannot be
// constructed.
// It simplifies safe initialization of global variables holding durations.
func MustNewDuration(value float64, unit TimeUnit) Duration {
	d, err := NewDuration(value, unit)
	if err != nil {
		panic(fmt.Sprintf("NewDuration(%v, %v) failed: %v", value, unit, err))
	}
	return d
}

// SuccinctDuration returns a duration of the given magnitude converted to
// its most succinct unit.
// See also method [Duration.Succinct].
func SuccinctDuration(value float64, unit TimeUnit) (Duration, error) {
	d, err := NewDuration(value, unit)
	if err != nil {
		return Duration{}, err
	}
	if d.value == 0 {
		return Duration{value: 0, unit: Seconds}, nil
	}
	return d.Succinct(), nil
}

// SuccinctNanos returns a duration of the given number of nanoseconds
// converted to its most succinct unit.
func SuccinctNanos(nanos int64) (Duration, error) {
	return SuccinctDuration(float64(nanos), Nanoseconds)
}

// Since returns the time elapsed since start, converted to its most succinct
// unit.
// Elapsed time is measured with the monotonic clock and clamped at zero.
func Since(start time.Time) Duration {
	nanos := time.Since(start).Nanoseconds()
	if nanos < 0 {
		nanos = 0
	}
	d, _ := SuccinctNanos(nanos)
	return d
}

// FromStd converts a standard library [time.Duration] to a duration
// expressed in nanoseconds.
//
// FromStd returns an error if the standard duration is negative.
func FromStd(d time.Duration) (Duration, error) {
	return NewDuration(float64(d.Nanoseconds()), Nanoseconds)
}

// ParseDuration converts a string to a duration.
// The input string must consist of a non-negative decimal number immediately
// or space-followed by a unit abbreviation, e.g. "10s", "5.5m".
//
// ParseDuration returns an error if:
//   - the string is empty or does not match the grammar;
//   - the unit abbreviation is not in the unit table;
//   - the magnitude is too large to be represented as a float64.
func ParseDuration(s string) (Duration, error) {
	if s == "" {
		return Duration{}, fmt.Errorf("parsing duration: %w", ErrEmptyInput)
	}
	match := durationPattern.FindStringSubmatch(s)
	if match == nil {
		return Duration{}, fmt.Errorf("%q is not a valid duration string: %w", s, ErrInvalidFormat)
	}
	unit, err := ParseTimeUnit(match[2])
	if err != nil {
		return Duration{}, fmt.Errorf("parsing duration %q: %w", s, err)
	}
	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return Duration{}, fmt.Errorf("parsing duration %q: %w", s, ErrOverflow)
	}
	d, err := NewDuration(value, unit)
	if err != nil {
		return Duration{}, fmt.Errorf("parsing duration %q: %w", s, err)
	}
	return d, nil
}

// MustParseDuration is like [ParseDuration] but panics if the string cannot
// be parsed.
// It simplifies safe initialization of global variables holding durations.
func MustParseDuration(s string) Duration {
	d, err := ParseDuration(s)
	if err != nil {
		panic(fmt.Sprintf("ParseDuration(%q) failed: %v", s, err))
	}
	return d
}

// Magnitude returns the stored magnitude expressed in the duration's own unit.
func (d Duration) Magnitude() float64 {
	return d.value
}

// Unit returns the unit the duration is expressed in.
func (d Duration) Unit() TimeUnit {
	return d.unit
}

// Value returns the duration expressed in the given unit.
// The conversion multiplies or divides by the exact integer ratio between
// the two units, promoting it to floating point only at the final operation.
func (d Duration) Value(unit TimeUnit) float64 {
	ra, rb := timeUnitNanos[d.unit], timeUnitNanos[unit]
	switch {
	case ra == rb:
		return d.value
	case ra > rb:
		// Every longer unit is an exact integer multiple of every shorter one.
		return d.value * float64(ra/rb)
	default:
		return d.value / float64(rb/ra)
	}
}

// RoundTo returns the duration expressed in the given unit, rounded to the
// nearest integer, ties up.
//
// RoundTo returns an error if the rounded value does not fit an int64.
func (d Duration) RoundTo(unit TimeUnit) (int64, error) {
	rounded := math.Floor(d.Value(unit) + 0.5)
	// float64(math.MaxInt64) is 2^63, one past the last representable value,
	// so equality already means overflow.
	if rounded >= math.MaxInt64 {
		return 0, fmt.Errorf("duration %v%v is too large to be represented in %v as an integer: %w", d.value, d.unit, unit, ErrOverflow)
	}
	return int64(rounded), nil
}

// Millis returns the duration rounded to the nearest millisecond.
//
// Millis returns an error if the rounded value does not fit an int64.
func (d Duration) Millis() (int64, error) {
	return d.RoundTo(Milliseconds)
}

// ConvertTo returns a duration of equal length expressed in the given unit.
// Unlike [DataSize.To], the stored magnitude is converted, not relabeled.
//
// ConvertTo returns an error if the converted magnitude overflows to
// infinity.
func (d Duration) ConvertTo(unit TimeUnit) (Duration, error) {
	return NewDuration(d.Value(unit), unit)
}

// Succinct returns the duration converted to the highest unit in which its
// magnitude still reads as at least one.
func (d Duration) Succinct() Duration {
	unit := Nanoseconds
	for u := range timeUnitNanos {
		// Fuzzy threshold absorbs rounding noise from the non-uniform ratios.
		if d.Value(TimeUnit(u)) > 0.9999 {
			unit = TimeUnit(u)
		} else {
			break
		}
	}
	return Duration{value: d.Value(unit), unit: unit}
}

// Std returns the duration as a standard library [time.Duration] with
// nanosecond resolution, saturating at the maximal representable value.
func (d Duration) Std() time.Duration {
	nanos := math.Floor(d.Value(Nanoseconds) + 0.5)
	if nanos >= math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(nanos)
}

// IsZero returns:
//
//	true  if d = 0
//	false otherwise
func (d Duration) IsZero() bool {
	return d.value == 0
}

// Cmp compares durations by their millisecond values and returns:
//
//	-1 if d < e
//	 0 if d = e
//	+1 if d > e
//
// Millisecond-equal durations are further compared at nanosecond resolution,
// unless either nanosecond value overflows to infinity, in which case the
// millisecond-level tie stands.
func (d Duration) Cmp(e Duration) int {
	dm, em := d.Value(Milliseconds), e.Value(Milliseconds)
	if c := cmpFloat(dm, em); c != 0 {
		return c
	}
	dn, en := d.Value(Nanoseconds), e.Value(Nanoseconds)
	if !math.IsInf(dn, 0) && !math.IsInf(en, 0) {
		return cmpFloat(dn, en)
	}
	return 0
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Equal reports whether two durations represent the same span of time,
// regardless of the units they are expressed in.
func (d Duration) Equal(e Duration) bool {
	return d.Cmp(e) == 0
}

// String method implements the [fmt.Stringer] interface and returns the
// magnitude with two decimal places followed by the unit abbreviation,
// e.g. "1.50m".
// The format is locale-independent and doubles as the serialized form.
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (d Duration) String() string {
	return d.StringIn(d.unit)
}

// StringIn returns the duration formatted in the given unit with two
// decimal places.
func (d Duration) StringIn(unit TimeUnit) string {
	return strconv.FormatFloat(d.Value(unit), 'f', 2, 64) + unit.String()
}

// MarshalText implements the [encoding.TextMarshaler] interface.
//
// [encoding.TextMarshaler]: https://pkg.go.dev/encoding#TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
// See also constructor [ParseDuration].
//
// [encoding.TextUnmarshaler]: https://pkg.go.dev/encoding#TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	*d, err = ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", Duration{}, err)
	}
	return nil
}

// MarshalJSON implements the [json.Marshaler] interface.
//
// [json.Marshaler]: https://pkg.go.dev/encoding/json#Marshaler
func (d Duration) MarshalJSON() ([]byte, error) {
	text := make([]byte, 0, 24)
	text = append(text, '"')
	text = append(text, d.String()...)
	text = append(text, '"')
	return text, nil
}

// UnmarshalJSON implements the [json.Unmarshaler] interface.
// See also constructor [ParseDuration].
//
// [json.Unmarshaler]: https://pkg.go.dev/encoding/json#Unmarshaler
func (d *Duration) UnmarshalJSON(text []byte) error {
	if string(text) == "null" {
		return nil
	}
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		text = text[1 : len(text)-1]
	}
	var err error
	*d, err = ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", Duration{}, err)
	}
	return nil
}

// Scan implements the [sql.Scanner] interface.
//
// [sql.Scanner]: https://pkg.go.dev/database/sql#Scanner
func (d *Duration) Scan(value any) error {
	var err error
	switch value := value.(type) {
	case string:
		*d, err = ParseDuration(value)
	case []byte:
		*d, err = ParseDuration(string(value))
	case nil:
		err = fmt.Errorf("%T does not support null values, use %T or *%T", Duration{}, NullDuration{}, Duration{})
	default:
		err = fmt.Errorf("type %T is not supported", value)
	}
	if err != nil {
		err = fmt.Errorf("converting from %T to %T: %w", value, Duration{}, err)
	}
	return err
}

// NullDuration represents a duration that can be null.
// Its zero value is null.
// NullDuration is not thread-safe.
type NullDuration struct {
	Duration Duration
	Valid    bool
}

// Scan implements the [sql.Scanner] interface.
// See also method [Duration.Scan].
//
// [sql.Scanner]: https://pkg.go.dev/database/sql#Scanner
func (n *NullDuration) Scan(value any) error {
	if value == nil {
		n.Duration = Duration{}
		n.Valid = false
		return nil
	}
	n.Valid = true
	return n.Duration.Scan(value)
}

// Value implements the [driver.Valuer] interface.
// A null duration is stored as SQL NULL; a valid one is stored in its
// two-decimal serialized form.
//
// [driver.Valuer]: https://pkg.go.dev/database/sql/driver#Valuer
func (n NullDuration) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return n.Duration.String(), nil
}

// UnmarshalJSON implements the [json.Unmarshaler] interface.
// See also method [Duration.UnmarshalJSON].
//
// [json.Unmarshaler]: https://pkg.go.dev/encoding/json#Unmarshaler
func (n *NullDuration) UnmarshalJSON(text []byte) error {
	if string(text) == "null" {
		n.Duration = Duration{}
		n.Valid = false
		return nil
	}
	n.Valid = true
	return n.Duration.UnmarshalJSON(text)
}

// MarshalJSON implements the [json.Marshaler] interface.
// See also method [Duration.MarshalJSON].
//
// [json.Marshaler]: https://pkg.go.dev/encoding/json#Marshaler
func (n NullDuration) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return n.Duration.MarshalJSON()
}
