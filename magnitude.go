package units

import "fmt"

// Magnitude represents a power-of-1000 scale for counted values.
// The zero value is [Single].
//
// Magnitude is implemented as an integer index into in-memory arrays that
// store the scale factor and suffix of each entry, ordered by strictly
// increasing factor.
// The table is shared by [Count] and [Quantity].
type Magnitude uint8

// Supported magnitudes, in increasing order.
const (
	Single Magnitude = iota
	Thousand
	Million
	Billion
	Trillion
	Quadrillion
)

var (
	magnitudeFactors = [...]int64{
		1,
		1_000,
		1_000_000,
		1_000_000_000,
		1_000_000_000_000,
		1_000_000_000_000_000,
	}
	magnitudeSuffixes = [...]string{"", "K", "M", "B", "T", "P"}
	magnitudeLookup   = map[string]Magnitude{
		"":  Single,
		"K": Thousand,
		"M": Million,
		"B": Billion,
		"T": Trillion,
		"P": Quadrillion,
	}
)

// ParseMagnitude converts a suffix to a magnitude.
// The empty suffix parses as [Single].
//
// ParseMagnitude returns an error if the suffix is not in the magnitude table.
func ParseMagnitude(suffix string) (Magnitude, error) {
	m, ok := magnitudeLookup[suffix]
	if !ok {
		return Single, fmt.Errorf("%w %q", ErrUnknownUnit, suffix)
	}
	return m, nil
}

// Factor returns the scale factor of the magnitude.
func (m Magnitude) Factor() int64 {
	return magnitudeFactors[m]
}

// String method implements the [fmt.Stringer] interface and returns
// the suffix of the magnitude.
// The suffix of [Single] is the empty string.
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (m Magnitude) String() string {
	return magnitudeSuffixes[m]
}
