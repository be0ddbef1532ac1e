package units

import "fmt"

// Ordered is the total-ordering contract the range validators are built on.
// Every value type in this package satisfies it.
type Ordered[T any] interface {
	Cmp(T) int
	fmt.Stringer
}

type boundKind uint8

const (
	atLeast boundKind = iota
	atMost
)

func (k boundKind) phrase() string {
	if k == atLeast {
		return "greater than or equal to"
	}
	return "less than or equal to"
}

// Range validates values against an inclusive bound.
// It is a stateless predicate: construct it once from a bound and reuse it
// across goroutines.
type Range[T Ordered[T]] struct {
	bound T
	kind  boundKind
}

// AtLeast returns a range that accepts values greater than or equal to the
// bound.
func AtLeast[T Ordered[T]](bound T) Range[T] {
	return Range[T]{bound: bound, kind: atLeast}
}

// AtMost returns a range that accepts values less than or equal to the
// bound.
func AtMost[T Ordered[T]](bound T) Range[T] {
	return Range[T]{bound: bound, kind: atMost}
}

// Bound returns the inclusive bound of the range.
func (r Range[T]) Bound() T {
	return r.bound
}

// IsValid reports whether the subject satisfies the range.
// A nil subject is always valid: absence is not a range violation.
func (r Range[T]) IsValid(subject *T) bool {
	if subject == nil {
		return true
	}
	c := (*subject).Cmp(r.bound)
	if r.kind == atLeast {
		return c >= 0
	}
	return c <= 0
}

// Check returns nil if the subject satisfies the range, or an error whose
// message is suitable for surfacing to constraint-violation consumers,
// e.g. "must be less than or equal to 10MB".
func (r Range[T]) Check(subject *T) error {
	if r.IsValid(subject) {
		return nil
	}
	return fmt.Errorf("must be %s %v", r.kind.phrase(), r.bound)
}

// String method implements the [fmt.Stringer] interface.
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (r Range[T]) String() string {
	if r.kind == atLeast {
		return fmt.Sprintf("min: %v", r.bound)
	}
	return fmt.Sprintf("max: %v", r.bound)
}

// The constructors below initialize a range from the bound's string form,
// the way a declarative validation framework supplies it.
// An unparseable bound fails with the underlying error kind, which the
// framework is expected to translate into an initialization failure.

// MinDataSize returns a range that accepts data sizes of at least bound.
func MinDataSize(bound string) (Range[DataSize], error) {
	b, err := ParseDataSize(bound)
	if err != nil {
		return Range[DataSize]{}, fmt.Errorf("initializing min data size: %w", err)
	}
	return AtLeast(b), nil
}

// MaxDataSize returns a range that accepts data sizes of at most bound.
func MaxDataSize(bound string) (Range[DataSize], error) {
	b, err := ParseDataSize(bound)
	if err != nil {
		return Range[DataSize]{}, fmt.Errorf("initializing max data size: %w", err)
	}
	return AtMost(b), nil
}

// MinDuration returns a range that accepts durations of at least bound.
func MinDuration(bound string) (Range[Duration], error) {
	b, err := ParseDuration(bound)
	if err != nil {
		return Range[Duration]{}, fmt.Errorf("initializing min duration: %w", err)
	}
	return AtLeast(b), nil
}

// MaxDuration returns a range that accepts durations of at most bound.
func MaxDuration(bound string) (Range[Duration], error) {
	b, err := ParseDuration(bound)
	if err != nil {
		return Range[Duration]{}, fmt.Errorf("initializing max duration: %w", err)
	}
	return AtMost(b), nil
}

// MinCount returns a range that accepts counts of at least bound.
func MinCount(bound string) (Range[Count], error) {
	b, err := ParseCount(bound)
	if err != nil {
		return Range[Count]{}, fmt.Errorf("initializing min count: %w", err)
	}
	return AtLeast(b), nil
}

// MaxCount returns a range that accepts counts of at most bound.
func MaxCount(bound string) (Range[Count], error) {
	b, err := ParseCount(bound)
	if err != nil {
		return Range[Count]{}, fmt.Errorf("initializing max count: %w", err)
	}
	return AtMost(b), nil
}

// MinQuantity returns a range that accepts quantities of at least bound.
func MinQuantity(bound string) (Range[Quantity], error) {
	b, err := ParseQuantity(bound)
	if err != nil {
		return Range[Quantity]{}, fmt.Errorf("initializing min quantity: %w", err)
	}
	return AtLeast(b), nil
}

// MaxQuantity returns a range that accepts quantities of at most bound.
func MaxQuantity(bound string) (Range[Quantity], error) {
	b, err := ParseQuantity(bound)
	if err != nil {
		return Range[Quantity]{}, fmt.Errorf("initializing max quantity: %w", err)
	}
	return AtMost(b), nil
}

// MinThreadCount returns a range that accepts thread counts of at least
// bound.
// The bound may use the per-core multiplier grammar.
func MinThreadCount(bound string) (Range[ThreadCount], error) {
	b, err := ParseThreadCount(bound)
	if err != nil {
		return Range[ThreadCount]{}, fmt.Errorf("initializing min thread count: %w", err)
	}
	return AtLeast(b), nil
}

// MaxThreadCount returns a range that accepts thread counts of at most
// bound.
// The bound may use the per-core multiplier grammar.
func MaxThreadCount(bound string) (Range[ThreadCount], error) {
	b, err := ParseThreadCount(bound)
	if err != nil {
		return Range[ThreadCount]{}, fmt.Errorf("initializing max thread count: %w", err)
	}
	return AtMost(b), nil
}
