/*
Package units implements immutable, strongly-typed numeric quantity values:
[DataSize], [Duration], [Count], [Quantity], and [ThreadCount].
Each type couples a numeric value with a unit drawn from a fixed ordered
table and provides bounded-precision construction, unit conversion,
succinct-unit selection, canonical string parsing and formatting, and
ordering consistent with the numeric value rather than its representation.

# Representation

Every value type stores its magnitude together with a display unit.
The display unit affects only the default human-readable rendering; it never
affects equality, ordering, or the serialized form.
Unit tables are fixed ordered arrays of exact integer scale factors and
their suffixes, declared once at package scope.

# Parsing and formatting

Each type parses a canonical grammar of the shape <number><suffix> with
optional surrounding whitespace, e.g. "512MB", "10s", "23K", "1.5C".
Numbers without a fractional part parse exactly; fractional numbers are
scaled with exact decimal arithmetic from the [decimal] package and rounded
to the nearest base unit, ties up.
Formatting uses a fixed decimal notation that does not depend on the host
locale.

# Succinct units

Succinct selection walks a unit table in increasing magnitude order and
picks the largest unit that keeps the displayed value readable: below 1024
for byte units, below 1000 for count magnitudes, and at least one for time
units.

# Range validation

[Range] validates a value against an inclusive minimum or maximum bound
parsed from its string form, for use by declarative validation frameworks.
A nil subject is always valid.

# Errors

Failures wrap the sentinel errors of this package ([ErrInvalidFormat],
[ErrUnknownUnit], [ErrOverflow], [ErrPrecisionLoss], and friends), so
callers can branch on the failure kind while surfacing the descriptive
message.
Construction never overflows silently: any scaling that would exceed the
representable integer range fails.

[decimal]: https://pkg.go.dev/github.com/govalues/decimal
*/
package units
