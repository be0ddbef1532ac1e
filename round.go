package units

import (
	"fmt"

	"github.com/govalues/decimal"
)

var oneHalf = decimal.MustParse("0.5")

// roundHalfUpInt64 rounds d to the nearest integer, ties up, and reports
// overflow when the result does not fit an int64.
func roundHalfUpInt64(d decimal.Decimal) (int64, error) {
	d, err := d.Add(oneHalf)
	if err != nil {
		return 0, ErrOverflow
	}
	whole, _, ok := d.Floor(0).Int64(0)
	if !ok {
		return 0, ErrOverflow
	}
	return whole, nil
}

// scaleToInt64 multiplies a non-negative decimal number by an exact integer
// factor and rounds the product to the nearest integer, ties up.
// The multiplication is carried out in exact decimal arithmetic, so the only
// precision limit is the 19 significant digits of [decimal.Decimal].
func scaleToInt64(number string, factor int64) (int64, error) {
	d, err := decimal.Parse(number)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", number, ErrInvalidFormat)
	}
	p, err := d.Mul(decimal.MustNew(factor, 0))
	if err != nil {
		return 0, ErrOverflow
	}
	return roundHalfUpInt64(p)
}
