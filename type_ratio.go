package gbce

import (
	"github.com/shopspring/decimal"
)

// Ratio is a dimensionless number like a dividend yield or a P/E ratio.
//
// The zero value is NotApplicable: a ratio that has no meaningful value,
// typically because its denominator is zero.
type Ratio struct {
	value      decimal.Decimal
	applicable bool
}

// NotApplicable is the ratio returned when the computation has no value.
var NotApplicable = Ratio{}

func R[T float64 | int | int64 | decimal.Decimal](value T) Ratio {
	return Ratio{value: newDecimal(value), applicable: true}
}

// IsApplicable reports whether r holds a value.
func (r Ratio) IsApplicable() bool { return r.applicable }

// Decimal returns the ratio value, zero when not applicable.
func (r Ratio) Decimal() decimal.Decimal { return r.value }

func (r Ratio) Equal(q Ratio) bool {
	if r.applicable != q.applicable {
		return false
	}
	return r.value.Equal(q.value)
}

func (r Ratio) String() string {
	if !r.applicable {
		return "N/A"
	}
	return r.value.Round(6).String()
}

// Percent formats the ratio as a percentage with two decimals.
func (r Ratio) Percent() string {
	if !r.applicable {
		return "N/A"
	}
	return r.value.Shift(2).StringFixed(2) + "%"
}

// MarshalJSON writes the ratio as a number, or null when not applicable.
func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.applicable {
		return []byte("null"), nil
	}
	return r.value.MarshalJSON()
}

func (r *Ratio) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = NotApplicable
		return nil
	}
	if err := r.value.UnmarshalJSON(data); err != nil {
		return err
	}
	r.applicable = true
	return nil
}
