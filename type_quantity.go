package gbce

import "github.com/shopspring/decimal"

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float64 | int | int64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	default:
		panic("unsupported type")
	}
}

// magnitude returns the power of ten of the leading digit of a non-zero d.
func magnitude(d decimal.Decimal) int32 {
	return int32(d.NumDigits()) + d.Exponent() - 1
}

// quo returns a/b with decimal.DivisionPrecision significant digits when the
// quotient is below one, so that tiny results do not round to zero.
func quo(a, b decimal.Decimal) decimal.Decimal {
	prec := int32(decimal.DivisionPrecision)
	if shift := magnitude(b) - magnitude(a); shift > 0 {
		prec += shift
	}
	return a.DivRound(b, prec)
}

// Quantity is a number of shares.
type Quantity struct {
	value decimal.Decimal
}

func Q[T float64 | int | int64 | decimal.Decimal](value T) Quantity {
	return Quantity{value: newDecimal(value)}
}

func (q Quantity) Add(p Quantity) Quantity { return Quantity{value: q.value.Add(p.value)} }
func (q Quantity) IsZero() bool            { return q.value.IsZero() }
