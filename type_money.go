package gbce

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// DefaultCurrency is the currency of the GBCE catalog unless configured otherwise.
const DefaultCurrency = "GBP"

// Money represents a monetary value, a price or a dividend.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

func M[T float64 | int | int64 | decimal.Decimal](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: currency}
}

// currency returns the money's currency
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, m.cur).Currency()
}

// String returns the string representation of the money value, rounded to
// the currency's minor unit.
func (m Money) String() string {
	if m.cur == "" {
		return m.value.String()
	}
	cur := m.currency()
	dec := m.value.Shift(int32(cur.Fraction)).Round(0)
	if dec.Abs().GreaterThan(maxMinorUnits) {
		// beyond what go-money can format.
		return cur.Code + " " + m.value.StringFixed(int32(cur.Fraction))
	}
	return cur.Formatter().Format(dec.IntPart())
}

var maxMinorUnits = decimal.NewFromInt(math.MaxInt64)

// Detailed returns String followed by the exact amount when String rounds it
// to the minor unit of the currency.
func (m Money) Detailed() string {
	s := m.String()
	if m.cur == "" {
		return s
	}
	if fraction := int32(m.currency().Fraction); m.value.Equal(m.value.Round(fraction)) {
		return s
	}
	return s + " (" + m.value.String() + ")"
}

func (m Money) Currency() string         { return m.cur }
func (m Money) Decimal() decimal.Decimal { return m.value }
func (m Money) Equal(n Money) bool       { return m.value.Equal(n.value) && m.cur == n.cur }
func (m Money) IsZero() bool             { return m.value.IsZero() }
func (m Money) IsPositive() bool         { return m.value.IsPositive() }
func (m Money) IsNegative() bool         { return m.value.IsNegative() }
func (m Money) Mul(n Quantity) Money     { return Money{value: m.value.Mul(n.value), cur: m.cur} }
func (m Money) Div(n Quantity) Money     { return Money{value: quo(m.value, n.value), cur: m.cur} }

// Scale returns m multiplied by the ratio r. r must be applicable.
func (m Money) Scale(r Ratio) Money { return Money{value: m.value.Mul(r.value), cur: m.cur} }

// Ratio returns m/n. It panics if n is zero.
func (m Money) Ratio(n Money) Ratio { return R(quo(m.value, n.value)) }

// binary operators.
func (m Money) Add(n Money) Money { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }

// makes the "" currency totally weak.
func cur(A, B Money) string {
	if A.cur == "" {
		return B.cur
	}
	if B.cur == "" {
		return A.cur
	}
	if A.cur != B.cur {
		panic("currency mismatch" + A.cur + "!=" + B.cur)
	}
	return A.cur
}

// compatible reports whether m and n can be combined without a currency conversion.
func compatible(m, n Money) bool {
	return m.cur == "" || n.cur == "" || m.cur == n.cur
}

// MarshalJSON writes the money with all its digits.
func (m Money) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Optional("currency", m.cur)
	w.Append("amount", m.value)
	return w.MarshalJSON()
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var temp struct {
		Amount   decimal.Decimal `json:"amount"`
		Currency string          `json:"currency"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return fmt.Errorf("invalid money %s: %w", data, err)
	}
	*m = M(temp.Amount, temp.Currency)
	return nil
}
