package gbce

import (
	"fmt"
	"strings"
)

// StockType tells how the dividend yield of a stock is computed.
type StockType int

const (
	// Common stocks yield their last dividend.
	Common StockType = iota
	// Preferred stocks yield a fixed percentage of their par value.
	Preferred
)

func (t StockType) String() string {
	switch t {
	case Common:
		return "Common"
	case Preferred:
		return "Preferred"
	default:
		return "unknown"
	}
}

// ParseStockType parses a stock type, ignoring case.
func ParseStockType(s string) (StockType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "common":
		return Common, nil
	case "preferred":
		return Preferred, nil
	default:
		return 0, fmt.Errorf("%w: unknown stock type %q", ErrValidation, s)
	}
}

func (t StockType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *StockType) UnmarshalText(text []byte) (err error) {
	*t, err = ParseStockType(string(text))
	return err
}

// Stock is an entry of the exchange catalog. It is immutable.
type Stock struct {
	symbol        string
	typ           StockType
	lastDividend  Money
	fixedDividend Ratio // only applicable for Preferred stocks.
	parValue      Money
}

// NewCommon returns a Common stock.
func NewCommon(symbol string, lastDividend, parValue Money) Stock {
	return Stock{
		symbol:        symbol,
		typ:           Common,
		lastDividend:  lastDividend,
		fixedDividend: NotApplicable,
		parValue:      parValue,
	}
}

// NewPreferred returns a Preferred stock. fixedDividend is the fraction of the
// par value paid as dividend (0.02 for 2%).
func NewPreferred(symbol string, lastDividend Money, fixedDividend Ratio, parValue Money) Stock {
	return Stock{
		symbol:        symbol,
		typ:           Preferred,
		lastDividend:  lastDividend,
		fixedDividend: fixedDividend,
		parValue:      parValue,
	}
}

func (s Stock) Symbol() string       { return s.symbol }
func (s Stock) Type() StockType      { return s.typ }
func (s Stock) LastDividend() Money  { return s.lastDividend }
func (s Stock) FixedDividend() Ratio { return s.fixedDividend }
func (s Stock) ParValue() Money      { return s.parValue }
func (s Stock) Currency() string     { return s.parValue.Currency() }
func (s Stock) IsPreferred() bool    { return s.typ == Preferred }

// Equal reports whether s and t define the same stock.
func (s Stock) Equal(t Stock) bool {
	return s.symbol == t.symbol && s.typ == t.typ &&
		s.lastDividend.Equal(t.lastDividend) &&
		s.fixedDividend.Equal(t.fixedDividend) &&
		s.parValue.Equal(t.parValue)
}

// Validate checks the stock definition.
func (s Stock) Validate() error {
	if s.symbol == "" {
		return fmt.Errorf("%w: stock symbol is missing", ErrValidation)
	}
	if strings.ContainsAny(s.symbol, " \t\n") {
		return fmt.Errorf("%w: stock symbol %q contains spaces", ErrValidation, s.symbol)
	}
	if s.lastDividend.IsNegative() {
		return fmt.Errorf("%w: stock %s: last dividend must not be negative, got %s", ErrValidation, s.symbol, s.lastDividend)
	}
	if !s.parValue.IsPositive() {
		return fmt.Errorf("%w: stock %s: par value must be positive, got %s", ErrValidation, s.symbol, s.parValue)
	}
	if !compatible(s.lastDividend, s.parValue) {
		return fmt.Errorf("%w: stock %s: last dividend in %s but par value in %s", ErrValidation, s.symbol, s.lastDividend.Currency(), s.parValue.Currency())
	}
	switch s.typ {
	case Common:
		if s.fixedDividend.IsApplicable() {
			return fmt.Errorf("%w: stock %s: a Common stock has no fixed dividend", ErrValidation, s.symbol)
		}
	case Preferred:
		if !s.fixedDividend.IsApplicable() {
			return fmt.Errorf("%w: stock %s: a Preferred stock requires a fixed dividend", ErrValidation, s.symbol)
		}
		if s.fixedDividend.Decimal().IsNegative() {
			return fmt.Errorf("%w: stock %s: fixed dividend must not be negative, got %s", ErrValidation, s.symbol, s.fixedDividend)
		}
	default:
		return fmt.Errorf("%w: stock %s: unknown stock type %d", ErrValidation, s.symbol, s.typ)
	}
	return nil
}

// dividendYield computes the yield for a validated price.
func (s Stock) dividendYield(price Money) Ratio {
	if s.IsPreferred() {
		return s.parValue.Scale(s.fixedDividend).Ratio(price)
	}
	if s.lastDividend.IsZero() {
		return R(0)
	}
	return s.lastDividend.Ratio(price)
}

// peRatio computes the P/E ratio for a validated price.
func (s Stock) peRatio(price Money) Ratio {
	if s.lastDividend.IsZero() {
		return NotApplicable
	}
	return price.Ratio(s.lastDividend)
}
