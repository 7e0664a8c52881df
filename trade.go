package gbce

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Direction tells whether a trade bought or sold shares.
type Direction int

const (
	Buy Direction = iota + 1
	Sell
)

func (d Direction) String() string {
	switch d {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return "unknown"
	}
}

// ParseDirection parses "buy" or "sell", ignoring case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy":
		return Buy, nil
	case "sell":
		return Sell, nil
	default:
		return 0, fmt.Errorf("%w: direction must be 'buy' or 'sell', got %q", ErrValidation, s)
	}
}

func (d Direction) IsValid() bool { return d == Buy || d == Sell }

func (d Direction) MarshalText() ([]byte, error) {
	if !d.IsValid() {
		return nil, fmt.Errorf("%w: invalid direction %d", ErrValidation, int(d))
	}
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(text []byte) (err error) {
	*d, err = ParseDirection(string(text))
	return err
}

// Trade is a single execution recorded on the exchange. Trades are values and
// are never modified once recorded.
type Trade struct {
	Time      time.Time // Time when the trade was recorded.
	Symbol    string    // Symbol of the traded stock.
	Quantity  int64     // Quantity is the number of shares traded.
	Direction Direction // Direction tells if the shares were bought or sold.
	Price     Money     // Price per share.
}

// Value returns the traded amount, price times quantity.
func (t Trade) Value() Money { return t.Price.Mul(Q(t.Quantity)) }

// Validate checks the trade fields that do not depend on the catalog.
func (t Trade) Validate() error {
	if t.Symbol == "" {
		return fmt.Errorf("%w: stock symbol is missing", ErrValidation)
	}
	if t.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive, got %d", ErrValidation, t.Quantity)
	}
	if !t.Direction.IsValid() {
		return fmt.Errorf("%w: direction must be buy or sell", ErrValidation)
	}
	if !t.Price.IsPositive() {
		return fmt.Errorf("%w: price must be positive, got %s", ErrValidation, t.Price.Decimal())
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface for Trade.
func (t Trade) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("time", t.Time.UTC().Format(time.RFC3339Nano))
	w.Append("symbol", t.Symbol)
	w.Append("direction", t.Direction)
	w.Append("quantity", t.Quantity)
	w.Append("price", t.Price)
	return w.MarshalJSON()
}

func (t *Trade) UnmarshalJSON(data []byte) error {
	var temp struct {
		Time      time.Time `json:"time"`
		Symbol    string    `json:"symbol"`
		Direction Direction `json:"direction"`
		Quantity  int64     `json:"quantity"`
		Price     Money     `json:"price"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*t = Trade{
		Time:      temp.Time,
		Symbol:    temp.Symbol,
		Quantity:  temp.Quantity,
		Direction: temp.Direction,
		Price:     temp.Price,
	}
	return nil
}
