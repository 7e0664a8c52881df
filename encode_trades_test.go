package gbce

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestEncodeDecodeTrades(t *testing.T) {
	m, clock := newTestMarket(t, sampleCatalog())
	must(m.RecordTrade("POP", 100, Buy, GBP(10)))
	clock.Advance(1500 * time.Millisecond)
	must(m.RecordTrade("GIN", 20, Sell, GBP(0.95)))

	var buf bytes.Buffer
	if err := EncodeTrades(&buf, m.Trades()); err != nil {
		t.Fatalf("EncodeTrades() error = %v", err)
	}
	if lines := strings.Count(buf.String(), "\n"); lines != 2 {
		t.Fatalf("EncodeTrades() wrote %d lines, want 2:\n%s", lines, buf.String())
	}

	got, err := DecodeTrades(&buf)
	if err != nil {
		t.Fatalf("DecodeTrades() error = %v", err)
	}
	var want []Trade
	for tr := range m.Trades() {
		want = append(want, tr)
	}
	if len(got) != len(want) {
		t.Fatalf("DecodeTrades() = %d trades, want %d", len(got), len(want))
	}
	for i := range want {
		g, w := got[i], want[i]
		if !g.Time.Equal(w.Time) || g.Symbol != w.Symbol || g.Quantity != w.Quantity || g.Direction != w.Direction || !g.Price.Equal(w.Price) {
			t.Errorf("trade #%d = %+v, want %+v", i, g, w)
		}
	}
}

func TestDecodeTrades_Errors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{"not json", "hello\n"},
		{"bad direction", `{"time":"2025-03-03T10:00:00Z","symbol":"POP","direction":"hold","quantity":1,"price":{"amount":1}}`},
		{"bad time", `{"time":"yesterday","symbol":"POP","direction":"buy","quantity":1,"price":{"amount":1}}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeTrades(strings.NewReader(tc.input)); err == nil {
				t.Errorf("DecodeTrades(%q) expected an error", tc.input)
			}
		})
	}
}

func TestMarket_ReplayTrades(t *testing.T) {
	input := `{"time":"2025-03-03T09:50:00Z","symbol":"POP","direction":"buy","quantity":100,"price":{"currency":"GBP","amount":10}}

{"time":"2025-03-03T09:55:00Z","symbol":"POP","direction":"sell","quantity":300,"price":{"amount":20}}
`
	m, _ := newTestMarket(t, sampleCatalog())
	n, err := m.ReplayTrades(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReplayTrades() error = %v", err)
	}
	if n != 2 || m.TradeCount() != 2 {
		t.Fatalf("ReplayTrades() = %d, TradeCount() = %d, want 2", n, m.TradeCount())
	}
	got, err := m.VolumeWeightedStockPrice("POP", DefaultWindow)
	if err != nil || !got.Equal(GBP(17.5)) {
		t.Errorf("VolumeWeightedStockPrice() = %v, %v, want 17.5", got.Decimal(), err)
	}

	invalid := `{"time":"2025-03-03T09:50:00Z","symbol":"XYZ","direction":"buy","quantity":100,"price":{"amount":10}}`
	if _, err := m.ReplayTrades(strings.NewReader(invalid)); !errors.Is(err, ErrUnknownStock) {
		t.Errorf("ReplayTrades() error = %v, want %v", err, ErrUnknownStock)
	}
}
