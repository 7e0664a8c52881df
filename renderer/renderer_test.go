package renderer

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/etnz/gbce"
)

func GBP(v float64) gbce.Money { return gbce.M(v, "GBP") }

var t0 = time.Date(2025, time.March, 3, 10, 0, 0, 0, time.UTC)

func newSnapshot(t *testing.T, trade bool) gbce.Snapshot {
	t.Helper()
	m, err := gbce.NewMarket([]gbce.Stock{
		gbce.NewCommon("TEA", GBP(0), GBP(1)),
		gbce.NewCommon("POP", GBP(0.08), GBP(1)),
		gbce.NewPreferred("GIN", GBP(0.08), gbce.R(0.02), GBP(1)),
	}, gbce.WithClock(gbce.FixedClock(t0)))
	if err != nil {
		t.Fatalf("NewMarket() error = %v", err)
	}
	if trade {
		if _, err := m.RecordTrade("POP", 100, gbce.Buy, GBP(10)); err != nil {
			t.Fatal(err)
		}
		if _, err := m.RecordTrade("POP", 300, gbce.Sell, GBP(20)); err != nil {
			t.Fatal(err)
		}
	}
	s, err := m.Snapshot(nil)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	return s
}

func TestMarketMarkdown(t *testing.T) {
	got := MarketMarkdown(NewMarket(newSnapshot(t, true)))

	for _, want := range []string{
		"# GBCE Market on 2025-03-03 10:00:00",
		"2 trades recorded, VWSP over the last 15m0s.",
		"## Catalog",
		"Preferred",
		"2.00%",
		"## Metrics",
		"£17.50",
		"N/A",
		"no data",
		"## GBCE All Share Index",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("MarketMarkdown() does not contain %q:\n%s", want, got)
		}
	}
}

func TestMarketMarkdown_NoTrades(t *testing.T) {
	got := MarketMarkdown(NewMarket(newSnapshot(t, false)))
	index := got[strings.Index(got, "## GBCE All Share Index"):]
	if !strings.Contains(index, "no data") {
		t.Errorf("index section = %q, want no data", index)
	}
}

func TestMarket_JSON(t *testing.T) {
	data, err := NewMarket(newSnapshot(t, true)).JSON()
	if err != nil {
		t.Fatalf("JSON() error = %v", err)
	}

	var doc struct {
		Trades int `json:"trades"`
		Index  struct {
			Amount float64 `json:"amount"`
		} `json:"index"`
		Stocks []struct {
			Symbol  string           `json:"symbol"`
			Type    string           `json:"type"`
			PERatio *float64         `json:"peRatio"`
			VWSP    *json.RawMessage `json:"vwsp"`
		} `json:"stocks"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid JSON %s: %v", data, err)
	}
	if doc.Trades != 2 || doc.Index.Amount != 17.5 || len(doc.Stocks) != 3 {
		t.Errorf("JSON() = %s", data)
	}
	tea := doc.Stocks[0]
	if tea.Symbol != "TEA" || tea.Type != "Common" || tea.PERatio != nil || tea.VWSP != nil {
		t.Errorf("TEA = %+v, want a null P/E ratio and VWSP", tea)
	}
}

func TestMarket_Query(t *testing.T) {
	m := NewMarket(newSnapshot(t, true))

	testCases := []struct {
		path string
		want string
	}{
		{"$.index.amount", "17.5"},
		{"$.trades", "2"},
		{`$.stocks[?(@.symbol == "POP")].vwsp.amount`, "[17.5]"},
		{"$.stocks[*].symbol", `["TEA","POP","GIN"]`},
	}
	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			res, err := m.Query(tc.path)
			if err != nil {
				t.Fatalf("Query(%q) error = %v", tc.path, err)
			}
			got, _ := json.Marshal(res)
			if string(got) != tc.want {
				t.Errorf("Query(%q) = %s, want %s", tc.path, got, tc.want)
			}
		})
	}

	if _, err := m.Query("$.["); err == nil {
		t.Error("Query() with an invalid path expected an error")
	}
}

func TestTradeMarkdown(t *testing.T) {
	got := TradeMarkdown(gbce.Trade{Time: t0, Symbol: "POP", Quantity: 300, Direction: gbce.Sell, Price: GBP(20)})
	want := "2025-03-03 10:00:00 sell 300 POP @ £20.00 (£6,000.00)\n"
	if got != want {
		t.Errorf("TradeMarkdown() = %q, want %q", got, want)
	}
}

func TestCatalogMarkdown(t *testing.T) {
	got := CatalogMarkdown(NewMarket(newSnapshot(t, false)))
	for _, want := range []string{"# GBCE Catalog", "TEA", "POP", "GIN", "Preferred", "2.00%", "£0.08"} {
		if !strings.Contains(got, want) {
			t.Errorf("CatalogMarkdown() does not contain %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "## Metrics") {
		t.Errorf("CatalogMarkdown() should not render metrics:\n%s", got)
	}
}
