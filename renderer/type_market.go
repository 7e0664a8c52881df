package renderer

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/gbce"
)

// Market is a struct to represent a market snapshot in json.
// Numbers are handled using the exact decimal types (Money, Ratio)
// so that they already contain basics renderers.
type Market struct {
	// Time of the snapshot.
	Time time.Time `json:"time"`
	// Window is the VWSP window.
	Window string `json:"window"`
	// Trades is the number of trades in the log.
	Trades int `json:"trades"`
	// Index is the GBCE All Share Index, null when no trade qualifies.
	Index *gbce.Money `json:"index"`
	// Stocks lists the metrics of every stock in catalog order.
	Stocks []MarketStock `json:"stocks"`
}

// MarketStock represents the definition and the metrics of a single stock.
type MarketStock struct {
	Symbol        string         `json:"symbol"`
	Type          gbce.StockType `json:"type"`
	LastDividend  gbce.Money     `json:"lastDividend"`
	FixedDividend gbce.Ratio     `json:"fixedDividend"`
	ParValue      gbce.Money     `json:"parValue"`
	Trades        int            `json:"trades"`
	Price         gbce.Money     `json:"price"`
	DividendYield gbce.Ratio     `json:"dividendYield"`
	PERatio       gbce.Ratio     `json:"peRatio"`
	VWSP          *gbce.Money    `json:"vwsp"`
}

// NewMarket creates a new Market struct from a market snapshot.
func NewMarket(s gbce.Snapshot) *Market {
	m := &Market{
		Time:   s.Time.UTC(),
		Window: s.Window.String(),
		Trades: s.TradeCount,
		Stocks: make([]MarketStock, 0, len(s.Stocks)),
	}
	if s.HasIndex {
		index := s.Index
		m.Index = &index
	}
	for _, sm := range s.Stocks {
		ms := MarketStock{
			Symbol:        sm.Stock.Symbol(),
			Type:          sm.Stock.Type(),
			LastDividend:  sm.Stock.LastDividend(),
			FixedDividend: sm.Stock.FixedDividend(),
			ParValue:      sm.Stock.ParValue(),
			Trades:        sm.Trades,
			Price:         sm.Price,
			DividendYield: sm.DividendYield,
			PERatio:       sm.PERatio,
		}
		if sm.HasVWSP {
			vwsp := sm.VWSP
			ms.VWSP = &vwsp
		}
		m.Stocks = append(m.Stocks, ms)
	}
	return m
}

// JSON renders the market as indented JSON.
func (m *Market) JSON() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

// Query evaluates a JSONPath expression (like `$.index.amount`) on the JSON
// representation of the market.
func (m *Market) Query(path string) (any, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	res, err := jsonpath.Get(path, doc)
	if err != nil {
		return nil, fmt.Errorf("error evaluating %q: %w", path, err)
	}
	return res, nil
}
