package gbce

import (
	"errors"
	"time"
)

// StockMetrics holds every metric of a stock at a given time.
type StockMetrics struct {
	Stock         Stock
	Trades        int   // number of trades in the log.
	Price         Money // price used for the dividend yield and the P/E ratio.
	DividendYield Ratio
	PERatio       Ratio
	VWSP          Money
	HasVWSP       bool // false when no trade qualifies for the VWSP window.
}

// Snapshot is a consistent view of all the metrics of the market.
type Snapshot struct {
	Time       time.Time
	Window     time.Duration
	TradeCount int
	Stocks     []StockMetrics
	Index      Money
	HasIndex   bool // false when no trade qualifies for the index.
}

// Snapshot computes every metric of every stock from a single view of the
// trade log.
//
// The price used for the dividend yield and the P/E ratio of a stock is taken
// from prices, defaulting to its VWSP, then to its par value.
func (m *Market) Snapshot(prices map[string]Money) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := m.clock.Now()
	for symbol := range prices {
		if _, err := m.lookup(symbol); err != nil {
			return Snapshot{}, err
		}
	}

	snap := Snapshot{
		Time:       now,
		Window:     m.window,
		TradeCount: len(m.trades),
		Stocks:     make([]StockMetrics, 0, len(m.stocks)),
	}
	for _, s := range m.stocks {
		sm := StockMetrics{Stock: s, Trades: m.counts[s.symbol]}

		vwsp, err := m.vwsp(s.symbol, now, m.window)
		switch {
		case err == nil:
			sm.VWSP, sm.HasVWSP = vwsp, true
		case !errors.Is(err, ErrNoTrades):
			return Snapshot{}, err
		}

		price, ok := prices[s.symbol]
		switch {
		case ok:
		case sm.HasVWSP:
			price = sm.VWSP
		default:
			price = s.parValue
		}
		if err := checkPrice(s, price); err != nil {
			return Snapshot{}, err
		}
		sm.Price = price
		sm.DividendYield = s.dividendYield(price)
		sm.PERatio = s.peRatio(price)
		snap.Stocks = append(snap.Stocks, sm)
	}

	index, err := m.allShareIndex(now)
	switch {
	case err == nil:
		snap.Index, snap.HasIndex = index, true
	case !errors.Is(err, ErrNoTrades):
		return Snapshot{}, err
	}
	return snap, nil
}
