package gbce

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultWindow is the period of recent trades used to compute the volume
// weighted stock price.
const DefaultWindow = 15 * time.Minute

// Market holds the stock catalog and the trade log of the exchange.
//
// A Market is safe for concurrent use: trades are appended under a write lock
// and metrics are computed on a consistent view of the log.
type Market struct {
	mu     sync.RWMutex
	stocks []Stock        // in declaration order.
	index  map[string]int // symbol to position in stocks.
	trades []Trade        // in recording order.
	counts map[string]int // number of trades per symbol.
	clock  Clock
	window time.Duration
	logger *zap.Logger
}

// Option configures a Market.
type Option func(*Market)

// WithClock sets the clock used to timestamp trades and to measure the VWSP window.
func WithClock(c Clock) Option { return func(m *Market) { m.clock = c } }

// WithWindow sets the default VWSP window. Non-positive values are ignored.
func WithWindow(d time.Duration) Option {
	return func(m *Market) {
		if d > 0 {
			m.window = d
		}
	}
}

// WithLogger sets the logger used to trace trades.
func WithLogger(l *zap.Logger) Option { return func(m *Market) { m.logger = l } }

// NewMarket returns a market listing the given catalog, with an empty trade log.
func NewMarket(catalog []Stock, opts ...Option) (*Market, error) {
	m := &Market{
		stocks: make([]Stock, 0, len(catalog)),
		index:  make(map[string]int, len(catalog)),
		counts: make(map[string]int, len(catalog)),
		clock:  SystemClock,
		window: DefaultWindow,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	for _, s := range catalog {
		if err := m.addStock(s); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// AddStock declares a new stock in the catalog.
func (m *Market) AddStock(s Stock) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.addStock(s)
}

func (m *Market) addStock(s Stock) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if _, exists := m.index[s.symbol]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateStock, s.symbol)
	}
	m.index[s.symbol] = len(m.stocks)
	m.stocks = append(m.stocks, s)
	return nil
}

// Window returns the default VWSP window.
func (m *Market) Window() time.Duration { return m.window }

// Now returns the current time according to the market clock.
func (m *Market) Now() time.Time { return m.clock.Now() }

// Has reports whether symbol is in the catalog.
func (m *Market) Has(symbol string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.index[symbol]
	return ok
}

// Stock returns the stock with the given symbol.
func (m *Market) Stock(symbol string) (Stock, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i, ok := m.index[symbol]
	if !ok {
		return Stock{}, false
	}
	return m.stocks[i], true
}

// Stocks iterates over the catalog in declaration order.
func (m *Market) Stocks() iter.Seq[Stock] {
	m.mu.RLock()
	stocks := slices.Clone(m.stocks)
	m.mu.RUnlock()
	return slices.Values(stocks)
}

// Symbols returns the catalog symbols in declaration order.
func (m *Market) Symbols() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	symbols := make([]string, len(m.stocks))
	for i, s := range m.stocks {
		symbols[i] = s.symbol
	}
	return symbols
}

// Trades iterates over the trade log in recording order.
func (m *Market) Trades() iter.Seq[Trade] {
	m.mu.RLock()
	trades := slices.Clone(m.trades)
	m.mu.RUnlock()
	return slices.Values(trades)
}

// TradesOf iterates over the trades of a single stock in recording order.
func (m *Market) TradesOf(symbol string) iter.Seq[Trade] {
	all := m.Trades()
	return func(yield func(Trade) bool) {
		for t := range all {
			if t.Symbol == symbol && !yield(t) {
				return
			}
		}
	}
}

// TradeCount returns the number of recorded trades.
func (m *Market) TradeCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.trades)
}

// lookup returns the stock for symbol. The caller must hold the lock.
func (m *Market) lookup(symbol string) (Stock, error) {
	i, ok := m.index[symbol]
	if !ok {
		return Stock{}, fmt.Errorf("%w: %q", ErrUnknownStock, symbol)
	}
	return m.stocks[i], nil
}

// checkPrice validates a price against a stock.
func checkPrice(s Stock, price Money) error {
	if !price.IsPositive() {
		return fmt.Errorf("%w: price must be positive, got %s", ErrValidation, price.Decimal())
	}
	if !compatible(price, s.parValue) {
		return fmt.Errorf("%w: stock %s is priced in %s, got %s", ErrValidation, s.symbol, s.Currency(), price.Currency())
	}
	return nil
}

// RecordTrade appends a trade timestamped with the market clock and returns it.
func (m *Market) RecordTrade(symbol string, quantity int64, direction Direction, price Money) (Trade, error) {
	t := Trade{
		Time:      m.clock.Now(),
		Symbol:    symbol,
		Quantity:  quantity,
		Direction: direction,
		Price:     price,
	}
	return m.append(t)
}

// ImportTrade appends a trade that already carries its timestamp, typically
// read from a trade file.
func (m *Market) ImportTrade(t Trade) error {
	if t.Time.IsZero() {
		return fmt.Errorf("%w: trade time is missing", ErrValidation)
	}
	_, err := m.append(t)
	return err
}

func (m *Market) append(t Trade) (Trade, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.validate(t); err != nil {
		m.logger.Debug("trade rejected", zap.String("symbol", t.Symbol), zap.Error(err))
		return Trade{}, err
	}
	if t.Price.Currency() == "" {
		// the catalog currency is implied.
		s, _ := m.lookup(t.Symbol)
		t.Price = M(t.Price.Decimal(), s.Currency())
	}
	m.trades = append(m.trades, t)
	m.counts[t.Symbol]++
	m.logger.Debug("trade recorded",
		zap.String("symbol", t.Symbol),
		zap.Stringer("direction", t.Direction),
		zap.Int64("quantity", t.Quantity),
		zap.String("price", t.Price.Decimal().String()),
		zap.Time("time", t.Time),
	)
	return t, nil
}

// validate checks t against the catalog. The caller must hold the lock.
func (m *Market) validate(t Trade) error {
	if err := t.Validate(); err != nil {
		return err
	}
	s, err := m.lookup(t.Symbol)
	if err != nil {
		return err
	}
	return checkPrice(s, t.Price)
}

// DividendYield returns the dividend yield of symbol at the given price.
//
// For a Common stock it is the last dividend over the price, for a Preferred
// stock it is the fixed dividend times the par value over the price.
func (m *Market) DividendYield(symbol string, price Money) (Ratio, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, err := m.lookupPriced(symbol, price)
	if err != nil {
		return NotApplicable, err
	}
	return s.dividendYield(price), nil
}

// PERatio returns the price over the last dividend. It is NotApplicable when
// the stock paid no dividend.
func (m *Market) PERatio(symbol string, price Money) (Ratio, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, err := m.lookupPriced(symbol, price)
	if err != nil {
		return NotApplicable, err
	}
	return s.peRatio(price), nil
}

func (m *Market) lookupPriced(symbol string, price Money) (Stock, error) {
	if !price.IsPositive() {
		return Stock{}, fmt.Errorf("%w: price must be positive, got %s", ErrValidation, price.Decimal())
	}
	s, err := m.lookup(symbol)
	if err != nil {
		return Stock{}, err
	}
	return s, checkPrice(s, price)
}

// VolumeWeightedStockPrice returns the average price of the trades of symbol
// recorded within window of now, weighted by their quantity. Trades dated
// after now are ignored. A non-positive window means the market default window.
func (m *Market) VolumeWeightedStockPrice(symbol string, window time.Duration) (Money, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, err := m.lookup(symbol); err != nil {
		return Money{}, err
	}
	if window <= 0 {
		window = m.window
	}
	return m.vwsp(symbol, m.clock.Now(), window)
}

// vwsp computes the volume weighted stock price. The caller must hold the lock.
func (m *Market) vwsp(symbol string, now time.Time, window time.Duration) (Money, error) {
	s, _ := m.lookup(symbol)
	total := M(0, s.Currency())
	volume := Q(0)
	for _, t := range m.trades {
		if t.Symbol != symbol || t.Time.After(now) || now.Sub(t.Time) > window {
			continue
		}
		total = total.Add(t.Value())
		volume = volume.Add(Q(t.Quantity))
	}
	if volume.IsZero() {
		return Money{}, fmt.Errorf("%w: no trade on %s within the last %s", ErrNoTrades, symbol, window)
	}
	return total.Div(volume), nil
}

// AllShareIndex returns the GBCE All Share Index: the geometric mean of the
// volume weighted stock prices of every stock traded within the default window.
func (m *Market) AllShareIndex() (Money, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.allShareIndex(m.clock.Now())
}

// allShareIndex computes the index. The caller must hold the lock.
func (m *Market) allShareIndex(now time.Time) (Money, error) {
	if len(m.trades) == 0 {
		return Money{}, fmt.Errorf("%w: the trade log is empty", ErrNoTrades)
	}
	var prices []Money
	for _, s := range m.stocks {
		if m.counts[s.symbol] == 0 {
			continue
		}
		p, err := m.vwsp(s.symbol, now, m.window)
		if errors.Is(err, ErrNoTrades) {
			continue
		}
		if err != nil {
			return Money{}, err
		}
		prices = append(prices, p)
	}
	if len(prices) == 0 {
		return Money{}, fmt.Errorf("%w: no trade within the last %s", ErrNoTrades, m.window)
	}
	return geometricMean(prices), nil
}

// geometricMean returns the n-th root of the product of n positive prices,
// with 12 significant digits.
//
// It averages base 10 logarithms: each price is split into a mantissa in
// [1, 10) and a power of ten, and only mantissas go through float64.
func geometricMean(prices []Money) Money {
	if len(prices) == 1 {
		return prices[0]
	}
	var sum float64
	for _, p := range prices {
		exp := magnitude(p.value)
		sum += float64(exp) + math.Log10(p.value.Shift(-exp).InexactFloat64())
	}
	mean := sum / float64(len(prices))
	exp := math.Floor(mean)
	mantissa := decimal.NewFromFloat(math.Pow(10, mean-exp)).Round(12)
	return M(mantissa.Shift(int32(exp)), prices[0].cur)
}
