package gbce

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"iter"
)

// EncodeTrade writes a single trade as one line of JSON.
func EncodeTrade(w io.Writer, t Trade) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("could not encode trade: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// EncodeTrades writes every trade of the sequence as JSONL.
func EncodeTrades(w io.Writer, trades iter.Seq[Trade]) error {
	for t := range trades {
		if err := EncodeTrade(w, t); err != nil {
			return err
		}
	}
	return nil
}

// DecodeTrades reads trades from a stream of JSONL data. Empty lines are skipped.
func DecodeTrades(r io.Reader) ([]Trade, error) {
	var trades []Trade
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue
		}
		var t Trade
		if err := json.Unmarshal(lineBytes, &t); err != nil {
			return nil, fmt.Errorf("line %d: could not decode trade %q: %w", line, string(lineBytes), err)
		}
		trades = append(trades, t)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read trades: %w", err)
	}
	return trades, nil
}

// ReplayTrades decodes trades from r and imports them into the market, in order.
// It returns the number of imported trades.
func (m *Market) ReplayTrades(r io.Reader) (int, error) {
	trades, err := DecodeTrades(r)
	if err != nil {
		return 0, err
	}
	for i, t := range trades {
		if err := m.ImportTrade(t); err != nil {
			return i, fmt.Errorf("trade #%d: %w", i+1, err)
		}
	}
	return len(trades), nil
}
