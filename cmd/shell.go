package cmd

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/etnz/gbce"
	"github.com/google/subcommands"
)

type shellCmd struct{}

func (*shellCmd) Name() string     { return "shell" }
func (*shellCmd) Synopsis() string { return "record trades interactively and display the metrics" }
func (*shellCmd) Usage() string {
	return `gbce shell

  Prompts for a stock symbol, a quantity, a direction and a price, records
  the trade and displays the dividend yield, P/E ratio, VWSP and the GBCE
  All Share Index. Type 'exit' at the symbol prompt to quit.
`
}

func (c *shellCmd) SetFlags(f *flag.FlagSet) {}

func (c *shellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	m, err := OpenMarket()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := newShell(m, os.Stdin, os.Stdout).run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// errExit is returned by the prompts when the user quits or the input ends.
var errExit = errors.New("exit")

// shell is the interactive trading loop.
type shell struct {
	market *gbce.Market
	in     *bufio.Scanner
	out    io.Writer
}

func newShell(m *gbce.Market, in io.Reader, out io.Writer) *shell {
	return &shell{market: m, in: bufio.NewScanner(in), out: out}
}

// prompt prints the message and reads one trimmed line.
func (s *shell) prompt(msg string) (string, error) {
	fmt.Fprint(s.out, msg)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", errExit
	}
	return strings.TrimSpace(s.in.Text()), nil
}

// ask prompts until parse accepts the answer.
func ask[T any](s *shell, msg string, parse func(string) (T, error)) (T, error) {
	for {
		line, err := s.prompt(msg)
		if err != nil {
			var zero T
			return zero, err
		}
		v, err := parse(line)
		if err == nil {
			return v, nil
		}
		fmt.Fprintln(s.out, err)
	}
}

func (s *shell) symbol(line string) (string, error) {
	symbol := strings.ToUpper(line)
	if symbol == "EXIT" {
		return "", errExit
	}
	if !s.market.Has(symbol) {
		return "", fmt.Errorf("invalid stock symbol %q, please choose from the available symbols", symbol)
	}
	return symbol, nil
}

func parseQuantity(line string) (int64, error) {
	q, err := strconv.ParseInt(line, 10, 64)
	if err != nil || q <= 0 {
		return 0, errors.New("invalid input, please enter a positive whole number for trading quantity")
	}
	return q, nil
}

func parseDirection(line string) (gbce.Direction, error) {
	d, err := gbce.ParseDirection(line)
	if err != nil {
		return d, errors.New("invalid input, please enter 'buy' or 'sell'")
	}
	return d, nil
}

func parseShellPrice(line string) (gbce.Money, error) {
	p, err := parsePrice(line)
	if err != nil || !p.IsPositive() {
		return gbce.Money{}, errors.New("invalid input, please enter a positive number for price")
	}
	return p, nil
}

// run loops until the user types exit or the input ends.
func (s *shell) run() error {
	for {
		err := s.step()
		if errors.Is(err, errExit) {
			fmt.Fprintln(s.out, "\nExiting the program. Goodbye!")
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// step reads one trade and prints the metrics of its stock.
func (s *shell) step() error {
	fmt.Fprintf(s.out, "\nAvailable stock symbols: %s\n", strings.Join(s.market.Symbols(), ", "))
	symbol, err := ask(s, "Enter the stock symbol (or type 'exit' to quit): ", s.symbol)
	if err != nil {
		return err
	}
	quantity, err := ask(s, "Enter the trading quantity: ", parseQuantity)
	if err != nil {
		return err
	}
	direction, err := ask(s, "Enter if you want to buy or sell: ", parseDirection)
	if err != nil {
		return err
	}
	price, err := ask(s, "Enter the price for calculating metrics: ", parseShellPrice)
	if err != nil {
		return err
	}

	if _, err := s.market.RecordTrade(symbol, quantity, direction, price); err != nil {
		fmt.Fprintf(s.out, "Error recording trade for %s: %v\n", symbol, err)
		return nil
	}
	fmt.Fprintf(s.out, "Trade recorded successfully for %s.\n", symbol)
	s.metrics(symbol, price)
	return nil
}

// metrics prints the four metrics. Errors are reported in place of the values.
func (s *shell) metrics(symbol string, price gbce.Money) {
	fmt.Fprintln(s.out)
	if y, err := s.market.DividendYield(symbol, price); err != nil {
		fmt.Fprintf(s.out, "Dividend Yield for %s: %v\n", symbol, err)
	} else {
		fmt.Fprintf(s.out, "Dividend Yield for %s: %s\n", symbol, y)
	}
	if pe, err := s.market.PERatio(symbol, price); err != nil {
		fmt.Fprintf(s.out, "P/E Ratio for %s: %v\n", symbol, err)
	} else {
		fmt.Fprintf(s.out, "P/E Ratio for %s: %s\n", symbol, pe)
	}
	fmt.Fprintf(s.out, "Volume Weighted Stock Price for %s: %s\n", symbol, orNoData(s.market.VolumeWeightedStockPrice(symbol, 0)))
	fmt.Fprintf(s.out, "GBCE All Share Index: %s\n", orNoData(s.market.AllShareIndex()))
}

// orNoData formats a metric with its exact amount, or "no data" when no trade
// qualifies.
func orNoData(m gbce.Money, err error) string {
	switch {
	case errors.Is(err, gbce.ErrNoTrades):
		return "no data"
	case err != nil:
		return err.Error()
	}
	return m.Detailed()
}
