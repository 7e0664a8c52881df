package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/etnz/gbce"
	"github.com/google/subcommands"
)

// priceFlags are the flags shared by the commands evaluating a stock at a price.
type priceFlags struct {
	symbol string
	price  string
}

func (p *priceFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.symbol, "s", "", "Stock symbol.")
	f.StringVar(&p.price, "p", "", "Price per share in the catalog currency.")
}

// run opens the market and evaluates metric for the flags' symbol and price.
func (p *priceFlags) run(label string, metric func(m *gbce.Market, symbol string, price gbce.Money) (gbce.Ratio, error)) subcommands.ExitStatus {
	price, err := parsePrice(p.price)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	m, err := OpenMarket()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	symbol := strings.ToUpper(p.symbol)
	r, err := metric(m, symbol, price)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing %s for %s: %v\n", label, symbol, err)
		return exitStatus(err)
	}
	fmt.Printf("%s for %s: %s\n", label, symbol, r)
	return subcommands.ExitSuccess
}

type yieldCmd struct{ priceFlags }

func (*yieldCmd) Name() string     { return "yield" }
func (*yieldCmd) Synopsis() string { return "compute the dividend yield of a stock at a given price" }
func (*yieldCmd) Usage() string {
	return `gbce yield -s <symbol> -p <price>

  Common stocks yield their last dividend over the price. Preferred stocks
  yield their fixed dividend times their par value over the price.
`
}

func (c *yieldCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run("Dividend Yield", (*gbce.Market).DividendYield)
}

type peCmd struct{ priceFlags }

func (*peCmd) Name() string     { return "pe" }
func (*peCmd) Synopsis() string { return "compute the P/E ratio of a stock at a given price" }
func (*peCmd) Usage() string {
	return `gbce pe -s <symbol> -p <price>

  The P/E ratio is the price over the last dividend. It is N/A for stocks
  that paid no dividend.
`
}

func (c *peCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run("P/E Ratio", (*gbce.Market).PERatio)
}

type vwspCmd struct {
	symbol string
	window time.Duration
}

func (*vwspCmd) Name() string     { return "vwsp" }
func (*vwspCmd) Synopsis() string { return "compute the volume weighted stock price of a stock" }
func (*vwspCmd) Usage() string {
	return `gbce vwsp -s <symbol> [-w <window>]

  Averages the prices of the trades recorded within the window, weighted by
  their quantity. Use -trades to replay a trades file first.
`
}

func (c *vwspCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Stock symbol.")
	f.DurationVar(&c.window, "w", 0, "Window of recent trades (e.g. 15m). Defaults to the configured window.")
}

func (c *vwspCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	m, err := OpenMarket()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	symbol := strings.ToUpper(c.symbol)
	p, err := m.VolumeWeightedStockPrice(symbol, c.window)
	if errors.Is(err, gbce.ErrNoTrades) {
		fmt.Printf("Volume Weighted Stock Price for %s: no data (%v)\n", symbol, err)
		return subcommands.ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing Volume Weighted Stock Price for %s: %v\n", symbol, err)
		return exitStatus(err)
	}
	fmt.Printf("Volume Weighted Stock Price for %s: %s\n", symbol, p)
	return subcommands.ExitSuccess
}

type indexCmd struct{}

func (*indexCmd) Name() string     { return "index" }
func (*indexCmd) Synopsis() string { return "compute the GBCE All Share Index" }
func (*indexCmd) Usage() string {
	return `gbce index

  The geometric mean of the volume weighted stock prices of every stock
  traded within the window. Use -trades to replay a trades file first.
`
}

func (c *indexCmd) SetFlags(f *flag.FlagSet) {}

func (c *indexCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	m, err := OpenMarket()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	index, err := m.AllShareIndex()
	if errors.Is(err, gbce.ErrNoTrades) {
		fmt.Printf("GBCE All Share Index: no data (%v)\n", err)
		return subcommands.ExitSuccess
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("GBCE All Share Index: %s\n", index)
	return subcommands.ExitSuccess
}
