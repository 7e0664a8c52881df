package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/gbce"
	"github.com/etnz/gbce/renderer"
	"github.com/google/subcommands"
)

// reportCmd holds the flags for the 'report' subcommand.
type reportCmd struct {
	prices string
	json   bool
	query  string
}

func (*reportCmd) Name() string { return "report" }
func (*reportCmd) Synopsis() string {
	return "display every metric of every stock and the all-share index"
}
func (*reportCmd) Usage() string {
	return `gbce report [-p SYM=PRICE,...] [-json] [-q <jsonpath>]

  Computes the dividend yield, P/E ratio and VWSP of every stock, and the
  GBCE All Share Index. The price of a stock defaults to its VWSP, or to its
  par value when it was not traded recently.

Usage Examples:
$ gbce -trades trades.jsonl report -p TEA=1.5,GIN=0.9
$ gbce -trades trades.jsonl report -q '$.index.amount'
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.prices, "p", "", "Comma separated list of SYM=PRICE used instead of the default prices.")
	f.BoolVar(&c.json, "json", false, "Print the report as JSON.")
	f.StringVar(&c.query, "q", "", "Print the result of a JSONPath query on the JSON report.")
}

func (c *reportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	prices, err := parsePrices(c.prices)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	m, err := OpenMarket()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	snap, err := m.Snapshot(prices)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing report: %v\n", err)
		return exitStatus(err)
	}
	report := renderer.NewMarket(snap)

	switch {
	case c.query != "":
		res, err := report.Query(c.query)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
		data, err := json.Marshal(res)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		fmt.Println(string(data))
	case c.json:
		data, err := report.JSON()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		fmt.Println(string(data))
	default:
		printMarkdown(renderer.MarketMarkdown(report))
	}
	return subcommands.ExitSuccess
}

// parsePrices parses a list like "TEA=1.5,GIN=0.9".
func parsePrices(s string) (map[string]gbce.Money, error) {
	prices := make(map[string]gbce.Money)
	if strings.TrimSpace(s) == "" {
		return prices, nil
	}
	for _, item := range strings.Split(s, ",") {
		symbol, value, ok := strings.Cut(item, "=")
		if !ok {
			return nil, fmt.Errorf("%w: invalid price %q want SYM=PRICE", gbce.ErrValidation, item)
		}
		price, err := parsePrice(value)
		if err != nil {
			return nil, err
		}
		prices[strings.ToUpper(strings.TrimSpace(symbol))] = price
	}
	return prices, nil
}
