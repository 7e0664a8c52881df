package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/gbce"
	"github.com/etnz/gbce/renderer"
	"github.com/google/subcommands"
)

type tradeCmd struct {
	symbol    string
	quantity  int64
	direction string
	price     string
}

func (*tradeCmd) Name() string     { return "trade" }
func (*tradeCmd) Synopsis() string { return "record a trade and print it as a JSONL line" }
func (*tradeCmd) Usage() string {
	return `gbce trade -s <symbol> -q <quantity> -d <buy|sell> -p <price>

  Validates and records a trade, timestamped now, and prints it on stdout as
  a single JSON line. Nothing is saved: redirect the output to build a trades
  file that other commands can replay with -trades.

Usage Examples:
$ gbce trade -s POP -q 100 -d buy -p 1.2 >> trades.jsonl
`
}

func (c *tradeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Stock symbol.")
	f.Int64Var(&c.quantity, "q", 0, "Number of shares traded, a positive integer.")
	f.StringVar(&c.direction, "d", "buy", "Trade direction: buy or sell.")
	f.StringVar(&c.price, "p", "", "Price per share in the catalog currency.")
}

func (c *tradeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	direction, err := gbce.ParseDirection(c.direction)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	price, err := parsePrice(c.price)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	m, err := OpenMarket()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	trade, err := m.RecordTrade(strings.ToUpper(c.symbol), c.quantity, direction, price)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error recording trade: %v\n", err)
		return exitStatus(err)
	}
	if err := gbce.EncodeTrade(os.Stdout, trade); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Fprint(os.Stderr, renderer.TradeMarkdown(trade))
	return subcommands.ExitSuccess
}
