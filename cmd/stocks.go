package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/gbce/renderer"
	"github.com/google/subcommands"
)

type stocksCmd struct{}

func (*stocksCmd) Name() string     { return "stocks" }
func (*stocksCmd) Synopsis() string { return "list the stocks of the exchange catalog" }
func (*stocksCmd) Usage() string {
	return `gbce stocks

  Lists the catalog: symbol, type, last dividend, fixed dividend and par value.
`
}

func (c *stocksCmd) SetFlags(f *flag.FlagSet) {}

func (c *stocksCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	m, err := OpenMarket()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	snap, err := m.Snapshot(nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.CatalogMarkdown(renderer.NewMarket(snap)))
	return subcommands.ExitSuccess
}
