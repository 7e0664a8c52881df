package renderer

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/etnz/gbce"
	md "github.com/nao1215/markdown"
)

// noData is displayed for metrics that have no qualifying trades.
const noData = "no data"

// MarketMarkdown renders the catalog, the metrics of every stock and the
// all-share index.
func MarketMarkdown(m *Market) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("GBCE Market on %s", m.Time.Format("2006-01-02 15:04:05")))
	doc.PlainText(fmt.Sprintf("%d trades recorded, VWSP over the last %s.", m.Trades, m.Window))

	doc.H2("Catalog")
	doc.Table(catalogTable(m.Stocks))

	doc.H2("Metrics")
	metrics := md.TableSet{
		Header: []string{"Symbol", "Trades", "Price", "Dividend Yield", "P/E Ratio", "VWSP"},
	}
	for _, s := range m.Stocks {
		vwsp := noData
		if s.VWSP != nil {
			vwsp = s.VWSP.String()
		}
		metrics.Rows = append(metrics.Rows, []string{
			s.Symbol, strconv.Itoa(s.Trades), s.Price.String(), s.DividendYield.Percent(), s.PERatio.String(), vwsp,
		})
	}
	doc.Table(metrics)

	doc.H2("GBCE All Share Index")
	if m.Index != nil {
		doc.PlainText(m.Index.String())
	} else {
		doc.PlainText(noData)
	}

	return doc.String()
}

// CatalogMarkdown renders the catalog only.
func CatalogMarkdown(m *Market) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("GBCE Catalog")
	doc.Table(catalogTable(m.Stocks))
	return doc.String()
}

func catalogTable(stocks []MarketStock) md.TableSet {
	catalog := md.TableSet{
		Header: []string{"Symbol", "Type", "Last Dividend", "Fixed Dividend", "Par Value"},
	}
	for _, s := range stocks {
		fixed := "-"
		if s.FixedDividend.IsApplicable() {
			fixed = s.FixedDividend.Percent()
		}
		catalog.Rows = append(catalog.Rows, []string{
			s.Symbol, s.Type.String(), s.LastDividend.String(), fixed, s.ParValue.String(),
		})
	}
	return catalog
}

// TradeMarkdown renders a single recorded trade.
func TradeMarkdown(t gbce.Trade) string {
	return fmt.Sprintf("%s %s %d %s @ %s (%s)\n",
		t.Time.UTC().Format("2006-01-02 15:04:05"), t.Direction, t.Quantity, t.Symbol, t.Price, t.Value())
}
