// Package gbce simulates the Global Beverage Corporation Exchange, a tiny
// stock market with a fixed catalog of stocks and an append-only trade log.
//
// The core functionalities include:
//   - Catalog: Common and Preferred stocks declared once at construction,
//     immutable afterwards.
//   - Trade Recording: buy and sell trades validated against the catalog and
//     timestamped by an injectable Clock.
//   - Metrics: dividend yield, P/E ratio, volume weighted stock price over a
//     recent time window, and the GBCE All Share Index (the geometric mean of
//     the volume weighted stock prices of every traded stock).
//   - Trade Files: encoding and decoding of trades as JSONL, so that a
//     session can be replayed into a fresh Market.
//
// All amounts are exact decimals. Operations that cannot produce a value
// return one of the sentinel errors (ErrValidation, ErrUnknownStock,
// ErrNoTrades), and a P/E ratio without dividend is the NotApplicable Ratio
// rather than a division fault.
//
// This package serves as the foundational logic for the `gbce` command-line
// tool.
package gbce
