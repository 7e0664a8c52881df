// Package cmd implements the CLI application of the exchange.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/gbce"
	"github.com/etnz/gbce/config"
	"github.com/google/subcommands"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// group is a set of subcommands displayed together in the help.
type group struct {
	name     string
	commands []subcommands.Command
}

// groups lists every subcommand of the application.
var groups = []group{
	{"catalog", []subcommands.Command{&stocksCmd{}}},
	{"trading", []subcommands.Command{&tradeCmd{}, &shellCmd{}}},
	{"metrics", []subcommands.Command{&yieldCmd{}, &peCmd{}, &vwspCmd{}, &indexCmd{}, &reportCmd{}}},
	{"help", []subcommands.Command{&topicCmd{}}},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, g := range groups {
		for _, cmd := range g.commands {
			c.Register(cmd, g.name)
		}
	}
}

// Names returns the names of all the subcommands.
func Names() []string {
	var names []string
	for _, g := range groups {
		for _, cmd := range g.commands {
			names = append(names, cmd.Name())
		}
	}
	return names
}

// IsCommand reports whether name is a registered subcommand.
func IsCommand(name string) bool {
	for _, n := range Names() {
		if n == name {
			return true
		}
	}
	return false
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "", "Path to the exchange configuration file (YAML, JSON or TOML). Defaults to the sample GBCE catalog.")
var tradesFile = flag.String("trades", "", "Path to a trades file (JSONL) replayed into the market before running the command.")
var nowFlag = flag.String("now", "", "Evaluate the market at this time ('2006-01-02 15:04:05' UTC or RFC3339) instead of the wall clock.")
var plain = flag.Bool("plain", false, "Print markdown as is, without terminal styling.")

// Verbose enables debug logs on stderr.
var Verbose = flag.Bool("v", false, "Log every trade and configuration step on stderr.")

// environment holds the GBCE_* variables that act as defaults for the global flags.
type environment struct {
	Config     string `envconfig:"CONFIG"`
	TradesFile string `envconfig:"TRADES_FILE"`
	Verbose    bool   `envconfig:"VERBOSE"`
	TestingNow string `envconfig:"TESTING_NOW"`
	Plain      bool   `envconfig:"PLAIN"`
}

// settings merges the global flags with the environment. Flags win.
func settings() (environment, error) {
	var env environment
	if err := envconfig.Process(config.EnvPrefix, &env); err != nil {
		return env, fmt.Errorf("invalid environment: %w", err)
	}
	if *configFile != "" {
		env.Config = *configFile
	}
	if *tradesFile != "" {
		env.TradesFile = *tradesFile
	}
	if *nowFlag != "" {
		env.TestingNow = *nowFlag
	}
	env.Verbose = env.Verbose || *Verbose
	env.Plain = env.Plain || *plain
	return env, nil
}

// parseNow parses a time in one of the accepted formats.
func parseNow(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q want format %q", s, "2006-01-02 15:04:05")
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}

// OpenMarket is the central function to build the market: it loads the
// configuration, and replays the trades file, if any.
func OpenMarket() (*gbce.Market, error) {
	env, err := settings()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(env.Verbose)
	if err != nil {
		return nil, fmt.Errorf("could not create logger: %w", err)
	}

	cfg, err := config.Load(env.Config)
	if err != nil {
		return nil, err
	}
	logger.Debug("configuration loaded",
		zap.String("file", env.Config),
		zap.String("currency", cfg.Currency),
		zap.Duration("window", cfg.Window),
		zap.Int("stocks", len(cfg.Stocks)),
	)

	clock := gbce.SystemClock
	if env.TestingNow != "" {
		now, err := parseNow(env.TestingNow)
		if err != nil {
			return nil, err
		}
		clock = gbce.FixedClock(now)
	}

	m, err := cfg.NewMarket(clock, logger)
	if err != nil {
		return nil, err
	}

	if env.TradesFile != "" {
		f, err := os.Open(env.TradesFile)
		if err != nil {
			return nil, fmt.Errorf("could not open trades file: %w", err)
		}
		defer f.Close()
		n, err := m.ReplayTrades(f)
		if err != nil {
			return nil, fmt.Errorf("could not replay trades file %q: %w", env.TradesFile, err)
		}
		logger.Debug("trades replayed", zap.String("file", env.TradesFile), zap.Int("count", n))
	}
	return m, nil
}

// parsePrice parses a decimal price in the catalog currency.
func parsePrice(s string) (gbce.Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return gbce.Money{}, fmt.Errorf("%w: invalid price %q", gbce.ErrValidation, s)
	}
	return gbce.M(d, ""), nil
}

// exitStatus maps an error to the exit status of a subcommand.
func exitStatus(err error) subcommands.ExitStatus {
	switch {
	case err == nil:
		return subcommands.ExitSuccess
	case errors.Is(err, gbce.ErrValidation), errors.Is(err, gbce.ErrUnknownStock):
		return subcommands.ExitUsageError
	default:
		return subcommands.ExitFailure
	}
}

// printMarkdown prints markdown on stdout, styled for the terminal unless -plain is set.
func printMarkdown(s string) {
	env, _ := settings()
	if env.Plain {
		fmt.Print(s)
		return
	}
	out, err := glamour.Render(s, "auto")
	if err != nil {
		fmt.Print(s)
		return
	}
	fmt.Print(out)
}
