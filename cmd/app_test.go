package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/etnz/gbce"
	"github.com/google/subcommands"
)

func TestParseNow(t *testing.T) {
	want := time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC)
	for _, s := range []string{"2006-01-02 15:04:05", "2006-01-02T15:04:05", "2006-01-02T15:04:05Z", "2006-01-02T16:04:05+01:00"} {
		got, err := parseNow(s)
		if err != nil {
			t.Errorf("parseNow(%q) error = %v", s, err)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("parseNow(%q) = %v, want %v", s, got, want)
		}
	}
	if _, err := parseNow("yesterday"); err == nil {
		t.Error("parseNow(\"yesterday\") expected an error")
	}
}

func TestSettings(t *testing.T) {
	t.Setenv(EnvConfig, "exchange.yaml")
	t.Setenv(EnvTradesFile, "env.jsonl")
	t.Setenv(EnvVerbose, "true")
	t.Setenv(EnvTestingNow, "")
	t.Setenv(EnvPlain, "false")

	old := *tradesFile
	*tradesFile = "flag.jsonl"
	defer func() { *tradesFile = old }()

	env, err := settings()
	if err != nil {
		t.Fatalf("settings() error = %v", err)
	}
	if env.Config != "exchange.yaml" {
		t.Errorf("Config = %q, want %q", env.Config, "exchange.yaml")
	}
	if env.TradesFile != "flag.jsonl" {
		t.Errorf("TradesFile = %q, want the flag value", env.TradesFile)
	}
	if !env.Verbose {
		t.Error("Verbose = false, want true")
	}
}

func TestExitStatus(t *testing.T) {
	tests := []struct {
		err  error
		want subcommands.ExitStatus
	}{
		{nil, subcommands.ExitSuccess},
		{fmt.Errorf("wrapped: %w", gbce.ErrValidation), subcommands.ExitUsageError},
		{gbce.ErrUnknownStock, subcommands.ExitUsageError},
		{gbce.ErrNoTrades, subcommands.ExitFailure},
		{errors.New("boom"), subcommands.ExitFailure},
	}
	for _, tc := range tests {
		if got := exitStatus(tc.err); got != tc.want {
			t.Errorf("exitStatus(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestParsePrices(t *testing.T) {
	prices, err := parsePrices("tea=1.5, GIN=0.9")
	if err != nil {
		t.Fatalf("parsePrices() error = %v", err)
	}
	if len(prices) != 2 {
		t.Fatalf("parsePrices() = %v, want 2 prices", prices)
	}
	if !prices["TEA"].Equal(gbce.M(1.5, "")) {
		t.Errorf("TEA = %v, want 1.5", prices["TEA"])
	}

	for _, s := range []string{"TEA", "TEA=abc"} {
		if _, err := parsePrices(s); !errors.Is(err, gbce.ErrValidation) {
			t.Errorf("parsePrices(%q) error = %v, want ErrValidation", s, err)
		}
	}
	if prices, err := parsePrices(""); err != nil || len(prices) != 0 {
		t.Errorf("parsePrices(\"\") = %v, %v, want empty", prices, err)
	}
}

func TestOpenMarketReplaysTrades(t *testing.T) {
	file := filepath.Join(t.TempDir(), "trades.jsonl")
	data := `{"time":"2024-01-02T09:50:00Z","symbol":"POP","direction":"buy","quantity":100,"price":{"currency":"GBP","amount":10}}

{"time":"2024-01-02T09:55:00Z","symbol":"POP","direction":"sell","quantity":300,"price":{"currency":"GBP","amount":20}}
`
	if err := os.WriteFile(file, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfig, "")
	t.Setenv(EnvTradesFile, file)
	t.Setenv(EnvVerbose, "false")
	t.Setenv(EnvTestingNow, "2024-01-02 10:00:00")
	t.Setenv(EnvPlain, "true")

	m, err := OpenMarket()
	if err != nil {
		t.Fatalf("OpenMarket() error = %v", err)
	}
	if m.TradeCount() != 2 {
		t.Errorf("TradeCount() = %d, want 2", m.TradeCount())
	}
	got, err := m.VolumeWeightedStockPrice("POP", 0)
	if err != nil {
		t.Fatalf("VolumeWeightedStockPrice() error = %v", err)
	}
	if want := gbce.M(17.5, "GBP"); !got.Equal(want) {
		t.Errorf("VolumeWeightedStockPrice() = %v, want %v", got, want)
	}
}

func TestNamesAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, name := range Names() {
		if seen[name] {
			t.Errorf("subcommand %q registered twice", name)
		}
		seen[name] = true
	}
	if !IsCommand("shell") || IsCommand("fetch") {
		t.Error("IsCommand() does not match the registered subcommands")
	}
}

func TestCompletion(t *testing.T) {
	t.Setenv(EnvConfig, "")
	c := Completion()
	for _, name := range Names() {
		if _, ok := c.Sub[name]; !ok {
			t.Errorf("no completion for subcommand %q", name)
		}
	}
	trade := c.Sub["trade"]
	if got := trade.Flags["d"].Predict(""); len(got) != 2 {
		t.Errorf("trade -d predicts %v, want buy and sell", got)
	}
	symbols := trade.Flags["s"].Predict("")
	if len(symbols) != 5 || symbols[0] != "TEA" {
		t.Errorf("trade -s predicts %v, want the sample catalog", symbols)
	}
	if _, ok := c.Sub["report"].Flags["json"]; !ok {
		t.Error("report -json has no completion")
	}
}
