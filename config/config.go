// Package config loads the catalog and the settings of the exchange.
//
// Settings come, by increasing priority, from the built-in GBCE sample
// catalog, an optional configuration file (YAML, JSON or TOML), and GBCE_*
// environment variables. A .env file in the working directory is loaded into
// the environment first.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/etnz/gbce"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// EnvPrefix is the prefix of the environment variables overriding settings.
const EnvPrefix = "GBCE"

// Config is the explicit configuration of a Market.
type Config struct {
	Currency string        `mapstructure:"currency"` // ISO code of the catalog currency.
	Window   time.Duration `mapstructure:"window"`   // VWSP window.
	Stocks   []Stock       `mapstructure:"stocks"`
}

// Stock is the configuration of a catalog entry. Amounts are in major units
// of the catalog currency.
type Stock struct {
	Symbol        string   `mapstructure:"symbol"`
	Type          string   `mapstructure:"type"`
	LastDividend  float64  `mapstructure:"last_dividend"`
	FixedDividend *float64 `mapstructure:"fixed_dividend"` // Preferred only, 0.02 for 2%.
	ParValue      float64  `mapstructure:"par_value"`
}

func fixed(v float64) *float64 { return &v }

// SampleStocks returns the sample catalog of the Global Beverage Corporation
// Exchange, converted from pennies to pounds.
func SampleStocks() []Stock {
	return []Stock{
		{Symbol: "TEA", Type: "Common", LastDividend: 0, ParValue: 1},
		{Symbol: "POP", Type: "Common", LastDividend: 0.08, ParValue: 1},
		{Symbol: "ALE", Type: "Common", LastDividend: 0.23, ParValue: 0.6},
		{Symbol: "GIN", Type: "Preferred", LastDividend: 0.08, FixedDividend: fixed(0.02), ParValue: 1},
		{Symbol: "JOE", Type: "Common", LastDividend: 0.13, ParValue: 2.5},
	}
}

// Default returns the configuration of the sample exchange.
func Default() *Config {
	return &Config{
		Currency: gbce.DefaultCurrency,
		Window:   gbce.DefaultWindow,
		Stocks:   SampleStocks(),
	}
}

// Load reads the configuration. An empty path means no configuration file.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("could not load .env file: %w", err)
	}

	v := viper.New()
	def := Default()
	v.SetDefault("currency", def.Currency)
	v.SetDefault("window", def.Window)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range []string{"currency", "window"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("could not bind env var for key %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("could not read config file %q: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if len(cfg.Stocks) == 0 {
		cfg.Stocks = def.Stocks
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings and every catalog entry.
func (c *Config) Validate() error {
	if len(c.Currency) != 3 || strings.ToUpper(c.Currency) != c.Currency {
		return fmt.Errorf("invalid currency %q: must be 3 uppercase letters", c.Currency)
	}
	if c.Window <= 0 {
		return fmt.Errorf("invalid window %s: must be positive", c.Window)
	}
	_, err := c.Catalog()
	return err
}

// Catalog converts the configured stocks into the market catalog.
func (c *Config) Catalog() ([]gbce.Stock, error) {
	catalog := make([]gbce.Stock, 0, len(c.Stocks))
	for i, s := range c.Stocks {
		stock, err := s.stock(c.Currency)
		if err != nil {
			return nil, fmt.Errorf("stock #%d: %w", i+1, err)
		}
		if err := stock.Validate(); err != nil {
			return nil, fmt.Errorf("stock #%d: %w", i+1, err)
		}
		catalog = append(catalog, stock)
	}
	return catalog, nil
}

func (s Stock) stock(currency string) (gbce.Stock, error) {
	typ, err := gbce.ParseStockType(s.Type)
	if err != nil {
		return gbce.Stock{}, fmt.Errorf("stock %q: %w", s.Symbol, err)
	}
	symbol := strings.ToUpper(strings.TrimSpace(s.Symbol))
	last := gbce.M(s.LastDividend, currency)
	par := gbce.M(s.ParValue, currency)
	switch typ {
	case gbce.Preferred:
		if s.FixedDividend == nil {
			return gbce.Stock{}, fmt.Errorf("%w: preferred stock %q requires a fixed_dividend", gbce.ErrValidation, symbol)
		}
		return gbce.NewPreferred(symbol, last, gbce.R(*s.FixedDividend), par), nil
	default:
		if s.FixedDividend != nil {
			return gbce.Stock{}, fmt.Errorf("%w: common stock %q cannot have a fixed_dividend", gbce.ErrValidation, symbol)
		}
		return gbce.NewCommon(symbol, last, par), nil
	}
}

// NewMarket returns a market for this configuration.
func (c *Config) NewMarket(clock gbce.Clock, logger *zap.Logger) (*gbce.Market, error) {
	catalog, err := c.Catalog()
	if err != nil {
		return nil, err
	}
	opts := []gbce.Option{gbce.WithWindow(c.Window)}
	if clock != nil {
		opts = append(opts, gbce.WithClock(clock))
	}
	if logger != nil {
		opts = append(opts, gbce.WithLogger(logger))
	}
	return gbce.NewMarket(catalog, opts...)
}
