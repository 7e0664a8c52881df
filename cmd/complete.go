package cmd

import (
	"flag"
	"strings"

	"github.com/etnz/gbce/config"
	"github.com/etnz/gbce/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion returns the shell completion tree of the gbce command: global
// flags, subcommands and their flags.
func Completion() *complete.Command {
	symbols := complete.PredictFunc(func(prefix string) []string { return catalogSymbols() })

	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flagPredictors(flag.CommandLine, symbols),
	}
	for _, g := range groups {
		for _, c := range g.commands {
			fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
			c.SetFlags(fs)
			root.Sub[c.Name()] = &complete.Command{Flags: flagPredictors(fs, symbols)}
		}
	}
	if topics, err := docs.GetAllTopics(); err == nil {
		root.Sub["topic"].Args = predict.Set(append(topics, "readme"))
	}
	return root
}

// flagPredictors guesses a predictor for every flag of fs.
func flagPredictors(fs *flag.FlagSet, symbols complete.Predictor) map[string]complete.Predictor {
	flags := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		switch f.Name {
		case "s":
			flags[f.Name] = symbols
		case "d":
			flags[f.Name] = predict.Set{"buy", "sell"}
		case "config":
			flags[f.Name] = predict.Files("*")
		case "trades":
			flags[f.Name] = predict.Files("*.jsonl")
		default:
			if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
				flags[f.Name] = predict.Nothing
			} else {
				flags[f.Name] = predict.Something
			}
		}
	})
	return flags
}

// catalogSymbols returns the symbols of the configured catalog, or nil if it
// cannot be loaded.
func catalogSymbols() []string {
	env, err := settings()
	if err != nil {
		return nil
	}
	cfg, err := config.Load(env.Config)
	if err != nil {
		return nil
	}
	symbols := make([]string, 0, len(cfg.Stocks))
	for _, s := range cfg.Stocks {
		symbols = append(symbols, strings.ToUpper(s.Symbol))
	}
	return symbols
}
