package gbce

import "errors"

var (
	// ErrValidation reports malformed input, like a non-positive price or quantity.
	ErrValidation = errors.New("invalid input")
	// ErrUnknownStock reports a symbol that is not in the catalog.
	ErrUnknownStock = errors.New("unknown stock")
	// ErrDuplicateStock reports a symbol declared twice in the catalog.
	ErrDuplicateStock = errors.New("duplicate stock")
	// ErrNoTrades reports a metric requested without any qualifying trade.
	ErrNoTrades = errors.New("no trades")
)
