package domain

import (
	"errors"
	"fmt"
)

// ErrUnsupportedExchange marks an exchange identifier outside the fixed set.
var ErrUnsupportedExchange = errors.New("unsupported exchange")

// ErrDegenerateTrade marks a specification where entry equals stop, making
// position size undefined. Validation rejects this earlier; the calculator
// still guards against it.
var ErrDegenerateTrade = errors.New("entry price equals stop loss")

// UpstreamError wraps a network, HTTP or payload failure from a venue.
type UpstreamError struct {
	Exchange string
	Symbol   string
	Err      error
}

func (e *UpstreamError) Error() string {
	if e.Symbol != "" {
		return fmt.Sprintf("failed to fetch data from %s for %s: %v", e.Exchange, e.Symbol, e.Err)
	}
	return fmt.Sprintf("failed to fetch data from %s: %v", e.Exchange, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// ValidationError identifies the first failing rule of a TradeSpecification.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}
