package domain

import "context"

// ExchangeAdapter normalizes one venue's public market data API.
type ExchangeAdapter interface {
	// Name returns the exchange identifier, e.g. "bybit".
	Name() string
	// ListSymbols fetches the instrument catalog filtered down to
	// USDT-margined perpetual contracts, in canonical form.
	ListSymbols(ctx context.Context) ([]Symbol, error)
	// GetCurrentPrice fetches the last price for a canonical symbol.
	GetCurrentPrice(ctx context.Context, symbol string) (float64, error)
}

// CalculationRepository defines storage operations for calculation history.
type CalculationRepository interface {
	SaveCalculation(ctx context.Context, rec *CalculationRecord) error
	ListCalculations(ctx context.Context, limit int) ([]*CalculationRecord, error)
}
