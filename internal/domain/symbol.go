package domain

import "time"

// Symbol is a canonical USDT-margined perpetual instrument on one venue.
// The same base asset on two venues yields two distinct Symbol values.
type Symbol struct {
	Symbol       string `json:"symbol"` // BASEQUOTE, e.g. BTCUSDT
	BaseAsset    string `json:"baseAsset"`
	QuoteAsset   string `json:"quoteAsset"`
	Exchange     string `json:"exchange"`
	ContractType string `json:"contractType,omitempty"`
}

// PriceQuote is a single last price for (exchange, symbol) at fetch time.
type PriceQuote struct {
	Exchange  string    `json:"exchange"`
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}
