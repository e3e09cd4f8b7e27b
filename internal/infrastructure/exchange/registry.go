package exchange

import (
	"fmt"

	"futures-risk-calc/internal/domain"
)

// Registry maps exchange identifiers to adapter instances. Adding a venue
// means registering one more adapter, nothing else changes.
type Registry struct {
	adapters map[string]domain.ExchangeAdapter
}

func NewRegistry(adapters ...domain.ExchangeAdapter) *Registry {
	r := &Registry{adapters: make(map[string]domain.ExchangeAdapter, len(adapters))}
	for _, a := range adapters {
		r.adapters[a.Name()] = a
	}
	return r
}

// DefaultRegistry builds adapters for all supported venues against their
// production endpoints. Base URLs are overridable for tests and proxies.
func DefaultRegistry(baseURLs map[string]string) *Registry {
	return NewRegistry(
		NewBingXAdapter(baseURLs["bingx"]),
		NewBybitAdapter(baseURLs["bybit"]),
		NewBinanceAdapter(baseURLs["binance"]),
		NewBitgetAdapter(baseURLs["bitget"]),
	)
}

func (r *Registry) Get(exchange string) (domain.ExchangeAdapter, error) {
	a, ok := r.adapters[exchange]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedExchange, exchange)
	}
	return a, nil
}
