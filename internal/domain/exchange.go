package domain

// ExchangeInfo describes one supported venue.
type ExchangeInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SupportedExchanges returns the fixed set of venues, in display order.
func SupportedExchanges() []ExchangeInfo {
	return []ExchangeInfo{
		{ID: "bingx", Name: "BingX"},
		{ID: "bybit", Name: "Bybit"},
		{ID: "binance", Name: "Binance"},
		{ID: "bitget", Name: "Bitget"},
	}
}

func IsSupportedExchange(id string) bool {
	for _, e := range SupportedExchanges() {
		if e.ID == id {
			return true
		}
	}
	return false
}
