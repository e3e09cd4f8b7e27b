package exchange

import (
	"context"
	"strconv"
	"strings"

	"github.com/adshao/go-binance/v2/futures"

	"futures-risk-calc/internal/domain"
)

// BinanceAdapter reads public futures market data through the go-binance
// client. No API keys are needed for the endpoints used here.
type BinanceAdapter struct {
	client *futures.Client
}

func NewBinanceAdapter(baseURL string) *BinanceAdapter {
	client := futures.NewClient("", "")
	if baseURL != "" {
		client.BaseURL = baseURL
	}
	return &BinanceAdapter{client: client}
}

func (b *BinanceAdapter) Name() string { return "binance" }

func (b *BinanceAdapter) ListSymbols(ctx context.Context) ([]domain.Symbol, error) {
	info, err := b.client.NewExchangeInfoService().Do(ctx)
	if err != nil {
		return nil, &domain.UpstreamError{Exchange: b.Name(), Err: err}
	}

	var symbols []domain.Symbol
	for _, s := range info.Symbols {
		if s.Status != "TRADING" || s.QuoteAsset != "USDT" {
			continue
		}
		// Dated futures use an underscore naming convention, e.g. BTCUSDT_250926.
		if strings.Contains(s.Symbol, "_") {
			continue
		}
		// Keep perpetuals and contracts without a contract type. Explicit
		// CURRENT_MONTH/NEXT_MONTH (and any other dated type) are dropped.
		contractType := string(s.ContractType)
		if contractType != "" && contractType != string(futures.ContractTypePerpetual) {
			continue
		}
		symbols = append(symbols, domain.Symbol{
			Symbol:       s.Symbol,
			BaseAsset:    s.BaseAsset,
			QuoteAsset:   s.QuoteAsset,
			Exchange:     b.Name(),
			ContractType: contractType,
		})
	}

	SortSymbols(symbols)
	return symbols, nil
}

func (b *BinanceAdapter) GetCurrentPrice(ctx context.Context, symbol string) (float64, error) {
	prices, err := b.client.NewListPricesService().Symbol(symbol).Do(ctx)
	if err != nil {
		return 0, &domain.UpstreamError{Exchange: b.Name(), Symbol: symbol, Err: err}
	}
	if len(prices) == 0 {
		return 0, &domain.UpstreamError{Exchange: b.Name(), Symbol: symbol, Err: errSymbolNotFound}
	}

	price, err := strconv.ParseFloat(prices[0].Price, 64)
	if err != nil {
		return 0, &domain.UpstreamError{Exchange: b.Name(), Symbol: symbol, Err: err}
	}
	return price, nil
}
