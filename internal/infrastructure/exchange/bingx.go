package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"futures-risk-calc/internal/domain"
)

const BingXBaseURL = "https://open-api.bingx.com"

// bingxActiveStatus is the sentinel BingX uses for a tradable contract.
const bingxActiveStatus = 1

type BingXAdapter struct {
	baseURL string
	client  *http.Client
}

func NewBingXAdapter(baseURL string) *BingXAdapter {
	if baseURL == "" {
		baseURL = BingXBaseURL
	}
	return &BingXAdapter{
		baseURL: baseURL,
		client:  newHTTPClient(),
	}
}

func (b *BingXAdapter) Name() string { return "bingx" }

// exchangeSymbol converts the canonical BASEUSDT form into BingX's
// hyphenated BASE-USDT form.
func (b *BingXAdapter) exchangeSymbol(symbol string) string {
	return strings.TrimSuffix(symbol, "USDT") + "-USDT"
}

func (b *BingXAdapter) ListSymbols(ctx context.Context) ([]domain.Symbol, error) {
	body, err := httpGet(ctx, b.client, b.baseURL+"/openApi/swap/v2/quote/contracts")
	if err != nil {
		return nil, &domain.UpstreamError{Exchange: b.Name(), Err: err}
	}

	var result struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
		Data []struct {
			Symbol string `json:"symbol"`
			Status *int   `json:"status"`
		} `json:"data"`
	}

	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &domain.UpstreamError{Exchange: b.Name(), Err: err}
	}
	if result.Code != 0 {
		return nil, &domain.UpstreamError{Exchange: b.Name(), Err: fmt.Errorf("bingx api error %d: %s", result.Code, result.Msg)}
	}

	var symbols []domain.Symbol
	for _, item := range result.Data {
		if !strings.HasSuffix(item.Symbol, "-USDT") {
			continue
		}
		if item.Status != nil && *item.Status != bingxActiveStatus {
			continue
		}
		base := strings.TrimSuffix(item.Symbol, "-USDT")
		symbols = append(symbols, domain.Symbol{
			Symbol:     strings.ReplaceAll(item.Symbol, "-", ""),
			BaseAsset:  base,
			QuoteAsset: "USDT",
			Exchange:   b.Name(),
		})
	}

	SortSymbols(symbols)
	return symbols, nil
}

func (b *BingXAdapter) GetCurrentPrice(ctx context.Context, symbol string) (float64, error) {
	url := b.baseURL + "/openApi/swap/v2/quote/price?symbol=" + b.exchangeSymbol(symbol)
	body, err := httpGet(ctx, b.client, url)
	if err != nil {
		return 0, &domain.UpstreamError{Exchange: b.Name(), Symbol: symbol, Err: err}
	}

	var result struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
		Data struct {
			Price string `json:"price"`
		} `json:"data"`
	}

	if err := json.Unmarshal(body, &result); err != nil {
		return 0, &domain.UpstreamError{Exchange: b.Name(), Symbol: symbol, Err: err}
	}
	if result.Code != 0 {
		return 0, &domain.UpstreamError{Exchange: b.Name(), Symbol: symbol, Err: fmt.Errorf("bingx api error %d: %s", result.Code, result.Msg)}
	}
	if result.Data.Price == "" {
		return 0, &domain.UpstreamError{Exchange: b.Name(), Symbol: symbol, Err: fmt.Errorf("missing price field")}
	}

	price, err := strconv.ParseFloat(result.Data.Price, 64)
	if err != nil {
		return 0, &domain.UpstreamError{Exchange: b.Name(), Symbol: symbol, Err: err}
	}
	return price, nil
}
