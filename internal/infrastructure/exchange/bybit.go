package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"

	"futures-risk-calc/internal/domain"
)

const BybitBaseURL = "https://api.bybit.com"

// Dated contracts carry a date suffix like -25JUL25. Bybit has no explicit
// contract-type field on linear instruments, so this is a name-based check.
var bybitDatedContract = regexp.MustCompile(`-\d{2}[A-Z]{3}\d{2}$`)

type BybitAdapter struct {
	baseURL string
	client  *http.Client
}

func NewBybitAdapter(baseURL string) *BybitAdapter {
	if baseURL == "" {
		baseURL = BybitBaseURL
	}
	return &BybitAdapter{
		baseURL: baseURL,
		client:  newHTTPClient(),
	}
}

func (b *BybitAdapter) Name() string { return "bybit" }

func (b *BybitAdapter) ListSymbols(ctx context.Context) ([]domain.Symbol, error) {
	body, err := httpGet(ctx, b.client, b.baseURL+"/v5/market/instruments-info?category=linear&limit=1000")
	if err != nil {
		return nil, &domain.UpstreamError{Exchange: b.Name(), Err: err}
	}

	var result struct {
		RetCode int    `json:"retCode"`
		RetMsg  string `json:"retMsg"`
		Result  struct {
			List []struct {
				Symbol       string `json:"symbol"`
				BaseCoin     string `json:"baseCoin"`
				QuoteCoin    string `json:"quoteCoin"`
				Status       string `json:"status"`
				ContractType string `json:"contractType"`
			} `json:"list"`
		} `json:"result"`
	}

	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &domain.UpstreamError{Exchange: b.Name(), Err: err}
	}
	if result.RetCode != 0 {
		return nil, &domain.UpstreamError{Exchange: b.Name(), Err: fmt.Errorf("bybit api error: %s", result.RetMsg)}
	}

	var symbols []domain.Symbol
	for _, item := range result.Result.List {
		if item.Status != "Trading" || item.QuoteCoin != "USDT" {
			continue
		}
		if bybitDatedContract.MatchString(item.Symbol) {
			continue
		}
		symbols = append(symbols, domain.Symbol{
			Symbol:       item.Symbol,
			BaseAsset:    item.BaseCoin,
			QuoteAsset:   item.QuoteCoin,
			Exchange:     b.Name(),
			ContractType: item.ContractType,
		})
	}

	SortSymbols(symbols)
	return symbols, nil
}

func (b *BybitAdapter) GetCurrentPrice(ctx context.Context, symbol string) (float64, error) {
	body, err := httpGet(ctx, b.client, b.baseURL+"/v5/market/tickers?category=linear&symbol="+symbol)
	if err != nil {
		return 0, &domain.UpstreamError{Exchange: b.Name(), Symbol: symbol, Err: err}
	}

	var result struct {
		RetCode int `json:"retCode"`
		Result  struct {
			List []struct {
				LastPrice string `json:"lastPrice"`
			} `json:"list"`
		} `json:"result"`
	}

	if err := json.Unmarshal(body, &result); err != nil {
		return 0, &domain.UpstreamError{Exchange: b.Name(), Symbol: symbol, Err: err}
	}
	if len(result.Result.List) == 0 {
		return 0, &domain.UpstreamError{Exchange: b.Name(), Symbol: symbol, Err: errSymbolNotFound}
	}

	price, err := strconv.ParseFloat(result.Result.List[0].LastPrice, 64)
	if err != nil {
		return 0, &domain.UpstreamError{Exchange: b.Name(), Symbol: symbol, Err: err}
	}
	return price, nil
}
