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

const BitgetBaseURL = "https://api.bitget.com"

// umcblSuffix marks USDT-margined perpetuals in Bitget's v1 mix API.
const umcblSuffix = "_UMCBL"

type BitgetAdapter struct {
	baseURL string
	client  *http.Client
}

func NewBitgetAdapter(baseURL string) *BitgetAdapter {
	if baseURL == "" {
		baseURL = BitgetBaseURL
	}
	return &BitgetAdapter{
		baseURL: baseURL,
		client:  newHTTPClient(),
	}
}

func (b *BitgetAdapter) Name() string { return "bitget" }

func (b *BitgetAdapter) ListSymbols(ctx context.Context) ([]domain.Symbol, error) {
	body, err := httpGet(ctx, b.client, b.baseURL+"/api/mix/v1/market/contracts?productType=umcbl")
	if err != nil {
		return nil, &domain.UpstreamError{Exchange: b.Name(), Err: err}
	}

	var result struct {
		Code string `json:"code"`
		Msg  string `json:"msg"`
		Data []struct {
			Symbol       string `json:"symbol"`
			SymbolName   string `json:"symbolName"`
			BaseCoin     string `json:"baseCoin"`
			QuoteCoin    string `json:"quoteCoin"`
			SymbolType   string `json:"symbolType"`
			SymbolStatus string `json:"symbolStatus"`
		} `json:"data"`
	}

	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &domain.UpstreamError{Exchange: b.Name(), Err: err}
	}
	if result.Code != "" && result.Code != "00000" {
		return nil, &domain.UpstreamError{Exchange: b.Name(), Err: fmt.Errorf("bitget api error %s: %s", result.Code, result.Msg)}
	}

	var symbols []domain.Symbol
	for _, item := range result.Data {
		if item.QuoteCoin != "USDT" || item.SymbolType != "perpetual" || item.SymbolStatus != "normal" {
			continue
		}
		if !strings.HasSuffix(item.Symbol, umcblSuffix) {
			continue
		}
		// symbolName is the human-readable form, e.g. BTCUSDT for BTCUSDT_UMCBL.
		symbols = append(symbols, domain.Symbol{
			Symbol:       item.SymbolName,
			BaseAsset:    item.BaseCoin,
			QuoteAsset:   item.QuoteCoin,
			Exchange:     b.Name(),
			ContractType: item.SymbolType,
		})
	}

	SortSymbols(symbols)
	return symbols, nil
}

func (b *BitgetAdapter) GetCurrentPrice(ctx context.Context, symbol string) (float64, error) {
	url := b.baseURL + "/api/mix/v1/market/ticker?symbol=" + symbol + umcblSuffix
	body, err := httpGet(ctx, b.client, url)
	if err != nil {
		return 0, &domain.UpstreamError{Exchange: b.Name(), Symbol: symbol, Err: err}
	}

	var result struct {
		Code string `json:"code"`
		Msg  string `json:"msg"`
		Data struct {
			Last string `json:"last"`
		} `json:"data"`
	}

	if err := json.Unmarshal(body, &result); err != nil {
		return 0, &domain.UpstreamError{Exchange: b.Name(), Symbol: symbol, Err: err}
	}
	if result.Code != "" && result.Code != "00000" {
		return 0, &domain.UpstreamError{Exchange: b.Name(), Symbol: symbol, Err: fmt.Errorf("bitget api error %s: %s", result.Code, result.Msg)}
	}
	if result.Data.Last == "" {
		return 0, &domain.UpstreamError{Exchange: b.Name(), Symbol: symbol, Err: fmt.Errorf("missing price field")}
	}

	price, err := strconv.ParseFloat(result.Data.Last, 64)
	if err != nil {
		return 0, &domain.UpstreamError{Exchange: b.Name(), Symbol: symbol, Err: err}
	}
	return price, nil
}
