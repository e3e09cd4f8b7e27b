package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"futures-risk-calc/internal/domain"
)

// MockAdapter for MarketService
type MockAdapter struct {
	name        string
	symbols     []domain.Symbol
	prices      map[string]float64
	failSymbols map[string]bool
	listErr     error

	listCalls  int
	priceCalls int
}

func (m *MockAdapter) Name() string { return m.name }

func (m *MockAdapter) ListSymbols(ctx context.Context) ([]domain.Symbol, error) {
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.symbols, nil
}

func (m *MockAdapter) GetCurrentPrice(ctx context.Context, symbol string) (float64, error) {
	m.priceCalls++
	if m.failSymbols[symbol] {
		return 0, &domain.UpstreamError{Exchange: m.name, Symbol: symbol, Err: fmt.Errorf("boom")}
	}
	price, ok := m.prices[symbol]
	if !ok {
		return 0, &domain.UpstreamError{Exchange: m.name, Symbol: symbol, Err: fmt.Errorf("symbol not found")}
	}
	return price, nil
}

type mockRegistry struct {
	adapters map[string]domain.ExchangeAdapter
}

func (r *mockRegistry) Get(exchange string) (domain.ExchangeAdapter, error) {
	a, ok := r.adapters[exchange]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedExchange, exchange)
	}
	return a, nil
}

func newTestService(adapter *MockAdapter) *MarketService {
	registry := &mockRegistry{adapters: map[string]domain.ExchangeAdapter{adapter.name: adapter}}
	return NewMarketService(registry, 0, 0, nil)
}

func sym(exchange, base string) domain.Symbol {
	return domain.Symbol{
		Symbol:     base + "USDT",
		BaseAsset:  base,
		QuoteAsset: "USDT",
		Exchange:   exchange,
	}
}

func TestMarketService_PriceCacheTTL(t *testing.T) {
	adapter := &MockAdapter{name: "bybit", prices: map[string]float64{"BTCUSDT": 50000}}
	service := newTestService(adapter)

	currentTime := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	service.timeNow = func() time.Time { return currentTime }

	ctx := context.Background()

	// Two lookups inside the TTL hit upstream once.
	for i := 0; i < 2; i++ {
		price, err := service.GetCurrentPrice(ctx, "bybit", "BTCUSDT")
		if err != nil {
			t.Fatalf("GetCurrentPrice failed: %v", err)
		}
		if price != 50000 {
			t.Errorf("Expected price 50000, got %v", price)
		}
	}
	if adapter.priceCalls != 1 {
		t.Errorf("Expected 1 upstream call, got %d", adapter.priceCalls)
	}

	// Past the 30s TTL the entry is treated as absent.
	currentTime = currentTime.Add(31 * time.Second)
	adapter.prices["BTCUSDT"] = 51000

	price, err := service.GetCurrentPrice(ctx, "bybit", "BTCUSDT")
	if err != nil {
		t.Fatalf("GetCurrentPrice failed: %v", err)
	}
	if price != 51000 {
		t.Errorf("Expected refreshed price 51000, got %v", price)
	}
	if adapter.priceCalls != 2 {
		t.Errorf("Expected 2 upstream calls, got %d", adapter.priceCalls)
	}
}

func TestMarketService_SymbolCacheTTL(t *testing.T) {
	adapter := &MockAdapter{name: "bybit", symbols: []domain.Symbol{sym("bybit", "BTC")}}
	service := newTestService(adapter)

	currentTime := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	service.timeNow = func() time.Time { return currentTime }

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := service.ListSymbols(ctx, "bybit"); err != nil {
			t.Fatalf("ListSymbols failed: %v", err)
		}
	}
	if adapter.listCalls != 1 {
		t.Errorf("Expected 1 upstream call, got %d", adapter.listCalls)
	}

	currentTime = currentTime.Add(301 * time.Second)
	if _, err := service.ListSymbols(ctx, "bybit"); err != nil {
		t.Fatalf("ListSymbols failed: %v", err)
	}
	if adapter.listCalls != 2 {
		t.Errorf("Expected refetch after TTL, got %d calls", adapter.listCalls)
	}
}

func TestMarketService_FailuresNotCached(t *testing.T) {
	adapter := &MockAdapter{name: "bybit", failSymbols: map[string]bool{"BTCUSDT": true}}
	service := newTestService(adapter)
	ctx := context.Background()

	if _, err := service.GetCurrentPrice(ctx, "bybit", "BTCUSDT"); err == nil {
		t.Fatal("Expected upstream error")
	}

	// The failure must not be cached; the next call retries upstream.
	adapter.failSymbols["BTCUSDT"] = false
	adapter.prices = map[string]float64{"BTCUSDT": 42000}

	price, err := service.GetCurrentPrice(ctx, "bybit", "BTCUSDT")
	if err != nil {
		t.Fatalf("Expected retry to succeed, got %v", err)
	}
	if price != 42000 {
		t.Errorf("Expected price 42000, got %v", price)
	}
	if adapter.priceCalls != 2 {
		t.Errorf("Expected 2 upstream calls, got %d", adapter.priceCalls)
	}
}

func TestMarketService_UnsupportedExchange(t *testing.T) {
	adapter := &MockAdapter{name: "bybit"}
	service := newTestService(adapter)

	_, err := service.ListSymbols(context.Background(), "kraken")
	if err == nil {
		t.Fatal("Expected error for unsupported exchange")
	}
}

func TestMarketService_SearchPartition(t *testing.T) {
	adapter := &MockAdapter{name: "bybit", symbols: []domain.Symbol{
		sym("bybit", "AAA"),
		sym("bybit", "TBTC"),
		sym("bybit", "BTC"),
		sym("bybit", "WBTC"),
	}}
	service := newTestService(adapter)

	results, err := service.SearchSymbols(context.Background(), "bybit", "btc", 0)
	if err != nil {
		t.Fatalf("SearchSymbols failed: %v", err)
	}

	want := []string{"BTCUSDT", "TBTCUSDT", "WBTCUSDT"}
	if len(results) != len(want) {
		t.Fatalf("Expected %d results, got %d", len(want), len(results))
	}
	for i, w := range want {
		if results[i].Symbol != w {
			t.Errorf("Result %d: expected %s, got %s", i, w, results[i].Symbol)
		}
	}
}

func TestMarketService_SearchLimit(t *testing.T) {
	adapter := &MockAdapter{name: "bybit", symbols: []domain.Symbol{
		sym("bybit", "BTC"),
		sym("bybit", "ETH"),
		sym("bybit", "SOL"),
	}}
	service := newTestService(adapter)

	results, err := service.SearchSymbols(context.Background(), "bybit", "", 2)
	if err != nil {
		t.Fatalf("SearchSymbols failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("Expected 2 results, got %d", len(results))
	}
}

func TestMarketService_BatchPartialFailure(t *testing.T) {
	adapter := &MockAdapter{
		name:        "bybit",
		prices:      map[string]float64{"BTCUSDT": 50000, "ETHUSDT": 3000},
		failSymbols: map[string]bool{"XXXUSDT": true},
	}
	service := newTestService(adapter)

	results, err := service.GetMultiplePrices(context.Background(), "bybit", []string{"BTCUSDT", "XXXUSDT", "ETHUSDT"})
	if err != nil {
		t.Fatalf("GetMultiplePrices failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}

	var failures int
	for _, r := range results {
		if !r.Success {
			failures++
			if r.Symbol != "XXXUSDT" {
				t.Errorf("Unexpected failing symbol %s", r.Symbol)
			}
			if r.Error != "failed to fetch data from bybit" {
				t.Errorf("Expected generic upstream message, got %q", r.Error)
			}
		}
	}
	if failures != 1 {
		t.Errorf("Expected exactly 1 failure, got %d", failures)
	}
}

func TestMarketService_BatchTooManySymbols(t *testing.T) {
	adapter := &MockAdapter{name: "bybit"}
	service := newTestService(adapter)

	symbols := make([]string, MaxBatchSymbols+1)
	for i := range symbols {
		symbols[i] = fmt.Sprintf("S%dUSDT", i)
	}

	if _, err := service.GetMultiplePrices(context.Background(), "bybit", symbols); err == nil {
		t.Fatal("Expected batch size error")
	}
}
