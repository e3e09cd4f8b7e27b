package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"futures-risk-calc/internal/domain"
)

const (
	DefaultSymbolTTL = 300 * time.Second
	DefaultPriceTTL  = 30 * time.Second

	// DefaultSearchLimit bounds symbol search responses.
	DefaultSearchLimit = 500

	// MaxBatchSymbols bounds one batch price request.
	MaxBatchSymbols = 10
)

// ErrTooManySymbols is returned when a batch price request exceeds MaxBatchSymbols.
var ErrTooManySymbols = fmt.Errorf("at most %d symbols per batch request", MaxBatchSymbols)

// AdapterRegistry resolves an exchange identifier to its adapter.
type AdapterRegistry interface {
	Get(exchange string) (domain.ExchangeAdapter, error)
}

type cachedSymbols struct {
	symbols []domain.Symbol
	expiry  time.Time
}

type cachedPrice struct {
	price  float64
	expiry time.Time
}

// MarketService serves symbol lists and prices through a TTL cache so that
// upstream venues are not hammered. Failures are never cached; an expired or
// absent entry triggers a fresh fetch on the next call. Concurrent misses on
// the same key may each fetch upstream, which is acceptable within the TTL.
type MarketService struct {
	registry    AdapterRegistry
	symbolTTL   time.Duration
	priceTTL    time.Duration
	symbolCache map[string]cachedSymbols
	priceCache  map[string]cachedPrice
	mu          sync.Mutex
	timeNow     func() time.Time // For testing
	logger      *zap.Logger
}

func NewMarketService(registry AdapterRegistry, symbolTTL, priceTTL time.Duration, logger *zap.Logger) *MarketService {
	if symbolTTL <= 0 {
		symbolTTL = DefaultSymbolTTL
	}
	if priceTTL <= 0 {
		priceTTL = DefaultPriceTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MarketService{
		registry:    registry,
		symbolTTL:   symbolTTL,
		priceTTL:    priceTTL,
		symbolCache: make(map[string]cachedSymbols),
		priceCache:  make(map[string]cachedPrice),
		timeNow:     time.Now,
		logger:      logger,
	}
}

// Exchanges returns the fixed venue catalog.
func (s *MarketService) Exchanges() []domain.ExchangeInfo {
	return domain.SupportedExchanges()
}

// ListSymbols returns the USDT perpetual catalog for one venue, cached per
// exchange for the symbol TTL.
func (s *MarketService) ListSymbols(ctx context.Context, exchange string) ([]domain.Symbol, error) {
	s.mu.Lock()
	entry, ok := s.symbolCache[exchange]
	now := s.timeNow()
	s.mu.Unlock()

	if ok && now.Before(entry.expiry) {
		return entry.symbols, nil
	}

	adapter, err := s.registry.Get(exchange)
	if err != nil {
		return nil, err
	}

	symbols, err := adapter.ListSymbols(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.symbolCache[exchange] = cachedSymbols{symbols: symbols, expiry: s.timeNow().Add(s.symbolTTL)}
	s.mu.Unlock()

	return symbols, nil
}

// SearchSymbols filters a venue's symbol list. Exact matches on the base
// asset (or base+USDT) come first, then case-insensitive partial matches,
// each partition keeping its original relative order. The result is cut to
// limit after partitioning.
func (s *MarketService) SearchSymbols(ctx context.Context, exchange, search string, limit int) ([]domain.Symbol, error) {
	symbols, err := s.ListSymbols(ctx, exchange)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	if search == "" {
		if len(symbols) > limit {
			return symbols[:limit], nil
		}
		return symbols, nil
	}

	query := strings.ToUpper(search)
	var exact, partial []domain.Symbol
	for _, sym := range symbols {
		if sym.BaseAsset == query || sym.Symbol == query+"USDT" {
			exact = append(exact, sym)
			continue
		}
		if strings.Contains(strings.ToUpper(sym.Symbol), query) ||
			strings.Contains(strings.ToUpper(sym.BaseAsset), query) {
			partial = append(partial, sym)
		}
	}

	matched := append(exact, partial...)
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// GetCurrentPrice returns the last price for (exchange, symbol), cached for
// the price TTL.
func (s *MarketService) GetCurrentPrice(ctx context.Context, exchange, symbol string) (float64, error) {
	key := exchange + ":" + symbol

	s.mu.Lock()
	entry, ok := s.priceCache[key]
	now := s.timeNow()
	s.mu.Unlock()

	if ok && now.Before(entry.expiry) {
		return entry.price, nil
	}

	adapter, err := s.registry.Get(exchange)
	if err != nil {
		return 0, err
	}

	price, err := adapter.GetCurrentPrice(ctx, symbol)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	s.priceCache[key] = cachedPrice{price: price, expiry: s.timeNow().Add(s.priceTTL)}
	s.mu.Unlock()

	return price, nil
}

// GetQuote wraps GetCurrentPrice into a timestamped quote.
func (s *MarketService) GetQuote(ctx context.Context, exchange, symbol string) (*domain.PriceQuote, error) {
	price, err := s.GetCurrentPrice(ctx, exchange, symbol)
	if err != nil {
		return nil, err
	}
	return &domain.PriceQuote{
		Exchange:  exchange,
		Symbol:    symbol,
		Price:     price,
		Timestamp: s.timeNow(),
	}, nil
}

// BatchPriceResult is one entry of a batch price lookup. One symbol failing
// upstream does not fail its siblings.
type BatchPriceResult struct {
	Symbol  string  `json:"symbol"`
	Price   float64 `json:"price,omitempty"`
	Error   string  `json:"error,omitempty"`
	Success bool    `json:"success"`
}

// GetMultiplePrices looks up prices for up to MaxBatchSymbols symbols on one
// venue, isolating per-symbol failures.
func (s *MarketService) GetMultiplePrices(ctx context.Context, exchange string, symbols []string) ([]BatchPriceResult, error) {
	if len(symbols) > MaxBatchSymbols {
		return nil, ErrTooManySymbols
	}
	if _, err := s.registry.Get(exchange); err != nil {
		return nil, err
	}

	results := make([]BatchPriceResult, 0, len(symbols))
	for _, symbol := range symbols {
		price, err := s.GetCurrentPrice(ctx, exchange, symbol)
		if err != nil {
			s.logger.Warn("Batch price lookup failed",
				zap.String("exchange", exchange),
				zap.String("symbol", symbol),
				zap.Error(err))
			results = append(results, BatchPriceResult{
				Symbol:  symbol,
				Error:   upstreamMessage(exchange, err),
				Success: false,
			})
			continue
		}
		results = append(results, BatchPriceResult{Symbol: symbol, Price: price, Success: true})
	}
	return results, nil
}

// upstreamMessage keeps the user-facing text generic; the original error
// detail goes to the log only.
func upstreamMessage(exchange string, err error) string {
	var upstream *domain.UpstreamError
	if errors.As(err, &upstream) {
		return fmt.Sprintf("failed to fetch data from %s", exchange)
	}
	return err.Error()
}
