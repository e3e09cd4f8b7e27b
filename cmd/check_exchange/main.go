package main

import (
	"context"
	"fmt"
	"os"

	"futures-risk-calc/internal/config"
	"futures-risk-calc/internal/infrastructure/exchange"
)

// Probes every supported venue: symbol count, ordering head, BTCUSDT price.
func main() {
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	registry := exchange.DefaultRegistry(cfg.BaseURLs())
	ctx := context.Background()

	for _, name := range []string{"bingx", "bybit", "binance", "bitget"} {
		fmt.Printf("=== %s ===\n", name)

		adapter, err := registry.Get(name)
		if err != nil {
			fmt.Printf("❌ %v\n", err)
			continue
		}

		symbols, err := adapter.ListSymbols(ctx)
		if err != nil {
			fmt.Printf("❌ Failed to list symbols: %v\n", err)
		} else {
			head := symbols
			if len(head) > 5 {
				head = head[:5]
			}
			fmt.Printf("✅ %d symbols, first:", len(symbols))
			for _, s := range head {
				fmt.Printf(" %s", s.Symbol)
			}
			fmt.Println()
		}

		price, err := adapter.GetCurrentPrice(ctx, "BTCUSDT")
		if err != nil {
			fmt.Printf("❌ Failed to get price: %v\n", err)
		} else {
			fmt.Printf("✅ BTCUSDT price: %f\n", price)
		}
	}
}
