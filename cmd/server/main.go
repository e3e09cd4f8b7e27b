package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"futures-risk-calc/internal/config"
	"futures-risk-calc/internal/infrastructure/exchange"
	"futures-risk-calc/internal/infrastructure/logger"
	"futures-risk-calc/internal/infrastructure/storage"
	"futures-risk-calc/internal/usecase"
	"futures-risk-calc/internal/web"
)

func main() {
	// 1. Load Config
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Init Logger
	log, err := logger.NewLogger(cfg.Logging.Level)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// 3. Init Storage
	store, err := storage.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		log.Fatal("Failed to init sqlite", zap.Error(err))
	}
	defer store.Close()

	// 4. Init Exchange Adapters
	registry := exchange.DefaultRegistry(cfg.BaseURLs())

	// 5. Init Services
	market := usecase.NewMarketService(registry, cfg.SymbolTTL(), cfg.PriceTTL(), log)
	calculator := &usecase.Calculator{MaxRiskPercent: cfg.Calculator.MaxRiskPercent}

	// 6. Init Web Server
	server := web.NewServer(cfg.Server.Port, market, calculator, store, log)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	// 7. Wait for Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("Shutdown error", zap.Error(err))
	}
}
