package web

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"futures-risk-calc/internal/domain"
	"futures-risk-calc/internal/usecase"
)

type Server struct {
	router     *http.ServeMux
	server     *http.Server
	market     *usecase.MarketService
	calculator *usecase.Calculator
	history    domain.CalculationRepository
	logger     *zap.Logger
}

func NewServer(
	port int,
	market *usecase.MarketService,
	calculator *usecase.Calculator,
	history domain.CalculationRepository,
	logger *zap.Logger,
) *Server {
	s := &Server{
		router:     http.NewServeMux(),
		market:     market,
		calculator: calculator,
		history:    history,
		logger:     logger,
	}
	s.routes()
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.router,
	}
	return s
}

func (s *Server) routes() {
	// Exchanges
	s.router.HandleFunc("GET /exchanges", s.handleListExchanges)
	s.router.HandleFunc("GET /exchanges/{exchange}/symbols", s.handleListSymbols)
	s.router.HandleFunc("GET /exchanges/{exchange}/price/{symbol}", s.handleGetPrice)
	s.router.HandleFunc("POST /exchanges/{exchange}/prices", s.handleBatchPrices)

	// Calculator
	s.router.HandleFunc("POST /calculator/calculate", s.handleCalculate)
	s.router.HandleFunc("GET /calculator/history", s.handleHistory)

	// Live price stream
	s.router.HandleFunc("GET /ws/price/{exchange}/{symbol}", s.handlePriceStream)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	s.logger.Info("Starting web server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
