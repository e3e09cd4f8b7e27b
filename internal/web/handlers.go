package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"futures-risk-calc/internal/domain"
	"futures-risk-calc/internal/usecase"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// writeServiceError maps domain errors onto HTTP statuses. Upstream detail
// stays in the log; clients get the generic message.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: validation.Reason, Field: validation.Field})
		return
	}
	if errors.Is(err, domain.ErrUnsupportedExchange) {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var upstream *domain.UpstreamError
	if errors.As(err, &upstream) {
		s.logger.Error("Upstream fetch failed",
			zap.String("exchange", upstream.Exchange),
			zap.String("symbol", upstream.Symbol),
			zap.Error(upstream.Err))
		s.writeJSON(w, http.StatusBadGateway, errorResponse{Error: "failed to fetch data from " + upstream.Exchange})
		return
	}
	if errors.Is(err, domain.ErrDegenerateTrade) {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	s.logger.Error("Request failed", zap.Error(err))
	s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

func (s *Server) handleListExchanges(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.market.Exchanges())
}

func (s *Server) handleListSymbols(w http.ResponseWriter, r *http.Request) {
	exchange := r.PathValue("exchange")
	search := r.URL.Query().Get("search")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = n
	}

	symbols, err := s.market.SearchSymbols(r.Context(), exchange, search, limit)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if symbols == nil {
		symbols = []domain.Symbol{}
	}
	s.writeJSON(w, http.StatusOK, symbols)
}

func (s *Server) handleGetPrice(w http.ResponseWriter, r *http.Request) {
	quote, err := s.market.GetQuote(r.Context(), r.PathValue("exchange"), r.PathValue("symbol"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, quote)
}

func (s *Server) handleBatchPrices(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Symbols []string `json:"symbols"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	results, err := s.market.GetMultiplePrices(r.Context(), r.PathValue("exchange"), req.Symbols)
	if err != nil {
		if errors.Is(err, usecase.ErrTooManySymbols) {
			s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var spec domain.TradeSpecification
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := s.calculator.Validate(&spec); err != nil {
		s.writeServiceError(w, err)
		return
	}

	result, err := s.calculator.Calculate(&spec)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	if s.history != nil {
		rec := &domain.CalculationRecord{
			Exchange:        spec.Exchange,
			Symbol:          spec.Symbol,
			Direction:       spec.Direction,
			EntryPrice:      spec.EntryPrice,
			StopLoss:        spec.StopLoss,
			TargetPrice:     spec.TargetPrice,
			AccountSize:     spec.AccountSize,
			RiskPercent:     spec.RiskPercent,
			PositionSize:    result.PositionSize,
			PositionValue:   result.PositionValue,
			RiskAmount:      result.RiskAmount,
			RewardAmount:    result.RewardAmount,
			RiskRewardRatio: result.RiskRewardRatio,
			RiskLevel:       result.RiskLevel,
			CreatedAt:       time.Now(),
		}
		if err := s.history.SaveCalculation(r.Context(), rec); err != nil {
			// The calculation itself succeeded; history is best effort.
			s.logger.Error("Failed to save calculation", zap.Error(err))
		}
	}

	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.writeJSON(w, http.StatusOK, []*domain.CalculationRecord{})
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	records, err := s.history.ListCalculations(r.Context(), limit)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if records == nil {
		records = []*domain.CalculationRecord{}
	}
	s.writeJSON(w, http.StatusOK, records)
}
