package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"futures-risk-calc/internal/domain"
)

const streamInterval = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handlePriceStream pushes the cached price for one symbol to the client on
// a fixed interval, so the calculator UI can recalculate continuously without
// polling. Transient upstream failures are logged and skipped; the stream
// ends when the client disconnects or the exchange is unsupported.
func (s *Server) handlePriceStream(w http.ResponseWriter, r *http.Request) {
	exchange := r.PathValue("exchange")
	symbol := r.PathValue("symbol")

	if !domain.IsSupportedExchange(exchange) {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unsupported exchange: " + exchange})
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("WS upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(streamInterval)
	defer ticker.Stop()

	for {
		quote, err := s.market.GetQuote(r.Context(), exchange, symbol)
		if err != nil {
			var upstream *domain.UpstreamError
			if errors.As(err, &upstream) {
				s.logger.Warn("Price stream fetch failed",
					zap.String("exchange", exchange),
					zap.String("symbol", symbol),
					zap.Error(upstream.Err))
			} else {
				return
			}
		} else if err := conn.WriteJSON(quote); err != nil {
			return
		}

		select {
		case <-ticker.C:
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}
