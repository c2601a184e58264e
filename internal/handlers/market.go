package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "luminapay/internal/errors"
	"luminapay/internal/market"
)

// MarketHandler serves the simulated stock universe.
type MarketHandler struct {
	engine *market.Engine
	logger *zap.Logger
}

// NewMarketHandler creates a new MarketHandler.
func NewMarketHandler(engine *market.Engine, logger *zap.Logger) *MarketHandler {
	return &MarketHandler{engine: engine, logger: ensureLogger(logger)}
}

// List returns every instrument with its price history.
// GET /market/stocks
func (h *MarketHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.engine.Stocks())
}

// Get returns one instrument by symbol.
// GET /market/stocks/{symbol}
func (h *MarketHandler) Get(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(chi.URLParam(r, "symbol"))
	stock, ok := h.engine.Get(symbol)
	if !ok {
		respondError(w, h.logger, apperrors.NotFound("stock "+symbol))
		return
	}
	respondJSON(w, http.StatusOK, stock)
}

// Status reports whether the exchange session is open right now.
// GET /market/status
func (h *MarketHandler) Status(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, market.StatusAt(time.Now()))
}
