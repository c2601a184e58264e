package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	apperrors "luminapay/internal/errors"
	"luminapay/internal/flow"
	"luminapay/internal/fx"
)

// IntlHandler quotes and books international transfers.
type IntlHandler struct {
	engine *flow.Engine
	logger *zap.Logger
}

// NewIntlHandler creates a new IntlHandler.
func NewIntlHandler(engine *flow.Engine, logger *zap.Logger) *IntlHandler {
	return &IntlHandler{engine: engine, logger: ensureLogger(logger)}
}

// Currencies lists the supported foreign currencies.
// GET /intl/currencies
func (h *IntlHandler) Currencies(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, fx.Currencies())
}

// Quote prices a transfer of a foreign amount.
// POST /intl/quote
func (h *IntlHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Currency string  `json:"currency"`
		Amount   float64 `json:"amount"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	quote, err := fx.NewQuote(req.Currency, req.Amount)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, quote)
}

// Book locks a quoted transfer into the settlement flow. The INR total
// (conversion plus platform fee) becomes the debit amount and the flow
// goes straight to the PIN screen.
// POST /intl/book
func (h *IntlHandler) Book(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Currency  string  `json:"currency"`
		Amount    float64 `json:"amount"`
		Recipient string  `json:"recipient"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}
	if req.Recipient == "" {
		respondError(w, h.logger, apperrors.ValidationField("recipient", "recipient is required"))
		return
	}

	quote, err := fx.NewQuote(req.Currency, req.Amount)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	snap, err := h.engine.Initiate(flow.Initiation{
		Kind:      flow.KindIntl,
		Recipient: req.Recipient,
		Amount:    strconv.FormatFloat(quote.TotalINR, 'f', 2, 64),
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"quote": quote, "flow": snap})
}
