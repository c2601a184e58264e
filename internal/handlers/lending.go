package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	apperrors "luminapay/internal/errors"
	"luminapay/internal/flow"
	"luminapay/internal/lending"
)

// LendingHandler drives the instant-loan journey: eligibility, EMI
// quoting and acceptance into the settlement flow.
type LendingHandler struct {
	service *lending.Service
	engine  *flow.Engine
	logger  *zap.Logger
}

// NewLendingHandler creates a new LendingHandler.
func NewLendingHandler(service *lending.Service, engine *flow.Engine, logger *zap.Logger) *LendingHandler {
	return &LendingHandler{service: service, engine: engine, logger: ensureLogger(logger)}
}

// Eligibility runs the simulated bureau check and returns the offer.
// GET /loans/eligibility
func (h *LendingHandler) Eligibility(w http.ResponseWriter, r *http.Request) {
	offer, err := h.service.CheckEligibility(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, offer)
}

// Quote prices a loan amount over a tenure.
// POST /loans/quote
func (h *LendingHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount       float64 `json:"amount"`
		TenureMonths int     `json:"tenure_months"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	quote, err := h.service.QuoteEMI(req.Amount, req.TenureMonths)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, quote)
}

// Accept takes the loan into the settlement flow: the amount is locked
// and the user goes straight to the PIN screen for the disbursal.
// POST /loans/accept
func (h *LendingHandler) Accept(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount       float64 `json:"amount"`
		TenureMonths int     `json:"tenure_months"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	// Re-quote to enforce the offer bounds before locking the amount.
	if _, err := h.service.QuoteEMI(req.Amount, req.TenureMonths); err != nil {
		respondError(w, h.logger, err)
		return
	}

	snap, err := h.engine.Initiate(flow.Initiation{
		Kind:   flow.KindLoan,
		Amount: strconv.FormatFloat(req.Amount, 'f', 2, 64),
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if snap.State != flow.StatePinEntry {
		respondError(w, h.logger, apperrors.New(apperrors.ErrFlowState, "loan flow did not reach PIN entry"))
		return
	}
	respondJSON(w, http.StatusOK, snap)
}
