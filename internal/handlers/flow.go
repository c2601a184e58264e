package handlers

import (
	"net/http"

	"go.uber.org/zap"

	apperrors "luminapay/internal/errors"
	"luminapay/internal/flow"
)

// FlowHandler exposes the payment flow state machine over HTTP. One
// flow context exists per session; every mutation returns the fresh
// snapshot so the client never tracks state on its own.
type FlowHandler struct {
	engine *flow.Engine
	logger *zap.Logger
}

// NewFlowHandler creates a new FlowHandler.
func NewFlowHandler(engine *flow.Engine, logger *zap.Logger) *FlowHandler {
	return &FlowHandler{engine: engine, logger: ensureLogger(logger)}
}

// Snapshot returns the current flow context.
// GET /flow
func (h *FlowHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.engine.Snapshot())
}

// Start initiates a flow from any entry point.
// POST /flow/start
func (h *FlowHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind        string `json:"kind"`
		Recipient   string `json:"recipient"`
		Amount      string `json:"amount"`
		Note        string `json:"note"`
		Recurrence  string `json:"recurrence"`
		Category    string `json:"category"`
		StockSymbol string `json:"stock_symbol"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	snap, err := h.engine.Initiate(flow.Initiation{
		Kind:        flow.Kind(req.Kind),
		Recipient:   req.Recipient,
		Amount:      req.Amount,
		Note:        req.Note,
		Recurrence:  req.Recurrence,
		Category:    req.Category,
		StockSymbol: req.StockSymbol,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

// SetAmount updates the pending amount.
// POST /flow/amount
func (h *FlowHandler) SetAmount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount string `json:"amount"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}
	if err := h.engine.SetAmount(req.Amount); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, h.engine.Snapshot())
}

// SetNote updates the free-text note.
// POST /flow/note
func (h *FlowHandler) SetNote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Note string `json:"note"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}
	if err := h.engine.SetNote(req.Note); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, h.engine.Snapshot())
}

// SetSearch records the contact-search text.
// POST /flow/search
func (h *FlowHandler) SetSearch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}
	h.engine.SetSearch(req.Text)
	respondJSON(w, http.StatusOK, h.engine.Snapshot())
}

// Proceed moves from amount entry to PIN entry.
// POST /flow/proceed
func (h *FlowHandler) Proceed(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.Proceed(); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, h.engine.Snapshot())
}

// PressDigit appends one digit to the PIN buffer. Out-of-bound input
// is ignored, mirroring a keypad that simply stops responding.
// POST /flow/pin
func (h *FlowHandler) PressDigit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Digit string `json:"digit"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}
	if len(req.Digit) != 1 {
		respondError(w, h.logger, apperrors.ValidationField("digit", "one digit at a time"))
		return
	}
	h.engine.PressDigit(req.Digit[0])
	respondJSON(w, http.StatusOK, h.engine.Snapshot())
}

// DeleteDigit removes the last PIN digit.
// DELETE /flow/pin
func (h *FlowHandler) DeleteDigit(w http.ResponseWriter, r *http.Request) {
	h.engine.DeleteDigit()
	respondJSON(w, http.StatusOK, h.engine.Snapshot())
}

// Submit confirms the PIN and blocks until the settlement fires, then
// returns its result. Cancelling the request abandons the wait but not
// the settlement; the flow snapshot reflects the outcome either way.
// POST /flow/submit
func (h *FlowHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ch, err := h.engine.Submit()
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	select {
	case <-r.Context().Done():
		respondError(w, h.logger, r.Context().Err())
	case result := <-ch:
		status := http.StatusOK
		if result.Err != nil {
			status = apperrors.HTTPStatus(result.Err)
		}
		respondJSON(w, status, result)
	}
}

// Reset abandons the flow and returns to the home state.
// POST /flow/reset
func (h *FlowHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.engine.Reset()
	respondJSON(w, http.StatusOK, h.engine.Snapshot())
}
