package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"luminapay/internal/banking"
	apperrors "luminapay/internal/errors"
	"luminapay/internal/flow"
	"luminapay/internal/models"
)

// BankingHandler verifies bank details, starts bank transfers and the
// external balance check.
type BankingHandler struct {
	service *banking.Service
	engine  *flow.Engine
	logger  *zap.Logger
}

// NewBankingHandler creates a new BankingHandler.
func NewBankingHandler(service *banking.Service, engine *flow.Engine, logger *zap.Logger) *BankingHandler {
	return &BankingHandler{service: service, engine: engine, logger: ensureLogger(logger)}
}

// VerifyIFSC resolves an IFSC code to its branch.
// POST /bank/verify-ifsc
func (h *BankingHandler) VerifyIFSC(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IFSC string `json:"ifsc"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	verification, err := h.service.VerifyIFSC(r.Context(), strings.ToUpper(strings.TrimSpace(req.IFSC)))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, verification)
}

// Transfer starts a payment flow toward a verified bank account.
// POST /bank/transfer
func (h *BankingHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Account string `json:"account"`
		IFSC    string `json:"ifsc"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}
	if req.Name == "" {
		respondError(w, h.logger, apperrors.ValidationField("name", "account holder name is required"))
		return
	}
	if req.Account == "" {
		respondError(w, h.logger, apperrors.ValidationField("account", "account number is required"))
		return
	}

	snap, err := h.engine.Initiate(flow.Initiation{
		Kind:      flow.KindPayment,
		Recipient: req.Name,
		Note:      "Transfer to Acc: " + req.Account,
		Category:  models.CategoryTransfer,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

// BalanceCheck starts the external bank balance flow; it goes straight
// to PIN entry and settles to the fixed bank balance.
// POST /bank/balance-check
func (h *BankingHandler) BalanceCheck(w http.ResponseWriter, r *http.Request) {
	snap, err := h.engine.Initiate(flow.Initiation{Kind: flow.KindBalance})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}
