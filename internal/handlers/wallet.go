package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"luminapay/internal/wallet"
)

// WalletHandler serves the balance and the transaction ledger.
type WalletHandler struct {
	wallet *wallet.Wallet
	logger *zap.Logger
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(w *wallet.Wallet, logger *zap.Logger) *WalletHandler {
	return &WalletHandler{wallet: w, logger: ensureLogger(logger)}
}

// Balance returns the current wallet balance.
// GET /wallet/balance
func (h *WalletHandler) Balance(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]float64{"balance": h.wallet.Balance()})
}

// Transactions returns the ledger, most recent first. An optional
// limit query caps the count.
// GET /wallet/transactions?limit=N
func (h *WalletHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			respondJSON(w, http.StatusOK, h.wallet.Recent(n))
			return
		}
	}
	respondJSON(w, http.StatusOK, h.wallet.Transactions())
}
