package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"luminapay/internal/assist"
	"luminapay/internal/auth"
	apperrors "luminapay/internal/errors"
	"luminapay/internal/flow"
	"luminapay/internal/market"
	"luminapay/internal/models"
	"luminapay/internal/portfolio"
	"luminapay/internal/wallet"
)

// contextTransactions caps how much ledger history is serialized into
// the support-chat context.
const contextTransactions = 10

// AssistHandler exposes intent parsing and the support chat. A nil
// client means the assistant is not configured; both endpoints then
// answer as a remote-service failure.
type AssistHandler struct {
	client   *assist.Client
	engine   *flow.Engine
	wallet   *wallet.Wallet
	market   *market.Engine
	holdings *portfolio.Holdings
	sessions *auth.SessionManager
	logger   *zap.Logger
}

// NewAssistHandler creates a new AssistHandler.
func NewAssistHandler(client *assist.Client, engine *flow.Engine, w *wallet.Wallet,
	m *market.Engine, h *portfolio.Holdings, sessions *auth.SessionManager, logger *zap.Logger) *AssistHandler {
	return &AssistHandler{
		client:   client,
		engine:   engine,
		wallet:   w,
		market:   m,
		holdings: h,
		sessions: sessions,
		logger:   ensureLogger(logger),
	}
}

// ParseIntent turns a free-text instruction into a pre-filled payment
// flow. On failure the flow is left untouched and the user stays where
// they are.
// POST /assist/intent
func (h *AssistHandler) ParseIntent(w http.ResponseWriter, r *http.Request) {
	if h.client == nil {
		respondError(w, h.logger, apperrors.RemoteService("assistant is not configured", nil))
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}
	if req.Text == "" {
		respondError(w, h.logger, apperrors.ValidationField("text", "say what you want to pay"))
		return
	}

	intent, err := h.client.ParseIntent(r.Context(), req.Text)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	recipient := intent.RecipientName
	if intent.PaymentAddress != "" {
		recipient = intent.PaymentAddress
	}
	amount := ""
	if intent.Amount > 0 {
		amount = strconv.FormatFloat(intent.Amount, 'f', -1, 64)
	}

	snap, err := h.engine.Initiate(flow.Initiation{
		Kind:       flow.KindPayment,
		Recipient:  recipient,
		Amount:     amount,
		Note:       intent.Note,
		Recurrence: intent.Recurrence,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"intent": intent, "flow": snap})
}

// Chat answers one support message. The model sees a snapshot of the
// user's world so it can answer balance, ledger and market questions.
// POST /assist/chat
func (h *AssistHandler) Chat(w http.ResponseWriter, r *http.Request) {
	if h.client == nil {
		respondError(w, h.logger, apperrors.RemoteService("assistant is not configured", nil))
		return
	}

	var req struct {
		Message string               `json:"message"`
		History []models.ChatMessage `json:"history"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}
	if req.Message == "" {
		respondError(w, h.logger, apperrors.ValidationField("message", "message is required"))
		return
	}

	reply := h.client.SupportReply(r.Context(), req.History, h.contextBlob(), req.Message)
	respondJSON(w, http.StatusOK, models.ChatMessage{Role: "model", Text: reply})
}

// contextBlob serializes the user's current state for the support
// model: profile, balance, recent ledger, market prices and holdings.
func (h *AssistHandler) contextBlob() string {
	blob := map[string]any{
		"balance":      h.wallet.Balance(),
		"transactions": h.wallet.Recent(contextTransactions),
		"market":       h.market.Stocks(),
		"holdings":     h.holdings.List(),
		"valuation":    h.holdings.Value(h.market.Price),
	}
	if profile, err := h.sessions.LoadProfile(); err == nil {
		blob["profile"] = profile
	}

	raw, err := json.Marshal(blob)
	if err != nil {
		h.logger.Warn("serializing chat context", zap.Error(err))
		return "{}"
	}
	return string(raw)
}
