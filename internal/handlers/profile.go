package handlers

import (
	"net/http"
	"net/url"

	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"luminapay/internal/auth"
	apperrors "luminapay/internal/errors"
)

// ProfileHandler serves the logged-in profile and its receive QR code.
type ProfileHandler struct {
	sessions *auth.SessionManager
	logger   *zap.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(sessions *auth.SessionManager, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{sessions: sessions, logger: ensureLogger(logger)}
}

// Get returns the stored profile. An undecodable blob means the stored
// session is unusable; the caller is told to log in again.
// GET /profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := h.sessions.LoadProfile()
	if err != nil {
		if apperrors.IsValidation(err) {
			respondError(w, h.logger, err)
			return
		}
		h.logger.Debug("profile blob unusable", zap.Error(err))
		respondError(w, h.logger, apperrors.Unauthorized("please log in again"))
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// QR renders the receive-money QR code as a PNG. The payload is a
// standard payment URI carrying the user's address and display name.
// GET /profile/qr
func (h *ProfileHandler) QR(w http.ResponseWriter, r *http.Request) {
	profile, err := h.sessions.LoadProfile()
	if err != nil {
		respondError(w, h.logger, apperrors.Unauthorized("please log in again"))
		return
	}

	payload := "upi://pay?pa=" + url.QueryEscape(profile.PaymentAddress) +
		"&pn=" + url.QueryEscape(profile.Name)
	png, err := qrcode.Encode(payload, qrcode.Medium, 256)
	if err != nil {
		respondError(w, h.logger, apperrors.Internal("rendering QR code", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
