package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"luminapay/internal/auth"
	"luminapay/internal/middleware"
	"luminapay/internal/validate"
)

// AuthHandler drives the four-step login and logout.
type AuthHandler struct {
	login    *auth.LoginFlow
	sessions *auth.SessionManager
	logger   *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(login *auth.LoginFlow, sessions *auth.SessionManager, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{login: login, sessions: sessions, logger: ensureLogger(logger)}
}

// Step reports the current login step.
// GET /auth/step
func (h *AuthHandler) Step(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"step": h.login.Step()})
}

// SubmitPhone starts the login with a mobile number.
// POST /auth/phone
func (h *AuthHandler) SubmitPhone(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phone string `json:"phone"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	if err := h.login.SubmitPhone(r.Context(), req.Phone); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"step": h.login.Step(),
		"sent": "OTP sent to " + validate.MaskPhone(validate.NormalizePhone(req.Phone)),
	})
}

// VerifyPhoneOTP verifies the mobile OTP.
// POST /auth/phone/otp
func (h *AuthHandler) VerifyPhoneOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OTP string `json:"otp"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	if err := h.login.VerifyPhoneOTP(r.Context(), req.OTP); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"step": h.login.Step()})
}

// SubmitEmail records the email and sends the second OTP.
// POST /auth/email
func (h *AuthHandler) SubmitEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	if err := h.login.SubmitEmail(r.Context(), req.Email); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"step": h.login.Step(),
		"sent": "OTP sent to " + validate.MaskEmail(req.Email),
	})
}

// VerifyEmailOTP completes the login: the profile is built, sealed into
// the session blob, and a session cookie is issued.
// POST /auth/email/otp
func (h *AuthHandler) VerifyEmailOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OTP string `json:"otp"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	profile, err := h.login.VerifyEmailOTP(r.Context(), req.OTP)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	if err := h.sessions.SaveProfile(profile); err != nil {
		respondError(w, h.logger, err)
		return
	}
	session, err := h.sessions.Create()
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	middleware.SetSessionCookie(w, session.ID, int(auth.DefaultSessionDuration.Seconds()))
	h.logger.Info("login completed", zap.String("payment_address", profile.PaymentAddress))
	respondJSON(w, http.StatusOK, profile)
}

// Logout deletes every session and the stored profile blob.
// POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.DeleteAll(); err != nil {
		respondError(w, h.logger, err)
		return
	}
	if err := h.sessions.ClearProfile(); err != nil {
		respondError(w, h.logger, err)
		return
	}
	h.login.Reset()

	middleware.ClearSessionCookie(w)
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}
