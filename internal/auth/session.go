// Package auth provides the mock login flow, session management and
// session-blob sealing.
package auth

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "luminapay/internal/errors"
	"luminapay/internal/database"
	"luminapay/internal/models"
)

const (
	// DefaultSessionDuration is the default session lifetime.
	DefaultSessionDuration = 7 * 24 * time.Hour

	// profileBlobName is the fixed key the sealed profile lives under.
	profileBlobName = "lumina_session"
)

var (
	// ErrSessionExpired is returned when a session has expired.
	ErrSessionExpired = errors.New("session expired")

	// ErrSessionNotFound is returned when a session doesn't exist.
	ErrSessionNotFound = errors.New("session not found")
)

// SessionManager handles session records and the sealed profile blob.
type SessionManager struct {
	db        *database.DB
	encryptor *Encryptor
	duration  time.Duration
}

// NewSessionManager creates a new SessionManager.
func NewSessionManager(db *database.DB, encryptor *Encryptor) *SessionManager {
	return &SessionManager{
		db:        db,
		encryptor: encryptor,
		duration:  DefaultSessionDuration,
	}
}

// WithDuration sets a custom session duration.
func (sm *SessionManager) WithDuration(d time.Duration) *SessionManager {
	sm.duration = d
	return sm
}

// Create creates a new session.
func (sm *SessionManager) Create() (*models.Session, error) {
	session := &models.Session{
		ID:        uuid.NewString(),
		ExpiresAt: time.Now().Add(sm.duration),
		CreatedAt: time.Now(),
	}

	_, err := sm.db.Exec(`
		INSERT INTO sessions (id, expires_at, created_at)
		VALUES (?, ?, ?)
	`, session.ID, session.ExpiresAt, session.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	return session, nil
}

// Get retrieves a session by ID. Returns nil if not found.
func (sm *SessionManager) Get(id string) (*models.Session, error) {
	session := &models.Session{}
	err := sm.db.QueryRow(`
		SELECT id, expires_at, created_at FROM sessions WHERE id = ?
	`, id).Scan(&session.ID, &session.ExpiresAt, &session.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting session: %w", err)
	}
	return session, nil
}

// Validate checks that a session exists and has not expired.
func (sm *SessionManager) Validate(id string) error {
	session, err := sm.Get(id)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrSessionNotFound
	}
	if session.IsExpired() {
		sm.Delete(id)
		return ErrSessionExpired
	}
	return nil
}

// Delete removes a session by ID.
func (sm *SessionManager) Delete(id string) error {
	if _, err := sm.db.Exec(`DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// DeleteAll removes every session (logout).
func (sm *SessionManager) DeleteAll() error {
	if _, err := sm.db.Exec(`DELETE FROM sessions`); err != nil {
		return fmt.Errorf("deleting sessions: %w", err)
	}
	return nil
}

// SaveProfile seals the profile and stores it under the fixed blob name.
func (sm *SessionManager) SaveProfile(profile *models.UserProfile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}
	sealed, err := sm.encryptor.Seal(string(raw))
	if err != nil {
		return fmt.Errorf("sealing profile: %w", err)
	}
	return sm.db.SetBlob(profileBlobName, sealed)
}

// LoadProfile opens the stored blob. An absent or undecodable blob is
// reported as ErrSessionDecode; callers treat it as logged out.
func (sm *SessionManager) LoadProfile() (*models.UserProfile, error) {
	sealed, err := sm.db.GetBlob(profileBlobName)
	if err == sql.ErrNoRows {
		return nil, apperrors.New(apperrors.ErrSessionDecode, "no stored session")
	}
	if err != nil {
		return nil, fmt.Errorf("loading profile blob: %w", err)
	}

	raw, err := sm.encryptor.Open(sealed)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrSessionDecode, "undecodable session blob", err)
	}

	var profile models.UserProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrSessionDecode, "corrupt session blob", err)
	}
	return &profile, nil
}

// ClearProfile removes the stored blob.
func (sm *SessionManager) ClearProfile() error {
	return sm.db.DeleteBlob(profileBlobName)
}
