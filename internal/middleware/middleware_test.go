package middleware

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"luminapay/internal/auth"
	"luminapay/internal/database"
)

func newTestAuthMiddleware(t *testing.T) (*AuthMiddleware, *auth.SessionManager) {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("creating test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.RunMigrations(); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	encryptor, err := auth.NewEncryptor("test-secret-key-that-is-32-chars!!")
	if err != nil {
		t.Fatalf("creating encryptor: %v", err)
	}
	sm := auth.NewSessionManager(db, encryptor)
	return NewAuthMiddleware(sm), sm
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth_NoCookie(t *testing.T) {
	m, _ := newTestAuthMiddleware(t)
	handler := m.RequireAuth(okHandler())

	req := httptest.NewRequest("GET", "/wallet/balance", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRequireAuth_InvalidSession(t *testing.T) {
	m, _ := newTestAuthMiddleware(t)
	handler := m.RequireAuth(okHandler())

	req := httptest.NewRequest("GET", "/wallet/balance", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "bogus"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	// The bad cookie is cleared on rejection.
	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("invalid session cookie was not cleared")
	}
}

func TestRequireAuth_ValidSession(t *testing.T) {
	m, sm := newTestAuthMiddleware(t)
	handler := m.RequireAuth(okHandler())

	session, err := sm.Create()
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	req := httptest.NewRequest("GET", "/wallet/balance", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: session.ID})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}
