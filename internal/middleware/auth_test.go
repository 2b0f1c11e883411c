package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/choreboard/choreboard/internal/auth"
	"github.com/choreboard/choreboard/internal/database"
	"github.com/choreboard/choreboard/internal/model"
	"github.com/choreboard/choreboard/internal/store"
)

func setupSessionStore(t *testing.T) *store.SessionStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return store.NewSessionStore(store.NewKVStore(db))
}

func TestRequireSessionLoggedOut(t *testing.T) {
	sessions := setupSessionStore(t)

	handler := RequireSession(sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run without a session")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/chores", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireSessionPopulatesContext(t *testing.T) {
	sessions := setupSessionStore(t)
	user := model.User{ID: "u1", Name: "alex", Email: "alex@example.com", IsAdmin: true}
	if err := sessions.SignIn(user); err != nil {
		t.Fatalf("sign in: %v", err)
	}

	var got auth.Session
	handler := RequireSession(sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.FromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/chores", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got.UserID != "u1" || got.Name != "alex" || !got.IsAdmin {
		t.Errorf("session = %+v", got)
	}
}

func TestRequireAdmin(t *testing.T) {
	var ran bool
	handler := RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ran = true
	}))

	// Non-admin session
	req := httptest.NewRequest("DELETE", "/api/chores/1", nil)
	req = req.WithContext(auth.WithSession(req.Context(), auth.Session{UserID: "u1"}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
	if ran {
		t.Error("handler ran for non-admin")
	}

	// Admin session
	req = httptest.NewRequest("DELETE", "/api/chores/1", nil)
	req = req.WithContext(auth.WithSession(req.Context(), auth.Session{UserID: "u1", IsAdmin: true}))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if !ran {
		t.Error("handler did not run for admin")
	}
}
