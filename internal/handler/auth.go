package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/choreboard/choreboard/internal/auth"
	"github.com/choreboard/choreboard/internal/model"
	"github.com/choreboard/choreboard/internal/store"
)

type AuthHandler struct {
	ledger   *store.LedgerStore
	sessions *store.SessionStore
	logger   *slog.Logger
}

func NewAuthHandler(ledger *store.LedgerStore, sessions *store.SessionStore, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{ledger: ledger, sessions: sessions, logger: logger}
}

type loginRequest struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"isAdmin"`
}

// Login is both signup and login: there are no credentials to check. A
// first-ever login seeds the household; a known email reuses its existing
// user, and an unknown one joins the ledger.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "email is required"})
		return
	}

	user := h.resolveUser(req)

	seeded, err := h.ledger.Seed(user)
	if err != nil {
		h.logger.Error("seed ledger", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to initialize household"})
		return
	}
	if !seeded {
		if _, err := h.ledger.AddUser(user); err != nil {
			h.logger.Error("add user", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to join household"})
			return
		}
	}

	if err := h.sessions.SignIn(user); err != nil {
		h.logger.Error("sign in", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to start session"})
		return
	}

	h.logger.Info("signed in", "user", user.ID, "admin", user.IsAdmin, "seeded", seeded)
	writeJSON(w, http.StatusOK, user)
}

// resolveUser reuses the ledger user with a matching email when one exists,
// so a returning browser does not mint a duplicate roommate per login.
func (h *AuthHandler) resolveUser(req loginRequest) model.User {
	for _, u := range h.ledger.Users() {
		if u.Email == req.Email {
			return u
		}
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = req.Email
		if at := strings.Index(req.Email, "@"); at >= 0 {
			name = req.Email[:at]
		}
	}
	return model.User{
		ID:      strconv.FormatInt(time.Now().UnixMilli(), 10),
		Name:    name,
		Email:   req.Email,
		IsAdmin: req.IsAdmin,
	}
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.SignOut(); err != nil {
		h.logger.Error("sign out", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to end session"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Session returns the acting user, for clients restoring state on load.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	s, _ := auth.FromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"id":      s.UserID,
		"name":    s.Name,
		"isAdmin": s.IsAdmin,
	})
}
