package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/choreboard/choreboard/internal/handler"
	"github.com/choreboard/choreboard/internal/middleware"
	"github.com/choreboard/choreboard/internal/store"
	ws "github.com/choreboard/choreboard/internal/websocket"
)

type Server struct {
	ledgerStore  *store.LedgerStore
	sessionStore *store.SessionStore
	hub          *ws.Hub
	authH        *handler.AuthHandler
	choreH       *handler.ChoreHandler
	expenseH     *handler.ExpenseHandler
	roommateH    *handler.RoommateHandler
	settingsH    *handler.SettingsHandler
	dashboardH   *handler.DashboardHandler
	rateLimiter  *middleware.RateLimiter
	logger       *slog.Logger
}

func New(db *sql.DB, logger *slog.Logger) (*Server, error) {
	kv := store.NewKVStore(db)

	ledgerStore, err := store.NewLedgerStore(kv)
	if err != nil {
		return nil, err
	}
	sessionStore := store.NewSessionStore(kv)
	settingsStore := store.NewSettingsStore(kv)

	hub := ws.NewHub(logger.With("component", "websocket"))

	return &Server{
		ledgerStore:  ledgerStore,
		sessionStore: sessionStore,
		hub:          hub,
		authH:        handler.NewAuthHandler(ledgerStore, sessionStore, logger.With("component", "auth")),
		choreH:       handler.NewChoreHandler(ledgerStore, hub, logger.With("component", "chore")),
		expenseH:     handler.NewExpenseHandler(ledgerStore, hub, logger.With("component", "expense")),
		roommateH:    handler.NewRoommateHandler(ledgerStore, hub, logger.With("component", "roommate")),
		settingsH:    handler.NewSettingsHandler(settingsStore, ledgerStore, hub, logger.With("component", "settings")),
		dashboardH:   handler.NewDashboardHandler(ledgerStore, logger.With("component", "dashboard")),
		rateLimiter:  middleware.NewRateLimiter(),
		logger:       logger,
	}, nil
}

// Ledger exposes the ledger store for the backup scheduler.
func (s *Server) Ledger() *store.LedgerStore {
	return s.ledgerStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes
	loginLimit := middleware.RateLimit(s.rateLimiter, 10, time.Minute)
	outerMux.Handle("POST /api/login", loginLimit(http.HandlerFunc(s.authH.Login)))
	outerMux.HandleFunc("GET /health", s.healthHandler)
	outerMux.Handle("GET /metrics", promhttp.Handler())

	// Session-gated routes
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	sessionMiddleware := middleware.RequireSession(s.sessionStore)
	outerMux.Handle("/", sessionMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	admin := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireAdmin(h)
	}

	mux.HandleFunc("POST /api/logout", s.authH.Logout)
	mux.HandleFunc("GET /api/session", s.authH.Session)

	// Chores: anyone may create and complete; only admins may delete.
	// Visibility filtering happens in the list handler.
	mux.HandleFunc("GET /api/chores", s.choreH.List)
	mux.HandleFunc("POST /api/chores", s.choreH.Create)
	mux.HandleFunc("POST /api/chores/{id}/complete", s.choreH.Complete)
	mux.Handle("DELETE /api/chores/{id}", admin(s.choreH.Delete))

	// Expenses: approval and rejection are admin calls.
	mux.HandleFunc("GET /api/expenses", s.expenseH.List)
	mux.HandleFunc("POST /api/expenses", s.expenseH.Create)
	mux.Handle("POST /api/expenses/{id}/approve", admin(s.expenseH.Approve))
	mux.Handle("DELETE /api/expenses/{id}", admin(s.expenseH.Reject))

	// Roommates
	mux.HandleFunc("GET /api/roommates", s.roommateH.List)
	mux.Handle("POST /api/roommates", admin(s.roommateH.Invite))
	mux.Handle("DELETE /api/roommates/{id}", admin(s.roommateH.Remove))

	// Settings surface is admin-only, export included.
	mux.Handle("GET /api/settings", admin(s.settingsH.Get))
	mux.Handle("PUT /api/settings", admin(s.settingsH.Update))
	mux.Handle("GET /api/export", admin(s.settingsH.Export))

	// Dashboard
	mux.HandleFunc("GET /api/dashboard", s.dashboardH.Stats)
	mux.HandleFunc("GET /api/notifications", s.dashboardH.Notifications)

	// WebSocket
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub))
}
