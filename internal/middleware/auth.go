package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/choreboard/choreboard/internal/auth"
	"github.com/choreboard/choreboard/internal/store"
)

// RequireSession resolves the current user from the session store and
// injects it into the request context. Without a session everything behind
// it answers 401; the client is expected to fall back to the login surface.
func RequireSession(sessions *store.SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := sessions.Current()
			if err != nil {
				unauthorized(w)
				return
			}
			if user == nil {
				unauthorized(w)
				return
			}

			s := auth.Session{
				UserID:  user.ID,
				Name:    user.Name,
				IsAdmin: user.IsAdmin,
			}
			next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), s)))
		})
	}
}

// RequireAdmin gates admin-only routes. Admin checks live here at the HTTP
// layer; the ledger store itself stays unguarded.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !auth.IsAdmin(r.Context()) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{"error": "admin only"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "not logged in"})
}
