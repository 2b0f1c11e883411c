package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/choreboard/choreboard/internal/auth"
	"github.com/choreboard/choreboard/internal/metrics"
	"github.com/choreboard/choreboard/internal/model"
	"github.com/choreboard/choreboard/internal/store"
	"github.com/choreboard/choreboard/internal/websocket"
)

type RoommateHandler struct {
	ledger *store.LedgerStore
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewRoommateHandler(ls *store.LedgerStore, hub *websocket.Hub, logger *slog.Logger) *RoommateHandler {
	return &RoommateHandler{ledger: ls, hub: hub, logger: logger}
}

func (h *RoommateHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

func (h *RoommateHandler) List(w http.ResponseWriter, r *http.Request) {
	users := h.ledger.Users()
	if users == nil {
		users = []model.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *RoommateHandler) Invite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	user, err := h.ledger.InviteRoommate(req.Email)
	if err != nil {
		h.logger.Error("invite roommate", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to invite roommate"})
		return
	}
	metrics.RecordOperation("roommate", "invite", user != nil)
	if user == nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "email is required"})
		return
	}

	h.broadcast(websocket.NewMessage("roommate", "invited", user.ID))
	writeJSON(w, http.StatusCreated, user)
}

// Remove deletes a roommate. The store refuses to remove the acting user,
// so removing yourself reads as changed=false rather than an error.
func (h *RoommateHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	changed, err := h.ledger.RemoveRoommate(auth.UserID(r.Context()), id)
	if err != nil {
		h.logger.Error("remove roommate", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to remove roommate"})
		return
	}
	metrics.RecordOperation("roommate", "remove", changed)
	if changed {
		h.broadcast(websocket.NewMessage("roommate", "removed", id))
	}

	writeJSON(w, http.StatusOK, map[string]bool{"changed": changed})
}
