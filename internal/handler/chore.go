package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/choreboard/choreboard/internal/auth"
	"github.com/choreboard/choreboard/internal/ledger"
	"github.com/choreboard/choreboard/internal/metrics"
	"github.com/choreboard/choreboard/internal/model"
	"github.com/choreboard/choreboard/internal/store"
	"github.com/choreboard/choreboard/internal/websocket"
)

type ChoreHandler struct {
	ledger *store.LedgerStore
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewChoreHandler(ls *store.LedgerStore, hub *websocket.Hub, logger *slog.Logger) *ChoreHandler {
	return &ChoreHandler{ledger: ls, hub: hub, logger: logger}
}

func (h *ChoreHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type choreRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	AssignedTo  string `json:"assignedTo"`
	DueDate     string `json:"dueDate"`
}

// List returns the chores the acting user may see: everything for admins,
// their own assignments otherwise.
func (h *ChoreHandler) List(w http.ResponseWriter, r *http.Request) {
	s, _ := auth.FromContext(r.Context())
	user := model.User{ID: s.UserID, IsAdmin: s.IsAdmin}

	chores := ledger.VisibleChores(h.ledger.Chores(), user)
	if chores == nil {
		chores = []model.Chore{}
	}
	writeJSON(w, http.StatusOK, chores)
}

func (h *ChoreHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req choreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	due := parseDue(req.DueDate)

	chore, err := h.ledger.CreateChore(req.Name, req.Description, req.AssignedTo, due, auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("create chore", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create chore"})
		return
	}
	metrics.RecordOperation("chore", "create", chore != nil)
	if chore == nil {
		// Missing or invalid fields: the operation did not happen.
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "name, assignee, and due date are required"})
		return
	}

	h.broadcast(websocket.NewMessage("chore", "created", chore.ID))
	writeJSON(w, http.StatusCreated, chore)
}

func (h *ChoreHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	changed, err := h.ledger.CompleteChore(id)
	if err != nil {
		h.logger.Error("complete chore", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to complete chore"})
		return
	}
	metrics.RecordOperation("chore", "complete", changed)
	if changed {
		h.broadcast(websocket.NewMessage("chore", "completed", id))
	}

	// Re-completing or completing an unknown chore is a quiet no-op.
	writeJSON(w, http.StatusOK, map[string]bool{"changed": changed})
}

func (h *ChoreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	changed, err := h.ledger.DeleteChore(id)
	if err != nil {
		h.logger.Error("delete chore", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete chore"})
		return
	}
	metrics.RecordOperation("chore", "delete", changed)
	if changed {
		h.broadcast(websocket.NewMessage("chore", "deleted", id))
	}

	w.WriteHeader(http.StatusNoContent)
}
