package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/choreboard/choreboard/internal/auth"
	"github.com/choreboard/choreboard/internal/metrics"
	"github.com/choreboard/choreboard/internal/model"
	"github.com/choreboard/choreboard/internal/store"
	"github.com/choreboard/choreboard/internal/websocket"
)

type ExpenseHandler struct {
	ledger *store.LedgerStore
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewExpenseHandler(ls *store.LedgerStore, hub *websocket.Hub, logger *slog.Logger) *ExpenseHandler {
	return &ExpenseHandler{ledger: ls, hub: hub, logger: logger}
}

func (h *ExpenseHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

// Amount arrives as the raw form value; the handler parses it the way the
// form did.
type expenseRequest struct {
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	expenses := h.ledger.Expenses()
	if expenses == nil {
		expenses = []model.Expense{}
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	amount, parseErr := strconv.ParseFloat(req.Amount, 64)
	if parseErr != nil {
		amount = -1 // unparseable amount falls into the store's no-op path
	}

	expense, err := h.ledger.CreateExpense(amount, req.Description, req.Category, auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("create expense", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create expense"})
		return
	}
	metrics.RecordOperation("expense", "create", expense != nil)
	if expense == nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "amount, description, and category are required"})
		return
	}

	h.broadcast(websocket.NewMessage("expense", "created", expense.ID))
	writeJSON(w, http.StatusCreated, expense)
}

func (h *ExpenseHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	changed, err := h.ledger.ApproveExpense(id)
	if err != nil {
		h.logger.Error("approve expense", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to approve expense"})
		return
	}
	metrics.RecordOperation("expense", "approve", changed)
	if changed {
		h.broadcast(websocket.NewMessage("expense", "approved", id))
	}

	writeJSON(w, http.StatusOK, map[string]bool{"changed": changed})
}

// Reject deletes the expense outright; nothing marks it rejected.
func (h *ExpenseHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	changed, err := h.ledger.RejectExpense(id)
	if err != nil {
		h.logger.Error("reject expense", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to reject expense"})
		return
	}
	metrics.RecordOperation("expense", "reject", changed)
	if changed {
		h.broadcast(websocket.NewMessage("expense", "rejected", id))
	}

	w.WriteHeader(http.StatusNoContent)
}
