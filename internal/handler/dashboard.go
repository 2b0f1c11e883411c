package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/choreboard/choreboard/internal/auth"
	"github.com/choreboard/choreboard/internal/ledger"
	"github.com/choreboard/choreboard/internal/model"
	"github.com/choreboard/choreboard/internal/store"
)

type DashboardHandler struct {
	ledger *store.LedgerStore
	logger *slog.Logger
}

func NewDashboardHandler(ls *store.LedgerStore, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{ledger: ls, logger: logger}
}

type dashboardResponse struct {
	MyChores        int      `json:"myChores"`
	CompletedChores int      `json:"completedChores"`
	CompletionRate  float64  `json:"completionRate"`
	TotalApproved   float64  `json:"totalApproved"`
	MonthlyApproved float64  `json:"monthlyApproved"`
	MyShare         float64  `json:"myShare"`
	PendingExpenses int      `json:"pendingExpenses"`
	Notifications   []string `json:"notifications"`
}

// Stats computes every derived view in one pass for the dashboard page.
// Nothing is cached; this recomputes from the current ledger on each call.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	s, _ := auth.FromContext(r.Context())
	user := model.User{ID: s.UserID, Name: s.Name, IsAdmin: s.IsAdmin}

	snap := h.ledger.Snapshot()
	now := time.Now()

	mine := ledger.MyChores(snap.Chores, user.ID)
	var completed int
	for _, c := range mine {
		if c.Status == model.ChoreCompleted {
			completed++
		}
	}

	total := ledger.TotalApproved(snap.Expenses)
	notifs := ledger.PendingNotifications(user, snap.Chores, snap.Expenses, now)
	if notifs == nil {
		notifs = []string{}
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		MyChores:        len(mine),
		CompletedChores: completed,
		CompletionRate:  ledger.CompletionRate(snap.Chores, user.ID),
		TotalApproved:   total,
		MonthlyApproved: ledger.MonthlyApprovedTotal(snap.Expenses, now),
		MyShare:         ledger.Share(total, len(snap.Users)),
		PendingExpenses: ledger.PendingCount(snap.Expenses),
		Notifications:   notifs,
	})
}

// Notifications serves just the advisory strings, for the badge poll.
func (h *DashboardHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	s, _ := auth.FromContext(r.Context())
	user := model.User{ID: s.UserID, Name: s.Name, IsAdmin: s.IsAdmin}

	snap := h.ledger.Snapshot()
	notifs := ledger.PendingNotifications(user, snap.Chores, snap.Expenses, time.Now())
	if notifs == nil {
		notifs = []string{}
	}
	writeJSON(w, http.StatusOK, notifs)
}
