// Package ledger computes the derived views over the household ledger:
// chore visibility, completion rates, expense totals, and the dashboard
// notifications. Everything here is a pure function over snapshots;
// nothing is cached.
package ledger

import (
	"fmt"
	"time"

	"github.com/choreboard/choreboard/internal/model"
)

// MyChores returns the chores assigned to the given user.
func MyChores(chores []model.Chore, userID string) []model.Chore {
	var mine []model.Chore
	for _, c := range chores {
		if c.AssignedTo == userID {
			mine = append(mine, c)
		}
	}
	return mine
}

// VisibleChores returns every chore for admins and only the user's own
// chores otherwise.
func VisibleChores(chores []model.Chore, user model.User) []model.Chore {
	if user.IsAdmin {
		return chores
	}
	return MyChores(chores, user.ID)
}

// CompletionRate is the completed fraction of the user's chores, in [0, 1].
// A user with no chores has a rate of 0, not NaN.
func CompletionRate(chores []model.Chore, userID string) float64 {
	var total, completed int
	for _, c := range chores {
		if c.AssignedTo != userID {
			continue
		}
		total++
		if c.Status == model.ChoreCompleted {
			completed++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total)
}

// TotalApproved sums the amounts of approved expenses.
func TotalApproved(expenses []model.Expense) float64 {
	var total float64
	for _, e := range expenses {
		if e.Status == model.ExpenseApproved {
			total += e.Amount
		}
	}
	return total
}

// MonthlyApprovedTotal sums approved expenses dated in now's calendar month
// and year. An approved expense 20 days ago in the previous month does not
// count; a pending expense this month does not either.
func MonthlyApprovedTotal(expenses []model.Expense, now time.Time) float64 {
	var total float64
	for _, e := range expenses {
		if e.Status != model.ExpenseApproved {
			continue
		}
		if e.Date.Month() == now.Month() && e.Date.Year() == now.Year() {
			total += e.Amount
		}
	}
	return total
}

// Share divides a total evenly across all current participants. It
// deliberately ignores each expense's SplitBetween list.
func Share(total float64, participants int) float64 {
	if participants < 1 {
		participants = 1
	}
	return total / float64(participants)
}

// PendingCount returns the number of pending expenses.
func PendingCount(expenses []model.Expense) int {
	var n int
	for _, e := range expenses {
		if e.Status == model.ExpensePending {
			n++
		}
	}
	return n
}

// PendingNotifications builds the dashboard advisories for a user: their
// own pending chores due within a day, and, for admins only, the count of
// expenses awaiting approval.
func PendingNotifications(user model.User, chores []model.Chore, expenses []model.Expense, now time.Time) []string {
	var notifs []string

	cutoff := now.Add(24 * time.Hour)
	var due int
	for _, c := range chores {
		if c.Status == model.ChorePending && c.AssignedTo == user.ID && !c.DueDate.After(cutoff) {
			due++
		}
	}
	if due > 0 {
		notifs = append(notifs, fmt.Sprintf("You have %d chore(s) due soon!", due))
	}

	if user.IsAdmin {
		if pending := PendingCount(expenses); pending > 0 {
			notifs = append(notifs, fmt.Sprintf("%d expense(s) need approval", pending))
		}
	}

	return notifs
}
