package model

// Ledger is the full household state persisted under the choreboardData key.
// It is always read and written as one JSON document.
type Ledger struct {
	Users    []User    `json:"users"`
	Chores   []Chore   `json:"chores"`
	Expenses []Expense `json:"expenses"`
}
