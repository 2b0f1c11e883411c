package model

import "time"

type ExpenseStatus string

const (
	ExpensePending  ExpenseStatus = "pending"
	ExpenseApproved ExpenseStatus = "approved"
)

// Expense categories offered by the UI. The store does not reject other
// values; presence is the only check.
const (
	CategoryUtilities = "Utilities"
	CategoryFood      = "Food"
	CategoryRent      = "Rent"
	CategoryInternet  = "Internet"
	CategoryCleaning  = "Cleaning"
	CategoryOther     = "Other"
)

// Expense is a shared cost. PaidByName is a snapshot like
// Chore.AssignedToName. Rejecting an expense deletes it; there is no
// rejected status on disk.
type Expense struct {
	ID           string        `json:"id"`
	Amount       float64       `json:"amount"`
	Description  string        `json:"description"`
	Category     string        `json:"category"`
	PaidBy       string        `json:"paidBy"`
	PaidByName   string        `json:"paidByName"`
	Date         time.Time     `json:"date"`
	Status       ExpenseStatus `json:"status"`
	SplitBetween []string      `json:"splitBetween"`
}
