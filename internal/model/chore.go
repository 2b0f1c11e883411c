package model

import "time"

type ChoreStatus string

const (
	ChorePending   ChoreStatus = "pending"
	ChoreCompleted ChoreStatus = "completed"
)

// Chore is a household task. AssignedToName is a snapshot of the assignee's
// name at creation time and is not re-resolved if the user is renamed or
// removed.
type Chore struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Description    string      `json:"description"`
	AssignedTo     string      `json:"assignedTo"`
	AssignedToName string      `json:"assignedToName"`
	DueDate        time.Time   `json:"dueDate"`
	Status         ChoreStatus `json:"status"`
	CreatedBy      string      `json:"createdBy"`
}
