package store

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/choreboard/choreboard/internal/model"
)

// LedgerStore owns the household ledger: the users, chores, and expenses
// persisted as one JSON document under the choreboardData key. All mutations
// go through here; each one rewrites the whole document.
//
// Mutators report a changed flag instead of errors for the documented no-op
// cases (missing fields, unknown ids, self-removal). An error means the
// write to storage itself failed; a failed write rolls the in-memory ledger
// back so it never diverges from what is on disk.
type LedgerStore struct {
	mu     sync.Mutex
	kv     *KVStore
	ledger model.Ledger
	lastID int64
}

// NewLedgerStore loads the persisted ledger. An absent or corrupt document
// yields an empty ledger; seeding happens at first login, not here.
func NewLedgerStore(kv *KVStore) (*LedgerStore, error) {
	s := &LedgerStore{kv: kv}

	raw, ok, err := kv.Get(KeyLedger)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	if ok {
		var l model.Ledger
		if err := json.Unmarshal([]byte(raw), &l); err == nil {
			s.ledger = l
		}
		// Unparseable data is treated the same as no data.
	}
	return s, nil
}

// persist writes the whole ledger back to storage. Callers hold mu.
func (s *LedgerStore) persist() error {
	data, err := json.Marshal(s.ledger)
	if err != nil {
		return fmt.Errorf("marshal ledger: %w", err)
	}
	if err := s.kv.Set(KeyLedger, string(data)); err != nil {
		return fmt.Errorf("persist ledger: %w", err)
	}
	return nil
}

// nextID returns a time-derived token, bumped past the previous one so two
// mutations inside the same millisecond still get distinct ids. Callers
// hold mu.
func (s *LedgerStore) nextID() string {
	id := time.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return strconv.FormatInt(id, 10)
}

func (s *LedgerStore) findUser(id string) *model.User {
	for i := range s.ledger.Users {
		if s.ledger.Users[i].ID == id {
			return &s.ledger.Users[i]
		}
	}
	return nil
}

// Seed bootstraps a brand-new household for its first user: two pending
// chores and two expenses, all assigned to or paid by that user. No-op once
// the ledger has any users.
func (s *LedgerStore) Seed(user model.User) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.ledger.Users) > 0 {
		return false, nil
	}

	prev := s.ledger
	now := time.Now()
	s.ledger = model.Ledger{
		Users: []model.User{user},
		Chores: []model.Chore{
			{
				ID:             "1",
				Name:           "Take out trash",
				Description:    "Empty all trash bins and take to curb",
				AssignedTo:     user.ID,
				AssignedToName: user.Name,
				DueDate:        now.Add(2 * 24 * time.Hour),
				Status:         model.ChorePending,
				CreatedBy:      user.ID,
			},
			{
				ID:             "2",
				Name:           "Clean kitchen",
				Description:    "Wipe counters, clean sink, and sweep floor",
				AssignedTo:     user.ID,
				AssignedToName: user.Name,
				DueDate:        now.Add(3 * 24 * time.Hour),
				Status:         model.ChorePending,
				CreatedBy:      user.ID,
			},
		},
		Expenses: []model.Expense{
			{
				ID:           "1",
				Amount:       120.50,
				Description:  "Electricity bill",
				Category:     model.CategoryUtilities,
				PaidBy:       user.ID,
				PaidByName:   user.Name,
				Date:         now,
				Status:       model.ExpenseApproved,
				SplitBetween: []string{user.ID},
			},
			{
				ID:           "2",
				Amount:       85.30,
				Description:  "Groceries",
				Category:     model.CategoryFood,
				PaidBy:       user.ID,
				PaidByName:   user.Name,
				Date:         now,
				Status:       model.ExpensePending,
				SplitBetween: []string{user.ID},
			},
		},
	}
	if err := s.persist(); err != nil {
		s.ledger = prev
		return false, err
	}
	return true, nil
}

// AddUser inserts a user unless that id is already present. Used at login
// when the browser already has a ledger but the session user is new to it.
func (s *LedgerStore) AddUser(user model.User) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findUser(user.ID) != nil {
		return false, nil
	}
	s.ledger.Users = append(s.ledger.Users, user)
	if err := s.persist(); err != nil {
		s.ledger.Users = s.ledger.Users[:len(s.ledger.Users)-1]
		return false, err
	}
	return true, nil
}

// CreateChore adds a pending chore. The assignee's display name is
// snapshotted from the current user list. Missing name, assignee, or due
// date makes this a no-op, as does an assignee id that matches no user.
func (s *LedgerStore) CreateChore(name, description, assignedTo string, dueDate time.Time, createdBy string) (*model.Chore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" || assignedTo == "" || dueDate.IsZero() {
		return nil, nil
	}
	assignee := s.findUser(assignedTo)
	if assignee == nil {
		return nil, nil
	}

	chore := model.Chore{
		ID:             s.nextID(),
		Name:           name,
		Description:    description,
		AssignedTo:     assignedTo,
		AssignedToName: assignee.Name,
		DueDate:        dueDate,
		Status:         model.ChorePending,
		CreatedBy:      createdBy,
	}
	s.ledger.Chores = append(s.ledger.Chores, chore)
	if err := s.persist(); err != nil {
		s.ledger.Chores = s.ledger.Chores[:len(s.ledger.Chores)-1]
		return nil, err
	}
	return &chore, nil
}

// CompleteChore moves a pending chore to completed. Completing an
// already-completed or unknown chore changes nothing.
func (s *LedgerStore) CompleteChore(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.ledger.Chores {
		if s.ledger.Chores[i].ID == id {
			if s.ledger.Chores[i].Status != model.ChorePending {
				return false, nil
			}
			s.ledger.Chores[i].Status = model.ChoreCompleted
			if err := s.persist(); err != nil {
				s.ledger.Chores[i].Status = model.ChorePending
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

func (s *LedgerStore) DeleteChore(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.ledger.Chores {
		if s.ledger.Chores[i].ID == id {
			prev := s.ledger.Chores
			next := make([]model.Chore, 0, len(prev)-1)
			next = append(next, prev[:i]...)
			next = append(next, prev[i+1:]...)
			s.ledger.Chores = next
			if err := s.persist(); err != nil {
				s.ledger.Chores = prev
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

// CreateExpense records a shared cost paid by an existing user. The expense
// starts approved when the payer is an admin, pending otherwise. The split
// is initialized to just the payer.
func (s *LedgerStore) CreateExpense(amount float64, description, category, paidBy string) (*model.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// NaN and infinities are not storable as JSON numbers; they take the
	// no-op path like any other invalid amount.
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, nil
	}
	if strings.TrimSpace(description) == "" || strings.TrimSpace(category) == "" {
		return nil, nil
	}
	payer := s.findUser(paidBy)
	if payer == nil {
		return nil, nil
	}

	status := model.ExpensePending
	if payer.IsAdmin {
		status = model.ExpenseApproved
	}

	expense := model.Expense{
		ID:           s.nextID(),
		Amount:       amount,
		Description:  description,
		Category:     category,
		PaidBy:       paidBy,
		PaidByName:   payer.Name,
		Date:         time.Now(),
		Status:       status,
		SplitBetween: []string{paidBy},
	}
	s.ledger.Expenses = append(s.ledger.Expenses, expense)
	if err := s.persist(); err != nil {
		s.ledger.Expenses = s.ledger.Expenses[:len(s.ledger.Expenses)-1]
		return nil, err
	}
	return &expense, nil
}

func (s *LedgerStore) ApproveExpense(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.ledger.Expenses {
		if s.ledger.Expenses[i].ID == id {
			if s.ledger.Expenses[i].Status != model.ExpensePending {
				return false, nil
			}
			s.ledger.Expenses[i].Status = model.ExpenseApproved
			if err := s.persist(); err != nil {
				s.ledger.Expenses[i].Status = model.ExpensePending
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

// RejectExpense removes the expense entirely. No rejected record is kept.
func (s *LedgerStore) RejectExpense(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.ledger.Expenses {
		if s.ledger.Expenses[i].ID == id {
			prev := s.ledger.Expenses
			next := make([]model.Expense, 0, len(prev)-1)
			next = append(next, prev[:i]...)
			next = append(next, prev[i+1:]...)
			s.ledger.Expenses = next
			if err := s.persist(); err != nil {
				s.ledger.Expenses = prev
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

// InviteRoommate adds a non-admin user named after the email's local part.
// Duplicate emails are not rejected.
func (s *LedgerStore) InviteRoommate(email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email = strings.TrimSpace(email)
	if email == "" {
		return nil, nil
	}

	name := email
	if at := strings.Index(email, "@"); at >= 0 {
		name = email[:at]
	}

	user := model.User{
		ID:      s.nextID(),
		Name:    name,
		Email:   email,
		IsAdmin: false,
	}
	s.ledger.Users = append(s.ledger.Users, user)
	if err := s.persist(); err != nil {
		s.ledger.Users = s.ledger.Users[:len(s.ledger.Users)-1]
		return nil, err
	}
	return &user, nil
}

// RemoveRoommate deletes a user by id. Removing yourself is structurally
// refused: a household may never remove its acting user.
func (s *LedgerStore) RemoveRoommate(actorID, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == actorID {
		return false, nil
	}
	for i := range s.ledger.Users {
		if s.ledger.Users[i].ID == id {
			prev := s.ledger.Users
			next := make([]model.User, 0, len(prev)-1)
			next = append(next, prev[:i]...)
			next = append(next, prev[i+1:]...)
			s.ledger.Users = next
			if err := s.persist(); err != nil {
				s.ledger.Users = prev
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

func (s *LedgerStore) Users() []model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.User(nil), s.ledger.Users...)
}

func (s *LedgerStore) Chores() []model.Chore {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Chore(nil), s.ledger.Chores...)
}

func (s *LedgerStore) Expenses() []model.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Expense, len(s.ledger.Expenses))
	for i, e := range s.ledger.Expenses {
		e.SplitBetween = append([]string(nil), e.SplitBetween...)
		out[i] = e
	}
	return out
}

// Snapshot returns a copy of the whole ledger.
func (s *LedgerStore) Snapshot() model.Ledger {
	return model.Ledger{
		Users:    s.Users(),
		Chores:   s.Chores(),
		Expenses: s.Expenses(),
	}
}

// Export serializes the ledger exactly as it is persisted, for the
// choreboard-data.json download.
func (s *LedgerStore) Export() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(s.ledger)
	if err != nil {
		return nil, fmt.Errorf("export ledger: %w", err)
	}
	return data, nil
}
