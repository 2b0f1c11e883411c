package store

import (
	"encoding/json"
	"fmt"

	"github.com/choreboard/choreboard/internal/model"
)

// SessionStore holds the acting user under the currentUser key. One session
// at a time; an absent key means logged out.
type SessionStore struct {
	kv *KVStore
}

func NewSessionStore(kv *KVStore) *SessionStore {
	return &SessionStore{kv: kv}
}

// Current returns the session user, or nil when nobody is logged in. A
// corrupt record reads as logged out.
func (s *SessionStore) Current() (*model.User, error) {
	raw, ok, err := s.kv.Get(KeyCurrentUser)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var user model.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, nil
	}
	return &user, nil
}

func (s *SessionStore) SignIn(user model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.kv.Set(KeyCurrentUser, string(data)); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

func (s *SessionStore) SignOut() error {
	if err := s.kv.Delete(KeyCurrentUser); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
