package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Storage keys. Each key holds one independent JSON document.
const (
	KeyCurrentUser = "currentUser"
	KeyLedger      = "choreboardData"
	KeySettings    = "choreboardSettings"
)

// KVStore reads and writes whole JSON documents in the storage table.
type KVStore struct {
	db *sql.DB
}

func NewKVStore(db *sql.DB) *KVStore {
	return &KVStore{db: db}
}

// Get returns the value for key. The second return is false when the key is
// absent.
func (s *KVStore) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM storage WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

func (s *KVStore) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO storage (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

func (s *KVStore) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM storage WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}
