package store

import (
	"testing"

	"github.com/choreboard/choreboard/internal/database"
	"github.com/choreboard/choreboard/internal/model"
)

func setupSessionTest(t *testing.T) (*SessionStore, *KVStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	kv := NewKVStore(db)
	return NewSessionStore(kv), kv
}

func TestSessionLifecycle(t *testing.T) {
	ss, _ := setupSessionTest(t)

	current, err := ss.Current()
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if current != nil {
		t.Fatal("expected logged out before sign in")
	}

	user := model.User{ID: "1700000000000", Name: "alex", Email: "alex@example.com", IsAdmin: true}
	if err := ss.SignIn(user); err != nil {
		t.Fatalf("sign in: %v", err)
	}

	current, err = ss.Current()
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if current == nil {
		t.Fatal("expected session after sign in")
	}
	if *current != user {
		t.Errorf("current = %+v, want %+v", *current, user)
	}

	if err := ss.SignOut(); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	current, err = ss.Current()
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if current != nil {
		t.Error("expected logged out after sign out")
	}
}

func TestSessionCorruptReadsAsLoggedOut(t *testing.T) {
	ss, kv := setupSessionTest(t)

	if err := kv.Set(KeyCurrentUser, "not json"); err != nil {
		t.Fatalf("set corrupt: %v", err)
	}
	current, err := ss.Current()
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if current != nil {
		t.Error("corrupt session should read as logged out")
	}
}

func TestKVGetSetDelete(t *testing.T) {
	ss, kv := setupSessionTest(t)
	_ = ss

	_, ok, err := kv.Get("nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Error("expected absent key")
	}

	if err := kv.Set("k", "v1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := kv.Set("k", "v2"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, ok, err := kv.Get("k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok || v != "v2" {
		t.Errorf("get = %q/%v, want v2/true", v, ok)
	}

	if err := kv.Delete("k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, ok, _ = kv.Get("k")
	if ok {
		t.Error("expected key deleted")
	}
}
