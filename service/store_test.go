package service

import (
	"testing"
	"time"
)

func TestSessionStoreGetOrCreate(t *testing.T) {
	store := NewSessionStore(time.Hour)

	created, isNew := store.GetOrCreate("")
	if !isNew || created.ID == "" {
		t.Fatalf("Expected a new session, got %+v new=%v", created, isNew)
	}

	again, isNew := store.GetOrCreate(created.ID)
	if isNew || again != created {
		t.Error("Expected the same session to be returned")
	}

	other, isNew := store.GetOrCreate("expired-or-forged")
	if !isNew || other.ID == "expired-or-forged" {
		t.Errorf("Expected a fresh id for an unknown session, got %q", other.ID)
	}

	if store.Count() != 2 {
		t.Errorf("Expected 2 sessions, got %d", store.Count())
	}
}

func TestSessionStoreGetUnknown(t *testing.T) {
	store := NewSessionStore(time.Hour)

	if _, ok := store.Get(""); ok {
		t.Error("Expected empty id to miss")
	}
	if _, ok := store.Get("unknown"); ok {
		t.Error("Expected unknown id to miss")
	}
}

func TestSessionStoreDelete(t *testing.T) {
	store := NewSessionStore(time.Hour)
	s := store.Create()

	store.Delete(s.ID)

	if _, ok := store.Get(s.ID); ok {
		t.Error("Expected deleted session to miss")
	}
	if store.Count() != 0 {
		t.Errorf("Expected 0 sessions, got %d", store.Count())
	}
}

func TestSessionStoreExpiry(t *testing.T) {
	store := NewSessionStore(20 * time.Millisecond)
	s := store.Create()

	time.Sleep(40 * time.Millisecond)

	if _, ok := store.Get(s.ID); ok {
		t.Error("Expected idle session to expire")
	}
}

func TestSessionStoreDefaultTTL(t *testing.T) {
	store := NewSessionStore(0)
	if store.ttl != 12*time.Hour {
		t.Errorf("Expected 12h default ttl, got %v", store.ttl)
	}
}
