// Copyright (c) 2025 Biovote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"testing"
	"time"

	"biovote/device"
)

func TestStoreCreateAndLookup(t *testing.T) {
	store := NewStore(time.Minute)
	defer store.Close()

	sess := store.Create()
	if sess.ID == "" {
		t.Fatal("session ID should not be empty")
	}

	got, ok := store.Lookup(sess.ID)
	if !ok {
		t.Fatal("expected session to be found")
	}
	if got != sess {
		t.Error("lookup should return the same session instance")
	}

	if _, ok := store.Lookup("nonexistent"); ok {
		t.Error("unknown ID should not resolve")
	}
}

func TestStoreIsolation(t *testing.T) {
	store := NewStore(time.Minute)
	defer store.Close()

	a := store.Create()
	b := store.Create()

	a.Pending = &device.Capture{TemplateBase64: "YQ=="}
	a.Voter = &AuthenticatedVoter{VoterID: "V001", Name: "Alice"}

	// State set on one session must never surface on another.
	if b.Pending != nil || b.Voter != nil {
		t.Error("session state leaked across sessions")
	}
}

func TestStoreExpiry(t *testing.T) {
	store := NewStore(30 * time.Millisecond)
	defer store.Close()

	sess := store.Create()
	time.Sleep(60 * time.Millisecond)

	if _, ok := store.Lookup(sess.ID); ok {
		t.Error("expired session should not resolve")
	}
}

func TestStoreLookupRenews(t *testing.T) {
	store := NewStore(80 * time.Millisecond)
	defer store.Close()

	sess := store.Create()
	for i := 0; i < 4; i++ {
		time.Sleep(40 * time.Millisecond)
		if _, ok := store.Lookup(sess.ID); !ok {
			t.Fatalf("session expired despite activity (iteration %d)", i)
		}
	}
}

func TestStoreDestroy(t *testing.T) {
	store := NewStore(time.Minute)
	defer store.Close()

	sess := store.Create()
	store.Destroy(sess.ID)

	if _, ok := store.Lookup(sess.ID); ok {
		t.Error("destroyed session should not resolve")
	}
}

func TestStorePrune(t *testing.T) {
	store := NewStore(20 * time.Millisecond)
	defer store.Close()

	store.Create()
	store.Create()

	// Janitor runs at ttl/2 minimum 1s; drive prune directly.
	time.Sleep(40 * time.Millisecond)
	store.prune()

	if n := store.Len(); n != 0 {
		t.Errorf("expected 0 sessions after prune, got %d", n)
	}
}

func TestClearVoter(t *testing.T) {
	sess := &Session{
		Voter: &AuthenticatedVoter{VoterID: "V001", Name: "Alice"},
	}
	sess.ClearVoter()

	if sess.Voter != nil || sess.Gate != nil {
		t.Error("ClearVoter should drop voter and gate state")
	}
}
