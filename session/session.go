// Copyright (c) 2025 Biovote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"biovote/device"
	"biovote/verify"
)

// AuthenticatedVoter is the process-local record of a verified login. Its
// absence means every voting-flow operation must be rejected.
type AuthenticatedVoter struct {
	VoterID string
	Name    string
}

// Session holds all per-requester state: the pending registration capture,
// the in-flight login gate, the authenticated voter, and the admin flag.
// A session is mutated only by the request that owns it; nothing here is
// shared across requesters.
type Session struct {
	ID string

	// Pending is a registration capture awaiting voter details.
	Pending *device.Capture

	// Gate is the login attempt in progress, nil before the first scan.
	Gate *verify.Gate

	// Voter is set once verification succeeds; cleared on logout, on vote
	// completion, and on expiry.
	Voter *AuthenticatedVoter

	Admin bool

	expiresAt time.Time
}

// ClearVoter drops the authenticated voter and any login state, returning the
// session to the pre-login state.
func (s *Session) ClearVoter() {
	s.Voter = nil
	s.Gate = nil
}

// Store maps session cookies to Sessions, expiring idle entries after the
// configured TTL. A background janitor prunes expired sessions so abandoned
// scan data does not linger.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	done     chan struct{}
}

func NewStore(ttl time.Duration) *Store {
	s := &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		done:     make(chan struct{}),
	}
	go s.janitor()
	return s
}

// Create makes a fresh session with a random identifier.
func (s *Store) Create() *Session {
	sess := &Session{
		ID:        uuid.NewString(),
		expiresAt: time.Now().Add(s.ttl),
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// Lookup returns the live session for id, renewing its expiry. Expired or
// unknown IDs return false.
func (s *Store) Lookup(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if time.Now().After(sess.expiresAt) {
		delete(s.sessions, id)
		return nil, false
	}
	sess.expiresAt = time.Now().Add(s.ttl)
	return sess, true
}

// Destroy removes the session outright.
func (s *Store) Destroy(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len reports the number of live sessions (expired ones may still be counted
// until the janitor runs).
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Close stops the janitor. The store remains usable.
func (s *Store) Close() {
	close(s.done)
}

func (s *Store) janitor() {
	interval := s.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.prune()
		}
	}
}

func (s *Store) prune() {
	now := time.Now()
	s.mu.Lock()
	for id, sess := range s.sessions {
		if now.After(sess.expiresAt) {
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()
}
