// Copyright (c) 2025 Biovote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"biovote/ballots"
	"biovote/candidates"
	"biovote/cliparse"
	"biovote/ledger"
	"biovote/metrics"
	"biovote/middleware"
	"biovote/registry"
	"biovote/session"
	"biovote/testutil"
	"biovote/voting"
)

// testEnv wires every handler against a fresh in-memory database.
type testEnv struct {
	db         *sql.DB
	cfg        cliparse.Config
	registry   *registry.Registry
	ledger     *ledger.Ledger
	ballots    *ballots.Store
	candidates *candidates.Store

	registration *RegistrationHandler
	login        *LoginHandler
	voting       *VotingHandler
	voters       *VotersHandler
	admin        *AdminHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	m := metrics.New(prometheus.NewRegistry())

	reg := registry.New(db)
	led := ledger.New(db)
	bal := ballots.New(db)
	cand := candidates.New(db)
	orch := voting.New(led, bal, cand, cfg.VoteWindow)

	return &testEnv{
		db:           db,
		cfg:          cfg,
		registry:     reg,
		ledger:       led,
		ballots:      bal,
		candidates:   cand,
		registration: NewRegistrationHandler(reg, m),
		login:        NewLoginHandler(reg, led, cfg, m),
		voting:       NewVotingHandler(orch, m),
		voters:       NewVotersHandler(reg),
		admin:        NewAdminHandler(reg, led, bal, cand, cfg),
	}
}

// newSession returns a bare session like the one the middleware would attach.
func newSession() *session.Session {
	return &session.Session{ID: "test-session"}
}

// withSession attaches a session to a request the way the middleware does.
func withSession(req *http.Request, sess *session.Session) *http.Request {
	return req.WithContext(middleware.ContextWithSession(req.Context(), sess))
}

// verifiedSession returns a session that already passed verification.
func verifiedSession(voterID, name string) *session.Session {
	return &session.Session{
		ID:    "test-session",
		Voter: &session.AuthenticatedVoter{VoterID: voterID, Name: name},
	}
}

// adminSession returns a session that already passed the admin login.
func adminSession() *session.Session {
	return &session.Session{ID: "test-admin-session", Admin: true}
}

// seedRecentVote marks a voter as having voted the given duration ago.
func seedRecentVote(t *testing.T, env *testEnv, voterID string, ago time.Duration) {
	t.Helper()
	if err := env.ledger.RecordVote(voterID, time.Now().Add(-ago)); err != nil {
		t.Fatalf("Failed to seed vote event: %v", err)
	}
}
