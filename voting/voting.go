// Copyright (c) 2025 Biovote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"biovote/models"
	"biovote/registry"
	"biovote/session"
	"biovote/verify"
)

var (
	// ErrUnauthenticated means the session has no verified voter attached.
	ErrUnauthenticated = errors.New("no verified voter on this session")
	// ErrIncompleteBallot means the selection is missing a candidate.
	ErrIncompleteBallot = errors.New("ballot selection is incomplete")
)

// VoteLedger is the eligibility log the orchestrator consults and appends to.
type VoteLedger interface {
	HasVotedRecently(voterID string, now time.Time, window time.Duration) (bool, error)
	RecordVote(voterID string, now time.Time) error
}

// BallotBox receives accepted ballots.
type BallotBox interface {
	Append(b models.Ballot) error
}

// CandidateLister supplies the choices shown to a verified voter.
type CandidateLister interface {
	List() ([]models.Candidate, error)
}

// Orchestrator runs the post-verification voting flow. Casting is serialized
// per voter ID so the eligibility check and the vote record cannot interleave
// across concurrent requests for the same voter.
type Orchestrator struct {
	ledger     VoteLedger
	ballots    BallotBox
	candidates CandidateLister
	window     time.Duration

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(ledger VoteLedger, ballots BallotBox, candidates CandidateLister, window time.Duration) *Orchestrator {
	return &Orchestrator{
		ledger:     ledger,
		ballots:    ballots,
		candidates: candidates,
		window:     window,
		locks:      make(map[string]*sync.Mutex),
	}
}

// EnterVotingSystem admits a verified session into the voting flow.
func (o *Orchestrator) EnterVotingSystem(sess *session.Session) (session.AuthenticatedVoter, error) {
	if sess == nil || sess.Voter == nil {
		return session.AuthenticatedVoter{}, ErrUnauthenticated
	}
	return *sess.Voter, nil
}

// ListCandidates returns the candidate list for a verified session.
func (o *Orchestrator) ListCandidates(sess *session.Session) ([]models.Candidate, error) {
	if sess == nil || sess.Voter == nil {
		return nil, ErrUnauthenticated
	}
	return o.candidates.List()
}

// CastVote records the voter's selection. The eligibility re-check, the
// ballot append, and the vote record all happen under the voter's lock, so
// two concurrent casts for the same voter cannot both pass the check. On
// success the session's voter is cleared; a session is good for one ballot.
func (o *Orchestrator) CastVote(sess *session.Session, state, constituency, candidateName, party string, now time.Time) (models.Ballot, error) {
	if sess == nil || sess.Voter == nil {
		return models.Ballot{}, ErrUnauthenticated
	}
	if candidateName == "" {
		return models.Ballot{}, fmt.Errorf("%w: no candidate selected", ErrIncompleteBallot)
	}

	voterID := registry.NormalizeID(sess.Voter.VoterID)

	lock := o.lockFor(voterID)
	lock.Lock()
	defer lock.Unlock()

	voted, err := o.ledger.HasVotedRecently(voterID, now, o.window)
	if err != nil {
		return models.Ballot{}, fmt.Errorf("eligibility check failed: %w", err)
	}
	if voted {
		sess.ClearVoter()
		return models.Ballot{}, verify.ErrAlreadyVoted
	}

	ballot := models.Ballot{
		Date:          now.Format(models.DateFormat),
		VoterID:       voterID,
		Name:          sess.Voter.Name,
		State:         state,
		Constituency:  constituency,
		CandidateName: candidateName,
		Party:         party,
		Timestamp:     now.Format(models.TimestampFormat),
	}

	if err := o.ballots.Append(ballot); err != nil {
		return models.Ballot{}, fmt.Errorf("failed to record ballot: %w", err)
	}
	if err := o.ledger.RecordVote(voterID, now); err != nil {
		return models.Ballot{}, fmt.Errorf("failed to record vote event: %w", err)
	}

	sess.ClearVoter()
	return ballot, nil
}

// lockFor returns the mutex guarding a voter's cast path. Locks are small and
// kept for the life of the process.
func (o *Orchestrator) lockFor(voterID string) *sync.Mutex {
	o.mu.Lock()
	defer o.mu.Unlock()
	lock, ok := o.locks[voterID]
	if !ok {
		lock = &sync.Mutex{}
		o.locks[voterID] = lock
	}
	return lock
}
