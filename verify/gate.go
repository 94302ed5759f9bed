// Copyright (c) 2025 Biovote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package verify

import (
	"errors"
	"fmt"
	"time"

	"biovote/device"
	"biovote/models"
)

// Gate states. A login attempt starts at StateNoScan, walks forward one scan
// at a time, and ends at StateVerified or StateRejected. Rejection is
// terminal; the voter restarts from StateNoScan with a fresh gate.
type State string

const (
	StateNoScan        State = "no_scan"
	StateFirstCaptured State = "first_captured"
	StateBothCaptured  State = "both_captured"
	StateVerified      State = "verified"
	StateRejected      State = "rejected"
)

var (
	// ErrVerificationFailed covers a score below threshold or no matched identity.
	ErrVerificationFailed = errors.New("biometric verification failed")
	// ErrAlreadyVoted is raised when the matched voter is still inside the
	// re-vote lockout window.
	ErrAlreadyVoted = errors.New("voter has already voted recently")
	// ErrBadTransition is raised when a step runs out of order.
	ErrBadTransition = errors.New("verification step out of order")
)

// VoterLookup resolves a matched identifier to the enrolled voter record.
type VoterLookup interface {
	Find(voterID string) (models.Voter, error)
}

// RecentVoteChecker answers whether a voter cast a ballot inside the window.
type RecentVoteChecker interface {
	HasVotedRecently(voterID string, now time.Time, window time.Duration) (bool, error)
}

// Gate drives one login attempt through the capture and verification state
// machine. One Gate per session; it owns its scan slots.
type Gate struct {
	state     State
	scan      ScanSession
	registry  VoterLookup
	ledger    RecentVoteChecker
	threshold int
	window    time.Duration
}

func NewGate(registry VoterLookup, ledger RecentVoteChecker, threshold int, window time.Duration) *Gate {
	return &Gate{
		state:     StateNoScan,
		registry:  registry,
		ledger:    ledger,
		threshold: threshold,
		window:    window,
	}
}

func (g *Gate) State() State {
	return g.state
}

// RecordFirstScan stores the first capture and moves the gate to
// StateFirstCaptured. Allowed from any non-terminal state: re-scanning the
// first finger restarts the attempt.
func (g *Gate) RecordFirstScan(template, image string) error {
	if g.state == StateVerified {
		return fmt.Errorf("%w: already verified", ErrBadTransition)
	}
	if err := g.scan.recordFirst(template, image); err != nil {
		return err
	}
	g.state = StateFirstCaptured
	return nil
}

// RecordSecondScan stores the second capture and moves the gate to
// StateBothCaptured.
func (g *Gate) RecordSecondScan(template, image string) error {
	if g.state != StateFirstCaptured {
		if g.state == StateNoScan || g.state == StateRejected {
			return ErrCaptureMissing
		}
		return fmt.Errorf("%w: state %s", ErrBadTransition, g.state)
	}
	if err := g.scan.recordSecond(template, image); err != nil {
		return err
	}
	g.state = StateBothCaptured
	return nil
}

// Snapshot exposes both captures for the external matcher. Only meaningful
// once both scans are recorded.
func (g *Gate) Snapshot() (template1, template2, image1, image2 string, err error) {
	return g.scan.Snapshot()
}

// Verify consumes the matcher's result and settles the attempt.
//
// Admission requires a non-empty matched identifier AND score >= threshold
// (the threshold is inclusive: 20 admits, 19 does not). The lockout window is
// checked exactly once, here. Any vendor error code short-circuits to
// rejection. On success the scan slots are cleared and the enrolled voter
// record is returned; on failure the gate lands in StateRejected and the
// voter must restart from the first scan.
func (g *Gate) Verify(matchedVoterID string, score int, errorCode int, now time.Time) (models.Voter, error) {
	if g.state != StateBothCaptured {
		return models.Voter{}, fmt.Errorf("%w: state %s", ErrBadTransition, g.state)
	}

	if errorCode > 0 {
		g.reject()
		return models.Voter{}, &device.Error{Code: errorCode}
	}

	if matchedVoterID == "" || score < g.threshold {
		g.reject()
		return models.Voter{}, fmt.Errorf(
			"%w: matching score %d (minimum required: %d)",
			ErrVerificationFailed, score, g.threshold,
		)
	}

	voted, err := g.ledger.HasVotedRecently(matchedVoterID, now, g.window)
	if err != nil {
		g.reject()
		return models.Voter{}, fmt.Errorf("eligibility check failed: %w", err)
	}
	if voted {
		g.reject()
		return models.Voter{}, ErrAlreadyVoted
	}

	voter, err := g.registry.Find(matchedVoterID)
	if err != nil {
		g.reject()
		return models.Voter{}, fmt.Errorf("%w: matched voter not enrolled", ErrVerificationFailed)
	}

	g.scan.clear()
	g.state = StateVerified
	return voter, nil
}

func (g *Gate) reject() {
	g.scan.clear()
	g.state = StateRejected
}
