// Copyright (c) 2025 Biovote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"biovote/metrics"
	"biovote/middleware"
	"biovote/models"
	"biovote/verify"
	"biovote/voting"
)

type VotingHandler struct {
	orch    *voting.Orchestrator
	metrics *metrics.Metrics
}

func NewVotingHandler(orch *voting.Orchestrator, m *metrics.Metrics) *VotingHandler {
	return &VotingHandler{orch: orch, metrics: m}
}

// EnterVotingSystem handles GET /voting
func (h *VotingHandler) EnterVotingSystem(w http.ResponseWriter, r *http.Request) {
	voter, err := h.orch.EnterVotingSystem(middleware.SessionFrom(r))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Fingerprint verification required")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.EnterVotingResponse{
		VoterID: voter.VoterID,
		Name:    voter.Name,
	})
}

// Candidates handles GET /candidates
func (h *VotingHandler) Candidates(w http.ResponseWriter, r *http.Request) {
	list, err := h.orch.ListCandidates(middleware.SessionFrom(r))
	if errors.Is(err, voting.ErrUnauthenticated) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Fingerprint verification required")
		return
	}
	if err != nil {
		slog.Error("failed to list candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load candidates")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, list)
}

// CastVote handles POST /vote
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFrom(r)

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	ballot, err := h.orch.CastVote(sess, req.State, req.Constituency, req.CandidateName, req.Party, time.Now())
	switch {
	case errors.Is(err, voting.ErrUnauthenticated):
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Fingerprint verification required")
		return
	case errors.Is(err, voting.ErrIncompleteBallot):
		middleware.ErrorResponse(w, http.StatusBadRequest, "candidate_name is required")
		return
	case errors.Is(err, verify.ErrAlreadyVoted):
		middleware.ErrorResponse(w, http.StatusForbidden, "You have already voted recently")
		return
	case err != nil:
		slog.Error("failed to cast vote", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}

	h.metrics.ObserveVote()
	slog.Info("vote cast", "voter_id", ballot.VoterID, "constituency", ballot.Constituency)

	middleware.JSONResponse(w, http.StatusCreated, models.CastVoteResponse{
		Success: true,
		Message: "Your vote has been recorded",
	})
}
