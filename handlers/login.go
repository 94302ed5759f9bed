// Copyright (c) 2025 Biovote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"biovote/cliparse"
	"biovote/device"
	"biovote/ledger"
	"biovote/metrics"
	"biovote/middleware"
	"biovote/models"
	"biovote/registry"
	"biovote/session"
	"biovote/verify"
)

// LoginHandler drives the two-scan biometric login flow. Each session gets
// its own verification gate; the matching itself happens client-side against
// the device SDK, and Verify consumes the reported result.
type LoginHandler struct {
	registry *registry.Registry
	ledger   *ledger.Ledger
	cfg      cliparse.Config
	metrics  *metrics.Metrics
}

func NewLoginHandler(reg *registry.Registry, led *ledger.Ledger, cfg cliparse.Config, m *metrics.Metrics) *LoginHandler {
	return &LoginHandler{registry: reg, ledger: led, cfg: cfg, metrics: m}
}

func (h *LoginHandler) gateFor(sess *session.Session) *verify.Gate {
	if sess.Gate == nil {
		sess.Gate = verify.NewGate(h.registry, h.ledger, h.cfg.MatchThreshold, h.cfg.VoteWindow)
	}
	return sess.Gate
}

// parseScan pulls a capture out of the request, translating a vendor error
// code into a response. Returns false when the request has been answered.
func (h *LoginHandler) parseScan(w http.ResponseWriter, r *http.Request) (models.ScanRequest, bool) {
	var req models.ScanRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return req, false
	}

	if req.ErrorCode > 0 {
		h.metrics.ObserveDeviceError(req.ErrorCode)
		slog.Warn("login scan failed", "error_code", req.ErrorCode)
		middleware.DeviceErrorResponse(w, http.StatusBadGateway, device.Translate(req.ErrorCode), req.ErrorCode)
		return req, false
	}

	if req.TemplateBase64 == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "template_base64 is required")
		return req, false
	}

	return req, true
}

// ScanFirst handles POST /login/scan1
//
// Always restarts the attempt: a voter can re-scan their first finger at any
// point before verification settles.
func (h *LoginHandler) ScanFirst(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFrom(r)
	if sess == nil {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Session unavailable")
		return
	}

	req, ok := h.parseScan(w, r)
	if !ok {
		return
	}

	gate := h.gateFor(sess)
	if gate.State() == verify.StateVerified {
		// A verified session starts over with a fresh gate.
		sess.Gate = verify.NewGate(h.registry, h.ledger, h.cfg.MatchThreshold, h.cfg.VoteWindow)
		gate = sess.Gate
	}
	if err := gate.RecordFirstScan(req.TemplateBase64, req.BMPBase64); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ScanResponse{
		Manufacturer: req.Manufacturer,
		Model:        req.Model,
		SerialNumber: req.SerialNumber,
		BMPBase64:    req.BMPBase64,
	})
}

// ScanSecond handles POST /login/scan2
//
// On success both captured templates go back to the client for matching.
func (h *LoginHandler) ScanSecond(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFrom(r)
	if sess == nil {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Session unavailable")
		return
	}

	req, ok := h.parseScan(w, r)
	if !ok {
		return
	}

	if sess.Gate == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "First fingerprint has not been captured")
		return
	}

	if err := sess.Gate.RecordSecondScan(req.TemplateBase64, req.BMPBase64); err != nil {
		if errors.Is(err, verify.ErrCaptureMissing) {
			middleware.ErrorResponse(w, http.StatusBadRequest, "First fingerprint has not been captured")
			return
		}
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	t1, t2, b1, b2, err := sess.Gate.Snapshot()
	if err != nil {
		slog.Error("failed to read scan pair", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to read captured scans")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ScanPairResponse{
		Template1: t1,
		Template2: t2,
		BMP1:      b1,
		BMP2:      b2,
	})
}

// Verify handles POST /login/verify
//
// Consumes the client-side matching result and settles the login attempt.
func (h *LoginHandler) Verify(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFrom(r)
	if sess == nil {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Session unavailable")
		return
	}

	var req models.VerifyRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if sess.Gate == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Both fingerprints must be captured before verification")
		return
	}

	voter, err := sess.Gate.Verify(req.MatchedVoterID, req.MatchingScore, req.ErrorCode, time.Now())

	var devErr *device.Error
	switch {
	case errors.As(err, &devErr):
		h.metrics.ObserveVerification("device_error")
		h.metrics.ObserveDeviceError(devErr.Code)
		slog.Warn("verification device error", "error_code", devErr.Code)
		middleware.DeviceErrorResponse(w, http.StatusBadGateway, devErr.Message(), devErr.Code)
		return
	case errors.Is(err, verify.ErrAlreadyVoted):
		h.metrics.ObserveVerification("already_voted")
		slog.Info("verification rejected: recent vote", "voter_id", req.MatchedVoterID)
		middleware.ErrorResponse(w, http.StatusForbidden, "You have already voted recently")
		return
	case errors.Is(err, verify.ErrVerificationFailed):
		h.metrics.ObserveVerification("rejected")
		slog.Info("verification rejected", "score", req.MatchingScore)
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Fingerprint verification failed")
		return
	case errors.Is(err, verify.ErrBadTransition):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Both fingerprints must be captured before verification")
		return
	case err != nil:
		slog.Error("verification failed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Verification failed")
		return
	}

	sess.Voter = &session.AuthenticatedVoter{VoterID: voter.VoterID, Name: voter.Name}

	h.metrics.ObserveVerification("verified")
	slog.Info("voter verified", "voter_id", voter.VoterID)

	middleware.JSONResponse(w, http.StatusOK, models.VerifyResponse{
		VoterID: voter.VoterID,
		Name:    voter.Name,
	})
}

// Logout handles POST /logout
func (h *LoginHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFrom(r)
	if sess != nil {
		sess.ClearVoter()
		sess.Pending = nil
	}
	middleware.JSONResponse(w, http.StatusOK, map[string]string{"message": "Logged out"})
}
