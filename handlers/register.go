// Copyright (c) 2025 Biovote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"biovote/device"
	"biovote/metrics"
	"biovote/middleware"
	"biovote/models"
	"biovote/registry"
)

type RegistrationHandler struct {
	registry *registry.Registry
	metrics  *metrics.Metrics
}

func NewRegistrationHandler(reg *registry.Registry, m *metrics.Metrics) *RegistrationHandler {
	return &RegistrationHandler{registry: reg, metrics: m}
}

// Scan handles POST /register/scan
//
// The device integration posts one capture; it is parked on the session until
// the voter's details arrive. A vendor error code aborts the capture.
func (h *RegistrationHandler) Scan(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFrom(r)
	if sess == nil {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Session unavailable")
		return
	}

	var req models.ScanRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.ErrorCode > 0 {
		h.metrics.ObserveDeviceError(req.ErrorCode)
		slog.Warn("registration scan failed", "error_code", req.ErrorCode)
		middleware.DeviceErrorResponse(w, http.StatusBadGateway, device.Translate(req.ErrorCode), req.ErrorCode)
		return
	}

	if req.TemplateBase64 == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "template_base64 is required")
		return
	}

	sess.Pending = &device.Capture{
		TemplateBase64: req.TemplateBase64,
		BMPBase64:      req.BMPBase64,
		Manufacturer:   req.Manufacturer,
		Model:          req.Model,
		SerialNumber:   req.SerialNumber,
	}

	slog.Info("registration scan captured", "device_model", req.Model)

	middleware.JSONResponse(w, http.StatusOK, models.ScanResponse{
		Manufacturer: req.Manufacturer,
		Model:        req.Model,
		SerialNumber: req.SerialNumber,
		BMPBase64:    req.BMPBase64,
	})
}

// Register handles POST /register
//
// Pairs the session's parked capture with the submitted voter details and
// enrolls the voter.
func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFrom(r)
	if sess == nil {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Session unavailable")
		return
	}

	var req models.RegisterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if sess.Pending == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "No fingerprint captured for this session")
		return
	}

	voter, err := h.registry.Register(req.VoterID, req.Name, sess.Pending.TemplateBase64, sess.Pending.BMPBase64, time.Now())
	switch {
	case errors.Is(err, registry.ErrValidation):
		h.metrics.ObserveRegistration("invalid")
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, registry.ErrDuplicateIdentifier):
		h.metrics.ObserveRegistration("duplicate_id")
		middleware.ErrorResponse(w, http.StatusConflict, "Voter ID is already registered")
		return
	case errors.Is(err, registry.ErrDuplicateBiometric):
		h.metrics.ObserveRegistration("duplicate_biometric")
		middleware.ErrorResponse(w, http.StatusConflict, "This fingerprint is already registered with another voter ID")
		return
	case err != nil:
		slog.Error("failed to register voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register voter")
		return
	}

	// The capture is consumed either way; a fresh scan starts a new enrollment.
	sess.Pending = nil

	h.metrics.ObserveRegistration("registered")
	slog.Info("voter registered", "voter_id", voter.VoterID)

	middleware.JSONResponse(w, http.StatusCreated, models.RegisterResponse{
		VoterID:      voter.VoterID,
		Name:         voter.Name,
		RegisteredAt: voter.RegistrationDate,
	})
}
