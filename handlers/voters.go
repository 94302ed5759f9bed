// Copyright (c) 2025 Biovote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"biovote/middleware"
	"biovote/registry"
)

// VotersHandler serves the enrolled-voter export consumed by the kiosk's
// client-side matcher.
type VotersHandler struct {
	registry *registry.Registry
}

func NewVotersHandler(reg *registry.Registry) *VotersHandler {
	return &VotersHandler{registry: reg}
}

// List handles GET /voters
//
// Returns every usable enrollment (rows with a missing ID or an undersized
// template are skipped by the store). The kiosk matches the captured
// templates against this list locally.
func (h *VotersHandler) List(w http.ResponseWriter, r *http.Request) {
	voters, err := h.registry.ListAll()
	if err != nil {
		slog.Error("failed to list voters", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load voters")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, voters)
}
