// Copyright (c) 2025 Biovote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"biovote/auth"
	"biovote/ballots"
	"biovote/candidates"
	"biovote/cliparse"
	"biovote/ledger"
	"biovote/middleware"
	"biovote/models"
	"biovote/registry"
	"biovote/session"
)

// maxCandidateUpload bounds the multipart form held in memory.
const maxCandidateUpload = 10 << 20

// AdminHandler serves the election-officer surface: voter roll inspection,
// tallies, audit logs, candidate list uploads, purges, and CSV exports.
type AdminHandler struct {
	registry   *registry.Registry
	ledger     *ledger.Ledger
	ballots    *ballots.Store
	candidates *candidates.Store
	cfg        cliparse.Config
}

func NewAdminHandler(reg *registry.Registry, led *ledger.Ledger, bal *ballots.Store, cand *candidates.Store, cfg cliparse.Config) *AdminHandler {
	return &AdminHandler{registry: reg, ledger: led, ballots: bal, candidates: cand, cfg: cfg}
}

// requireAdmin answers the request with 401 when the session has not passed
// the admin login. Returns nil in that case.
func requireAdmin(w http.ResponseWriter, r *http.Request) *session.Session {
	sess := middleware.SessionFrom(r)
	if sess == nil || !sess.Admin {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Admin login required")
		return nil
	}
	return sess
}

// Login handles POST /admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFrom(r)
	if sess == nil {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Session unavailable")
		return
	}

	var req models.AdminLoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := auth.CheckAdminPassword(req.Password, h.cfg.AdminPassword); err != nil {
		if errors.Is(err, auth.ErrInvalidPassword) {
			slog.Warn("admin login rejected", "remote", middleware.GetClientIP(r))
			middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid password")
			return
		}
		slog.Error("admin login failed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Login failed")
		return
	}

	sess.Admin = true
	slog.Info("admin logged in", "remote", middleware.GetClientIP(r))
	middleware.JSONResponse(w, http.StatusOK, map[string]string{"message": "Admin login successful"})
}

// Logout handles POST /admin/logout
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if sess := middleware.SessionFrom(r); sess != nil {
		sess.Admin = false
	}
	middleware.JSONResponse(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// Voters handles GET /admin/voters
//
// The admin view never exposes raw templates, only whether one is on file,
// plus a relative registration time for the panel.
func (h *AdminHandler) Voters(w http.ResponseWriter, r *http.Request) {
	if requireAdmin(w, r) == nil {
		return
	}

	voters, err := h.registry.ListAll()
	if err != nil {
		slog.Error("failed to list voters", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load voters")
		return
	}

	view := make([]models.AdminVoter, 0, len(voters))
	for _, v := range voters {
		av := models.AdminVoter{
			VoterID:          v.VoterID,
			Name:             v.Name,
			HasTemplate:      v.TemplateBase64 != "",
			RegistrationDate: v.RegistrationDate,
		}
		if t, err := time.ParseInLocation(models.TimestampFormat, v.RegistrationDate, time.Local); err == nil {
			av.RegisteredAgo = humanize.Time(t)
		}
		view = append(view, av)
	}

	middleware.JSONResponse(w, http.StatusOK, view)
}

// Tally handles GET /admin/tally
func (h *AdminHandler) Tally(w http.ResponseWriter, r *http.Request) {
	if requireAdmin(w, r) == nil {
		return
	}

	tally, err := h.ballots.Tally()
	if err != nil {
		slog.Error("failed to compute tally", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to compute tally")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, tally)
}

// Audit handles GET /admin/audit
func (h *AdminHandler) Audit(w http.ResponseWriter, r *http.Request) {
	if requireAdmin(w, r) == nil {
		return
	}

	log, err := h.ballots.AuditLog()
	if err != nil {
		slog.Error("failed to read audit log", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to read audit log")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, log)
}

// UploadCandidates handles POST /admin/candidates
//
// Accepts a multipart form with the candidate CSV under "file" and replaces
// the stored list wholesale.
func (h *AdminHandler) UploadCandidates(w http.ResponseWriter, r *http.Request) {
	if requireAdmin(w, r) == nil {
		return
	}

	if err := r.ParseMultipartForm(maxCandidateUpload); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Candidate file is required under 'file'")
		return
	}
	defer file.Close()

	count, err := h.candidates.ReplaceFromCSV(file)
	if errors.Is(err, candidates.ErrBadHeader) {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		slog.Error("failed to import candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to import candidates")
		return
	}

	slog.Info("candidate list replaced", "count", count)
	middleware.JSONResponse(w, http.StatusOK, map[string]interface{}{
		"message": "Candidate list replaced",
		"count":   count,
	})
}

// Purge handles POST /admin/purge/{target}
//
// Targets: voters, votes, eligibility, candidates. Purges are idempotent.
func (h *AdminHandler) Purge(w http.ResponseWriter, r *http.Request) {
	if requireAdmin(w, r) == nil {
		return
	}

	target := r.PathValue("target")

	var err error
	switch target {
	case "voters":
		err = h.registry.PurgeAll()
	case "votes":
		err = h.ballots.PurgeAll()
	case "eligibility":
		err = h.ledger.PurgeAll()
	case "candidates":
		err = h.candidates.PurgeAll()
	default:
		middleware.ErrorResponse(w, http.StatusNotFound, "Unknown purge target: "+target)
		return
	}

	if err != nil {
		slog.Error("purge failed", "target", target, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Purge failed")
		return
	}

	slog.Info("purge completed", "target", target)
	middleware.JSONResponse(w, http.StatusOK, map[string]string{"message": "Purged " + target})
}

// Export handles GET /admin/export/{target}
//
// Streams the requested log as a CSV download in the tabular log format.
func (h *AdminHandler) Export(w http.ResponseWriter, r *http.Request) {
	if requireAdmin(w, r) == nil {
		return
	}

	target := r.PathValue("target")

	var filename string
	switch target {
	case "voters":
		filename = "voters.csv"
	case "votes":
		filename = "votes.csv"
	case "eligibility":
		filename = "voted.csv"
	case "candidates":
		filename = "candidates.csv"
	default:
		middleware.ErrorResponse(w, http.StatusNotFound, "Unknown export target: "+target)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)

	var err error
	switch target {
	case "voters":
		err = h.registry.ExportCSV(w)
	case "votes":
		err = h.ballots.ExportCSV(w)
	case "eligibility":
		err = h.ledger.ExportCSV(w)
	case "candidates":
		err = h.candidates.ExportCSV(w)
	}
	if err != nil {
		// Headers are already out; all that is left is to log.
		slog.Error("export failed", "target", target, "error", err)
	}
}
