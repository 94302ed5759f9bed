// Copyright (c) 2025 Biovote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"biovote/ballots"
	"biovote/candidates"
	"biovote/cliparse"
	"biovote/handlers"
	"biovote/ledger"
	"biovote/metrics"
	"biovote/middleware"
	"biovote/registry"
	"biovote/session"
	"biovote/voting"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, sessions *session.Store, m *metrics.Metrics) http.Handler {
	mux := http.NewServeMux()

	// Initialize stores and handlers
	reg := registry.New(db)
	led := ledger.New(db)
	bal := ballots.New(db)
	cand := candidates.New(db)
	orch := voting.New(led, bal, cand, cfg.VoteWindow)

	registrationHandler := handlers.NewRegistrationHandler(reg, m)
	loginHandler := handlers.NewLoginHandler(reg, led, cfg, m)
	votingHandler := handlers.NewVotingHandler(orch, m)
	votersHandler := handlers.NewVotersHandler(reg)
	adminHandler := handlers.NewAdminHandler(reg, led, bal, cand, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Metrics
	mux.Handle("GET /metrics", promhttp.Handler())

	// Registration desk
	mux.HandleFunc("POST /register/scan", middleware.WithLogging(registrationHandler.Scan))
	mux.HandleFunc("POST /register", middleware.WithLogging(registrationHandler.Register))

	// Biometric login
	mux.HandleFunc("POST /login/scan1", middleware.WithLogging(loginHandler.ScanFirst))
	mux.HandleFunc("POST /login/scan2", middleware.WithLogging(loginHandler.ScanSecond))
	mux.HandleFunc("POST /login/verify", middleware.WithLogging(loginHandler.Verify))
	mux.HandleFunc("POST /logout", middleware.WithLogging(loginHandler.Logout))

	// Voter export for the client-side matcher
	mux.HandleFunc("GET /voters", middleware.WithLogging(votersHandler.List))

	// Voting flow (verified sessions only)
	mux.HandleFunc("GET /voting", middleware.WithLogging(votingHandler.EnterVotingSystem))
	mux.HandleFunc("GET /candidates", middleware.WithLogging(votingHandler.Candidates))
	mux.HandleFunc("POST /vote", middleware.WithLogging(votingHandler.CastVote))

	// Officer panel
	mux.HandleFunc("POST /admin/login", middleware.WithLogging(adminHandler.Login))
	mux.HandleFunc("POST /admin/logout", middleware.WithLogging(adminHandler.Logout))
	mux.HandleFunc("GET /admin/voters", middleware.WithLogging(adminHandler.Voters))
	mux.HandleFunc("GET /admin/tally", middleware.WithLogging(adminHandler.Tally))
	mux.HandleFunc("GET /admin/audit", middleware.WithLogging(adminHandler.Audit))
	mux.HandleFunc("POST /admin/candidates", middleware.WithLogging(adminHandler.UploadCandidates))
	mux.HandleFunc("POST /admin/purge/{target}", middleware.WithLogging(adminHandler.Purge))
	mux.HandleFunc("GET /admin/export/{target}", middleware.WithLogging(adminHandler.Export))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("biovote API v1"))
	})

	return middleware.WithSession(sessions, mux)
}
