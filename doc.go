// Copyright (c) 2025 Biovote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Biovote API server.

Biovote is a fingerprint-based voter registration and voting server for
polling-station kiosks. Voters enroll with a fingerprint template, log in
with two scans matched client-side against the enrolled templates, and cast
one ballot per eligibility window.

# Starting the Server

The server requires an admin password and accepts environment variables or
CLI flags for everything else:

	ADMIN_PASSWORD=... go run .

Or with flags:

	go run . -p 8400 -d biovote.db -admin-password ...

# Configuration

Required settings:

  - ADMIN_PASSWORD (-admin-password): Officer panel password

Optional settings:

  - PORT (-p): Server port (default: 8400)
  - DATABASE_URL (-d): sqlite file path or PostgreSQL connection string
  - DATABASE_TYPE (-t): "sqlite" (default) or "postgres"
  - MATCH_THRESHOLD (-match-threshold): Minimum matching score (default: 20)
  - VOTE_WINDOW_HOURS (-vote-window-hours): Re-vote lockout (default: 75)
  - SESSION_TTL_MINUTES (-session-ttl-minutes): Idle session expiry (default: 30)

A .env file in the working directory is loaded at startup.

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (registration, login, voting, admin)
  - router: Route definitions using Go 1.22+ routing
  - middleware: Sessions, CORS, logging, JSON helpers
  - models: Request/response and log-row types
  - verify: Two-scan capture and verification state machine
  - voting: Post-verification flow with per-voter cast serialization
  - registry, ledger, ballots, candidates: Stores over the tabular logs
  - session: In-memory session store with idle expiry
  - device: SecuGen vendor error code translation
  - metrics: Prometheus counters
  - auth: Admin password check and ID generation
  - db: Schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
