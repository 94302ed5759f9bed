// Copyright (c) 2025 Biovote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Biovote API.

# Handler Types

Each handler is a struct with store and config dependencies:

  - RegistrationHandler: Fingerprint capture and voter enrollment
  - LoginHandler: Two-scan biometric login and verification
  - VotingHandler: Entering the voting flow and casting ballots
  - VotersHandler: Enrollment export for the client-side matcher
  - AdminHandler: Officer panel, uploads, purges, and CSV exports

Handlers are created via constructor functions that accept their stores and
Config:

	loginHandler := handlers.NewLoginHandler(reg, led, cfg, m)

# Registration Flow

	POST /register/scan → Scan (parks the capture on the session)
	POST /register      → Register (pairs capture with voter details)

# Login Flow

Verification is a fixed sequence per session:

	POST /login/scan1  → ScanFirst (restartable at any point)
	POST /login/scan2  → ScanSecond (returns both templates)
	POST /login/verify → Verify (consumes the matching result)
	POST /logout       → Logout

The kiosk matches the captured templates against GET /voters locally and
reports the best match and score to Verify. A score at or above the
configured threshold with a non-empty matched ID verifies the voter, unless
they have voted inside the lockout window.

# Voting Flow

All three require a verified session; a session is good for one ballot:

	GET  /voting     → EnterVotingSystem
	GET  /candidates → Candidates
	POST /vote       → CastVote

# Admin Surface

Admin operations require a session that passed POST /admin/login:

	GET  /admin/voters          → Voters (no raw templates)
	GET  /admin/tally           → Tally
	GET  /admin/audit           → Audit
	POST /admin/candidates      → UploadCandidates (multipart CSV)
	POST /admin/purge/{target}  → Purge
	GET  /admin/export/{target} → Export (CSV download)

Targets are voters, votes, eligibility, and candidates.
*/
package handlers
