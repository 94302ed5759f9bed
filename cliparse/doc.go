// Copyright (c) 2025 Biovote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 8400)
  - DatabaseURL: sqlite file path or PostgreSQL connection string
  - DatabaseType: "sqlite" (default) or "postgres"
  - AdminPassword: Admin panel credential (required)
  - MatchThreshold: Minimum fingerprint match score (default: 20)
  - VoteWindow: Re-vote lockout window (default: 75h)
  - SessionTTL: Idle session lifetime (default: 30m)

# CLI Flags

	-p                   Server port
	-d                   Database URL / sqlite path
	-t                   Database type
	-match-threshold     Minimum match score
	-vote-window-hours   Lockout window in hours
	-session-ttl-minutes Session lifetime in minutes
	-admin-password      Admin credential (prefer env)

# Environment Variables

Flags fall back to environment variables:

	PORT, DATABASE_URL, DATABASE_TYPE, MATCH_THRESHOLD,
	VOTE_WINDOW_HOURS, SESSION_TTL_MINUTES, ADMIN_PASSWORD

CLI flags take precedence over environment variables. ADMIN_PASSWORD is the
only required setting; with sqlite the database path defaults to biovote.db.
*/
package cliparse
