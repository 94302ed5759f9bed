// Copyright (c) 2025 Biovote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
//
// All date/timestamp columns are TEXT holding the tabular-log formats
// ("YYYY-MM-DD", "YYYY-MM-DD HH:MM:SS") so the schema works identically on
// sqlite and Postgres and round-trips through the CSV exports unchanged.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Enrolled voters. voter_id is stored normalized to upper case; template
-- uniqueness prevents one fingerprint enrolling under two identities.
CREATE TABLE IF NOT EXISTS voter (
    voter_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    template_base64 TEXT NOT NULL UNIQUE,
    bmp_base64 TEXT,
    registration_date TEXT NOT NULL
);

-- Eligibility log: one append-only row per successful cast. timestamp may be
-- empty on rows imported from older date-only logs.
CREATE TABLE IF NOT EXISTS vote_event (
    date TEXT NOT NULL,
    voter_id TEXT NOT NULL,
    voted TEXT NOT NULL,
    timestamp TEXT
);

CREATE INDEX IF NOT EXISTS idx_vote_event_voter_id ON vote_event(voter_id);

-- Cast ballots, append-only. Voter attribution is kept deliberately to match
-- the audit-log format of the wider election tooling.
CREATE TABLE IF NOT EXISTS ballot (
    date TEXT NOT NULL,
    voter_id TEXT NOT NULL,
    name TEXT,
    state TEXT,
    constituency TEXT,
    candidate_name TEXT,
    party TEXT,
    timestamp TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_ballot_constituency ON ballot(constituency);

-- Candidate list, replaced wholesale by administrative upload.
CREATE TABLE IF NOT EXISTS candidate (
    id TEXT PRIMARY KEY,
    state TEXT,
    constituency TEXT,
    party TEXT,
    candidate_name TEXT
);
`
