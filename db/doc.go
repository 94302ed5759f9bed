// Copyright (c) 2025 Biovote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - voter: Enrolled voters (unique voter_id, unique biometric template)
  - vote_event: Append-only eligibility log (one row per successful cast)
  - ballot: Append-only cast ballots, attributed to voter_id
  - candidate: Candidate list, replaced wholesale by admin upload

# Portability

The same schema and queries run on both sqlite (modernc.org/sqlite) and
PostgreSQL (lib/pq): TEXT columns everywhere, no database-side time defaults,
and $N placeholders used strictly in ascending order.

Dates and timestamps are stored as formatted TEXT ("YYYY-MM-DD" and
"YYYY-MM-DD HH:MM:SS") so rows round-trip bit-for-bit through the CSV
export/import surfaces.
*/
package db
