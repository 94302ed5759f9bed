// Copyright (c) 2025 Biovote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the request, response, and domain types shared across
the Biovote API.

Domain records (Voter, VoteEvent, Ballot, Candidate) mirror the tabular log
format used by the wider election tooling: dates are "YYYY-MM-DD" strings and
timestamps are "YYYY-MM-DD HH:MM:SS" strings (see TimestampFormat and
DateFormat). Keeping them as formatted strings preserves byte-level
compatibility with the CSV exports and with rows written by older tooling.

Request/response types carry JSON tags for the HTTP surface. ErrorResponse is
the uniform error body; Code carries a vendor device code when one applies.
*/
package models
