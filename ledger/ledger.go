// Copyright (c) 2025 Biovote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"time"

	"biovote/models"
	"biovote/registry"
)

// Ledger is the append-only eligibility log answering "has this voter voted
// recently." It does not enforce the window on writes; callers serialize the
// check-then-record sequence (see the voting orchestrator).
type Ledger struct {
	db *sql.DB
}

func New(db *sql.DB) *Ledger {
	return &Ledger{db: db}
}

// HasVotedRecently reports whether any recorded event for the voter has
// elapsed time strictly less than window relative to now. An event exactly at
// the window boundary is NOT recent.
//
// Rows without a timestamp but with a date (written by older tooling) are
// read as having occurred at the start of that date. Rows with neither a
// parseable timestamp nor date are logged and skipped.
func (l *Ledger) HasVotedRecently(voterID string, now time.Time, window time.Duration) (bool, error) {
	rows, err := l.db.Query(`
		SELECT date, timestamp FROM vote_event WHERE UPPER(voter_id) = $1
	`, registry.NormalizeID(voterID))
	if err != nil {
		return false, fmt.Errorf("failed to query vote events: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var date, timestamp sql.NullString
		if err := rows.Scan(&date, &timestamp); err != nil {
			slog.Warn("skipping unreadable vote event row", "voter_id", voterID, "error", err)
			continue
		}

		eventTime, ok := parseEventTime(date.String, timestamp.String)
		if !ok {
			slog.Warn("skipping vote event with no usable time",
				"voter_id", voterID, "date", date.String, "timestamp", timestamp.String)
			continue
		}

		if now.Sub(eventTime) < window {
			return true, nil
		}
	}
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("failed to read vote events: %w", err)
	}
	return false, nil
}

// parseEventTime resolves an event's time, preferring the full timestamp and
// falling back to the date at midnight.
func parseEventTime(date, timestamp string) (time.Time, bool) {
	if timestamp != "" {
		if t, err := time.ParseInLocation(models.TimestampFormat, timestamp, time.Local); err == nil {
			return t, true
		}
	}
	if date != "" {
		if t, err := time.ParseInLocation(models.DateFormat, date, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// RecordVote appends a vote event for the voter. Callers must have checked
// HasVotedRecently first; the ledger itself never enforces the window.
func (l *Ledger) RecordVote(voterID string, now time.Time) error {
	_, err := l.db.Exec(`
		INSERT INTO vote_event (date, voter_id, voted, timestamp)
		VALUES ($1, $2, 'yes', $3)
	`, now.Format(models.DateFormat), registry.NormalizeID(voterID), now.Format(models.TimestampFormat))
	if err != nil {
		return fmt.Errorf("failed to record vote event: %w", err)
	}
	return nil
}

// Events returns the full eligibility log in insertion order.
func (l *Ledger) Events() ([]models.VoteEvent, error) {
	rows, err := l.db.Query(`SELECT date, voter_id, voted, timestamp FROM vote_event`)
	if err != nil {
		return nil, fmt.Errorf("failed to query vote events: %w", err)
	}
	defer rows.Close()

	events := []models.VoteEvent{}
	for rows.Next() {
		var e models.VoteEvent
		var ts sql.NullString
		if err := rows.Scan(&e.Date, &e.VoterID, &e.Voted, &ts); err != nil {
			slog.Warn("skipping unreadable vote event row", "error", err)
			continue
		}
		e.Timestamp = ts.String
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read vote events: %w", err)
	}
	return events, nil
}

// PurgeAll clears the eligibility log.
func (l *Ledger) PurgeAll() error {
	if _, err := l.db.Exec(`DELETE FROM vote_event`); err != nil {
		return fmt.Errorf("failed to purge vote events: %w", err)
	}
	return nil
}

// ExportCSV streams the log in the daily-votes format:
// date, voter_id, voted, timestamp.
func (l *Ledger) ExportCSV(w io.Writer) error {
	events, err := l.Events()
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "voter_id", "voted", "timestamp"}); err != nil {
		return err
	}
	for _, e := range events {
		if err := cw.Write([]string{e.Date, e.VoterID, e.Voted, e.Timestamp}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
