// Copyright (c) 2025 Biovote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballots

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"

	"biovote/models"
)

// Store is the append-only log of cast ballots. Validation of required
// fields happens upstream; a ballot reaching Append has already passed the
// verification gate and the eligibility check.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Append writes one ballot unconditionally.
func (s *Store) Append(b models.Ballot) error {
	_, err := s.db.Exec(`
		INSERT INTO ballot (date, voter_id, name, state, constituency, candidate_name, party, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, b.Date, b.VoterID, b.Name, b.State, b.Constituency, b.CandidateName, b.Party, b.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to append ballot: %w", err)
	}
	return nil
}

// Tally groups ballots by constituency and counts them per
// "Candidate (Party)" label. Rows missing a constituency or candidate are
// skipped.
func (s *Store) Tally() (models.Tally, error) {
	rows, err := s.db.Query(`SELECT constituency, candidate_name, party FROM ballot`)
	if err != nil {
		return nil, fmt.Errorf("failed to query ballots: %w", err)
	}
	defer rows.Close()

	tally := models.Tally{}
	for rows.Next() {
		var constituency, candidate, party sql.NullString
		if err := rows.Scan(&constituency, &candidate, &party); err != nil {
			slog.Warn("skipping unreadable ballot row in tally", "error", err)
			continue
		}
		if constituency.String == "" || candidate.String == "" {
			continue
		}
		label := fmt.Sprintf("%s (%s)", candidate.String, party.String)
		if tally[constituency.String] == nil {
			tally[constituency.String] = map[string]int{}
		}
		tally[constituency.String][label]++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ballots: %w", err)
	}
	return tally, nil
}

// AuditLog returns every cast ballot in insertion order, skipping empty rows.
func (s *Store) AuditLog() ([]models.Ballot, error) {
	rows, err := s.db.Query(`
		SELECT date, voter_id, name, state, constituency, candidate_name, party, timestamp
		FROM ballot
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query ballots: %w", err)
	}
	defer rows.Close()

	log := []models.Ballot{}
	for rows.Next() {
		var b models.Ballot
		var name, state, constituency, candidate, party sql.NullString
		if err := rows.Scan(&b.Date, &b.VoterID, &name, &state, &constituency, &candidate, &party, &b.Timestamp); err != nil {
			slog.Warn("skipping unreadable ballot row", "error", err)
			continue
		}
		if b.VoterID == "" {
			continue
		}
		b.Name = name.String
		b.State = state.String
		b.Constituency = constituency.String
		b.CandidateName = candidate.String
		b.Party = party.String
		log = append(log, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ballots: %w", err)
	}
	return log, nil
}

// PurgeAll clears the ballot log.
func (s *Store) PurgeAll() error {
	if _, err := s.db.Exec(`DELETE FROM ballot`); err != nil {
		return fmt.Errorf("failed to purge ballots: %w", err)
	}
	return nil
}

// ExportCSV streams the log in the votes format:
// date, voter_id, name, state, constituency, candidate_name, party, timestamp.
func (s *Store) ExportCSV(w io.Writer) error {
	log, err := s.AuditLog()
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "voter_id", "name", "state", "constituency", "candidate_name", "party", "timestamp"}); err != nil {
		return err
	}
	for _, b := range log {
		if err := cw.Write([]string{b.Date, b.VoterID, b.Name, b.State, b.Constituency, b.CandidateName, b.Party, b.Timestamp}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
