// Copyright (c) 2025 Biovote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package candidates

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"biovote/auth"
	"biovote/models"
)

var ErrBadHeader = errors.New("candidate file header does not match expected format")

// csvHeader is the upload/export contract with the external candidate list
// provider.
var csvHeader = []string{"_id", "State", "Constituency", "Party", "Candidate Name"}

// Store holds the externally supplied candidate list. This core only reads
// it; the whole list is replaced by an administrative upload.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// List returns the candidate list. Rows missing both the state and the
// candidate name are filtered out.
func (s *Store) List() ([]models.Candidate, error) {
	rows, err := s.db.Query(`SELECT id, state, constituency, party, candidate_name FROM candidate`)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	list := []models.Candidate{}
	for rows.Next() {
		var c models.Candidate
		var state, constituency, party, name sql.NullString
		if err := rows.Scan(&c.ID, &state, &constituency, &party, &name); err != nil {
			slog.Warn("skipping unreadable candidate row", "error", err)
			continue
		}
		c.State = state.String
		c.Constituency = constituency.String
		c.Party = party.String
		c.CandidateName = name.String
		if c.State == "" && c.CandidateName == "" {
			continue
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read candidates: %w", err)
	}
	return list, nil
}

// ReplaceFromCSV parses an uploaded candidate file and replaces the stored
// list wholesale. The header row must match the expected format. Rows with
// missing _id values get a generated one.
func (s *Store) ReplaceFromCSV(r io.Reader) (int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return 0, fmt.Errorf("failed to read candidate file: %w", err)
	}
	if !headerMatches(header) {
		return 0, fmt.Errorf("%w: got %v", ErrBadHeader, header)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM candidate`); err != nil {
		return 0, fmt.Errorf("failed to clear candidates: %w", err)
	}

	count := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			slog.Warn("skipping malformed candidate row", "error", err)
			continue
		}
		// Pad short rows so partial records don't index out of range.
		for len(record) < len(csvHeader) {
			record = append(record, "")
		}

		id := strings.TrimSpace(record[0])
		if id == "" {
			id, err = auth.GenerateID(12)
			if err != nil {
				return 0, fmt.Errorf("failed to generate candidate ID: %w", err)
			}
		}

		_, err = tx.Exec(`
			INSERT INTO candidate (id, state, constituency, party, candidate_name)
			VALUES ($1, $2, $3, $4, $5)
		`, id, strings.TrimSpace(record[1]), strings.TrimSpace(record[2]),
			strings.TrimSpace(record[3]), strings.TrimSpace(record[4]))
		if err != nil {
			return 0, fmt.Errorf("failed to insert candidate: %w", err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit candidate replacement: %w", err)
	}
	return count, nil
}

// PurgeAll clears the candidate list.
func (s *Store) PurgeAll() error {
	if _, err := s.db.Exec(`DELETE FROM candidate`); err != nil {
		return fmt.Errorf("failed to purge candidates: %w", err)
	}
	return nil
}

// ExportCSV streams the list in the upload format.
func (s *Store) ExportCSV(w io.Writer) error {
	rows, err := s.db.Query(`SELECT id, state, constituency, party, candidate_name FROM candidate`)
	if err != nil {
		return fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for rows.Next() {
		var id string
		var state, constituency, party, name sql.NullString
		if err := rows.Scan(&id, &state, &constituency, &party, &name); err != nil {
			slog.Warn("skipping unreadable candidate row in export", "error", err)
			continue
		}
		if err := cw.Write([]string{id, state.String, constituency.String, party.String, name.String}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read candidates: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

func headerMatches(header []string) bool {
	if len(header) != len(csvHeader) {
		return false
	}
	for i, col := range csvHeader {
		if !strings.EqualFold(strings.TrimSpace(header[i]), col) {
			return false
		}
	}
	return true
}
