// Copyright (c) 2025 Biovote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package registry

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"biovote/models"
)

var (
	ErrValidation          = errors.New("missing required information")
	ErrDuplicateIdentifier = errors.New("voter ID is already registered")
	ErrDuplicateBiometric  = errors.New("this biometric is already registered with another voter ID")
	ErrNotFound            = errors.New("voter not found")
)

// minTemplateLen guards against truncated rows: a usable base64 template is
// always longer than this.
const minTemplateLen = 10

// Registry is the durable store of enrolled voters.
type Registry struct {
	db *sql.DB
}

func New(db *sql.DB) *Registry {
	return &Registry{db: db}
}

// NormalizeID upper-cases and trims a voter identifier. Identifiers are
// case-insensitive everywhere; the normalized form is what gets stored.
func NormalizeID(voterID string) string {
	return strings.ToUpper(strings.TrimSpace(voterID))
}

// Register enrolls a new voter. The identifier must be unique
// (case-insensitive) and the template must not match any enrolled voter's
// template byte-for-byte.
func (r *Registry) Register(voterID, name, templateBase64, bmpBase64 string, now time.Time) (models.Voter, error) {
	voterID = NormalizeID(voterID)
	name = strings.TrimSpace(name)

	if voterID == "" || name == "" || templateBase64 == "" {
		return models.Voter{}, fmt.Errorf("%w: voter ID, name, and fingerprint template are required", ErrValidation)
	}

	exists, err := r.Exists(voterID)
	if err != nil {
		return models.Voter{}, err
	}
	if exists {
		return models.Voter{}, fmt.Errorf("%w: %s", ErrDuplicateIdentifier, voterID)
	}

	var templateTaken bool
	err = r.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM voter WHERE template_base64 = $1)
	`, templateBase64).Scan(&templateTaken)
	if err != nil {
		return models.Voter{}, fmt.Errorf("failed to check template uniqueness: %w", err)
	}
	if templateTaken {
		return models.Voter{}, ErrDuplicateBiometric
	}

	voter := models.Voter{
		VoterID:          voterID,
		Name:             name,
		TemplateBase64:   templateBase64,
		BMPBase64:        bmpBase64,
		RegistrationDate: now.Format(models.TimestampFormat),
	}

	_, err = r.db.Exec(`
		INSERT INTO voter (voter_id, name, template_base64, bmp_base64, registration_date)
		VALUES ($1, $2, $3, $4, $5)
	`, voter.VoterID, voter.Name, voter.TemplateBase64, voter.BMPBase64, voter.RegistrationDate)
	if err != nil {
		// The pre-checks race against concurrent registrations; the UNIQUE
		// constraints are the backstop.
		if isUniqueViolation(err) {
			if strings.Contains(err.Error(), "template") {
				return models.Voter{}, ErrDuplicateBiometric
			}
			return models.Voter{}, fmt.Errorf("%w: %s", ErrDuplicateIdentifier, voterID)
		}
		return models.Voter{}, fmt.Errorf("failed to insert voter: %w", err)
	}

	return voter, nil
}

// Find looks up a voter by identifier, case-insensitively.
func (r *Registry) Find(voterID string) (models.Voter, error) {
	var v models.Voter
	var bmp sql.NullString
	err := r.db.QueryRow(`
		SELECT voter_id, name, template_base64, bmp_base64, registration_date
		FROM voter WHERE UPPER(voter_id) = $1
	`, NormalizeID(voterID)).Scan(&v.VoterID, &v.Name, &v.TemplateBase64, &bmp, &v.RegistrationDate)
	if err == sql.ErrNoRows {
		return models.Voter{}, fmt.Errorf("%w: %s", ErrNotFound, NormalizeID(voterID))
	}
	if err != nil {
		return models.Voter{}, fmt.Errorf("failed to query voter: %w", err)
	}
	v.BMPBase64 = bmp.String
	return v, nil
}

func (r *Registry) Exists(voterID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM voter WHERE UPPER(voter_id) = $1)
	`, NormalizeID(voterID)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check voter existence: %w", err)
	}
	return exists, nil
}

// ListAll returns every enrolled voter with a usable template. Malformed rows
// (missing identifier or truncated template) are logged and skipped rather
// than failing the whole listing.
func (r *Registry) ListAll() ([]models.Voter, error) {
	rows, err := r.db.Query(`
		SELECT voter_id, name, template_base64, bmp_base64, registration_date
		FROM voter
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query voters: %w", err)
	}
	defer rows.Close()

	voters := []models.Voter{}
	rowNum := 0
	for rows.Next() {
		rowNum++
		var v models.Voter
		var name, template, bmp, regDate sql.NullString
		if err := rows.Scan(&v.VoterID, &name, &template, &bmp, &regDate); err != nil {
			slog.Warn("skipping unreadable voter row", "row", rowNum, "error", err)
			continue
		}
		v.Name = strings.TrimSpace(name.String)
		v.TemplateBase64 = strings.TrimSpace(template.String)
		v.BMPBase64 = bmp.String
		v.RegistrationDate = regDate.String
		v.VoterID = strings.TrimSpace(v.VoterID)

		if v.VoterID == "" || len(v.TemplateBase64) <= minTemplateLen {
			slog.Warn("skipping malformed voter row",
				"row", rowNum,
				"voter_id", v.VoterID,
				"template_len", len(v.TemplateBase64),
			)
			continue
		}
		voters = append(voters, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read voters: %w", err)
	}
	return voters, nil
}

// PurgeAll clears the registry. Irreversible; the table stays writable.
func (r *Registry) PurgeAll() error {
	if _, err := r.db.Exec(`DELETE FROM voter`); err != nil {
		return fmt.Errorf("failed to purge voters: %w", err)
	}
	return nil
}

// ExportCSV streams the registry in the voters log format:
// voter_id, name, template_base64, bmp_base64, registration_date.
func (r *Registry) ExportCSV(w io.Writer) error {
	rows, err := r.db.Query(`
		SELECT voter_id, name, template_base64, bmp_base64, registration_date
		FROM voter
	`)
	if err != nil {
		return fmt.Errorf("failed to query voters: %w", err)
	}
	defer rows.Close()

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"voter_id", "name", "template_base64", "bmp_base64", "registration_date"}); err != nil {
		return err
	}
	for rows.Next() {
		var voterID string
		var name, template, bmp, regDate sql.NullString
		if err := rows.Scan(&voterID, &name, &template, &bmp, &regDate); err != nil {
			slog.Warn("skipping unreadable voter row in export", "error", err)
			continue
		}
		if err := cw.Write([]string{voterID, name.String, template.String, bmp.String, regDate.String}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read voters: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

// isUniqueViolation matches the unique-constraint error text of both
// supported drivers.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
