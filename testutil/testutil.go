// Copyright (c) 2025 Biovote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"biovote/cliparse"
	"biovote/db"
	"biovote/models"
)

// SetupTestDB creates a fresh in-memory sqlite database with the full schema.
// The single-connection pool keeps the in-memory database alive for the
// test's duration.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:           8400,
		DatabaseURL:    ":memory:",
		DatabaseType:   "sqlite",
		AdminPassword:  "test-admin-password",
		MatchThreshold: 20,
		VoteWindow:     75 * time.Hour,
		SessionTTL:     30 * time.Minute,
	}
}

// SeedVoter inserts an enrolled voter directly
func SeedVoter(t *testing.T, conn *sql.DB, voterID, name, template string) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO voter (voter_id, name, template_base64, bmp_base64, registration_date)
		VALUES ($1, $2, $3, '', $4)
	`, voterID, name, template, time.Now().Format(models.TimestampFormat))
	if err != nil {
		t.Fatalf("Failed to seed voter: %v", err)
	}
}

// SeedVoteEvent inserts an eligibility-log row directly. Pass an empty
// timestamp to simulate a date-only row from older tooling.
func SeedVoteEvent(t *testing.T, conn *sql.DB, voterID, date, timestamp string) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO vote_event (date, voter_id, voted, timestamp)
		VALUES ($1, $2, 'yes', $3)
	`, date, voterID, timestamp)
	if err != nil {
		t.Fatalf("Failed to seed vote event: %v", err)
	}
}

// SeedBallot inserts a cast ballot directly
func SeedBallot(t *testing.T, conn *sql.DB, b models.Ballot) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO ballot (date, voter_id, name, state, constituency, candidate_name, party, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, b.Date, b.VoterID, b.Name, b.State, b.Constituency, b.CandidateName, b.Party, b.Timestamp)
	if err != nil {
		t.Fatalf("Failed to seed ballot: %v", err)
	}
}

// SeedCandidate inserts a candidate row directly
func SeedCandidate(t *testing.T, conn *sql.DB, id, state, constituency, party, name string) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO candidate (id, state, constituency, party, candidate_name)
		VALUES ($1, $2, $3, $4, $5)
	`, id, state, constituency, party, name)
	if err != nil {
		t.Fatalf("Failed to seed candidate: %v", err)
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
