// Copyright (c) 2025 Biovote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package registry

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"biovote/testutil"
)

const testTemplate = "dGVzdC10ZW1wbGF0ZS1wYXlsb2FkLWxvbmctZW5vdWdo"

func TestRegisterAndFind(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	reg := New(conn)

	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	voter, err := reg.Register("v001", "Alice", testTemplate, "aW1n", now)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if voter.VoterID != "V001" {
		t.Errorf("identifier should be normalized to upper case, got %q", voter.VoterID)
	}
	if voter.RegistrationDate != "2025-01-01 10:00:00" {
		t.Errorf("unexpected registration date: %q", voter.RegistrationDate)
	}

	// Case-insensitive lookup.
	found, err := reg.Find("v001")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if found.Name != "Alice" || found.TemplateBase64 != testTemplate {
		t.Errorf("unexpected voter: %+v", found)
	}

	exists, err := reg.Exists("V001")
	if err != nil || !exists {
		t.Errorf("expected voter to exist, got %v / %v", exists, err)
	}
}

func TestRegisterDuplicateIdentifierCaseInsensitive(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	reg := New(conn)

	if _, err := reg.Register("V001", "Alice", testTemplate, "", time.Now()); err != nil {
		t.Fatal(err)
	}

	_, err := reg.Register("v001", "Bob", testTemplate+"LTI=", "", time.Now())
	if !errors.Is(err, ErrDuplicateIdentifier) {
		t.Errorf("expected ErrDuplicateIdentifier, got %v", err)
	}
}

func TestRegisterDuplicateBiometric(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	reg := New(conn)

	if _, err := reg.Register("V001", "Alice", testTemplate, "", time.Now()); err != nil {
		t.Fatal(err)
	}

	_, err := reg.Register("V002", "Bob", testTemplate, "", time.Now())
	if !errors.Is(err, ErrDuplicateBiometric) {
		t.Errorf("expected ErrDuplicateBiometric, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	reg := New(conn)

	cases := []struct {
		name     string
		id, nm   string
		template string
	}{
		{"empty id", "", "Alice", testTemplate},
		{"empty name", "V001", "", testTemplate},
		{"empty template", "V001", "Alice", ""},
		{"whitespace id", "   ", "Alice", testTemplate},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := reg.Register(tc.id, tc.nm, tc.template, "", time.Now()); !errors.Is(err, ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestFindNotFound(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	reg := New(conn)

	if _, err := reg.Find("MISSING"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListAllSkipsMalformedRows(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	reg := New(conn)

	testutil.SeedVoter(t, conn, "V001", "Alice", testTemplate)
	// Truncated template: must be skipped, not fail the listing.
	testutil.SeedVoter(t, conn, "V002", "Bob", "c2hvcnQ=")
	testutil.SeedVoter(t, conn, "V003", "Carol", testTemplate+"LXRocmVl")

	voters, err := reg.ListAll()
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(voters) != 2 {
		t.Fatalf("expected 2 valid voters, got %d", len(voters))
	}
	for _, v := range voters {
		if v.VoterID == "V002" {
			t.Error("malformed row should have been skipped")
		}
	}
}

func TestPurgeAllIdempotent(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	reg := New(conn)

	testutil.SeedVoter(t, conn, "V001", "Alice", testTemplate)

	if err := reg.PurgeAll(); err != nil {
		t.Fatal(err)
	}
	voters, err := reg.ListAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(voters) != 0 {
		t.Errorf("expected empty registry after purge, got %d voters", len(voters))
	}

	// Store must remain writable after a purge.
	if _, err := reg.Register("V010", "Dave", testTemplate, "", time.Now()); err != nil {
		t.Errorf("registry should accept registrations after purge: %v", err)
	}
	if err := reg.PurgeAll(); err != nil {
		t.Errorf("second purge should succeed: %v", err)
	}
}

func TestExportCSV(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	reg := New(conn)

	if _, err := reg.Register("V001", "Alice", testTemplate, "aW1n", time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := reg.ExportCSV(&buf); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("export is not valid CSV: %v", err)
	}
	wantHeader := []string{"voter_id", "name", "template_base64", "bmp_base64", "registration_date"}
	for i, col := range wantHeader {
		if records[0][i] != col {
			t.Errorf("header column %d = %q, want %q", i, records[0][i], col)
		}
	}
	if len(records) != 2 {
		t.Fatalf("expected header + 1 row, got %d records", len(records))
	}
	if records[1][0] != "V001" || records[1][4] != "2025-03-01 09:30:00" {
		t.Errorf("unexpected export row: %v", records[1])
	}
}
