// Copyright (c) 2025 Biovote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"biovote/testutil"
)

const window = 75 * time.Hour

func TestHasVotedRecentlyWindow(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	led := New(conn)

	castAt := time.Date(2025, 1, 1, 10, 0, 0, 0, time.Local)
	if err := led.RecordVote("V001", castAt); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"74h later", time.Date(2025, 1, 4, 12, 0, 0, 0, time.Local), true},
		{"one second inside", castAt.Add(window - time.Second), true},
		{"exactly at window", castAt.Add(window), false},
		{"75h 0m 1s later", time.Date(2025, 1, 4, 13, 0, 1, 0, time.Local), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := led.HasVotedRecently("V001", tc.now, window)
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("HasVotedRecently at %s = %v, want %v", tc.now, got, tc.want)
			}
		})
	}
}

func TestHasVotedRecentlyCaseInsensitive(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	led := New(conn)

	now := time.Now()
	if err := led.RecordVote("V001", now); err != nil {
		t.Fatal(err)
	}

	got, err := led.HasVotedRecently("v001", now.Add(time.Hour), window)
	if err != nil {
		t.Fatal(err)
	}
	if !got {
		t.Error("lookup should be case-insensitive")
	}
}

func TestHasVotedRecentlyUnknownVoter(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	led := New(conn)

	got, err := led.HasVotedRecently("NOBODY", time.Now(), window)
	if err != nil {
		t.Fatal(err)
	}
	if got {
		t.Error("voter with no events should not be recent")
	}
}

func TestHasVotedRecentlyDateOnlyFallback(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	led := New(conn)

	// Row from older tooling: date only, no timestamp. Interpreted as the
	// start of that date.
	testutil.SeedVoteEvent(t, conn, "V001", "2025-01-01", "")

	startOfDay := time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local)

	got, err := led.HasVotedRecently("V001", startOfDay.Add(window-time.Hour), window)
	if err != nil {
		t.Fatal(err)
	}
	if !got {
		t.Error("date-only event inside window should count")
	}

	got, err = led.HasVotedRecently("V001", startOfDay.Add(window+time.Hour), window)
	if err != nil {
		t.Fatal(err)
	}
	if got {
		t.Error("date-only event outside window should not count")
	}
}

func TestHasVotedRecentlySkipsUnusableRows(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	led := New(conn)

	// Garbage in both time fields: the row is skipped, not fatal.
	testutil.SeedVoteEvent(t, conn, "V001", "not-a-date", "also-not-a-time")

	got, err := led.HasVotedRecently("V001", time.Now(), window)
	if err != nil {
		t.Fatal(err)
	}
	if got {
		t.Error("unusable row must not count as a recent vote")
	}
}

func TestRecordVoteAppends(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	led := New(conn)

	now := time.Date(2025, 6, 15, 14, 30, 45, 0, time.Local)
	if err := led.RecordVote("v001", now); err != nil {
		t.Fatal(err)
	}

	events, err := led.Events()
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	e := events[0]
	if e.VoterID != "V001" {
		t.Errorf("voter ID should be normalized, got %q", e.VoterID)
	}
	if e.Date != "2025-06-15" || e.Timestamp != "2025-06-15 14:30:45" || e.Voted != "yes" {
		t.Errorf("unexpected event row: %+v", e)
	}
}

func TestPurgeAllIdempotent(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	led := New(conn)

	if err := led.RecordVote("V001", time.Now()); err != nil {
		t.Fatal(err)
	}
	if err := led.PurgeAll(); err != nil {
		t.Fatal(err)
	}

	events, err := led.Events()
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 0 {
		t.Errorf("expected empty log after purge, got %d events", len(events))
	}

	if err := led.RecordVote("V002", time.Now()); err != nil {
		t.Errorf("ledger should remain writable after purge: %v", err)
	}
}

func TestExportCSV(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	led := New(conn)

	if err := led.RecordVote("V001", time.Date(2025, 2, 1, 8, 0, 0, 0, time.Local)); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := led.ExportCSV(&buf); err != nil {
		t.Fatal(err)
	}

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("export is not valid CSV: %v", err)
	}
	wantHeader := []string{"date", "voter_id", "voted", "timestamp"}
	for i, col := range wantHeader {
		if records[0][i] != col {
			t.Errorf("header column %d = %q, want %q", i, records[0][i], col)
		}
	}
	if records[1][1] != "V001" || records[1][2] != "yes" {
		t.Errorf("unexpected export row: %v", records[1])
	}
}
