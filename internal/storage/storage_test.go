package storage

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/pable/go-pool-stats/internal/model"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

type lastRun struct {
	Season string         `json:"season"`
	Odds   map[string]int `json:"odds"`
}

func newLastRun() lastRun { return lastRun{Odds: map[string]int{}} }

func TestRecordMissingReturnsDefault(t *testing.T) {
	db := openMemDB(t)
	r := NewRecord(db, "last_run", newLastRun, zerolog.Nop())

	got := r.Load()
	if got.Odds == nil {
		t.Fatal("expected default value with initialized map")
	}
	if got.Season != "" {
		t.Errorf("expected empty season, got %q", got.Season)
	}
}

func TestRecordRoundTrip(t *testing.T) {
	db := openMemDB(t)
	r := NewRecord(db, "last_run", newLastRun, zerolog.Nop())

	if err := r.Save(lastRun{Season: "20242025", Odds: map[string]int{"TOR": 12}}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got := r.Load()
	if got.Season != "20242025" || got.Odds["TOR"] != 12 {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestRecordCorruptBodyReturnsDefault(t *testing.T) {
	db := openMemDB(t)
	if _, err := db.conn.Exec(`INSERT INTO records(key, body, updated_at) VALUES ('last_run', '{oops', 'x')`); err != nil {
		t.Fatalf("seed corrupt row: %v", err)
	}
	got := NewRecord(db, "last_run", newLastRun, zerolog.Nop()).Load()
	if got.Odds == nil || len(got.Odds) != 0 {
		t.Errorf("expected default for corrupt body, got %+v", got)
	}
}

func TestRecordSaveIdempotent(t *testing.T) {
	db := openMemDB(t)
	r := NewRecord(db, "k", newLastRun, zerolog.Nop())
	v := lastRun{Season: "s", Odds: map[string]int{}}
	r.Save(v)
	// Second save should not error (INSERT OR REPLACE).
	if err := r.Save(v); err != nil {
		t.Errorf("second Save should succeed (idempotent): %v", err)
	}
}

func TestHistoryRecordMirrorsSnapshots(t *testing.T) {
	db := openMemDB(t)
	h := NewHistoryRecord(db, zerolog.Nop())

	at := time.Date(2025, 4, 18, 12, 0, 0, 0, time.UTC)
	hist := model.History{
		"20232024": {"Alice": {Team: "TOR", Wins: 46, Points: 102, PlayoffWins: 3, CapturedAt: at}},
		"20242025": {
			"Alice": {Team: "TOR", Wins: 52, Points: 108, PlayoffWins: 6, CapturedAt: at},
			"Bob":   {Team: "MTL", Wins: 40, Points: 91, CapturedAt: at},
		},
	}
	if err := h.Save(hist); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got := h.Load()
	if got["20242025"]["Bob"].Wins != 40 {
		t.Errorf("Load mismatch: %+v", got)
	}

	seasons, err := db.ListSeasons()
	if err != nil {
		t.Fatalf("ListSeasons: %v", err)
	}
	if len(seasons) != 2 {
		t.Fatalf("expected 2 seasons, got %d", len(seasons))
	}
	// Ordered by season DESC.
	if seasons[0].Season != "20242025" || seasons[0].Participants != 2 || seasons[0].PlayoffWins != 6 {
		t.Errorf("unexpected newest season row: %+v", seasons[0])
	}

	// Saving a smaller history must drop stale mirror rows.
	delete(hist, "20232024")
	if err := h.Save(hist); err != nil {
		t.Fatalf("second Save: %v", err)
	}
	seasons, _ = db.ListSeasons()
	if len(seasons) != 1 {
		t.Errorf("expected 1 season after rewrite, got %d", len(seasons))
	}
}

func TestQueryRaw(t *testing.T) {
	db := openMemDB(t)
	h := NewHistoryRecord(db, zerolog.Nop())
	h.Save(model.History{"20242025": {"Alice": {Team: "TOR", Wins: 52}}})

	cols, rows, err := db.QueryRaw("SELECT participant, wins FROM season_snapshots")
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if len(cols) != 2 || cols[0] != "participant" {
		t.Errorf("unexpected columns %v", cols)
	}
	if len(rows) != 1 || rows[0][0] != "Alice" || rows[0][1] != "52" {
		t.Errorf("unexpected rows %v", rows)
	}
}

func TestOpenRefusesNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	db.Close()

	// Reopening a file at the current version is fine.
	db, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if _, err := db.conn.Exec("PRAGMA user_version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	db.Close()

	_, err = Open(path)
	if err == nil || !strings.Contains(err.Error(), "schema version 99") {
		t.Fatalf("expected schema version error, got %v", err)
	}
}
