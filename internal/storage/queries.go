package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pable/go-pool-stats/internal/model"
	"github.com/pable/go-pool-stats/internal/store"
)

// Record is a store.RecordStore backed by one row of the records table.
type Record[T any] struct {
	db     *DB
	key    string
	def    func() T
	logger zerolog.Logger
}

// NewRecord returns a record store for key. def builds the value returned
// when the row is missing or its body does not decode.
func NewRecord[T any](db *DB, key string, def func() T, logger zerolog.Logger) *Record[T] {
	return &Record[T]{
		db:     db,
		key:    key,
		def:    def,
		logger: logger.With().Str("component", "sqlite_store").Str("key", key).Logger(),
	}
}

// Load reads the row, falling back to the default on any error.
func (r *Record[T]) Load() T {
	body, err := r.db.readRecord(r.key)
	if err != nil {
		r.logger.Warn().Err(err).Msg("read failed, using default")
		return r.def()
	}
	v, err := store.Decode(body, r.def)
	if err != nil {
		r.logger.Warn().Err(err).Msg("corrupt record, using default")
	}
	return v
}

// Save upserts the row with a pretty-printed body.
func (r *Record[T]) Save(v T) error {
	body, err := store.Encode(v)
	if err != nil {
		return err
	}
	_, err = r.db.conn.Exec(`
		INSERT OR REPLACE INTO records(key, body, updated_at) VALUES (?, ?, ?)`,
		r.key, string(body), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save record %s: %w", r.key, err)
	}
	return nil
}

// readRecord returns the stored body for key, or nil when no row exists.
func (db *DB) readRecord(key string) ([]byte, error) {
	var body string
	err := db.conn.QueryRow("SELECT body FROM records WHERE key = ?", key).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(body), nil
}

// HistoryRecord persists model.History as a record row and mirrors every
// snapshot into season_snapshots so it can be queried with plain SQL.
type HistoryRecord struct {
	*Record[model.History]
}

// NewHistoryRecord returns the SQLite-backed history store.
func NewHistoryRecord(db *DB, logger zerolog.Logger) *HistoryRecord {
	return &HistoryRecord{Record: NewRecord(db, "history", model.NewHistory, logger)}
}

// Save writes the document and rebuilds the snapshot table in one transaction.
func (h *HistoryRecord) Save(v model.History) error {
	body, err := store.Encode(v)
	if err != nil {
		return err
	}
	tx, err := h.db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT OR REPLACE INTO records(key, body, updated_at) VALUES (?, ?, ?)`,
		h.key, string(body), time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("save history record: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM season_snapshots"); err != nil {
		return fmt.Errorf("clear snapshots: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO season_snapshots(
			season, participant, team,
			wins, losses, ot_losses, points, goals_for, goals_against,
			division_rank, conference_rank, league_rank, playoff_wins, captured_at
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range v.Rows() {
		_, err = stmt.Exec(
			r.Season, r.Participant, r.Team,
			r.Wins, r.Losses, r.OTLosses, r.Points, r.GoalsFor, r.GoalsAgainst,
			r.DivisionRank, r.ConferenceRank, r.LeagueRank, r.PlayoffWins,
			r.CapturedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("insert snapshot %s/%s: %w", r.Season, r.Participant, err)
		}
	}
	return tx.Commit()
}

// SeasonCount is the number of snapshots stored for one season.
type SeasonCount struct {
	Season       string
	Participants int
	PlayoffWins  int
}

// ListSeasons returns per-season snapshot counts from the mirror table, newest first.
func (db *DB) ListSeasons() ([]SeasonCount, error) {
	rows, err := db.conn.Query(`
		SELECT season, COUNT(1), COALESCE(SUM(playoff_wins), 0)
		FROM season_snapshots GROUP BY season ORDER BY season DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SeasonCount
	for rows.Next() {
		var s SeasonCount
		if err := rows.Scan(&s.Season, &s.Participants, &s.PlayoffWins); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// QueryRaw runs an arbitrary query and returns column names and stringified rows.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(x)
			default:
				row[i] = fmt.Sprint(x)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}
