// Package persistence provides SQLite-based run history storage: one row per
// run, per-turn summaries and country standings, and the event log.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/statecraft/internal/engine"
	"github.com/talgya/statecraft/internal/world"
)

// DB wraps a SQLite connection for run history persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path. Use ":memory:"
// for an ephemeral store.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		scenario TEXT NOT NULL,
		player_iso TEXT NOT NULL,
		seed INTEGER NOT NULL,
		started_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS turns (
		run_id INTEGER NOT NULL,
		turn INTEGER NOT NULL,
		summary_json TEXT NOT NULL,
		PRIMARY KEY (run_id, turn)
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL,
		turn INTEGER NOT NULL,
		tag TEXT NOT NULL,
		kind TEXT NOT NULL,
		country TEXT NOT NULL,
		category TEXT NOT NULL,
		magnitude REAL NOT NULL,
		description TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS standings (
		run_id INTEGER NOT NULL,
		turn INTEGER NOT NULL,
		iso TEXT NOT NULL,
		gdp REAL NOT NULL,
		unemployment REAL NOT NULL,
		inflation REAL NOT NULL,
		trust REAL NOT NULL,
		debt REAL NOT NULL,
		active INTEGER NOT NULL,
		PRIMARY KEY (run_id, turn, iso)
	);

	CREATE TABLE IF NOT EXISTS snapshots (
		run_id INTEGER PRIMARY KEY,
		turn INTEGER NOT NULL,
		state_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_run_turn ON events(run_id, turn);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// CreateRun registers a new run and returns its id.
func (db *DB) CreateRun(scenario, playerISO string, seed uint64) (int64, error) {
	res, err := db.conn.Exec(
		"INSERT INTO runs (scenario, player_iso, seed, started_at) VALUES (?, ?, ?, ?)",
		scenario, playerISO, int64(seed), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("create run: %w", err)
	}
	return res.LastInsertId()
}

// SaveTurn records a committed turn: the summary blob, its events, and each
// country's standing.
func (db *DB) SaveTurn(runID int64, st *world.State, sum *engine.TurnSummary) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	blob, err := json.Marshal(sum)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	if _, err := tx.Exec(
		"INSERT OR REPLACE INTO turns (run_id, turn, summary_json) VALUES (?, ?, ?)",
		runID, sum.Turn, string(blob),
	); err != nil {
		return fmt.Errorf("insert turn %d: %w", sum.Turn, err)
	}

	for _, e := range sum.Events {
		if _, err := tx.Exec(
			`INSERT INTO events (run_id, turn, tag, kind, country, category, magnitude, description)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, e.Turn, e.Tag, e.Kind, e.Country, e.Category, e.Magnitude, e.Description,
		); err != nil {
			return fmt.Errorf("insert event %s: %w", e.Tag, err)
		}
	}

	for _, iso := range st.SortedISOCodes() {
		c := st.Country(iso)
		active := 0
		if c.Active {
			active = 1
		}
		if _, err := tx.Exec(
			`INSERT OR REPLACE INTO standings
			(run_id, turn, iso, gdp, unemployment, inflation, trust, debt, active)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, st.Turn, c.ISO, c.GDP, c.Unemployment, c.Inflation, c.Trust, c.Debt, active,
		); err != nil {
			return fmt.Errorf("insert standing %s: %w", c.ISO, err)
		}
	}

	return tx.Commit()
}

// TurnSummary loads one saved turn summary.
func (db *DB) TurnSummary(runID int64, turn int) (*engine.TurnSummary, error) {
	var blob string
	if err := db.conn.Get(&blob,
		"SELECT summary_json FROM turns WHERE run_id = ? AND turn = ?", runID, turn,
	); err != nil {
		return nil, err
	}
	var sum engine.TurnSummary
	if err := json.Unmarshal([]byte(blob), &sum); err != nil {
		return nil, fmt.Errorf("unmarshal summary: %w", err)
	}
	return &sum, nil
}

// Standing is one saved country row.
type Standing struct {
	ISO          string  `db:"iso"`
	GDP          float64 `db:"gdp"`
	Unemployment float64 `db:"unemployment"`
	Inflation    float64 `db:"inflation"`
	Trust        float64 `db:"trust"`
	Debt         float64 `db:"debt"`
	Active       bool    `db:"active"`
}

// Standings returns the saved country rows for one turn, ordered by ISO.
func (db *DB) Standings(runID int64, turn int) ([]Standing, error) {
	var rows []Standing
	err := db.conn.Select(&rows,
		`SELECT iso, gdp, unemployment, inflation, trust, debt, active
		FROM standings WHERE run_id = ? AND turn = ? ORDER BY iso`,
		runID, turn,
	)
	return rows, err
}

// RecentEvents returns the most recent N events of a run.
func (db *DB) RecentEvents(runID int64, limit int) ([]engine.EventRecord, error) {
	type row struct {
		Tag         string  `db:"tag"`
		Kind        string  `db:"kind"`
		Country     string  `db:"country"`
		Category    string  `db:"category"`
		Magnitude   float64 `db:"magnitude"`
		Turn        int     `db:"turn"`
		Description string  `db:"description"`
	}
	var rows []row
	if err := db.conn.Select(&rows,
		`SELECT tag, kind, country, category, magnitude, turn, description
		FROM events WHERE run_id = ? ORDER BY id DESC LIMIT ?`,
		runID, limit,
	); err != nil {
		return nil, err
	}
	out := make([]engine.EventRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, engine.EventRecord{
			Tag: r.Tag, Kind: r.Kind, Country: r.Country, Category: r.Category,
			Magnitude: r.Magnitude, Turn: r.Turn, Description: r.Description,
		})
	}
	return out, nil
}

// SaveSnapshot records the latest committed world state for a run, replacing
// any earlier snapshot.
func (db *DB) SaveSnapshot(runID int64, st *world.State) error {
	slog.Info("saving state snapshot", "run", runID, "turn", st.Turn, "countries", len(st.Countries))
	blob, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	_, err = db.conn.Exec(
		"INSERT OR REPLACE INTO snapshots (run_id, turn, state_json) VALUES (?, ?, ?)",
		runID, st.Turn, string(blob),
	)
	return err
}

// LoadSnapshot restores the saved world state for a run.
func (db *DB) LoadSnapshot(runID int64) (*world.State, error) {
	var blob string
	if err := db.conn.Get(&blob,
		"SELECT state_json FROM snapshots WHERE run_id = ?", runID,
	); err != nil {
		return nil, err
	}
	var st world.State
	if err := json.Unmarshal([]byte(blob), &st); err != nil {
		return nil, fmt.Errorf("unmarshal state: %w", err)
	}
	st.BuildIndex()
	return &st, nil
}
