package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"storyline/internal/model"

	_ "modernc.org/sqlite"
)

const sqliteFileName = "index.sqlite"

// ErrNotFound is returned by single-row operations when the entity does not
// exist (e.g. committing a date for an event deleted underneath a drag).
var ErrNotFound = errors.New("store: not found")

func (s Store) sqlitePath() string {
	return filepath.Join(filepath.Clean(s.Dir), sqliteFileName)
}

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, err
	}
	// WAL enables one writer + many readers; busy_timeout avoids
	// "database is locked" flakiness when a CLI runs next to the TUI.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLiteState(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateSQLiteState(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS state_meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS projects (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			archived INTEGER NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS characters (
			id TEXT PRIMARY KEY,
			project_id TEXT NOT NULL,
			name TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_characters_project ON characters(project_id);`,
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			project_id TEXT NOT NULL,
			title TEXT NOT NULL,
			date TEXT NOT NULL,
			duration_days INTEGER NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_project ON events(project_id);`,
		`CREATE INDEX IF NOT EXISTS idx_events_date ON events(date);`,
		`CREATE TABLE IF NOT EXISTS arcs (
			id TEXT PRIMARY KEY,
			project_id TEXT NOT NULL,
			character_id TEXT NOT NULL,
			name TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_arcs_project ON arcs(project_id);`,
		`CREATE INDEX IF NOT EXISTS idx_arcs_character ON arcs(character_id);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func (s Store) LoadSQLite(ctx context.Context) (*DB, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	out := &DB{Version: 1}

	readMeta := func(k string) string {
		var v string
		_ = db.QueryRowContext(ctx, `SELECT v FROM state_meta WHERE k = ?`, k).Scan(&v)
		return strings.TrimSpace(v)
	}
	if v := readMeta("version"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			out.Version = n
		}
	}
	out.CurrentProjectID = readMeta("current_project_id")

	if xs, err := readJSONRows[model.Project](ctx, db, `SELECT json FROM projects`); err == nil {
		out.Projects = xs
	} else {
		return nil, err
	}
	if xs, err := readJSONRows[model.Character](ctx, db, `SELECT json FROM characters`); err == nil {
		out.Characters = xs
	} else {
		return nil, err
	}
	if xs, err := readJSONRows[model.StoryEvent](ctx, db, `SELECT json FROM events`); err == nil {
		out.Events = xs
	} else {
		return nil, err
	}
	if xs, err := readJSONRows[model.CharacterArc](ctx, db, `SELECT json FROM arcs`); err == nil {
		out.Arcs = xs
	} else {
		return nil, err
	}

	// Ensure nil slices are empty for stable callers.
	if out.Projects == nil {
		out.Projects = []model.Project{}
	}
	if out.Characters == nil {
		out.Characters = []model.Character{}
	}
	if out.Events == nil {
		out.Events = []model.StoryEvent{}
	}
	if out.Arcs == nil {
		out.Arcs = []model.CharacterArc{}
	}

	return out, nil
}

func (s Store) SaveSQLite(ctx context.Context, st *DB) error {
	if st == nil {
		return errors.New("nil db")
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO state_meta(k, v) VALUES(?, ?)`, "version", fmt.Sprintf("%d", st.Version)); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO state_meta(k, v) VALUES(?, ?)`, "current_project_id", strings.TrimSpace(st.CurrentProjectID)); err != nil {
		return err
	}

	// Replace-all strategy: simple and safe for a single local writer.
	for _, t := range []string{"projects", "characters", "events", "arcs"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+t); err != nil {
			return err
		}
	}

	nowMs := time.Now().UTC().UnixMilli()

	for _, p := range st.Projects {
		raw, _ := json.Marshal(p)
		if _, err := tx.ExecContext(ctx, `INSERT INTO projects(id, name, archived, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?)`,
			p.ID, p.Name, boolToInt(p.Archived), string(raw), nowMs); err != nil {
			return err
		}
	}
	for _, c := range st.Characters {
		raw, _ := json.Marshal(c)
		if _, err := tx.ExecContext(ctx, `INSERT INTO characters(id, project_id, name, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?)`,
			c.ID, c.ProjectID, c.Name, string(raw), nowMs); err != nil {
			return err
		}
	}
	for _, e := range st.Events {
		raw, _ := json.Marshal(e)
		if _, err := tx.ExecContext(ctx, `INSERT INTO events(id, project_id, title, date, duration_days, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.ProjectID, e.Title, strings.TrimSpace(e.Date), e.DurationDays, string(raw), nowMs); err != nil {
			return err
		}
	}
	for _, a := range st.Arcs {
		raw, _ := json.Marshal(a)
		if _, err := tx.ExecContext(ctx, `INSERT INTO arcs(id, project_id, character_id, name, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?, ?)`,
			a.ID, a.ProjectID, a.CharacterID, a.Name, string(raw), nowMs); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// CommitEventDate transactionally persists one event's rescheduled date.
// This is the drag state machine's commit path: one drag, one event, one
// commit. Returns ErrNotFound when the event no longer exists.
func (s Store) CommitEventDate(ctx context.Context, eventID string, date time.Time) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var raw string
	if err := tx.QueryRowContext(ctx, `SELECT json FROM events WHERE id = ?`, eventID).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("commit event %s: %w", eventID, ErrNotFound)
		}
		return err
	}
	var ev model.StoryEvent
	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		return fmt.Errorf("commit event %s: decode: %w", eventID, err)
	}

	ev.Date = model.FormatDay(date)
	ev.UpdatedAt = time.Now().UTC()
	out, _ := json.Marshal(ev)

	if _, err := tx.ExecContext(ctx, `UPDATE events SET date = ?, json = ?, updated_at_unixms = ? WHERE id = ?`,
		ev.Date, string(out), ev.UpdatedAt.UnixMilli(), eventID); err != nil {
		return err
	}
	return tx.Commit()
}

func readJSONRows[T any](ctx context.Context, db *sql.DB, query string) ([]T, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var js string
		if err := rows.Scan(&js); err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal([]byte(js), &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
