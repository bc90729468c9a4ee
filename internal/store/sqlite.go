// internal/store/sqlite.go
//
// SQLite implementation of game.Store, for deployments that prefer a
// database file over the flat JSON store.
// Responsibilities:
//   - Open the database with safe defaults (WAL, busy timeout, FKs).
//   - Bootstrap the single guild_states table if missing.
//   - Upsert one row per guild; rows hold the same JSON record the file
//     store writes, so the two backends round-trip identically.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/namegame/shiritori/internal/game"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS guild_states (
    guild_id   TEXT PRIMARY KEY,
    state      TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

// SQLite is a database-backed game.Store.
type SQLite struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewSQLite opens (and creates if missing) the database at dsn and
// bootstraps the schema.
func NewSQLite(dsn string) (*SQLite, error) {
	// Ensure directory exists for ./data/game.db, etc.
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;`); err != nil {
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLite{
		db:  db,
		log: log.With().Str("component", "sqlitestore").Logger(),
	}, nil
}

// Close releases the database handle.
func (s *SQLite) Close() error { return s.db.Close() }

// Save upserts one guild's record.
func (s *SQLite) Save(ctx context.Context, guildID string, st *game.GuildState) error {
	raw, err := json.Marshal(encodeState(st))
	if err != nil {
		return fmt.Errorf("encode guild %s: %w", guildID, err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO guild_states (guild_id, state, updated_at)
        VALUES (?, ?, ?)
        ON CONFLICT(guild_id) DO UPDATE SET
            state = excluded.state,
            updated_at = excluded.updated_at`,
		guildID, string(raw), now,
	)
	return err
}

// LoadAll reads every guild row. Rows that fail to decode are logged and
// skipped so one bad record cannot block startup.
func (s *SQLite) LoadAll(ctx context.Context) (map[string]*game.GuildState, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT guild_id, state FROM guild_states`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]*game.GuildState)
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		var rec guildRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			s.log.Error().Err(err).Str("guild", id).Msg("skipping corrupted guild row")
			continue
		}
		out[id] = rec.state()
	}
	return out, rows.Err()
}
