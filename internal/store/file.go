// internal/store/file.go
//
// Flat-file JSON implementation of game.Store: one file holding every
// guild's record, rewritten on each save.
//
// Durability contract:
//   - Writes go to a sibling temp file and are committed with os.Rename,
//     so a crash mid-write never corrupts the previously durable file.
//   - A missing file loads as an empty store.
//   - An unreadable file, or any single unreadable guild record, is logged
//     and skipped rather than failing startup.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/namegame/shiritori/internal/game"
)

// File is a JSON-file-backed game.Store.
type File struct {
	mu      sync.Mutex // serializes all file writes
	path    string
	log     zerolog.Logger
	records map[string]json.RawMessage // last known record per guild
}

// NewFile constructs a store writing to path. The parent directory is
// created on first save; the file itself may not exist yet.
func NewFile(path string) *File {
	return &File{
		path:    path,
		log:     log.With().Str("component", "filestore").Str("path", path).Logger(),
		records: make(map[string]json.RawMessage),
	}
}

// Save encodes one guild's record and rewrites the whole file atomically.
func (f *File) Save(ctx context.Context, guildID string, st *game.GuildState) error {
	raw, err := json.Marshal(encodeState(st))
	if err != nil {
		return fmt.Errorf("encode guild %s: %w", guildID, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[guildID] = raw
	return f.writeLocked()
}

// writeLocked writes records to a temp file and renames it into place.
// Caller holds f.mu.
func (f *File) writeLocked() error {
	dir := filepath.Dir(f.path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	data, err := json.MarshalIndent(f.records, "", "  ")
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("commit %s: %w", f.path, err)
	}
	return nil
}

// LoadAll reads the whole file back into per-guild states. It also primes
// the in-memory record map so a later Save does not drop guilds that have
// not been saved yet this run.
func (f *File) LoadAll(ctx context.Context) (map[string]*game.GuildState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make(map[string]*game.GuildState)

	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return out, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		f.log.Error().Err(err).Msg("state file corrupted, starting empty")
		return out, nil
	}
	for id, msg := range raw {
		var rec guildRecord
		if err := json.Unmarshal(msg, &rec); err != nil {
			f.log.Error().Err(err).Str("guild", id).Msg("skipping corrupted guild record")
			continue
		}
		f.records[id] = msg
		out[id] = rec.state()
	}
	return out, nil
}
