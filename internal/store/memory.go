// internal/store/memory.go
//
// In-memory implementation of the game.Store interface.
// This is a lightweight persistence layer used when durability is not
// required, primarily in development and tests.
//
// Characteristics:
//   - Stores deep copies keyed by guild ID (callers keep mutating their
//     own state after Save, so aliasing would corrupt the snapshot).
//   - Concurrency-safe via RWMutex.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"sync"

	"github.com/namegame/shiritori/internal/game"
)

// Memory is a map-backed game.Store.
type Memory struct {
	mu     sync.RWMutex
	states map[string]*game.GuildState
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{states: make(map[string]*game.GuildState)}
}

// Save snapshots one guild's state.
func (m *Memory) Save(ctx context.Context, guildID string, st *game.GuildState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[guildID] = st.Clone()
	return nil
}

// LoadAll returns copies of every stored guild state.
func (m *Memory) LoadAll(ctx context.Context) (map[string]*game.GuildState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]*game.GuildState, len(m.states))
	for id, st := range m.states {
		out[id] = st.Clone()
	}
	return out, nil
}
