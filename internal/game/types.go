// internal/game/types.go
//
// Core type definitions for the name-chain game engine.
// Defines:
//   - Variant: which turn-progression rule a deployment runs.
//   - Challenge: the active letter constraint for a guild.
//   - GuildState: all per-guild game state (used names, scores, challenge).
//   - Outcome: result of one submission through the pipeline.
//   - Verifier / Store: the engine's two external collaborators.

package game

import (
	"context"
	"fmt"
	"time"
)

// Variant selects the turn-progression rule. A deployment runs exactly one.
// Possible values:
//   - "chain":      the next name must start with the last letter of the
//     previous accepted name.
//   - "letterdrop": a randomly drawn letter is posted and stays open until
//     the first correct answer; a new letter drops after a cooldown.
type Variant string

const (
	VariantChain      Variant = "chain"
	VariantLetterDrop Variant = "letterdrop"
)

// Challenge is the active constraint a submission must satisfy.
// Letter is a single lowercase letter, or "" when any letter is accepted
// (only at game start, chain variant). SetAt is the reference timestamp for
// scoring: the previous accepted submission (chain) or the moment the
// letter was drawn (letterdrop). Open is meaningful for letterdrop only.
type Challenge struct {
	Letter string    `json:"letter,omitempty"`
	SetAt  time.Time `json:"setAt"`
	Open   bool      `json:"open,omitempty"`
}

// PlayerScore is one user's accumulated XP plus the order in which the user
// first scored. Seq breaks leaderboard ties: earlier players rank first.
type PlayerScore struct {
	XP  int64
	Seq int
}

// GuildState holds everything the game tracks for a single guild.
// The engine owns these exclusively; stores only ever see copies.
type GuildState struct {
	ChannelID string                  // designated game channel, "" = unbound
	UsedNames map[string]bool         // normalized names, grows until reset
	Scores    map[string]*PlayerScore // keyed by user ID
	NextSeq   int                     // next first-seen sequence number
	Challenge *Challenge              // nil = no constraint yet
}

// NewGuildState returns an empty state with maps allocated.
func NewGuildState() *GuildState {
	return &GuildState{
		UsedNames: make(map[string]bool),
		Scores:    make(map[string]*PlayerScore),
	}
}

// Clone returns a deep copy, safe to hand to a store or a reader while the
// engine keeps mutating the original.
func (s *GuildState) Clone() *GuildState {
	c := &GuildState{
		ChannelID: s.ChannelID,
		UsedNames: make(map[string]bool, len(s.UsedNames)),
		Scores:    make(map[string]*PlayerScore, len(s.Scores)),
		NextSeq:   s.NextSeq,
	}
	for n := range s.UsedNames {
		c.UsedNames[n] = true
	}
	for id, ps := range s.Scores {
		cp := *ps
		c.Scores[id] = &cp
	}
	if s.Challenge != nil {
		ch := *s.Challenge
		c.Challenge = &ch
	}
	return c
}

// Validate reports the first invariant violation in a state, or nil.
// Used when loading from a store so one corrupt record can be discarded
// without taking the rest of the guilds down.
func (s *GuildState) Validate() error {
	for id, ps := range s.Scores {
		if ps == nil || ps.XP < 0 {
			return fmt.Errorf("negative or missing score for user %s", id)
		}
	}
	if ch := s.Challenge; ch != nil && ch.Letter != "" {
		r := []rune(ch.Letter)
		if len(r) != 1 || r[0] < 'a' || r[0] > 'z' {
			return fmt.Errorf("challenge letter %q is not a single lowercase letter", ch.Letter)
		}
	}
	return nil
}

// OutcomeCode identifies how a submission fared.
type OutcomeCode string

const (
	// OutcomeAccepted: name verified and scored; the turn advanced.
	OutcomeAccepted OutcomeCode = "accepted"
	// OutcomeDuplicate: the normalized name was already used this game.
	OutcomeDuplicate OutcomeCode = "duplicate"
	// OutcomeWrongLetter: the name does not start with the required letter
	// (or contributes no chain letter at all).
	OutcomeWrongLetter OutcomeCode = "wrong_letter"
	// OutcomeNotVerified: the character directory did not confirm the name.
	OutcomeNotVerified OutcomeCode = "not_verified"
	// OutcomeNoChallenge: letterdrop only, no letter is currently open.
	OutcomeNoChallenge OutcomeCode = "no_challenge"
	// OutcomeNotConfigured: no game bound to this guild/channel.
	OutcomeNotConfigured OutcomeCode = "not_configured"
	// OutcomeIgnored: empty or command-prefixed input, not a play attempt.
	OutcomeIgnored OutcomeCode = "ignored"
)

// Outcome is the result of one submission. Fields beyond Code are populated
// only where they make sense for the code.
type Outcome struct {
	Code       OutcomeCode    `json:"code"`
	XP         int64          `json:"xp,omitempty"`
	TotalXP    int64          `json:"totalXp,omitempty"`
	NextLetter string         `json:"nextLetter,omitempty"`
	Expected   string         `json:"expected,omitempty"`
	Got        string         `json:"got,omitempty"`
	ElapsedMs  int64          `json:"elapsedMs,omitempty"`
	Character  *CharacterInfo `json:"character,omitempty"`
}

// CharacterInfo is the record returned by the character directory.
type CharacterInfo struct {
	Name       string `json:"name"`
	NativeName string `json:"nativeName,omitempty"`
	MediaTitle string `json:"mediaTitle,omitempty"`
}

// Verifier checks a submitted name against an external character directory.
// A false result covers both "no such character" and any lookup failure;
// unverifiable submissions are rejected, never silently accepted.
type Verifier interface {
	Verify(ctx context.Context, name string) (*CharacterInfo, bool)
}

// Store is the durable persistence layer for guild state.
// Implementations may be backed by memory, a JSON file, SQLite, etc.
type Store interface {
	// Save persists or updates one guild's state.
	Save(ctx context.Context, guildID string, st *GuildState) error

	// LoadAll returns every stored guild state. A missing or empty store
	// yields an empty map, not an error.
	LoadAll(ctx context.Context) (map[string]*GuildState, error)
}
