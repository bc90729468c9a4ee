// internal/game/engine.go
//
// Core engine for the character name game.
// Responsibilities:
//   - Own all per-guild state and serialize access to it (one lock per
//     guild, held across the whole submission pipeline, external
//     verification call included).
//   - Run the submission pipeline: configuration and challenge checks,
//     duplicate check, letter check, external verification, scoring,
//     state mutation, persistence.
//   - Drive the turn state machine for both variants, including the
//     letterdrop cooldown/redraw cycle.
//
// Notes:
//   - Rejections are Outcome values, not errors; only infrastructure
//     problems are logged, and they never fail a submission that already
//     passed its checks (in-memory state stays authoritative).
//   - Submit takes the event time as an argument so tests can drive the
//     clock; the letterdrop redraw timer is the one place real time leaks in.

package game

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultCooldown is the pause between a correct letterdrop answer and the
// next letter.
const DefaultCooldown = 10 * time.Second

// Engine orchestrates submissions for all guilds of one deployment.
type Engine struct {
	variant  Variant
	verifier Verifier
	store    Store
	log      zerolog.Logger

	cooldown    time.Duration
	prefixes    []string
	onNewLetter func(guildID, letter string)

	mu     sync.Mutex
	guilds map[string]*guildEntry

	rngMu sync.Mutex
	rng   *rand.Rand
}

// guildEntry pairs a guild's state with the lock that serializes its
// submission pipeline. state == nil means no game was ever configured.
type guildEntry struct {
	mu    sync.Mutex
	state *GuildState
}

// NewEngine constructs an engine for one variant.
func NewEngine(variant Variant, verifier Verifier, store Store) *Engine {
	return &Engine{
		variant:  variant,
		verifier: verifier,
		store:    store,
		log:      log.With().Str("component", "engine").Str("variant", string(variant)).Logger(),
		cooldown: DefaultCooldown,
		prefixes: []string{"/", "!!"},
		guilds:   make(map[string]*guildEntry),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetCooldown overrides the letterdrop redraw pause. Call before serving.
func (e *Engine) SetCooldown(d time.Duration) { e.cooldown = d }

// SetPrefixes overrides the command prefixes treated as non-play input.
func (e *Engine) SetPrefixes(p []string) { e.prefixes = p }

// SetRand replaces the letter-draw source, for deterministic tests.
func (e *Engine) SetRand(r *rand.Rand) { e.rng = r }

// OnNewLetter registers a hook invoked after every letterdrop redraw, so
// the platform adapter can announce the new letter. The hook runs outside
// the guild lock.
func (e *Engine) OnNewLetter(fn func(guildID, letter string)) { e.onNewLetter = fn }

// Load primes the engine from the store. Records that fail validation are
// discarded with an error log; one corrupt guild never blocks the rest.
func (e *Engine) Load(ctx context.Context) error {
	states, err := e.store.LoadAll(ctx)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for id, st := range states {
		if err := st.Validate(); err != nil {
			e.log.Error().Err(err).Str("guild", id).Msg("discarding invalid stored state")
			continue
		}
		e.guilds[id] = &guildEntry{state: st}
	}
	e.log.Info().Int("guilds", len(e.guilds)).Msg("loaded game state")
	return nil
}

// guild returns the entry for a guild, creating an empty one on first use.
func (e *Engine) guild(id string) *guildEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	g, ok := e.guilds[id]
	if !ok {
		g = &guildEntry{}
		e.guilds[id] = g
	}
	return g
}

// BindChannel designates the game channel for a guild, creating state on
// first use. For letterdrop a first letter is drawn and opened immediately;
// the drawn letter is returned ("" for the chain variant).
func (e *Engine) BindChannel(ctx context.Context, guildID, channelID string, now time.Time) string {
	g := e.guild(guildID)
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == nil {
		g.state = NewGuildState()
	}
	g.state.ChannelID = channelID

	var letter string
	if e.variant == VariantLetterDrop {
		letter = e.drawLetter()
		g.state.Challenge = &Challenge{Letter: letter, SetAt: now, Open: true}
	}
	e.persist(ctx, guildID, g.state)
	e.log.Info().Str("guild", guildID).Str("channel", channelID).Msg("game channel bound")
	return letter
}

// Reset clears used names, scores, and the challenge for one guild.
// The chain variant returns to the waiting state; letterdrop immediately
// opens a fresh letter, which is returned.
func (e *Engine) Reset(ctx context.Context, guildID string, now time.Time) string {
	g := e.guild(guildID)
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == nil {
		return ""
	}
	g.state.UsedNames = make(map[string]bool)
	g.state.Scores = make(map[string]*PlayerScore)
	g.state.NextSeq = 0
	g.state.Challenge = nil

	var letter string
	if e.variant == VariantLetterDrop {
		letter = e.drawLetter()
		g.state.Challenge = &Challenge{Letter: letter, SetAt: now, Open: true}
	}
	e.persist(ctx, guildID, g.state)
	e.log.Info().Str("guild", guildID).Msg("game reset")
	return letter
}

// Challenge reports the current constraint for a guild.
func (e *Engine) Challenge(guildID string) (letter string, open bool, ok bool) {
	g := e.guild(guildID)
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == nil || g.state.Challenge == nil {
		return "", false, g.state != nil
	}
	ch := g.state.Challenge
	return ch.Letter, ch.Open, true
}

// Submit runs one inbound message through the full pipeline.
//
// Checks run cheapest first so invalid submissions never pay the network
// round trip: configuration, challenge presence, duplicate, letter match,
// then external verification, then score/mutate/advance/persist.
func (e *Engine) Submit(ctx context.Context, guildID, channelID, userID, raw string, now time.Time) Outcome {
	raw = strings.TrimSpace(raw)
	if raw == "" || e.isCommand(raw) {
		return Outcome{Code: OutcomeIgnored}
	}

	g := e.guild(guildID)
	g.mu.Lock()
	defer g.mu.Unlock()

	st := g.state
	if st == nil || st.ChannelID == "" || st.ChannelID != channelID {
		return Outcome{Code: OutcomeNotConfigured}
	}
	ch := st.Challenge
	if e.variant == VariantLetterDrop && (ch == nil || !ch.Open) {
		return Outcome{Code: OutcomeNoChallenge}
	}

	normalized := Normalize(raw)
	if st.UsedNames[normalized] {
		return Outcome{Code: OutcomeDuplicate}
	}

	first := FirstLetter(raw)
	var required string
	if ch != nil {
		required = ch.Letter
	}
	if required != "" && first != required {
		return Outcome{Code: OutcomeWrongLetter, Expected: required, Got: first}
	}
	// A name with no letters can neither match nor seed a chain.
	if first == "" || (e.variant == VariantChain && LastLetter(raw) == "") {
		return Outcome{Code: OutcomeWrongLetter, Expected: required, Got: first}
	}

	// The one suspension point. The guild lock stays held so a concurrent
	// submission for the same guild cannot race ahead of this one.
	info, ok := e.verifier.Verify(ctx, raw)
	if !ok {
		return Outcome{Code: OutcomeNotVerified}
	}

	var xp int64
	var elapsed time.Duration
	if ch == nil || ch.SetAt.IsZero() {
		xp = MaxScore(e.variant)
	} else {
		elapsed = now.Sub(ch.SetAt)
		if elapsed < 0 {
			elapsed = 0
		}
		xp = ScoreFor(elapsed, e.variant)
	}

	ps := st.Scores[userID]
	if ps == nil {
		ps = &PlayerScore{Seq: st.NextSeq}
		st.NextSeq++
		st.Scores[userID] = ps
	}
	ps.XP += xp
	st.UsedNames[normalized] = true

	var next string
	switch e.variant {
	case VariantLetterDrop:
		ch.Open = false
		time.AfterFunc(e.cooldown, func() { e.rotate(guildID) })
	default:
		next = LastLetter(raw)
		st.Challenge = &Challenge{Letter: next, SetAt: now}
	}

	e.persist(ctx, guildID, st)

	return Outcome{
		Code:       OutcomeAccepted,
		XP:         xp,
		TotalXP:    ps.XP,
		NextLetter: next,
		ElapsedMs:  elapsed.Milliseconds(),
		Character:  info,
	}
}

// rotate draws and opens the next letterdrop letter once the cooldown has
// passed. No-op if the challenge was already reopened (e.g. by a reset).
func (e *Engine) rotate(guildID string) {
	g := e.guild(guildID)
	g.mu.Lock()
	st := g.state
	if st == nil || st.Challenge == nil || st.Challenge.Open {
		g.mu.Unlock()
		return
	}
	letter := e.drawLetter()
	st.Challenge = &Challenge{Letter: letter, SetAt: time.Now(), Open: true}
	e.persist(context.Background(), guildID, st)
	g.mu.Unlock()

	e.log.Info().Str("guild", guildID).Str("letter", letter).Msg("new letter drawn")
	if e.onNewLetter != nil {
		e.onNewLetter(guildID, letter)
	}
}

// persist writes through to the store. Failures are logged and swallowed;
// the in-memory state remains authoritative until the next successful save.
func (e *Engine) persist(ctx context.Context, guildID string, st *GuildState) {
	if err := e.store.Save(ctx, guildID, st); err != nil {
		e.log.Error().Err(err).Str("guild", guildID).Msg("save guild state")
	}
}

// isCommand reports whether raw starts with a configured command prefix.
func (e *Engine) isCommand(raw string) bool {
	for _, p := range e.prefixes {
		if strings.HasPrefix(raw, p) {
			return true
		}
	}
	return false
}

// drawLetter serializes access to the shared rand source.
func (e *Engine) drawLetter() string {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return DrawLetter(e.rng)
}
