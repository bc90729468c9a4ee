// internal/store/record.go
//
// Serialization shared by the durable backends. One guildRecord per guild:
// used names as a sorted list, scores as a plain map, plus the first-seen
// user order the leaderboard tie-break depends on.

package store

import (
	"sort"

	"github.com/namegame/shiritori/internal/game"
)

type guildRecord struct {
	ChannelID  string           `json:"channelId,omitempty"`
	UsedNames  []string         `json:"usedNames"`
	UserScores map[string]int64 `json:"userScores"`
	ScoreOrder []string         `json:"scoreOrder"` // user IDs, earliest scorer first
	Challenge  *game.Challenge  `json:"challenge,omitempty"`
}

// encodeState flattens engine state into its stored form.
func encodeState(st *game.GuildState) guildRecord {
	rec := guildRecord{
		ChannelID:  st.ChannelID,
		UsedNames:  make([]string, 0, len(st.UsedNames)),
		UserScores: make(map[string]int64, len(st.Scores)),
		ScoreOrder: make([]string, 0, len(st.Scores)),
	}
	for n := range st.UsedNames {
		rec.UsedNames = append(rec.UsedNames, n)
	}
	sort.Strings(rec.UsedNames)

	for id, ps := range st.Scores {
		rec.UserScores[id] = ps.XP
		rec.ScoreOrder = append(rec.ScoreOrder, id)
	}
	sort.Slice(rec.ScoreOrder, func(i, j int) bool {
		return st.Scores[rec.ScoreOrder[i]].Seq < st.Scores[rec.ScoreOrder[j]].Seq
	})

	if st.Challenge != nil {
		ch := *st.Challenge
		rec.Challenge = &ch
	}
	return rec
}

// state rebuilds engine state from a stored record.
func (r guildRecord) state() *game.GuildState {
	st := game.NewGuildState()
	st.ChannelID = r.ChannelID
	for _, n := range r.UsedNames {
		st.UsedNames[n] = true
	}
	for _, id := range r.ScoreOrder {
		if xp, ok := r.UserScores[id]; ok {
			st.Scores[id] = &game.PlayerScore{XP: xp, Seq: st.NextSeq}
			st.NextSeq++
		}
	}
	// Scores missing from the order list (hand-edited files) still load,
	// in lexical order so reloads stay deterministic.
	var extra []string
	for id := range r.UserScores {
		if _, ok := st.Scores[id]; !ok {
			extra = append(extra, id)
		}
	}
	sort.Strings(extra)
	for _, id := range extra {
		st.Scores[id] = &game.PlayerScore{XP: r.UserScores[id], Seq: st.NextSeq}
		st.NextSeq++
	}
	if r.Challenge != nil {
		ch := *r.Challenge
		st.Challenge = &ch
	}
	return st
}
