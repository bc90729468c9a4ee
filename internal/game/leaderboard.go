// internal/game/leaderboard.go
//
// Ranked views over accumulated guild scores.
// Ordering is XP descending with ties broken by first-seen order, so two
// players on equal XP keep a stable relative position across calls.

package game

import "sort"

// Entry is one leaderboard row.
type Entry struct {
	UserID string `json:"userId"`
	XP     int64  `json:"xp"`
}

// Rank returns all scored players for a guild, best first.
func (e *Engine) Rank(guildID string) []Entry {
	g := e.guild(guildID)
	g.mu.Lock()
	defer g.mu.Unlock()
	return rankLocked(g.state)
}

// RankOf returns a player's 1-based leaderboard position.
// ok is false if the player has never scored in this guild.
func (e *Engine) RankOf(guildID, userID string) (int, bool) {
	g := e.guild(guildID)
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, en := range rankLocked(g.state) {
		if en.UserID == userID {
			return i + 1, true
		}
	}
	return 0, false
}

// Page returns one leaderboard page. The requested page number is clamped
// to [1, ceil(total/size)]; the page actually served and the total page
// count are returned alongside the rows.
func (e *Engine) Page(guildID string, page, size int) (rows []Entry, pageUsed, totalPages int) {
	if size <= 0 {
		size = 10
	}
	g := e.guild(guildID)
	g.mu.Lock()
	defer g.mu.Unlock()

	all := rankLocked(g.state)
	if len(all) == 0 {
		return nil, 1, 0
	}
	totalPages = (len(all) + size - 1) / size
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	start := (page - 1) * size
	end := start + size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], page, totalPages
}

// UserStats reports one player's XP, rank, and the guild's player count.
func (e *Engine) UserStats(guildID, userID string) (xp int64, rank, players int, ok bool) {
	g := e.guild(guildID)
	g.mu.Lock()
	defer g.mu.Unlock()

	all := rankLocked(g.state)
	for i, en := range all {
		if en.UserID == userID {
			return en.XP, i + 1, len(all), true
		}
	}
	return 0, 0, len(all), false
}

// rankLocked derives the sorted view. Caller holds the guild lock.
func rankLocked(st *GuildState) []Entry {
	if st == nil || len(st.Scores) == 0 {
		return nil
	}
	type row struct {
		Entry
		seq int
	}
	rows := make([]row, 0, len(st.Scores))
	for id, ps := range st.Scores {
		rows = append(rows, row{Entry{UserID: id, XP: ps.XP}, ps.Seq})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].XP != rows[j].XP {
			return rows[i].XP > rows[j].XP
		}
		return rows[i].seq < rows[j].seq
	})
	out := make([]Entry, len(rows))
	for i, r := range rows {
		out[i] = r.Entry
	}
	return out
}
