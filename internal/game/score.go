// internal/game/score.go
//
// Time-decayed XP scoring. Each variant has an ordered table of
// (threshold, xp) tiers evaluated top to bottom; the first tier whose
// threshold the elapsed time does not exceed wins, and anything slower
// than the last tier gets the floor value.

package game

import "time"

// tier awards XP to answers that arrive within its threshold (inclusive).
type tier struct {
	within time.Duration
	xp     int64
}

var chainTiers = []tier{
	{20 * time.Second, 2000},
	{30 * time.Second, 1500},
	{time.Minute, 800},
	{6 * time.Hour, 200},
	{12 * time.Hour, 100},
}

const chainFloor int64 = 20

var dropTiers = []tier{
	{10 * time.Second, 3000},
	{30 * time.Second, 2000},
	{time.Minute, 1000},
	{5 * time.Minute, 500},
}

const dropFloor int64 = 100

func tableFor(v Variant) ([]tier, int64) {
	if v == VariantLetterDrop {
		return dropTiers, dropFloor
	}
	return chainTiers, chainFloor
}

// ScoreFor maps elapsed response time to an XP award for the variant.
// Strictly non-increasing in elapsed; thresholds are inclusive.
func ScoreFor(elapsed time.Duration, v Variant) int64 {
	tiers, floor := tableFor(v)
	for _, t := range tiers {
		if elapsed <= t.within {
			return t.xp
		}
	}
	return floor
}

// MaxScore is the top-tier award, given unconditionally to the first
// submission of a fresh game when there is no timestamp to measure from.
func MaxScore(v Variant) int64 {
	tiers, _ := tableFor(v)
	return tiers[0].xp
}
