// internal/game/letters.go
//
// Weighted random letter selection for the letterdrop variant.
// Weights approximate how common it is for a name to start with each
// letter, so q/x/z drop rarely and s/k/m drop often. Draws are independent;
// a letter may repeat back to back.

package game

import "math/rand"

// letterWeights holds a relative weight for 'a'..'z'.
var letterWeights = [26]int{
	11, // a
	9,  // b
	12, // c
	8,  // d
	6,  // e
	7,  // f
	6,  // g
	7,  // h
	6,  // i
	3,  // j
	9,  // k
	6,  // l
	10, // m
	6,  // n
	5,  // o
	9,  // p
	1,  // q
	8,  // r
	15, // s
	9,  // t
	3,  // u
	3,  // v
	5,  // w
	1,  // x
	4,  // y
	2,  // z
}

var letterWeightTotal int

func init() {
	for _, w := range letterWeights {
		letterWeightTotal += w
	}
}

// DrawLetter picks one lowercase letter from the weighted distribution.
func DrawLetter(r *rand.Rand) string {
	n := r.Intn(letterWeightTotal)
	for i, w := range letterWeights {
		n -= w
		if n < 0 {
			return string(rune('a' + i))
		}
	}
	return "s" // unreachable
}
