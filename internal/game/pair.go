// internal/game/pair.go
//
// Random (start, target) selection.
//
// Policy:
//   - Draw start uniformly from words of the requested length.
//   - Redraw target until it differs from start (rejection sampling).
//   - With fewer than two candidate words, return a built-in pair and flag
//     it as a fallback instead of failing.
//
// No ladder between start and target is guaranteed.

package game

import (
	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/m36h4/word-transform-game/internal/words"
)

// fallbackPairs holds one built-in pair per supported length.
var fallbackPairs = map[int][2]string{
	3: {"cat", "dog"},
	4: {"cold", "warm"},
	5: {"black", "white"},
	6: {"summer", "winter"},
	7: {"sunrise", "evening"},
	8: {"daylight", "midnight"},
}

// PairGenerator picks puzzles from a dictionary.
type PairGenerator struct {
	dict *words.Dictionary
	intn func(n int) int // returns a value in [0, n)
}

// NewPairGenerator returns a generator drawing from dict. A nil intn uses frand.
func NewPairGenerator(dict *words.Dictionary, intn func(n int) int) *PairGenerator {
	if intn == nil {
		intn = frand.Intn
	}
	return &PairGenerator{dict: dict, intn: intn}
}

// Generate returns a distinct pair of words of the given length.
func (g *PairGenerator) Generate(length int) Pair {
	pool := g.dict.OfLength(length)
	if len(pool) < 2 {
		fb, ok := fallbackPairs[length]
		if !ok {
			fb = fallbackPairs[4]
		}
		log.Warn().Int("length", length).Int("candidates", len(pool)).
			Str("start", fb[0]).Str("target", fb[1]).Msg("too few words, using fallback pair")
		return Pair{Start: fb[0], Target: fb[1], Fallback: true}
	}

	start := pool[g.intn(len(pool))]
	target := pool[g.intn(len(pool))]
	for target == start {
		target = pool[g.intn(len(pool))]
	}
	return Pair{Start: start, Target: target}
}
