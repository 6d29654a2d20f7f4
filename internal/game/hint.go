// internal/game/hint.go
//
// Shortest-ladder search.
//
// The graph is implicit: nodes are dictionary words of the current word's
// length and edges join words that differ in one position. Neighbours are
// produced by substituting each position with a–z and keeping dictionary
// hits, so each dequeue costs O(L·26) lookups. Every word is enqueued at
// most once, which bounds the search by the size of the length bucket.
//
// Nothing is cached between calls.

package game

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/m36h4/word-transform-game/internal/words"
)

// HintFinder runs breadth-first searches over a dictionary.
type HintFinder struct {
	dict *words.Dictionary

	// MaxVisits caps the number of dequeued words per search; 0 means no cap.
	// Hitting the cap reports the target as unreachable.
	MaxVisits int
}

// NewHintFinder returns a finder with the given visit cap.
func NewHintFinder(dict *words.Dictionary, maxVisits int) *HintFinder {
	return &HintFinder{dict: dict, MaxVisits: maxVisits}
}

// Find returns the next move along a shortest ladder from current to target.
func (f *HintFinder) Find(current, target string) Hint {
	path, ok := f.Path(current, target)
	switch {
	case !ok:
		return Hint{Kind: HintUnreachable}
	case len(path) == 1:
		return Hint{Kind: HintAlreadyAtTarget}
	default:
		return Hint{Kind: HintNext, Word: path[1], Distance: len(path) - 1}
	}
}

// Path returns a shortest ladder from current to target, both ends included.
// It reports false when no ladder exists within the visit cap.
func (f *HintFinder) Path(current, target string) ([]string, bool) {
	src, dst := strings.ToLower(current), strings.ToLower(target)
	if src == dst {
		return []string{src}, true
	}
	if len(src) != len(dst) || src == "" {
		return nil, false
	}

	// parent doubles as the visited set; the source maps to itself.
	parent := map[string]string{src: src}
	queue := []string{src}
	visits := 0

	for len(queue) > 0 {
		if f.MaxVisits > 0 && visits >= f.MaxVisits {
			log.Debug().Str("from", src).Str("to", dst).Int("visits", visits).Msg("hint search cap reached")
			return nil, false
		}
		word := queue[0]
		queue = queue[1:]
		visits++

		buf := []byte(word)
		for i := range buf {
			orig := buf[i]
			for c := byte('a'); c <= 'z'; c++ {
				if c == orig {
					continue
				}
				buf[i] = c
				next := string(buf)
				if _, seen := parent[next]; seen || !f.dict.Contains(next) {
					continue
				}
				parent[next] = word
				if next == dst {
					return unwind(parent, src, dst), true
				}
				queue = append(queue, next)
			}
			buf[i] = orig
		}
	}
	return nil, false
}

// unwind rebuilds the src→dst path from the parent links.
func unwind(parent map[string]string, src, dst string) []string {
	var rev []string
	for w := dst; w != src; w = parent[w] {
		rev = append(rev, w)
	}
	rev = append(rev, src)
	path := make([]string, len(rev))
	for i, w := range rev {
		path[len(rev)-1-i] = w
	}
	return path
}
