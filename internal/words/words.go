// internal/words/words.go
//
// Dictionary and word rules for the ladder engine.
//
// Responsibilities:
//   - Hold an immutable set of canonical lowercase words.
//   - Index the set by word length (each bucket sorted, so iteration is reproducible).
//   - Provide the one-letter-difference rule used by moves and hints.
//
// Constraints:
//   • Only a–z words are kept; everything is lowercased on the way in.
//   • A Dictionary is never mutated after New returns, so it can be shared
//     by any number of sessions and goroutines without locking.

package words

import (
	"sort"
	"strings"

	"github.com/samber/lo"
)

// Supported word lengths for a session.
const (
	MinLength = 3
	MaxLength = 8
)

// Dictionary is a read-only word set with a length index.
type Dictionary struct {
	set   map[string]struct{} // canonical lowercase words
	byLen map[int][]string    // sorted words per length
}

// New builds a Dictionary from list. Entries are trimmed and lowercased;
// non-alphabetic entries and duplicates are dropped.
func New(list []string) *Dictionary {
	clean := lo.FilterMap(list, func(w string, _ int) (string, bool) {
		w = strings.ToLower(strings.TrimSpace(w))
		return w, w != "" && isAlpha(w)
	})
	clean = lo.Uniq(clean)

	d := &Dictionary{
		set:   make(map[string]struct{}, len(clean)),
		byLen: lo.GroupBy(clean, func(w string) int { return len(w) }),
	}
	for _, w := range clean {
		d.set[w] = struct{}{}
	}
	for _, bucket := range d.byLen {
		sort.Strings(bucket)
	}
	return d
}

// Contains reports whether the lowercase form of w is a known word.
func (d *Dictionary) Contains(w string) bool {
	_, ok := d.set[strings.ToLower(w)]
	return ok
}

// OfLength returns every word of exactly n letters in sorted order.
// The slice is shared; callers must not modify it.
func (d *Dictionary) OfLength(n int) []string {
	return d.byLen[n]
}

// Len returns the number of words in the dictionary.
func (d *Dictionary) Len() int { return len(d.set) }

// Stats returns word counts keyed by length.
func (d *Dictionary) Stats() map[int]int {
	return lo.MapValues(d.byLen, func(ws []string, _ int) int { return len(ws) })
}

// Supported reports whether n is a playable word length.
func Supported(n int) bool { return n >= MinLength && n <= MaxLength }

// IsOneLetterDiff reports whether a and b have equal length and differ in
// exactly one position. Comparison is byte-wise and case-sensitive; callers
// normalize case first.
func IsOneLetterDiff(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	diff := 0
	for i := 0; i < len(a); i++ {
		if a[i] != b[i] {
			diff++
			if diff > 1 {
				return false
			}
		}
	}
	return diff == 1
}

// isAlpha reports whether s is all lowercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
