package names

import (
	"strings"

	"github.com/antzucaro/matchr"
)

// Fold lowercases and trims a name for comparison.
func Fold(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Matches reports whether a and b refer to the same god, which is true when
// their folded forms are equal or one contains the other. Blank names never
// match.
//
// Containment can pair a short name with a longer one.
func Matches(a, b string) bool {
	a = Fold(a)
	b = Fold(b)
	if a == "" || b == "" {
		return false
	}
	return a == b || strings.Contains(a, b) || strings.Contains(b, a)
}

// FirstMatch returns the index of the first candidate that matches name,
// candidates are checked in order and the first hit wins.
func FirstMatch(name string, candidates []string) (int, bool) {
	for i, candidate := range candidates {
		if Matches(name, candidate) {
			return i, true
		}
	}
	return -1, false
}

func AnyMatch(name string, candidates []string) bool {
	_, ok := FirstMatch(name, candidates)
	return ok
}

// Closest returns the candidate most similar to name by Jaro-Winkler
// similarity, it is only meant for diagnostics.
func Closest(name string, candidates []string) (string, float64) {
	folded := Fold(name)

	var best string
	var bestScore float64
	for _, candidate := range candidates {
		score := matchr.JaroWinkler(folded, Fold(candidate), false)
		if score > bestScore {
			best = candidate
			bestScore = score
		}
	}
	return best, bestScore
}
