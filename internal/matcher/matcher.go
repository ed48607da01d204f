// package matcher scores song titles against each other with Jaro-Winkler similarity
package matcher

import (
	"strings"
)

const (
	boostThreshold = 0.7 // prefix bonus applies only above this Jaro score
	prefixLimit    = 4
	prefixScale    = 0.1
)

// Scorer computes a similarity in [0, 1] between two strings.
type Scorer interface {
	Score(a, b string) float64
}

// JaroWinkler implements [Scorer] with [Score].
type JaroWinkler struct{}

func (JaroWinkler) Score(a, b string) float64 {
	return Score(a, b)
}

// Normalize lower-cases s. Whitespace, punctuation and accents are left alone.
func Normalize(s string) string {
	return strings.ToLower(s)
}

// Score returns the Jaro-Winkler similarity of the normalized forms of a and b.
//
// Identical normalized strings, the empty pair included, always score 1.
func Score(a, b string) float64 {
	a, b = Normalize(a), Normalize(b)
	if a == b {
		return 1
	}
	return jaroWinkler([]rune(a), []rune(b))
}

// jaro computes the Jaro similarity over code points.
//
// Characters match when equal and no more than max(len)/2 - 1 positions apart.
func jaro(a, b []rune) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	window := max(max(len(a), len(b))/2-1, 0)

	aMatched := make([]bool, len(a))
	bMatched := make([]bool, len(b))
	matches := 0

	for i, r := range a {
		lo := max(0, i-window)
		hi := min(i+window, len(b)-1)
		for j := lo; j <= hi; j++ {
			if !bMatched[j] && b[j] == r {
				aMatched[i], bMatched[j] = true, true
				matches++
				break
			}
		}
	}

	if matches == 0 {
		return 0
	}

	transpositions := 0
	k := 0
	for i, ok := range aMatched {
		if !ok {
			continue
		}
		for !bMatched[k] {
			k++
		}
		if a[i] != b[k] {
			transpositions++
		}
		k++
	}

	m := float64(matches)
	t := float64(transpositions / 2)
	return (m/float64(len(a)) + m/float64(len(b)) + (m-t)/m) / 3
}

func jaroWinkler(a, b []rune) float64 {
	sim := jaro(a, b)
	if sim <= boostThreshold {
		return sim
	}

	limit := min(len(a), len(b), prefixLimit)
	prefix := 0
	for prefix < limit && a[prefix] == b[prefix] {
		prefix++
	}

	return sim + float64(prefix)*prefixScale*(1-sim)
}
