// Package scoring implements the weighted fuzzy-match model between
// investors and watchlist entities.
package scoring

import "strings"

// Scorer provides the string comparison primitives the engine composes.
type Scorer struct{}

// NewScorer creates a new Scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// TokenSimilarity is the bag-of-tokens "best pair" metric: the maximum
// similarity over all token pairs drawn from the two strings. Comparison is
// case-insensitive; a missing string scores 0.
func (s *Scorer) TokenSimilarity(a, b string) float64 {
	aTokens := strings.Fields(strings.ToLower(a))
	bTokens := strings.Fields(strings.ToLower(b))
	if len(aTokens) == 0 || len(bTokens) == 0 {
		return 0.0
	}

	best := 0.0
	for _, at := range aTokens {
		for _, bt := range bTokens {
			if sim := s.JaroWinkler(at, bt); sim > best {
				best = sim
				if best == 1.0 {
					return best
				}
			}
		}
	}
	return best
}

// JaroWinkler calculates the Jaro-Winkler similarity between two strings.
// Returns a value between 0.0 (no similarity) and 1.0 (exact match).
func (s *Scorer) JaroWinkler(a, b string) float64 {
	if a == b {
		return 1.0
	}

	jaro := s.Jaro(a, b)

	// Winkler modification: boost for common prefix
	prefixLen := 0
	maxPrefix := 4
	for i := 0; i < len(a) && i < len(b) && i < maxPrefix; i++ {
		if a[i] == b[i] {
			prefixLen++
		} else {
			break
		}
	}

	scalingFactor := 0.1
	return jaro + float64(prefixLen)*scalingFactor*(1.0-jaro)
}

// Jaro calculates the Jaro similarity between two strings.
func (s *Scorer) Jaro(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	matchDist := max(len(a), len(b))/2 - 1
	if matchDist < 0 {
		matchDist = 0
	}

	aMatches := make([]bool, len(a))
	bMatches := make([]bool, len(b))

	matches := 0
	transpositions := 0

	for i := 0; i < len(a); i++ {
		start := max(0, i-matchDist)
		end := min(len(b), i+matchDist+1)

		for j := start; j < end; j++ {
			if bMatches[j] || a[i] != b[j] {
				continue
			}
			aMatches[i] = true
			bMatches[j] = true
			matches++
			break
		}
	}

	if matches == 0 {
		return 0.0
	}

	k := 0
	for i := 0; i < len(a); i++ {
		if !aMatches[i] {
			continue
		}
		for !bMatches[k] {
			k++
		}
		if a[i] != b[k] {
			transpositions++
		}
		k++
	}

	m := float64(matches)
	t := float64(transpositions) / 2

	return (m/float64(len(a)) + m/float64(len(b)) + (m-t)/m) / 3
}

// SequenceRatio is the difflib-style sequence matching ratio:
// 2*M / (len(a)+len(b)) where M is the total size of matching blocks found
// by recursively taking the longest common substring. Used for the fuzzy
// natural keys (Densus codes, investor ids), not for name tokens.
func (s *Scorer) SequenceRatio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	total := len(a) + len(b)
	if total == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	matched := matchingBlockSize(a, b)
	return 2.0 * float64(matched) / float64(total)
}

// matchingBlockSize sums the matching block lengths: find the longest
// common substring, then recurse on the pieces to its left and right.
func matchingBlockSize(a, b string) int {
	aStart, bStart, size := longestCommonSubstring(a, b)
	if size == 0 {
		return 0
	}
	left := matchingBlockSize(a[:aStart], b[:bStart])
	right := matchingBlockSize(a[aStart+size:], b[bStart+size:])
	return size + left + right
}

func longestCommonSubstring(a, b string) (aStart, bStart, size int) {
	// lengths[j] holds the common-suffix length ending at a[i-1], b[j-1]
	lengths := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		prev := 0
		for j := 1; j <= len(b); j++ {
			cur := lengths[j]
			if a[i-1] == b[j-1] {
				lengths[j] = prev + 1
				if lengths[j] > size {
					size = lengths[j]
					aStart = i - size
					bStart = j - size
				}
			} else {
				lengths[j] = 0
			}
			prev = cur
		}
	}
	return aStart, bStart, size
}
