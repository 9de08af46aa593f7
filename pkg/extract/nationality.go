package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/Ramsey-B/juniper/pkg/models"
)

// NationalityCol returns the output column for nationality slot k (1..2).
func NationalityCol(k int) string { return fmt.Sprintf("WN_%d", k) }

// Minimum 0-100 similarity for adopting a reference country name. Below it
// the original text passes through verbatim.
const countryMatchThreshold = 85

var nationalitySeparator = regexp.MustCompile(`\s*[,;/]\s*`)

// CanonicalCountry maps a free-text nationality mention onto the reference
// table using normalized edit-distance similarity. Returns the canonical
// name and the best score; the input is returned unchanged when nothing
// reaches the threshold.
func CanonicalCountry(mention string) (string, int) {
	mention = strings.TrimSpace(mention)
	if mention == "" {
		return "", 0
	}

	bestScore := 0
	bestName := mention
	lower := strings.ToLower(mention)

	for _, ref := range countryReference {
		for _, variant := range ref.variants {
			score := similarityPercent(lower, variant)
			if score > bestScore {
				bestScore = score
				bestName = ref.canonical
			}
		}
	}

	if bestScore >= countryMatchThreshold {
		return bestName, bestScore
	}
	return mention, bestScore
}

// similarityPercent is a normalized Levenshtein similarity on [0, 100].
func similarityPercent(a, b string) int {
	if a == b {
		return 100
	}
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 100
	}
	dist := levenshtein.ComputeDistance(a, b)
	return int((1 - float64(dist)/float64(maxLen)) * 100)
}

// NormalizeNationalities splits a free-text nationality cell into up to
// MaxNationalities mentions and canonicalizes each.
func NormalizeNationalities(text string) []string {
	var out []string
	for _, mention := range nationalitySeparator.Split(text, -1) {
		mention = strings.TrimSpace(mention)
		if mention == "" {
			continue
		}
		name, _ := CanonicalCountry(mention)
		out = append(out, name)
		if len(out) == models.MaxNationalities {
			break
		}
	}
	return out
}

// ApplyNationalities canonicalizes the nationality column of every row into
// WN_1 / WN_2 columns, empty when absent.
func ApplyNationalities(rows []*models.RowRecord, nationalityColumn string) {
	for _, row := range rows {
		canonical := NormalizeNationalities(row.Get(nationalityColumn))
		for k := 1; k <= models.MaxNationalities; k++ {
			value := ""
			if k <= len(canonical) {
				value = canonical[k-1]
			}
			row.Set(NationalityCol(k), value)
		}
	}
}
