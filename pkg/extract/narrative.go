package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Ramsey-B/juniper/pkg/models"
)

// DescriptionCol returns the derived column name for description slot k
// (1-indexed).
func DescriptionCol(k int) string { return fmt.Sprintf("description_%d", k) }

// segmentBoundary recognizes the separators the sheet's narrative cells use:
// a bullet marker ("-", "*", or "N.") starting a segment, or trailing
// punctuation (";", ".", ",") ending one. One expression on purpose; the
// downstream report depends on this exact segmentation.
var segmentBoundary = regexp.MustCompile(`\s*(?:-\s+|\*\s+|\b\d{1,3}\.\s+|[;.,](?:\s+|$))\s*`)

// SplitNarrative splits one long bulleted/numbered narrative into its
// ordered segments. Empty segments are dropped.
func SplitNarrative(text string) []string {
	parts := segmentBoundary.Split(text, -1)
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}

// ApplyNarrative splits the narrative column of every row into
// description_k columns, padded to the batch maximum with empty strings,
// then drops the original narrative column.
func ApplyNarrative(rows []*models.RowRecord, narrativeColumn string) {
	split := make([][]string, len(rows))
	maxSegments := 0
	for i, row := range rows {
		split[i] = SplitNarrative(row.Get(narrativeColumn))
		if n := len(split[i]); n > maxSegments {
			maxSegments = n
		}
	}

	for i, row := range rows {
		for k := 1; k <= maxSegments; k++ {
			value := ""
			if k <= len(split[i]) {
				value = split[i][k-1]
			}
			row.Set(DescriptionCol(k), value)
		}
		row.Drop(narrativeColumn)
	}
}
