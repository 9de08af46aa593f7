package extract

import (
	"regexp"
	"strings"

	"github.com/Ramsey-B/juniper/pkg/models"
)

// Output columns for identifiers lifted out of description prose.
const (
	ColIDNumber       = "idNumber"
	ColPassportNumber = "passportNumber"
)

var (
	// A national ID (NIK) is exactly 16 consecutive digits as a whole token.
	nikPattern = regexp.MustCompile(`\b\d{16}\b`)

	// A passport number is 0-2 uppercase letters, optional whitespace, then
	// 6 or more digits, as a whole token.
	passportPattern = regexp.MustCompile(`\b[A-Z]{0,2}\s?\d{6,}\b`)

	collapseWhitespace = regexp.MustCompile(`\s+`)
)

// Identifiers is the result of pulling identifier-shaped substrings out of
// one free-text cell.
type Identifiers struct {
	NationalID string
	Passport   string
	Cleaned    string
}

// ExtractIdentifiers finds the first national-ID token and the first
// passport token, removes both from the text, and returns the cleaned
// remainder with collapsed whitespace. The NIK pattern wins when both could
// claim the same digits.
func ExtractIdentifiers(text string) Identifiers {
	out := Identifiers{Cleaned: text}

	if loc := nikPattern.FindStringIndex(out.Cleaned); loc != nil {
		out.NationalID = out.Cleaned[loc[0]:loc[1]]
		out.Cleaned = out.Cleaned[:loc[0]] + out.Cleaned[loc[1]:]
	}

	if loc := passportPattern.FindStringIndex(out.Cleaned); loc != nil {
		out.Passport = strings.Join(strings.Fields(out.Cleaned[loc[0]:loc[1]]), "")
		out.Cleaned = out.Cleaned[:loc[0]] + out.Cleaned[loc[1]:]
	}

	out.Cleaned = strings.TrimSpace(collapseWhitespace.ReplaceAllString(out.Cleaned, " "))
	return out
}

// ApplyIdentifiers scans every description-slot column of every row,
// first-match-wins per identifier kind, and writes idNumber /
// passportNumber columns. Scanned cells are rewritten with the matched
// substrings removed.
func ApplyIdentifiers(rows []*models.RowRecord) {
	for _, row := range rows {
		var nik, passport string
		for _, col := range row.Columns() {
			if !IsDescriptionColumn(col) {
				continue
			}
			ids := ExtractIdentifiers(row.Get(col))
			if ids.NationalID == "" && ids.Passport == "" {
				continue
			}
			row.Set(col, ids.Cleaned)
			if nik == "" {
				nik = ids.NationalID
			}
			if passport == "" {
				passport = ids.Passport
			}
		}
		row.Set(ColIDNumber, nik)
		row.Set(ColPassportNumber, passport)
	}
}

// IsDescriptionColumn reports whether a column carries free-text description
// content (the source narrative column or a derived description slot).
func IsDescriptionColumn(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasPrefix(lower, "deskripsi") || strings.HasPrefix(lower, "description")
}
