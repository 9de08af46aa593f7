// Package extract turns the semi-structured DTTOT row text into normalized
// columns: decomposed names and aliases, identifier numbers pulled out of
// prose, narrative bullets split into ordered description slots, and
// canonicalized birth dates and nationalities.
package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Ramsey-B/juniper/pkg/models"
)

// Derived column names. These are the de facto output contract the report
// generation downstream keys off of.
const (
	ColFirstName  = "first_name"
	ColMiddleName = "middle_name"
	ColLastName   = "last_name"
)

// AliasNameCol returns the full-name column for alias i (1-indexed).
func AliasNameCol(i int) string { return fmt.Sprintf("Alias_name_%d", i) }

// AliasPartCol returns the name-part column for alias i, e.g.
// "first_name_alias_1".
func AliasPartCol(part string, i int) string { return fmt.Sprintf("%s_alias_%d", part, i) }

// aliasSeparator matches the literal word Alias between names,
// case-insensitively, as used by the published sheet ("A Alias B Alias C").
var aliasSeparator = regexp.MustCompile(`(?i)\s+alias\s+`)

// NameParts is a decomposed name triple.
type NameParts struct {
	First  string
	Middle string
	Last   string
}

// Decomposition is the result of splitting one full-name cell.
type Decomposition struct {
	Primary NameParts
	Aliases []AliasName
}

// AliasName is one alias segment, in source order.
type AliasName struct {
	FullName string
	Parts    NameParts
}

// SplitName decomposes a "Full Name Alias Other Name" cell. The first
// segment is the primary name; every later segment is one alias.
func SplitName(raw string) Decomposition {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Decomposition{}
	}

	segments := aliasSeparator.Split(raw, -1)
	result := Decomposition{Primary: DecomposeName(segments[0])}
	for _, seg := range segments[1:] {
		seg = strings.TrimSpace(seg)
		result.Aliases = append(result.Aliases, AliasName{
			FullName: seg,
			Parts:    DecomposeName(seg),
		})
	}
	return result
}

// DecomposeName splits one name segment into (first, middle, last):
// one token is a bare first name, two tokens are first+last, three or more
// put everything between the edges into the middle name.
func DecomposeName(segment string) NameParts {
	tokens := strings.Fields(segment)
	switch len(tokens) {
	case 0:
		return NameParts{}
	case 1:
		return NameParts{First: tokens[0]}
	case 2:
		return NameParts{First: tokens[0], Last: tokens[1]}
	default:
		return NameParts{
			First:  tokens[0],
			Middle: strings.Join(tokens[1:len(tokens)-1], " "),
			Last:   tokens[len(tokens)-1],
		}
	}
}

// ApplyNames decomposes the full-name column across the whole batch. Every
// row gets the same alias column set, sized by the maximum alias count
// observed in the batch; rows with fewer aliases carry empty strings. There
// is no upper bound here; caps are validation's concern.
func ApplyNames(rows []*models.RowRecord, nameColumn string) {
	decomposed := make([]Decomposition, len(rows))
	maxAliases := 0
	for i, row := range rows {
		decomposed[i] = SplitName(row.Get(nameColumn))
		if n := len(decomposed[i].Aliases); n > maxAliases {
			maxAliases = n
		}
	}

	for i, row := range rows {
		d := decomposed[i]
		row.Set(ColFirstName, d.Primary.First)
		row.Set(ColMiddleName, d.Primary.Middle)
		row.Set(ColLastName, d.Primary.Last)

		for a := 1; a <= maxAliases; a++ {
			var alias AliasName
			if a <= len(d.Aliases) {
				alias = d.Aliases[a-1]
			}
			row.Set(AliasNameCol(a), alias.FullName)
			row.Set(AliasPartCol(ColFirstName, a), alias.Parts.First)
			row.Set(AliasPartCol(ColMiddleName, a), alias.Parts.Middle)
			row.Set(AliasPartCol(ColLastName, a), alias.Parts.Last)
		}
	}
}
