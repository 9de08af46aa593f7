package models

import (
	"strings"
	"time"
)

// Caps enforced at validation time. Aliases and descriptions are stored as
// variable-length ordered lists, so a cap is a single length check.
const (
	MaxAliases       = 28
	MaxDescriptions  = 9
	MaxBirthDates    = 3
	MaxNationalities = 2
)

// SuspectType tags a watchlist entity as an individual or an organization.
type SuspectType string

const (
	SuspectTypeIndividual   SuspectType = "individual"
	SuspectTypeOrganization SuspectType = "organization"
)

// WatchlistAlias is one decomposed alias of a watchlist entity, ordered by
// Position (1-indexed, matching the source sheet's alias order).
type WatchlistAlias struct {
	Position   int    `json:"position"`
	FullName   string `json:"full_name"`
	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name"`
	LastName   string `json:"last_name"`
}

// WatchlistEntity is one designated person or organization from the DTTOT
// sheet. The Densus code is the watchlist's own free-text case identifier;
// it is a fuzzy natural key, not guaranteed unique, so identity against
// stored entities is established by sequence-ratio similarity, never exact
// equality.
type WatchlistEntity struct {
	ID          string      `db:"id" json:"id"`
	DensusCode  string      `db:"densus_code" json:"densus_code"`
	SuspectType SuspectType `db:"suspect_type" json:"suspect_type"`

	FirstName  string `db:"first_name" json:"first_name"`
	MiddleName string `db:"middle_name" json:"middle_name"`
	LastName   string `db:"last_name" json:"last_name"`

	BirthPlace     string   `db:"birth_place" json:"birth_place"`
	BirthDates     []string `db:"-" json:"birth_dates"`    // canonical YYYY/MM/DD, max 3
	Nationalities  []string `db:"-" json:"nationalities"`  // canonical country names, max 2
	Address        string   `db:"address" json:"address"`
	NationalID     string   `db:"national_id" json:"national_id"`
	PassportNumber string   `db:"passport_number" json:"passport_number"`

	Aliases      []WatchlistAlias `db:"-" json:"aliases"`
	Descriptions []string         `db:"-" json:"descriptions"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
	UpdatedBy string    `db:"updated_by" json:"updated_by"`
}

// FullName joins the primary name components.
func (e *WatchlistEntity) FullName() string {
	return joinNameParts(e.FirstName, e.MiddleName, e.LastName)
}

// NameVariants returns every name candidate the scoring engine compares
// against: the primary full name and components, plus each alias full name
// and its components. Empty strings are omitted.
func (e *WatchlistEntity) NameVariants() []string {
	variants := make([]string, 0, 4+4*len(e.Aliases))
	variants = appendNonEmpty(variants, e.FullName(), e.FirstName, e.MiddleName, e.LastName)
	for _, a := range e.Aliases {
		variants = appendNonEmpty(variants, a.FullName, a.FirstName, a.MiddleName, a.LastName)
	}
	return variants
}

// IdentityNumbers returns the identifier candidates (national ID, passport).
func (e *WatchlistEntity) IdentityNumbers() []string {
	return appendNonEmpty(nil, e.NationalID, e.PassportNumber)
}

// CreateWatchlistEntityRequest carries the fields of an upsert decision.
// Validation failures abort the row, not the batch.
type CreateWatchlistEntityRequest struct {
	DensusCode  string      `validate:"required"`
	SuspectType SuspectType `validate:"required,oneof=individual organization"`

	FirstName  string `validate:"required"`
	MiddleName string
	LastName   string

	BirthPlace     string
	BirthDates     []string `validate:"max=3"`
	Nationalities  []string `validate:"max=2"`
	Address        string
	NationalID     string
	PassportNumber string

	Aliases      []WatchlistAlias `validate:"max=28"`
	Descriptions []string         `validate:"max=9"`

	UpdatedBy string
}

func joinNameParts(parts ...string) string {
	kept := appendNonEmpty(nil, parts...)
	return strings.Join(kept, " ")
}

func appendNonEmpty(dst []string, values ...string) []string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			dst = append(dst, v)
		}
	}
	return dst
}
