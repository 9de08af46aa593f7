package screening

import (
	"context"
	"strings"

	"github.com/Gobusters/ectologger"
	"github.com/go-playground/validator/v10"

	"github.com/Ramsey-B/juniper/pkg/extract"
	"github.com/Ramsey-B/juniper/pkg/models"
	"github.com/Ramsey-B/juniper/pkg/scoring"
	"github.com/Ramsey-B/juniper/pkg/tracing"
)

// WatchlistStore is the watchlist persistence surface the pipeline needs.
// The pipeline never deletes entities.
type WatchlistStore interface {
	ListDensusCodes(ctx context.Context) ([]string, error)
	GetByDensusCode(ctx context.Context, code string) (*models.WatchlistEntity, error)
	Create(ctx context.Context, req models.CreateWatchlistEntityRequest) (*models.WatchlistEntity, error)
	Update(ctx context.Context, code string, req models.CreateWatchlistEntityRequest) (*models.WatchlistEntity, error)
}

// Upserter decides create-vs-update per ingested row. Identity against
// stored entities is a sequence-ratio comparison of Densus codes above the
// configured threshold, never exact equality: the watchlist's own case ids
// drift in punctuation and spacing between publications.
type Upserter struct {
	logger    ectologger.Logger
	store     WatchlistStore
	scorer    *scoring.Scorer
	validate  *validator.Validate
	codeRatio float64
}

// NewUpserter creates a new upserter.
func NewUpserter(logger ectologger.Logger, store WatchlistStore, codeRatio float64) *Upserter {
	return &Upserter{
		logger:    logger,
		store:     store,
		scorer:    scoring.NewScorer(),
		validate:  validator.New(),
		codeRatio: codeRatio,
	}
}

// UpsertRow turns one decomposed row into a create or an in-place update.
// codes is the snapshot of stored Densus codes for this document run;
// sibling row tasks share it without locking, so two near-identical codes
// arriving in the same batch can both create (accepted race, see DESIGN).
// A validation failure aborts only this row.
func (u *Upserter) UpsertRow(ctx context.Context, rowIndex int, row *models.RowRecord, mapping models.SchemaMapping, codes []string, updatedBy string) (*models.WatchlistEntity, error) {
	ctx, span := tracing.StartSpan(ctx, "screening.Upserter.UpsertRow")
	defer span.End()

	req := buildEntityRequest(row, mapping, updatedBy)

	if err := u.validate.Struct(req); err != nil {
		return nil, &models.ValidationError{Row: rowIndex, Err: err}
	}

	log := u.logger.WithContext(ctx).WithFields(map[string]any{
		"row":         rowIndex,
		"densus_code": req.DensusCode,
	})

	bestRatio := 0.0
	bestCode := ""
	for _, code := range codes {
		if ratio := u.scorer.SequenceRatio(code, req.DensusCode); ratio > bestRatio {
			bestRatio = ratio
			bestCode = code
		}
	}

	if bestRatio > u.codeRatio {
		entity, err := u.store.Update(ctx, bestCode, req)
		if err != nil {
			log.WithError(err).Error("Failed to update watchlist entity")
			return nil, err
		}
		log.WithFields(map[string]any{"matched_code": bestCode, "ratio": bestRatio}).Debug("Updated existing watchlist entity")
		return entity, nil
	}

	entity, err := u.store.Create(ctx, req)
	if err != nil {
		log.WithError(err).Error("Failed to create watchlist entity")
		return nil, err
	}
	log.Debug("Created watchlist entity")
	return entity, nil
}

// buildEntityRequest maps the derived columns of a fully extracted row onto
// an upsert request.
func buildEntityRequest(row *models.RowRecord, mapping models.SchemaMapping, updatedBy string) models.CreateWatchlistEntityRequest {
	req := models.CreateWatchlistEntityRequest{
		DensusCode:     row.Get(mapping.DensusCode),
		SuspectType:    parseSuspectType(row.Get(mapping.SuspectType)),
		FirstName:      row.Get(extract.ColFirstName),
		MiddleName:     row.Get(extract.ColMiddleName),
		LastName:       row.Get(extract.ColLastName),
		BirthPlace:     row.Get(mapping.BirthPlace),
		Address:        row.Get(mapping.Address),
		NationalID:     row.Get(extract.ColIDNumber),
		PassportNumber: row.Get(extract.ColPassportNumber),
		UpdatedBy:      updatedBy,
	}

	for i := 1; row.Has(extract.AliasNameCol(i)); i++ {
		if row.Get(extract.AliasNameCol(i)) == "" {
			continue
		}
		req.Aliases = append(req.Aliases, models.WatchlistAlias{
			Position:   i,
			FullName:   row.Get(extract.AliasNameCol(i)),
			FirstName:  row.Get(extract.AliasPartCol(extract.ColFirstName, i)),
			MiddleName: row.Get(extract.AliasPartCol(extract.ColMiddleName, i)),
			LastName:   row.Get(extract.AliasPartCol(extract.ColLastName, i)),
		})
	}

	for k := 1; k <= models.MaxBirthDates; k++ {
		if d := row.Get(extract.BirthDateCol(k)); d != "" {
			req.BirthDates = append(req.BirthDates, d)
		}
	}

	for k := 1; k <= models.MaxNationalities; k++ {
		if n := row.Get(extract.NationalityCol(k)); n != "" {
			req.Nationalities = append(req.Nationalities, n)
		}
	}

	for k := 1; row.Has(extract.DescriptionCol(k)); k++ {
		if d := row.Get(extract.DescriptionCol(k)); d != "" {
			req.Descriptions = append(req.Descriptions, d)
		}
	}
	if len(req.Descriptions) > models.MaxDescriptions {
		req.Descriptions = req.Descriptions[:models.MaxDescriptions]
	}
	if len(req.Aliases) > models.MaxAliases {
		req.Aliases = req.Aliases[:models.MaxAliases]
	}

	return req
}

func parseSuspectType(raw string) models.SuspectType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "korporasi", "organisasi", "organization", "corporation":
		return models.SuspectTypeOrganization
	default:
		return models.SuspectTypeIndividual
	}
}
