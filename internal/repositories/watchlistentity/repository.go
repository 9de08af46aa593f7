package watchlistentity

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/juniper/pkg/database"
	"github.com/Ramsey-B/juniper/pkg/models"
	"github.com/Ramsey-B/juniper/pkg/tracing"
)

const columns = "id, densus_code, suspect_type, first_name, middle_name, last_name, birth_place, birth_dates, nationalities, address, national_id, passport_number, aliases, descriptions, created_at, updated_at, updated_by"

// Repository handles watchlist entity persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new watchlist entity repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// entityRow is the storage shape; the list-valued columns live in jsonb.
type entityRow struct {
	ID             string                                  `db:"id"`
	DensusCode     string                                  `db:"densus_code"`
	SuspectType    models.SuspectType                      `db:"suspect_type"`
	FirstName      string                                  `db:"first_name"`
	MiddleName     string                                  `db:"middle_name"`
	LastName       string                                  `db:"last_name"`
	BirthPlace     string                                  `db:"birth_place"`
	BirthDates     database.JSONB[[]string]                `db:"birth_dates"`
	Nationalities  database.JSONB[[]string]                `db:"nationalities"`
	Address        string                                  `db:"address"`
	NationalID     string                                  `db:"national_id"`
	PassportNumber string                                  `db:"passport_number"`
	Aliases        database.JSONB[[]models.WatchlistAlias] `db:"aliases"`
	Descriptions   database.JSONB[[]string]                `db:"descriptions"`
	CreatedAt      time.Time                               `db:"created_at"`
	UpdatedAt      time.Time                               `db:"updated_at"`
	UpdatedBy      string                                  `db:"updated_by"`
}

func (row *entityRow) toModel() *models.WatchlistEntity {
	return &models.WatchlistEntity{
		ID:             row.ID,
		DensusCode:     row.DensusCode,
		SuspectType:    row.SuspectType,
		FirstName:      row.FirstName,
		MiddleName:     row.MiddleName,
		LastName:       row.LastName,
		BirthPlace:     row.BirthPlace,
		BirthDates:     row.BirthDates.GetValue(),
		Nationalities:  row.Nationalities.GetValue(),
		Address:        row.Address,
		NationalID:     row.NationalID,
		PassportNumber: row.PassportNumber,
		Aliases:        row.Aliases.GetValue(),
		Descriptions:   row.Descriptions.GetValue(),
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
		UpdatedBy:      row.UpdatedBy,
	}
}

// ListDensusCodes returns every stored Densus code. The pipeline snapshots
// this once per document run and shares it across row tasks.
func (r *Repository) ListDensusCodes(ctx context.Context) ([]string, error) {
	ctx, span := tracing.StartSpan(ctx, "watchlistentity.Repository.ListDensusCodes")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("densus_code")
	sb.From("watchlist_entities")
	sb.OrderBy("created_at ASC")

	query, args := sb.Build()
	var codes []string
	if err := r.db.SelectContext(ctx, &codes, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list densus codes")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list densus codes")
	}

	return codes, nil
}

// GetByDensusCode retrieves the entity stored under an exact Densus code.
func (r *Repository) GetByDensusCode(ctx context.Context, code string) (*models.WatchlistEntity, error) {
	ctx, span := tracing.StartSpan(ctx, "watchlistentity.Repository.GetByDensusCode")
	defer span.End()

	query := fmt.Sprintf("SELECT %s FROM watchlist_entities WHERE densus_code = $1", columns)

	var row entityRow
	if err := r.db.GetContext(ctx, &row, query, code); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("watchlist entity %s not found", code))
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get watchlist entity")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get watchlist entity")
	}

	return row.toModel(), nil
}

// Get retrieves a watchlist entity by ID
func (r *Repository) Get(ctx context.Context, id string) (*models.WatchlistEntity, error) {
	ctx, span := tracing.StartSpan(ctx, "watchlistentity.Repository.Get")
	defer span.End()

	query := fmt.Sprintf("SELECT %s FROM watchlist_entities WHERE id = $1", columns)

	var row entityRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("watchlist entity %s not found", id))
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get watchlist entity")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get watchlist entity")
	}

	return row.toModel(), nil
}

// List retrieves watchlist entities ordered by last update, newest first.
func (r *Repository) List(ctx context.Context, limit int) ([]models.WatchlistEntity, error) {
	ctx, span := tracing.StartSpan(ctx, "watchlistentity.Repository.List")
	defer span.End()

	if limit < 1 || limit > 500 {
		limit = 100
	}

	query := fmt.Sprintf("SELECT %s FROM watchlist_entities ORDER BY updated_at DESC LIMIT %d", columns, limit)

	var rows []entityRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list watchlist entities")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list watchlist entities")
	}

	entities := make([]models.WatchlistEntity, len(rows))
	for i := range rows {
		entities[i] = *rows[i].toModel()
	}
	return entities, nil
}

// Create inserts a new watchlist entity
func (r *Repository) Create(ctx context.Context, req models.CreateWatchlistEntityRequest) (*models.WatchlistEntity, error) {
	ctx, span := tracing.StartSpan(ctx, "watchlistentity.Repository.Create")
	defer span.End()

	now := time.Now().UTC()
	entity := &models.WatchlistEntity{
		ID:             uuid.New().String(),
		DensusCode:     req.DensusCode,
		SuspectType:    req.SuspectType,
		FirstName:      req.FirstName,
		MiddleName:     req.MiddleName,
		LastName:       req.LastName,
		BirthPlace:     req.BirthPlace,
		BirthDates:     req.BirthDates,
		Nationalities:  req.Nationalities,
		Address:        req.Address,
		NationalID:     req.NationalID,
		PassportNumber: req.PassportNumber,
		Aliases:        req.Aliases,
		Descriptions:   req.Descriptions,
		CreatedAt:      now,
		UpdatedAt:      now,
		UpdatedBy:      req.UpdatedBy,
	}

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("watchlist_entities")
	sb.Cols("id", "densus_code", "suspect_type", "first_name", "middle_name", "last_name", "birth_place", "birth_dates", "nationalities", "address", "national_id", "passport_number", "aliases", "descriptions", "created_at", "updated_at", "updated_by")
	sb.Values(
		entity.ID, entity.DensusCode, entity.SuspectType,
		entity.FirstName, entity.MiddleName, entity.LastName,
		entity.BirthPlace,
		database.JSONB[[]string]{Data: entity.BirthDates},
		database.JSONB[[]string]{Data: entity.Nationalities},
		entity.Address, entity.NationalID, entity.PassportNumber,
		database.JSONB[[]models.WatchlistAlias]{Data: entity.Aliases},
		database.JSONB[[]string]{Data: entity.Descriptions},
		entity.CreatedAt, entity.UpdatedAt, entity.UpdatedBy,
	)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"densus_code": entity.DensusCode}).Error("Failed to create watchlist entity")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create watchlist entity")
	}

	return entity, nil
}

// Update replaces the entity stored under a Densus code with the incoming
// row. Later publications supersede earlier ones wholesale.
func (r *Repository) Update(ctx context.Context, code string, req models.CreateWatchlistEntityRequest) (*models.WatchlistEntity, error) {
	ctx, span := tracing.StartSpan(ctx, "watchlistentity.Repository.Update")
	defer span.End()

	now := time.Now().UTC()
	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("watchlist_entities")
	sb.Set(
		sb.Assign("densus_code", req.DensusCode),
		sb.Assign("suspect_type", req.SuspectType),
		sb.Assign("first_name", req.FirstName),
		sb.Assign("middle_name", req.MiddleName),
		sb.Assign("last_name", req.LastName),
		sb.Assign("birth_place", req.BirthPlace),
		sb.Assign("birth_dates", database.JSONB[[]string]{Data: req.BirthDates}),
		sb.Assign("nationalities", database.JSONB[[]string]{Data: req.Nationalities}),
		sb.Assign("address", req.Address),
		sb.Assign("national_id", req.NationalID),
		sb.Assign("passport_number", req.PassportNumber),
		sb.Assign("aliases", database.JSONB[[]models.WatchlistAlias]{Data: req.Aliases}),
		sb.Assign("descriptions", database.JSONB[[]string]{Data: req.Descriptions}),
		sb.Assign("updated_at", now),
		sb.Assign("updated_by", req.UpdatedBy),
	)
	sb.Where(sb.Equal("densus_code", code))

	query, args := sb.Build()
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"densus_code": code}).Error("Failed to update watchlist entity")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update watchlist entity")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("watchlist entity %s not found", code))
	}

	return r.GetByDensusCode(ctx, req.DensusCode)
}
