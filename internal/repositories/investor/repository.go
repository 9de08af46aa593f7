package investor

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/juniper/pkg/database"
	"github.com/Ramsey-B/juniper/pkg/models"
	"github.com/Ramsey-B/juniper/pkg/tracing"
)

// Repository reads investor records replicated from the external
// system-of-record. This surface is read-only: screening never creates,
// mutates, or deletes investors.
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new investor repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

type investorRow struct {
	ID         string                  `db:"id"`
	DocumentID string                  `db:"document_id"`
	Category   models.InvestorCategory `db:"category"`

	Name        string `db:"name"`
	PhoneNumber string `db:"phone_number"`
	Address     string `db:"address"`

	IdentityNumbers database.JSONB[[]string] `db:"identity_numbers"`

	BirthPlace  string `db:"birth_place"`
	BirthDate   string `db:"birth_date"`
	Nationality string `db:"nationality"`

	SpouseName       string `db:"spouse_name"`
	MotherMaidenName string `db:"mother_maiden_name"`

	RegistrationNumbers database.JSONB[[]string] `db:"registration_numbers"`
	PengurusNames       database.JSONB[[]string] `db:"pengurus_names"`
	PengurusIDNumbers   database.JSONB[[]string] `db:"pengurus_id_numbers"`
	BusinessDescription string                   `db:"business_description"`

	Notes database.JSONB[[]string] `db:"notes"`
}

func (row *investorRow) toModel() models.Investor {
	return models.Investor{
		ID:                  row.ID,
		DocumentID:          row.DocumentID,
		Category:            row.Category,
		Name:                row.Name,
		PhoneNumber:         row.PhoneNumber,
		Address:             row.Address,
		IdentityNumbers:     row.IdentityNumbers.GetValue(),
		BirthPlace:          row.BirthPlace,
		BirthDate:           row.BirthDate,
		Nationality:         row.Nationality,
		SpouseName:          row.SpouseName,
		MotherMaidenName:    row.MotherMaidenName,
		RegistrationNumbers: row.RegistrationNumbers.GetValue(),
		PengurusNames:       row.PengurusNames.GetValue(),
		PengurusIDNumbers:   row.PengurusIDNumbers.GetValue(),
		BusinessDescription: row.BusinessDescription,
		Notes:               row.Notes.GetValue(),
	}
}

// ListByDocument retrieves every investor of one category associated with a
// screening document.
func (r *Repository) ListByDocument(ctx context.Context, documentID string, category models.InvestorCategory) ([]models.Investor, error) {
	ctx, span := tracing.StartSpan(ctx, "investor.Repository.ListByDocument")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "document_id", "category", "name", "phone_number", "address", "identity_numbers", "birth_place", "birth_date", "nationality", "spouse_name", "mother_maiden_name", "registration_numbers", "pengurus_names", "pengurus_id_numbers", "business_description", "notes")
	sb.From("investors")
	sb.Where(
		sb.Equal("document_id", documentID),
		sb.Equal("category", category),
	)
	sb.OrderBy("id ASC")

	query, args := sb.Build()
	var rows []investorRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"document_id": documentID,
			"category":    category,
		}).Error("Failed to list investors")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list investors")
	}

	investors := make([]models.Investor, len(rows))
	for i := range rows {
		investors[i] = rows[i].toModel()
	}
	return investors, nil
}
