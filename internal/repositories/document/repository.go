package document

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

// Repository handles document metadata persistence. File contents live on
// disk or in object storage; this table only records where and what format.
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new document repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create registers an uploaded document
func (r *Repository) Create(ctx context.Context, doc *models.Document) (*models.Document, error) {
	ctx, span := tracing.StartSpan(ctx, "document.Repository.Create")
	defer span.End()

	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	doc.CreatedAt = time.Now().UTC()

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("documents")
	sb.Cols("id", "path", "format", "created_by", "created_at")
	sb.Values(doc.ID, doc.Path, doc.Format, doc.CreatedBy, doc.CreatedAt)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"document_id": doc.ID}).Error("Failed to create document")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create document")
	}

	return doc, nil
}

// Get retrieves a document by ID
func (r *Repository) Get(ctx context.Context, id string) (*models.Document, error) {
	ctx, span := tracing.StartSpan(ctx, "document.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "path", "format", "created_by", "created_at")
	sb.From("documents")
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	var doc models.Document
	if err := r.db.GetContext(ctx, &doc, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("document %s not found", id))
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get document")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get document")
	}

	return &doc, nil
}
