package screeningreport

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

// Repository handles report headers and their match records
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new screening report repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// UpsertHeader returns the report header for a document, creating it in
// Initialized state on first sight. Reprocessing a document reuses the
// header so match history accumulates under one report.
func (r *Repository) UpsertHeader(ctx context.Context, documentID string) (*models.ScreeningReport, error) {
	ctx, span := tracing.StartSpan(ctx, "screeningreport.Repository.UpsertHeader")
	defer span.End()

	now := time.Now().UTC()
	report := &models.ScreeningReport{
		ID:         uuid.New().String(),
		DocumentID: documentID,
		Status:     models.ReportStatusInitialized,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	query := `
		INSERT INTO screening_reports (id, document_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (document_id) DO UPDATE SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at
		RETURNING id, document_id, status, created_at, updated_at
	`

	var stored models.ScreeningReport
	if err := r.db.GetContext(ctx, &stored, query, report.ID, report.DocumentID, report.Status, now); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"document_id": documentID}).Error("Failed to upsert report header")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to upsert report header")
	}

	return &stored, nil
}

// Get retrieves a report by ID
func (r *Repository) Get(ctx context.Context, id string) (*models.ScreeningReport, error) {
	ctx, span := tracing.StartSpan(ctx, "screeningreport.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "document_id", "status", "created_at", "updated_at")
	sb.From("screening_reports")
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	var report models.ScreeningReport
	if err := r.db.GetContext(ctx, &report, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("report %s not found", id))
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get report")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get report")
	}

	return &report, nil
}

// GetByDocument retrieves the report header for a document
func (r *Repository) GetByDocument(ctx context.Context, documentID string) (*models.ScreeningReport, error) {
	ctx, span := tracing.StartSpan(ctx, "screeningreport.Repository.GetByDocument")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "document_id", "status", "created_at", "updated_at")
	sb.From("screening_reports")
	sb.Where(sb.Equal("document_id", documentID))

	query, args := sb.Build()
	var report models.ScreeningReport
	if err := r.db.GetContext(ctx, &report, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("no report for document %s", documentID))
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get report by document")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get report")
	}

	return &report, nil
}

// SetStatus advances a report through the pipeline state machine
func (r *Repository) SetStatus(ctx context.Context, reportID string, status models.ReportStatus) error {
	ctx, span := tracing.StartSpan(ctx, "screeningreport.Repository.SetStatus")
	defer span.End()

	now := time.Now().UTC()
	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("screening_reports")
	sb.Set(
		sb.Assign("status", status),
		sb.Assign("updated_at", now),
	)
	sb.Where(sb.Equal("id", reportID))

	query, args := sb.Build()
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"report_id": reportID, "status": status}).Error("Failed to set report status")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to set report status")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("report %s not found", reportID))
	}

	return nil
}

// CreateMatch persists one scored pairing under a report
func (r *Repository) CreateMatch(ctx context.Context, record *models.MatchRecord) error {
	ctx, span := tracing.StartSpan(ctx, "screeningreport.Repository.CreateMatch")
	defer span.End()

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("screening_matches")
	sb.Cols("id", "report_id", "category", "investor_id", "densus_code", "score", "status", "created_at")
	sb.Values(record.ID, record.ReportID, record.Category, record.InvestorID, record.DensusCode, record.Score, record.Status, record.CreatedAt)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"match_id": record.ID}).Error("Failed to create match record")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to create match record")
	}

	return nil
}

// ListRecentByInvestor retrieves match records for an investor created after
// the given time. The scoring engine uses this for its dedup-window check.
func (r *Repository) ListRecentByInvestor(ctx context.Context, investorID string, since time.Time) ([]models.MatchRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "screeningreport.Repository.ListRecentByInvestor")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "report_id", "category", "investor_id", "densus_code", "score", "status", "created_at")
	sb.From("screening_matches")
	sb.Where(
		sb.Equal("investor_id", investorID),
		sb.GreaterEqualThan("created_at", since),
	)
	sb.OrderBy("created_at DESC")

	query, args := sb.Build()
	var records []models.MatchRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"investor_id": investorID}).Error("Failed to list recent match records")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list recent match records")
	}

	return records, nil
}

// ListMatchesByReport retrieves every match record under a report, optionally
// filtered to one investor category.
func (r *Repository) ListMatchesByReport(ctx context.Context, reportID string, category models.InvestorCategory) ([]models.MatchRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "screeningreport.Repository.ListMatchesByReport")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "report_id", "category", "investor_id", "densus_code", "score", "status", "created_at")
	sb.From("screening_matches")

	where := []string{sb.Equal("report_id", reportID)}
	if category != "" {
		where = append(where, sb.Equal("category", category))
	}
	sb.Where(where...)
	sb.OrderBy("score DESC", "created_at DESC")

	query, args := sb.Build()
	var records []models.MatchRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"report_id": reportID}).Error("Failed to list match records")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list match records")
	}

	return records, nil
}
