package screening

import (
	"context"
	"os"
	"sync"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/juniper/pkg/extract"
	"github.com/Ramsey-B/juniper/pkg/models"
	"github.com/Ramsey-B/juniper/pkg/scoring"
	"github.com/Ramsey-B/juniper/pkg/tabular"
	"github.com/Ramsey-B/juniper/pkg/tracing"
)

// DocumentStore resolves upload metadata. File storage is owned elsewhere.
type DocumentStore interface {
	Get(ctx context.Context, id string) (*models.Document, error)
}

// InvestorStore reads the external system-of-record, one category at a time.
type InvestorStore interface {
	ListByDocument(ctx context.Context, documentID string, category models.InvestorCategory) ([]models.Investor, error)
}

// ReportStore manages the per-document report header.
type ReportStore interface {
	UpsertHeader(ctx context.Context, documentID string) (*models.ScreeningReport, error)
	SetStatus(ctx context.Context, reportID string, status models.ReportStatus) error
}

// Emitter publishes report lifecycle events. Optional.
type Emitter interface {
	EmitMatchFlagged(ctx context.Context, record *models.MatchRecord) error
	EmitReportCompleted(ctx context.Context, report *models.ScreeningReport) error
}

// MatchProjector projects flagged matches into the investigation graph.
// Optional and best-effort: a projection failure never fails the pipeline.
type MatchProjector interface {
	ProjectMatch(ctx context.Context, entity *models.WatchlistEntity, investor *models.Investor, record *models.MatchRecord) error
}

// Config holds the orchestrator knobs.
type Config struct {
	Mapping            models.SchemaMapping
	RowWorkerCount     int
	ScoringWorkerCount int
}

// Orchestrator drives the document state machine:
// Initialized -> Ingesting -> Scoring -> Done | Failed | Success.
type Orchestrator struct {
	logger    ectologger.Logger
	cfg       Config
	ingestor  *tabular.Ingestor
	upserter  *Upserter
	engine    *scoring.Engine
	docs      DocumentStore
	watchlist WatchlistStore
	investors InvestorStore
	reports   ReportStore
	emitter   Emitter
	projector MatchProjector
}

// NewOrchestrator creates a new pipeline orchestrator. emitter and projector
// may be nil.
func NewOrchestrator(
	logger ectologger.Logger,
	cfg Config,
	ingestor *tabular.Ingestor,
	upserter *Upserter,
	engine *scoring.Engine,
	docs DocumentStore,
	watchlist WatchlistStore,
	investors InvestorStore,
	reports ReportStore,
	emitter Emitter,
	projector MatchProjector,
) *Orchestrator {
	return &Orchestrator{
		logger:    logger,
		cfg:       cfg,
		ingestor:  ingestor,
		upserter:  upserter,
		engine:    engine,
		docs:      docs,
		watchlist: watchlist,
		investors: investors,
		reports:   reports,
		emitter:   emitter,
		projector: projector,
	}
}

// ProcessDocument runs the whole pipeline for one uploaded document.
// Row-level failures are logged and surfaced without cancelling sibling
// tasks; document-level failures (format, parse, missing prerequisites)
// abort the remainder of the run.
func (o *Orchestrator) ProcessDocument(ctx context.Context, documentID string) error {
	ctx, span := tracing.StartSpan(ctx, "screening.Orchestrator.ProcessDocument")
	defer span.End()

	log := o.logger.WithContext(ctx).WithFields(map[string]any{"document_id": documentID})

	doc, err := o.docs.Get(ctx, documentID)
	if err != nil {
		log.WithError(err).Error("Failed to resolve document")
		return err
	}

	report, err := o.reports.UpsertHeader(ctx, doc.ID)
	if err != nil {
		log.WithError(err).Error("Failed to create report header")
		return err
	}
	log = log.WithFields(map[string]any{"report_id": report.ID})

	entities, err := o.ingest(ctx, doc, report, log)
	if err != nil {
		return err
	}

	return o.score(ctx, doc, report, entities, log)
}

// ingest reads the sheet, runs the per-row extraction chain, and fans out
// one upsert task per row. Returns the document's watchlist entities.
func (o *Orchestrator) ingest(ctx context.Context, doc *models.Document, report *models.ScreeningReport, log ectologger.Logger) ([]*models.WatchlistEntity, error) {
	ctx, span := tracing.StartSpan(ctx, "screening.Orchestrator.ingest")
	defer span.End()

	if err := o.reports.SetStatus(ctx, report.ID, models.ReportStatusIngesting); err != nil {
		return nil, err
	}

	file, err := os.Open(doc.Path)
	if err != nil {
		log.WithError(err).Error("Failed to open document file")
		o.markFailed(ctx, report, log)
		return nil, &models.ParseError{Format: string(doc.Format), Err: err}
	}
	defer file.Close()

	rows, err := o.ingestor.Read(ctx, file, doc.Format)
	if err != nil {
		log.WithError(err).Error("Failed to ingest document")
		o.markFailed(ctx, report, log)
		return nil, err
	}

	// Extraction chain; strictly sequential per row, vectorized over the
	// batch because alias/description column counts are batch-wide.
	extract.ApplyNames(rows, o.cfg.Mapping.FullName)
	extract.ApplyIdentifiers(rows)
	extract.ApplyNarrative(rows, o.cfg.Mapping.Description)
	extract.ApplyDates(rows, o.cfg.Mapping.BirthDate)
	extract.ApplyNationalities(rows, o.cfg.Mapping.Nationality)

	codes, err := o.watchlist.ListDensusCodes(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to snapshot watchlist codes")
		return nil, err
	}

	var mu sync.Mutex
	entities := make([]*models.WatchlistEntity, 0, len(rows))

	tasks := make([]Task, 0, len(rows))
	for i, row := range rows {
		i, row := i, row
		tasks = append(tasks, func(ctx context.Context) error {
			entity, err := o.upserter.UpsertRow(ctx, i, row, o.cfg.Mapping, codes, doc.CreatedBy)
			if err != nil {
				if models.IsRowFailure(err) {
					log.WithError(err).WithFields(map[string]any{"row": i}).Warn("Row failed validation, siblings continue")
				}
				return err
			}
			mu.Lock()
			entities = append(entities, entity)
			mu.Unlock()
			return nil
		})
	}

	result := RunFanout(ctx, o.logger, tasks, o.cfg.RowWorkerCount)
	log.WithFields(map[string]any{
		"rows":     result.TotalTasks,
		"upserted": result.SuccessCount,
		"failed":   result.FailureCount,
	}).Info("Watchlist rows upserted")

	return entities, nil
}

// score fans out the entities x investors cross product per category, then
// finalizes the report status at the fan-in barrier.
func (o *Orchestrator) score(ctx context.Context, doc *models.Document, report *models.ScreeningReport, entities []*models.WatchlistEntity, log ectologger.Logger) error {
	ctx, span := tracing.StartSpan(ctx, "screening.Orchestrator.score")
	defer span.End()

	if len(entities) == 0 {
		return &models.PrerequisiteError{DocumentID: doc.ID, Missing: "watchlist entities"}
	}

	if err := o.reports.SetStatus(ctx, report.ID, models.ReportStatusScoring); err != nil {
		return err
	}

	var mu sync.Mutex
	flagged := false
	categoriesWithData := 0

	for _, category := range models.AllCategories() {
		investors, err := o.investors.ListByDocument(ctx, doc.ID, category)
		if err != nil {
			log.WithError(err).WithFields(map[string]any{"category": category}).Error("Failed to load investors")
			return err
		}
		if len(investors) == 0 {
			continue
		}
		categoriesWithData++

		tasks := make([]Task, 0, len(investors)*len(entities))
		for i := range investors {
			investor := &investors[i]
			for _, entity := range entities {
				entity := entity
				tasks = append(tasks, func(ctx context.Context) error {
					record, err := o.engine.ScreenPair(ctx, report.ID, investor, entity)
					if err != nil {
						return err
					}
					if o.engine.Flagged(record) {
						mu.Lock()
						flagged = true
						mu.Unlock()
						// Skipped rows were reused from a prior run; their
						// score counts toward the report outcome but their
						// events and graph edges already exist.
						if record.Status == models.MatchStatusCreated {
							o.emitFlagged(ctx, entity, investor, record, log)
						}
					}
					return nil
				})
			}
		}

		result := RunFanout(ctx, o.logger, tasks, o.cfg.ScoringWorkerCount)
		log.WithFields(map[string]any{
			"category": category,
			"pairs":    result.TotalTasks,
			"failed":   result.FailureCount,
		}).Info("Category scoring finished")
	}

	if categoriesWithData == 0 {
		return &models.PrerequisiteError{DocumentID: doc.ID, Missing: "investor records"}
	}

	status := models.ReportStatusSuccess
	if flagged {
		status = models.ReportStatusDone
	}
	if err := o.reports.SetStatus(ctx, report.ID, status); err != nil {
		return err
	}
	report.Status = status

	if o.emitter != nil {
		if err := o.emitter.EmitReportCompleted(ctx, report); err != nil {
			log.WithError(err).Warn("Failed to emit report completion event")
		}
	}

	log.WithFields(map[string]any{"status": status}).Info("Screening report finalized")
	return nil
}

func (o *Orchestrator) emitFlagged(ctx context.Context, entity *models.WatchlistEntity, investor *models.Investor, record *models.MatchRecord, log ectologger.Logger) {
	if o.emitter != nil {
		if err := o.emitter.EmitMatchFlagged(ctx, record); err != nil {
			log.WithError(err).Warn("Failed to emit flagged-match event")
		}
	}
	if o.projector != nil {
		if err := o.projector.ProjectMatch(ctx, entity, investor, record); err != nil {
			log.WithError(err).Warn("Failed to project match into graph")
		}
	}
}

func (o *Orchestrator) markFailed(ctx context.Context, report *models.ScreeningReport, log ectologger.Logger) {
	if err := o.reports.SetStatus(ctx, report.ID, models.ReportStatusFailed); err != nil {
		log.WithError(err).Error("Failed to mark report as failed")
	}
}
