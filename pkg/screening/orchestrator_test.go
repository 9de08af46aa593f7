package screening

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/juniper/pkg/models"
	"github.com/Ramsey-B/juniper/pkg/scoring"
	"github.com/Ramsey-B/juniper/pkg/tabular"
)

type stubDocStore struct {
	doc *models.Document
}

func (s *stubDocStore) Get(ctx context.Context, id string) (*models.Document, error) {
	return s.doc, nil
}

type stubInvestorStore struct {
	byCategory map[models.InvestorCategory][]models.Investor
}

func (s *stubInvestorStore) ListByDocument(ctx context.Context, documentID string, category models.InvestorCategory) ([]models.Investor, error) {
	return s.byCategory[category], nil
}

type stubReportStore struct {
	report   *models.ScreeningReport
	statuses []models.ReportStatus
}

func (s *stubReportStore) UpsertHeader(ctx context.Context, documentID string) (*models.ScreeningReport, error) {
	s.report = &models.ScreeningReport{ID: "rep-1", DocumentID: documentID, Status: models.ReportStatusInitialized}
	return s.report, nil
}

func (s *stubReportStore) SetStatus(ctx context.Context, reportID string, status models.ReportStatus) error {
	s.statuses = append(s.statuses, status)
	return nil
}

type stubScoreStore struct {
	recent  []models.MatchRecord
	created []*models.MatchRecord
}

func (s *stubScoreStore) ListRecentByInvestor(ctx context.Context, investorID string, since time.Time) ([]models.MatchRecord, error) {
	return s.recent, nil
}

func (s *stubScoreStore) CreateMatch(ctx context.Context, record *models.MatchRecord) error {
	s.created = append(s.created, record)
	return nil
}

type stubEmitter struct {
	flagged   []*models.MatchRecord
	completed []*models.ScreeningReport
}

func (s *stubEmitter) EmitMatchFlagged(ctx context.Context, record *models.MatchRecord) error {
	s.flagged = append(s.flagged, record)
	return nil
}

func (s *stubEmitter) EmitReportCompleted(ctx context.Context, report *models.ScreeningReport) error {
	s.completed = append(s.completed, report)
	return nil
}

type stubProjector struct {
	projected int
}

func (s *stubProjector) ProjectMatch(ctx context.Context, entity *models.WatchlistEntity, investor *models.Investor, record *models.MatchRecord) error {
	s.projected++
	return nil
}

func writeSheet(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dttot.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const sheetHeader = "Nama,Kode Densus,Terduga,Tpt Lahir,Tgl Lahir,WN,Alamat,Deskripsi\n"

type orchestratorFixture struct {
	orchestrator *Orchestrator
	reports      *stubReportStore
	watchlist    *stubWatchlistStore
	scores       *stubScoreStore
	emitter      *stubEmitter
	projector    *stubProjector
}

func newFixture(t *testing.T, sheet string, investors map[models.InvestorCategory][]models.Investor) *orchestratorFixture {
	t.Helper()

	logger := testLogger()
	watchlist := &stubWatchlistStore{}
	reports := &stubReportStore{}
	scores := &stubScoreStore{}
	emitter := &stubEmitter{}
	projector := &stubProjector{}

	docs := &stubDocStore{doc: &models.Document{
		ID:        "doc-1",
		Path:      writeSheet(t, sheet),
		Format:    models.TabularFormatCSV,
		CreatedBy: "ops",
	}}

	orchestrator := NewOrchestrator(
		logger,
		Config{Mapping: models.DefaultSchemaMapping(), RowWorkerCount: 2, ScoringWorkerCount: 2},
		tabular.NewIngestor(logger),
		NewUpserter(logger, watchlist, 0.95),
		scoring.NewEngine(logger, scores, scoring.DefaultConfig()),
		docs,
		watchlist,
		&stubInvestorStore{byCategory: investors},
		reports,
		emitter,
		projector,
	)

	return &orchestratorFixture{
		orchestrator: orchestrator,
		reports:      reports,
		watchlist:    watchlist,
		scores:       scores,
		emitter:      emitter,
		projector:    projector,
	}
}

func TestProcessDocumentFlagsAndFinishesDone(t *testing.T) {
	sheet := sheetHeader +
		`Abu Bakar Ba'asyir,DTTOT/P-01/2023,Orang,Jombang,04/01/1973,Indonesia,Jl. Raya 1,NIK 3175094409820003 pendiri organisasi` + "\n"

	investors := map[models.InvestorCategory][]models.Investor{
		models.CategoryPersonal: {{
			ID:              "inv-1",
			DocumentID:      "doc-1",
			Category:        models.CategoryPersonal,
			Name:            "Abu Bakar",
			IdentityNumbers: []string{"3175094409820003"},
			BirthDate:       "1973/01/04",
		}},
	}

	f := newFixture(t, sheet, investors)
	err := f.orchestrator.ProcessDocument(context.Background(), "doc-1")
	require.NoError(t, err)

	assert.Equal(t, []models.ReportStatus{
		models.ReportStatusIngesting,
		models.ReportStatusScoring,
		models.ReportStatusDone,
	}, f.reports.statuses)

	require.Len(t, f.watchlist.created, 1)
	assert.Equal(t, "3175094409820003", f.watchlist.created[0].NationalID)

	require.Len(t, f.emitter.flagged, 1)
	assert.Equal(t, "inv-1", f.emitter.flagged[0].InvestorID)
	require.Len(t, f.emitter.completed, 1)
	assert.Equal(t, models.ReportStatusDone, f.emitter.completed[0].Status)
	assert.Equal(t, 1, f.projector.projected)
}

func TestProcessDocumentRerunInsideDedupWindowStaysDone(t *testing.T) {
	sheet := sheetHeader +
		`Abu Bakar Ba'asyir,DTTOT/P-01/2023,Orang,Jombang,04/01/1973,Indonesia,Jl. Raya 1,pendiri organisasi` + "\n"

	investors := map[models.InvestorCategory][]models.Investor{
		models.CategoryPersonal: {{
			ID:       "inv-1",
			Category: models.CategoryPersonal,
			Name:     "Abu Bakar",
		}},
	}

	f := newFixture(t, sheet, investors)
	// A qualifying row from a prior run, well inside the dedup window. The
	// rerun reuses it as Skipped; the report must still finalize Done, not
	// Success.
	f.scores.recent = []models.MatchRecord{{
		ID:         "m-prior",
		ReportID:   "rep-0",
		Category:   models.CategoryPersonal,
		InvestorID: "inv-1",
		DensusCode: "DTTOT/P-01/2023",
		Score:      0.95,
		Status:     models.MatchStatusCreated,
		CreatedAt:  time.Now().Add(-24 * time.Hour),
	}}

	err := f.orchestrator.ProcessDocument(context.Background(), "doc-1")
	require.NoError(t, err)

	assert.Equal(t, models.ReportStatusDone, f.reports.statuses[len(f.reports.statuses)-1])
	assert.Empty(t, f.scores.created, "dedup hit inserts nothing")
	assert.Empty(t, f.emitter.flagged, "reused rows already have their events")
	assert.Equal(t, 0, f.projector.projected)
	require.Len(t, f.emitter.completed, 1)
	assert.Equal(t, models.ReportStatusDone, f.emitter.completed[0].Status)
}

func TestProcessDocumentNoQualifyingMatchIsSuccess(t *testing.T) {
	sheet := sheetHeader +
		`Abu Bakar Ba'asyir,DTTOT/P-01/2023,Orang,Jombang,04/01/1973,Indonesia,Jl. Raya 1,pendiri organisasi` + "\n"

	investors := map[models.InvestorCategory][]models.Investor{
		models.CategoryPersonal: {{
			ID:       "inv-2",
			Category: models.CategoryPersonal,
			Name:     "Budi Santoso",
		}},
	}

	f := newFixture(t, sheet, investors)
	err := f.orchestrator.ProcessDocument(context.Background(), "doc-1")
	require.NoError(t, err)

	assert.Equal(t, models.ReportStatusSuccess, f.reports.statuses[len(f.reports.statuses)-1])
	assert.Empty(t, f.emitter.flagged)
	assert.Equal(t, 0, f.projector.projected)
	require.Len(t, f.emitter.completed, 1)
}

func TestProcessDocumentMissingFileMarksFailed(t *testing.T) {
	f := newFixture(t, sheetHeader, nil)
	f.orchestrator.docs = &stubDocStore{doc: &models.Document{
		ID:     "doc-1",
		Path:   filepath.Join(t.TempDir(), "missing.csv"),
		Format: models.TabularFormatCSV,
	}}

	err := f.orchestrator.ProcessDocument(context.Background(), "doc-1")

	var parseErr *models.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, []models.ReportStatus{
		models.ReportStatusIngesting,
		models.ReportStatusFailed,
	}, f.reports.statuses)
}

func TestProcessDocumentNoEntitiesIsPrerequisiteError(t *testing.T) {
	f := newFixture(t, sheetHeader, nil) // header only, nothing to upsert

	err := f.orchestrator.ProcessDocument(context.Background(), "doc-1")

	var prereqErr *models.PrerequisiteError
	require.ErrorAs(t, err, &prereqErr)
	assert.Equal(t, "watchlist entities", prereqErr.Missing)
	// Status is left untouched so a later retry can pick the run back up.
	assert.Equal(t, []models.ReportStatus{models.ReportStatusIngesting}, f.reports.statuses)
}

func TestProcessDocumentNoInvestorsIsPrerequisiteError(t *testing.T) {
	sheet := sheetHeader +
		`Abu Bakar Ba'asyir,DTTOT/P-01/2023,Orang,Jombang,04/01/1973,Indonesia,Jl. Raya 1,pendiri organisasi` + "\n"

	f := newFixture(t, sheet, nil)

	err := f.orchestrator.ProcessDocument(context.Background(), "doc-1")

	var prereqErr *models.PrerequisiteError
	require.ErrorAs(t, err, &prereqErr)
	assert.Equal(t, "investor records", prereqErr.Missing)
	assert.Equal(t, []models.ReportStatus{
		models.ReportStatusIngesting,
		models.ReportStatusScoring,
	}, f.reports.statuses)
}

func TestProcessDocumentRowFailureDoesNotSinkTheBatch(t *testing.T) {
	// Second row has no name at all; its upsert fails validation while the
	// first row still lands and gets scored.
	sheet := sheetHeader +
		`Abu Bakar Ba'asyir,DTTOT/P-01/2023,Orang,Jombang,04/01/1973,Indonesia,Jl. Raya 1,pendiri organisasi` + "\n" +
		`,DTTOT/P-02/2023,Orang,,,,,"no name on this row"` + "\n"

	investors := map[models.InvestorCategory][]models.Investor{
		models.CategoryPersonal: {{
			ID:       "inv-2",
			Category: models.CategoryPersonal,
			Name:     "Budi Santoso",
		}},
	}

	f := newFixture(t, sheet, investors)
	err := f.orchestrator.ProcessDocument(context.Background(), "doc-1")
	require.NoError(t, err)

	assert.Len(t, f.watchlist.created, 1)
	assert.Equal(t, models.ReportStatusSuccess, f.reports.statuses[len(f.reports.statuses)-1])
}
