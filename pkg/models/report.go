package models

import "time"

// ReportStatus is the per-document pipeline state.
type ReportStatus string

const (
	ReportStatusInitialized ReportStatus = "Initialized"
	ReportStatusIngesting   ReportStatus = "Ingesting"
	ReportStatusScoring     ReportStatus = "Scoring"
	ReportStatusDone        ReportStatus = "Done"    // at least one match at or above the flag threshold
	ReportStatusFailed      ReportStatus = "Failed"  // document-level failure (format/parse)
	ReportStatusSuccess     ReportStatus = "Success" // scored, nothing qualified
)

// ScreeningReport is the one-per-document report header. Match records hang
// off it per investor category.
type ScreeningReport struct {
	ID         string       `db:"id" json:"id"`
	DocumentID string       `db:"document_id" json:"document_id"`
	Status     ReportStatus `db:"status" json:"status"`
	CreatedAt  time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time    `db:"updated_at" json:"updated_at"`
}

// Match record statuses. Records are immutable once written; a dedup hit
// returns the existing record tagged Skipped instead of inserting.
const (
	MatchStatusCreated = "Created"
	MatchStatusSkipped = "Skipped"
)

// MatchRecord is one scored (investor, watchlist entity) pairing persisted
// under a report. At most one fresh record exists per (origin code, investor)
// pair within the dedup window; older records accumulate and are never
// deleted by the pipeline.
type MatchRecord struct {
	ID         string           `db:"id" json:"id"`
	ReportID   string           `db:"report_id" json:"report_id"`
	Category   InvestorCategory `db:"category" json:"category"`
	InvestorID string           `db:"investor_id" json:"investor_id"`
	DensusCode string           `db:"densus_code" json:"densus_code"`
	Score      float64          `db:"score" json:"score"`
	Status     string           `db:"status" json:"status"`
	CreatedAt  time.Time        `db:"created_at" json:"created_at"`
}

// Document is the upload metadata resolved from the document source. File
// upload, storage paths, and deletion are owned by the collaborator.
type Document struct {
	ID        string        `db:"id" json:"id"`
	Path      string        `db:"path" json:"path"`
	Format    TabularFormat `db:"format" json:"format"`
	CreatedBy string        `db:"created_by" json:"created_by"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
}
