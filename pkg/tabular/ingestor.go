// Package tabular loads uploaded watchlist spreadsheets into ordered row
// records. It owns no column semantics; those belong to the schema mapping
// the extraction stages receive.
package tabular

import (
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/Gobusters/ectologger"
	"github.com/xuri/excelize/v2"

	"github.com/Ramsey-B/juniper/pkg/models"
	"github.com/Ramsey-B/juniper/pkg/tracing"
)

// Ingestor reads CSV/XLS/XLSX content into row records, preserving source
// column and row order. The first row is the header.
type Ingestor struct {
	logger ectologger.Logger
}

// NewIngestor creates a new ingestor.
func NewIngestor(logger ectologger.Logger) *Ingestor {
	return &Ingestor{logger: logger}
}

// Read parses the document content for the declared format. An unknown
// format tag fails with FormatError; malformed content fails with
// ParseError. Neither is retried here.
func (i *Ingestor) Read(ctx context.Context, r io.Reader, format models.TabularFormat) ([]*models.RowRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "tabular.Ingestor.Read")
	defer span.End()

	switch format {
	case models.TabularFormatCSV:
		return i.readCSV(ctx, r)
	case models.TabularFormatXLS, models.TabularFormatXLSX:
		return i.readExcel(ctx, r, format)
	default:
		return nil, &models.FormatError{Format: string(format)}
	}
}

func (i *Ingestor) readCSV(ctx context.Context, r io.Reader) ([]*models.RowRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // rows may be ragged; we pad below
	reader.TrimLeadingSpace = true

	raw, err := reader.ReadAll()
	if err != nil {
		return nil, &models.ParseError{Format: string(models.TabularFormatCSV), Err: err}
	}

	return i.toRows(ctx, raw), nil
}

func (i *Ingestor) readExcel(ctx context.Context, r io.Reader, format models.TabularFormat) ([]*models.RowRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &models.ParseError{Format: string(format), Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &models.ParseError{Format: string(format), Err: excelize.ErrSheetNotExist{SheetName: ""}}
	}

	raw, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &models.ParseError{Format: string(format), Err: err}
	}

	return i.toRows(ctx, raw), nil
}

// toRows turns raw cells into row records keyed by the header row. Short
// rows are padded with empty strings so every row carries every column.
func (i *Ingestor) toRows(ctx context.Context, raw [][]string) []*models.RowRecord {
	if len(raw) == 0 {
		return nil
	}

	header := make([]string, 0, len(raw[0]))
	for _, h := range raw[0] {
		header = append(header, strings.TrimSpace(h))
	}

	rows := make([]*models.RowRecord, 0, len(raw)-1)
	for _, cells := range raw[1:] {
		row := models.NewRowRecord()
		for c, name := range header {
			if name == "" {
				continue
			}
			value := ""
			if c < len(cells) {
				value = strings.TrimSpace(cells[c])
			}
			row.Set(name, value)
		}
		rows = append(rows, row)
	}

	i.logger.WithContext(ctx).WithFields(map[string]any{
		"rows":    len(rows),
		"columns": len(header),
	}).Debug("Ingested tabular document")

	return rows
}
