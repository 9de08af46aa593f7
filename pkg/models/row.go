package models

// TabularFormat is the declared format of an uploaded watchlist document.
type TabularFormat string

const (
	TabularFormatCSV  TabularFormat = "CSV"
	TabularFormatXLS  TabularFormat = "XLS"
	TabularFormatXLSX TabularFormat = "XLSX"
)

// RowRecord is one spreadsheet row as a mapping of column name to raw cell
// value. Column order is preserved so downstream stages can append derived
// columns deterministically. Rows only live for the duration of one
// document's pipeline run.
type RowRecord struct {
	columns []string
	values  map[string]string
}

// NewRowRecord creates an empty row.
func NewRowRecord() *RowRecord {
	return &RowRecord{values: make(map[string]string)}
}

// Get returns the raw value for a column ("" when absent).
func (r *RowRecord) Get(column string) string {
	return r.values[column]
}

// Has reports whether the column exists on this row.
func (r *RowRecord) Has(column string) bool {
	_, ok := r.values[column]
	return ok
}

// Set assigns a value, appending the column to the order on first write.
func (r *RowRecord) Set(column, value string) {
	if r.values == nil {
		r.values = make(map[string]string)
	}
	if _, ok := r.values[column]; !ok {
		r.columns = append(r.columns, column)
	}
	r.values[column] = value
}

// Drop removes a column and its value.
func (r *RowRecord) Drop(column string) {
	if _, ok := r.values[column]; !ok {
		return
	}
	delete(r.values, column)
	for i, c := range r.columns {
		if c == column {
			r.columns = append(r.columns[:i], r.columns[i+1:]...)
			break
		}
	}
}

// Columns returns the column names in source order.
func (r *RowRecord) Columns() []string {
	return r.columns
}

// SchemaMapping binds the external spreadsheet column names to the semantic
// fields the extraction stages key off of. The defaults are the de facto
// DTTOT contract; deployments with a different header row override them via
// configuration instead of editing the pipeline.
type SchemaMapping struct {
	FullName    string
	Description string
	SuspectType string
	DensusCode  string
	BirthPlace  string
	BirthDate   string
	Nationality string
	Address     string
}

// DefaultSchemaMapping returns the column names of the published DTTOT sheet.
func DefaultSchemaMapping() SchemaMapping {
	return SchemaMapping{
		FullName:    "Nama",
		Description: "Deskripsi",
		SuspectType: "Terduga",
		DensusCode:  "Kode Densus",
		BirthPlace:  "Tpt Lahir",
		BirthDate:   "Tgl Lahir",
		Nationality: "WN",
		Address:     "Alamat",
	}
}
