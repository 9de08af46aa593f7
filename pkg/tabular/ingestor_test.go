package tabular

import (
	"context"
	"strings"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/juniper/pkg/models"
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func TestReadCSV(t *testing.T) {
	input := strings.Join([]string{
		"Nama,Kode Densus,WN",
		"Abu Bakar,DTTOT/P-01/2023,Indonesia",
		"Abdullah Sungkar,DTTOT/P-02/2023",
	}, "\n")

	ingestor := NewIngestor(testLogger())
	rows, err := ingestor.Read(context.Background(), strings.NewReader(input), models.TabularFormatCSV)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, []string{"Nama", "Kode Densus", "WN"}, rows[0].Columns())
	assert.Equal(t, "Abu Bakar", rows[0].Get("Nama"))
	assert.Equal(t, "DTTOT/P-01/2023", rows[0].Get("Kode Densus"))
	assert.Equal(t, "Indonesia", rows[0].Get("WN"))

	// The ragged second row is padded to the full column set.
	assert.True(t, rows[1].Has("WN"))
	assert.Equal(t, "", rows[1].Get("WN"))
}

func TestReadCSVHeaderOnly(t *testing.T) {
	ingestor := NewIngestor(testLogger())
	rows, err := ingestor.Read(context.Background(), strings.NewReader("Nama,WN\n"), models.TabularFormatCSV)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestReadUnknownFormat(t *testing.T) {
	ingestor := NewIngestor(testLogger())
	_, err := ingestor.Read(context.Background(), strings.NewReader("x"), models.TabularFormat("PDF"))

	var formatErr *models.FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, "PDF", formatErr.Format)
}

func TestReadMalformedExcel(t *testing.T) {
	ingestor := NewIngestor(testLogger())
	_, err := ingestor.Read(context.Background(), strings.NewReader("not a spreadsheet"), models.TabularFormatXLSX)

	var parseErr *models.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, string(models.TabularFormatXLSX), parseErr.Format)
}

func TestReadCSVMalformedQuoting(t *testing.T) {
	ingestor := NewIngestor(testLogger())
	_, err := ingestor.Read(context.Background(), strings.NewReader("Nama\n\"unterminated"), models.TabularFormatCSV)

	var parseErr *models.ParseError
	require.ErrorAs(t, err, &parseErr)
}
