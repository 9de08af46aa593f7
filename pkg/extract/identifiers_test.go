package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ramsey-B/juniper/pkg/models"
)

func TestExtractIdentifiers(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		nationalID string
		passport   string
		cleaned    string
	}{
		{
			name:       "NIK and passport in prose",
			input:      "NIK 3175094409820003 paspor A1234567 anggota jaringan",
			nationalID: "3175094409820003",
			passport:   "A1234567",
			cleaned:    "NIK paspor anggota jaringan",
		},
		{
			name:       "passport with space between prefix and digits",
			input:      "memegang paspor B 7654321",
			nationalID: "",
			passport:   "B7654321",
			cleaned:    "memegang paspor",
		},
		{
			name:       "sixteen digits claimed as NIK not passport",
			input:      "nomor 3201010101010001",
			nationalID: "3201010101010001",
			passport:   "",
			cleaned:    "nomor",
		},
		{
			name:       "bare digit run of six or more is a passport",
			input:      "dokumen 123456789",
			nationalID: "",
			passport:   "123456789",
			cleaned:    "dokumen",
		},
		{
			name:       "short digit runs are left alone",
			input:      "lahir tahun 1982 di Jakarta",
			nationalID: "",
			passport:   "",
			cleaned:    "lahir tahun 1982 di Jakarta",
		},
		{
			name:       "no identifiers",
			input:      "pendiri organisasi",
			nationalID: "",
			passport:   "",
			cleaned:    "pendiri organisasi",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids := ExtractIdentifiers(tt.input)
			assert.Equal(t, tt.nationalID, ids.NationalID)
			assert.Equal(t, tt.passport, ids.Passport)
			assert.Equal(t, tt.cleaned, ids.Cleaned)
		})
	}
}

func TestApplyIdentifiers(t *testing.T) {
	row := models.NewRowRecord()
	row.Set("Nama", "Abu Bakar")
	row.Set("Deskripsi", "NIK 3175094409820003 anggota jaringan")

	other := models.NewRowRecord()
	other.Set("Nama", "Abdullah")
	other.Set("Deskripsi", "pendiri organisasi")

	ApplyIdentifiers([]*models.RowRecord{row, other})

	assert.Equal(t, "3175094409820003", row.Get(ColIDNumber))
	assert.Equal(t, "", row.Get(ColPassportNumber))
	assert.Equal(t, "NIK anggota jaringan", row.Get("Deskripsi"))
	// The name column is never scanned.
	assert.Equal(t, "Abu Bakar", row.Get("Nama"))

	// Rows without identifiers still get the output columns.
	assert.True(t, other.Has(ColIDNumber))
	assert.Equal(t, "", other.Get(ColIDNumber))
	assert.Equal(t, "pendiri organisasi", other.Get("Deskripsi"))
}

func TestIsDescriptionColumn(t *testing.T) {
	assert.True(t, IsDescriptionColumn("Deskripsi"))
	assert.True(t, IsDescriptionColumn("description_3"))
	assert.False(t, IsDescriptionColumn("Nama"))
	assert.False(t, IsDescriptionColumn("Alamat"))
}
