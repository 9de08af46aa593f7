package screening

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/juniper/pkg/extract"
	"github.com/Ramsey-B/juniper/pkg/models"
)

type stubWatchlistStore struct {
	codes    []string
	created  []models.CreateWatchlistEntityRequest
	updated  map[string]models.CreateWatchlistEntityRequest
	entities []models.WatchlistEntity
}

func (s *stubWatchlistStore) ListDensusCodes(ctx context.Context) ([]string, error) {
	return s.codes, nil
}

func (s *stubWatchlistStore) GetByDensusCode(ctx context.Context, code string) (*models.WatchlistEntity, error) {
	for i := range s.entities {
		if s.entities[i].DensusCode == code {
			return &s.entities[i], nil
		}
	}
	return nil, fmt.Errorf("not found: %s", code)
}

func (s *stubWatchlistStore) Create(ctx context.Context, req models.CreateWatchlistEntityRequest) (*models.WatchlistEntity, error) {
	s.created = append(s.created, req)
	return entityFromRequest(req), nil
}

func (s *stubWatchlistStore) Update(ctx context.Context, code string, req models.CreateWatchlistEntityRequest) (*models.WatchlistEntity, error) {
	if s.updated == nil {
		s.updated = make(map[string]models.CreateWatchlistEntityRequest)
	}
	s.updated[code] = req
	return entityFromRequest(req), nil
}

func entityFromRequest(req models.CreateWatchlistEntityRequest) *models.WatchlistEntity {
	return &models.WatchlistEntity{
		ID:             "stub-id",
		DensusCode:     req.DensusCode,
		SuspectType:    req.SuspectType,
		FirstName:      req.FirstName,
		MiddleName:     req.MiddleName,
		LastName:       req.LastName,
		BirthPlace:     req.BirthPlace,
		BirthDates:     req.BirthDates,
		Nationalities:  req.Nationalities,
		Address:        req.Address,
		NationalID:     req.NationalID,
		PassportNumber: req.PassportNumber,
		Aliases:        req.Aliases,
		Descriptions:   req.Descriptions,
	}
}

func upsertRow(name, code string) *models.RowRecord {
	row := models.NewRowRecord()
	row.Set("Nama", name)
	row.Set("Kode Densus", code)
	row.Set("Terduga", "Orang")
	row.Set(extract.ColFirstName, name)
	return row
}

func TestUpsertRowCreatesWhenNoCodeIsClose(t *testing.T) {
	store := &stubWatchlistStore{codes: []string{"DTTOT/P-09/2019/No 7"}}
	upserter := NewUpserter(testLogger(), store, 0.95)

	row := upsertRow("Abu Bakar", "DTTOT/P-01/2023/No 42")
	entity, err := upserter.UpsertRow(context.Background(), 0, row, models.DefaultSchemaMapping(), store.codes, "ops")
	require.NoError(t, err)

	require.Len(t, store.created, 1)
	assert.Empty(t, store.updated)
	assert.Equal(t, "DTTOT/P-01/2023/No 42", entity.DensusCode)
	assert.Equal(t, "ops", store.created[0].UpdatedBy)
}

func TestUpsertRowUpdatesNearIdenticalCode(t *testing.T) {
	// Trailing whitespace drift between publications of the same case id.
	stored := "DTTOT/P-01/2023/No 42 "
	store := &stubWatchlistStore{codes: []string{"DTTOT/P-09/2019/No 7", stored}}
	upserter := NewUpserter(testLogger(), store, 0.95)

	row := upsertRow("Abu Bakar", "DTTOT/P-01/2023/No 42")
	_, err := upserter.UpsertRow(context.Background(), 0, row, models.DefaultSchemaMapping(), store.codes, "ops")
	require.NoError(t, err)

	assert.Empty(t, store.created)
	require.Contains(t, store.updated, stored, "update targets the stored code, not the incoming one")
}

func TestUpsertRowValidationFailureAbortsOnlyTheRow(t *testing.T) {
	store := &stubWatchlistStore{}
	upserter := NewUpserter(testLogger(), store, 0.95)

	row := models.NewRowRecord()
	row.Set("Kode Densus", "DTTOT/P-01/2023") // no name columns at all

	_, err := upserter.UpsertRow(context.Background(), 7, row, models.DefaultSchemaMapping(), nil, "ops")

	var validationErr *models.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, 7, validationErr.Row)
	assert.True(t, models.IsRowFailure(err))
	assert.Empty(t, store.created)
}

func TestBuildEntityRequest(t *testing.T) {
	row := upsertRow("Abu Bakar Ba'asyir", "DTTOT/P-01/2023")
	row.Set(extract.ColMiddleName, "Bakar")
	row.Set(extract.ColLastName, "Ba'asyir")
	row.Set("Tpt Lahir", "Jombang")
	row.Set("Alamat", "Jl. Raya 1")
	row.Set(extract.ColIDNumber, "3175094409820003")
	row.Set(extract.ColPassportNumber, "B7654321")

	row.Set(extract.AliasNameCol(1), "Abu Bakar Bashir")
	row.Set(extract.AliasPartCol(extract.ColFirstName, 1), "Abu")
	row.Set(extract.AliasPartCol(extract.ColMiddleName, 1), "Bakar")
	row.Set(extract.AliasPartCol(extract.ColLastName, 1), "Bashir")
	row.Set(extract.AliasNameCol(2), "") // padded slot from a wider sibling row

	row.Set(extract.BirthDateCol(1), "1938/08/17")
	row.Set(extract.BirthDateCol(2), "")
	row.Set(extract.BirthDateCol(3), "")
	row.Set(extract.NationalityCol(1), "Indonesia")
	row.Set(extract.NationalityCol(2), "")
	row.Set(extract.DescriptionCol(1), "pendiri organisasi")
	row.Set(extract.DescriptionCol(2), "")

	req := buildEntityRequest(row, models.DefaultSchemaMapping(), "ops")

	assert.Equal(t, "DTTOT/P-01/2023", req.DensusCode)
	assert.Equal(t, models.SuspectTypeIndividual, req.SuspectType)
	assert.Equal(t, "Abu Bakar Ba'asyir", req.FirstName)
	assert.Equal(t, "Jombang", req.BirthPlace)
	assert.Equal(t, "3175094409820003", req.NationalID)
	assert.Equal(t, "B7654321", req.PassportNumber)

	require.Len(t, req.Aliases, 1, "empty padded alias slots are dropped")
	assert.Equal(t, 1, req.Aliases[0].Position)
	assert.Equal(t, "Abu Bakar Bashir", req.Aliases[0].FullName)
	assert.Equal(t, "Bashir", req.Aliases[0].LastName)

	assert.Equal(t, []string{"1938/08/17"}, req.BirthDates)
	assert.Equal(t, []string{"Indonesia"}, req.Nationalities)
	assert.Equal(t, []string{"pendiri organisasi"}, req.Descriptions)
	assert.Equal(t, "ops", req.UpdatedBy)
}

func TestBuildEntityRequestCapsDescriptions(t *testing.T) {
	row := upsertRow("Abu Bakar", "DTTOT/P-01/2023")
	for k := 1; k <= models.MaxDescriptions+3; k++ {
		row.Set(extract.DescriptionCol(k), fmt.Sprintf("description %d", k))
	}

	req := buildEntityRequest(row, models.DefaultSchemaMapping(), "ops")

	assert.Len(t, req.Descriptions, models.MaxDescriptions)
	assert.Equal(t, "description 1", req.Descriptions[0])
}

func TestParseSuspectType(t *testing.T) {
	tests := []struct {
		raw  string
		want models.SuspectType
	}{
		{"Orang", models.SuspectTypeIndividual},
		{"", models.SuspectTypeIndividual},
		{"Korporasi", models.SuspectTypeOrganization},
		{"  ORGANISASI ", models.SuspectTypeOrganization},
		{"corporation", models.SuspectTypeOrganization},
	}

	for _, tt := range tests {
		t.Run("raw_"+tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSuspectType(tt.raw))
		})
	}
}
