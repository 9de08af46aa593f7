package scoring

import (
	"context"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/juniper/pkg/models"
)

type stubMatchStore struct {
	recent  []models.MatchRecord
	created []*models.MatchRecord
}

func (s *stubMatchStore) ListRecentByInvestor(ctx context.Context, investorID string, since time.Time) ([]models.MatchRecord, error) {
	return s.recent, nil
}

func (s *stubMatchStore) CreateMatch(ctx context.Context, record *models.MatchRecord) error {
	s.created = append(s.created, record)
	return nil
}

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func testEntity() *models.WatchlistEntity {
	return &models.WatchlistEntity{
		ID:         "e1",
		DensusCode: "DTTOT/P-01/2023/No 42",
		FirstName:  "Abu",
		MiddleName: "Bakar",
		LastName:   "Ba'asyir",
		NationalID: "3175094409820003",
		BirthDates: []string{"1973/01/04"},
	}
}

func TestScoreExactIdentityAndName(t *testing.T) {
	engine := NewEngine(testLogger(), &stubMatchStore{}, DefaultConfig())

	investor := &models.Investor{
		ID:              "inv-1",
		Category:        models.CategoryPersonal,
		Name:            "Abu Bakar",
		IdentityNumbers: []string{"3175094409820003"},
		BirthDate:       "1973/01/04",
	}

	total, groups := engine.Score(investor, testEntity())

	assert.Equal(t, 1.0, groups[GroupIdentity])
	assert.Equal(t, 1.0, groups[GroupName])
	assert.Equal(t, 1.0, groups[GroupBirthDate])
	// identity 0.40 + name 0.30 + birth date 0.10 with everything else empty.
	assert.InDelta(t, 0.80, total, 1e-9)
}

func TestScoreEmptyInvestorScoresZero(t *testing.T) {
	engine := NewEngine(testLogger(), &stubMatchStore{}, DefaultConfig())

	total, _ := engine.Score(&models.Investor{ID: "inv-2", Category: models.CategoryPersonal}, testEntity())

	assert.Equal(t, 0.0, total)
}

func TestScreenPairCreatesRecord(t *testing.T) {
	store := &stubMatchStore{}
	engine := NewEngine(testLogger(), store, DefaultConfig())

	investor := &models.Investor{
		ID:              "inv-1",
		Category:        models.CategoryPersonal,
		Name:            "Abu Bakar",
		IdentityNumbers: []string{"3175094409820003"},
		BirthDate:       "1973/01/04",
	}

	record, err := engine.ScreenPair(context.Background(), "report-1", investor, testEntity())
	require.NoError(t, err)

	assert.Equal(t, models.MatchStatusCreated, record.Status)
	assert.Equal(t, "report-1", record.ReportID)
	assert.Equal(t, "DTTOT/P-01/2023/No 42", record.DensusCode)
	assert.InDelta(t, 0.80, record.Score, 1e-9)
	require.Len(t, store.created, 1)
	assert.True(t, engine.Flagged(record))
}

func TestScreenPairSkipsInsideDedupWindow(t *testing.T) {
	existing := models.MatchRecord{
		ID:         "m-existing",
		InvestorID: "inv-1",
		DensusCode: "DTTOT/P-01/2023/No 42",
		Status:     models.MatchStatusCreated,
		Score:      0.9,
	}
	store := &stubMatchStore{recent: []models.MatchRecord{existing}}
	engine := NewEngine(testLogger(), store, DefaultConfig())

	investor := &models.Investor{ID: "inv-1", Category: models.CategoryPersonal, Name: "Abu Bakar"}

	record, err := engine.ScreenPair(context.Background(), "report-2", investor, testEntity())
	require.NoError(t, err)

	assert.Equal(t, models.MatchStatusSkipped, record.Status)
	assert.Equal(t, "m-existing", record.ID)
	assert.Empty(t, store.created, "no new record on a dedup hit")
	assert.True(t, engine.Flagged(record), "reused qualifying row still counts toward the flag decision")
}

func TestScreenPairDifferentCodeIsNotSkipped(t *testing.T) {
	existing := models.MatchRecord{
		ID:         "m-existing",
		InvestorID: "inv-1",
		DensusCode: "DTTOT/P-09/2019/No 7",
		Status:     models.MatchStatusCreated,
	}
	store := &stubMatchStore{recent: []models.MatchRecord{existing}}
	engine := NewEngine(testLogger(), store, DefaultConfig())

	investor := &models.Investor{ID: "inv-1", Category: models.CategoryPersonal, Name: "Abu Bakar"}

	record, err := engine.ScreenPair(context.Background(), "report-2", investor, testEntity())
	require.NoError(t, err)

	assert.Equal(t, models.MatchStatusCreated, record.Status)
	require.Len(t, store.created, 1)
}

func TestFlaggedThreshold(t *testing.T) {
	engine := NewEngine(testLogger(), &stubMatchStore{}, DefaultConfig())

	assert.True(t, engine.Flagged(&models.MatchRecord{Status: models.MatchStatusCreated, Score: 0.8}))
	assert.False(t, engine.Flagged(&models.MatchRecord{Status: models.MatchStatusCreated, Score: 0.79}))
	assert.False(t, engine.Flagged(nil))

	// Status does not gate the flag decision.
	assert.True(t, engine.Flagged(&models.MatchRecord{Status: models.MatchStatusSkipped, Score: 0.9}))

	// A boundary total computed as 0.8 minus one ulp still flags.
	assert.True(t, engine.Flagged(&models.MatchRecord{Status: models.MatchStatusCreated, Score: 0.7999999999999999}))
}

func TestScoreBoundaryIsDeterministic(t *testing.T) {
	engine := NewEngine(testLogger(), &stubMatchStore{}, DefaultConfig())

	investor := &models.Investor{
		ID:              "inv-1",
		Category:        models.CategoryPersonal,
		Name:            "Abu Bakar",
		IdentityNumbers: []string{"3175094409820003"},
		BirthDate:       "1973/01/04",
	}
	entity := testEntity()

	// identity 0.40 + name 0.30 + birth date 0.10 lands exactly on the flag
	// threshold. The summation order is fixed, so every call must produce the
	// identical total and the identical flag decision.
	first, _ := engine.Score(investor, entity)
	for i := 0; i < 100; i++ {
		total, _ := engine.Score(investor, entity)
		assert.Equal(t, first, total)
		assert.True(t, engine.Flagged(&models.MatchRecord{Status: models.MatchStatusCreated, Score: total}))
	}
}
