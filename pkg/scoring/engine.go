package scoring

import (
	"context"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	"github.com/Ramsey-B/juniper/pkg/models"
	"github.com/Ramsey-B/juniper/pkg/normalizers"
	"github.com/Ramsey-B/juniper/pkg/tracing"
)

// MatchStore is the slice of the report store the engine needs: recent rows
// for the dedup window check, and inserts for new match records.
type MatchStore interface {
	ListRecentByInvestor(ctx context.Context, investorID string, since time.Time) ([]models.MatchRecord, error)
	CreateMatch(ctx context.Context, record *models.MatchRecord) error
}

// Config contains the scoring policy knobs.
type Config struct {
	FlagThreshold float64       // score at or above which a match flags the report (default: 0.8)
	DedupWindow   time.Duration // lookback for the duplicate-row check (default: 60 days)
	DedupKeyRatio float64       // sequence ratio both keys must reach to skip (default: 0.9)
}

// DefaultConfig returns the policy defaults.
func DefaultConfig() Config {
	return Config{
		FlagThreshold: 0.8,
		DedupWindow:   60 * 24 * time.Hour,
		DedupKeyRatio: 0.9,
	}
}

// Engine scores one investor against one watchlist entity and persists the
// result, deduplicating against recent rows for the same pair.
type Engine struct {
	logger ectologger.Logger
	store  MatchStore
	scorer *Scorer
	cfg    Config
	now    func() time.Time
}

// NewEngine creates a new scoring engine.
func NewEngine(logger ectologger.Logger, store MatchStore, cfg Config) *Engine {
	return &Engine{
		logger: logger,
		store:  store,
		scorer: NewScorer(),
		cfg:    cfg,
		now:    time.Now,
	}
}

// Score computes the weighted aggregate for an (investor, entity) pair and
// the per-group breakdown. Each group takes the maximum token similarity
// between the investor's values and every non-empty candidate value the
// entity offers for that group; the aggregate is the weight-sum.
func (e *Engine) Score(investor *models.Investor, entity *models.WatchlistEntity) (float64, map[FieldGroup]float64) {
	weights := WeightsFor(investor.Category)
	groupScores := make(map[FieldGroup]float64, len(weights))

	// Summed in the fixed group order, not map order: float addition is not
	// associative and boundary totals must be reproducible across calls.
	total := 0.0
	for _, group := range groupOrder {
		weight, ok := weights[group]
		if !ok {
			continue
		}
		score := e.groupScore(investorValues(investor, group), candidateValues(entity, group))
		groupScores[group] = score
		total += score * weight
	}
	return total, groupScores
}

func (e *Engine) groupScore(investorVals, candidateVals []string) float64 {
	best := 0.0
	for _, iv := range investorVals {
		if iv == "" {
			continue
		}
		for _, cv := range candidateVals {
			if cv == "" {
				continue
			}
			if sim := e.scorer.TokenSimilarity(iv, cv); sim > best {
				best = sim
				if best == 1.0 {
					return best
				}
			}
		}
	}
	return best
}

// ScreenPair runs the dedup check and persists a new match record, or
// returns the existing record tagged Skipped when a sufficiently similar
// row for the same (Densus code, investor) pair exists inside the window.
func (e *Engine) ScreenPair(ctx context.Context, reportID string, investor *models.Investor, entity *models.WatchlistEntity) (*models.MatchRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "scoring.Engine.ScreenPair")
	defer span.End()

	log := e.logger.WithContext(ctx).WithFields(map[string]any{
		"report_id":   reportID,
		"investor_id": investor.ID,
		"densus_code": entity.DensusCode,
		"category":    investor.Category,
	})

	since := e.now().Add(-e.cfg.DedupWindow)
	recent, err := e.store.ListRecentByInvestor(ctx, investor.ID, since)
	if err != nil {
		log.WithError(err).Error("Failed to load recent match records for dedup")
		return nil, err
	}

	for i := range recent {
		existing := &recent[i]
		codeRatio := e.scorer.SequenceRatio(existing.DensusCode, entity.DensusCode)
		idRatio := e.scorer.SequenceRatio(existing.InvestorID, investor.ID)
		if codeRatio >= e.cfg.DedupKeyRatio && idRatio >= e.cfg.DedupKeyRatio {
			skipped := *existing
			skipped.Status = models.MatchStatusSkipped
			log.WithFields(map[string]any{"existing_id": existing.ID}).Debug("Duplicate pair inside dedup window, skipping")
			return &skipped, nil
		}
	}

	score, groupScores := e.Score(investor, entity)

	record := &models.MatchRecord{
		ID:         uuid.New().String(),
		ReportID:   reportID,
		Category:   investor.Category,
		InvestorID: investor.ID,
		DensusCode: entity.DensusCode,
		Score:      score,
		Status:     models.MatchStatusCreated,
		CreatedAt:  e.now().UTC(),
	}

	if err := e.store.CreateMatch(ctx, record); err != nil {
		log.WithError(err).Error("Failed to persist match record")
		return nil, err
	}

	if e.meetsThreshold(score) {
		log.WithFields(map[string]any{
			"score":        score,
			"group_scores": groupScores,
		}).Info("Investor flagged against watchlist entity")
	}

	return record, nil
}

// scoreEpsilon absorbs the last-ulp error of the weighted sum so a score
// computed as exactly the threshold never falls on the wrong side of it.
const scoreEpsilon = 1e-9

// Flagged reports whether a record meets the flag threshold. Status is
// irrelevant: a Skipped row reused from the dedup window counts the same as
// a row created by this run, so a rerun inside the window still surfaces a
// qualifying match.
func (e *Engine) Flagged(record *models.MatchRecord) bool {
	return record != nil && e.meetsThreshold(record.Score)
}

func (e *Engine) meetsThreshold(score float64) bool {
	return score >= e.cfg.FlagThreshold-scoreEpsilon
}

// investorValues selects the investor-side values for a group.
func investorValues(inv *models.Investor, group FieldGroup) []string {
	switch group {
	case GroupIdentity:
		return inv.IdentityNumbers
	case GroupRegistration:
		return inv.RegistrationNumbers
	case GroupName:
		return []string{normalizers.NormalizeName(inv.Name)}
	case GroupPhone:
		return []string{normalizers.NormalizePhone(inv.PhoneNumber)}
	case GroupBirthDate:
		return []string{inv.BirthDate}
	case GroupAddress:
		return []string{normalizers.NormalizeAddress(inv.Address)}
	case GroupBirthPlace:
		return []string{inv.BirthPlace}
	case GroupSpouse:
		return []string{normalizers.NormalizeName(inv.SpouseName)}
	case GroupMother:
		return []string{normalizers.NormalizeName(inv.MotherMaidenName)}
	case GroupNationality:
		return []string{inv.Nationality}
	case GroupPengurus:
		return append(inv.PengurusNames, inv.PengurusIDNumbers...)
	case GroupBusiness:
		return []string{inv.BusinessDescription}
	case GroupDescriptions:
		return inv.Notes
	default:
		return nil
	}
}

// candidateValues selects the watchlist-entity columns a group compares
// against. Name-shaped groups (name, spouse, mother, pengurus) all compare
// against the full variant set: primary name plus every alias component.
// Phone and registration numbers have no dedicated watchlist columns; they
// compare against the free-text description slots where such numbers
// surface.
func candidateValues(entity *models.WatchlistEntity, group FieldGroup) []string {
	switch group {
	case GroupIdentity:
		return entity.IdentityNumbers()
	case GroupRegistration:
		return append(entity.IdentityNumbers(), entity.Descriptions...)
	case GroupName, GroupSpouse, GroupMother, GroupPengurus:
		return entity.NameVariants()
	case GroupPhone:
		return entity.Descriptions
	case GroupBirthDate:
		return entity.BirthDates
	case GroupAddress:
		return []string{normalizers.NormalizeAddress(entity.Address)}
	case GroupBirthPlace:
		return []string{entity.BirthPlace}
	case GroupNationality:
		return entity.Nationalities
	case GroupBusiness, GroupDescriptions:
		return entity.Descriptions
	default:
		return nil
	}
}
