package graph

import (
	"context"

	"github.com/Gobusters/ectologger"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/Ramsey-B/juniper/pkg/models"
	"github.com/Ramsey-B/juniper/pkg/tracing"
)

// Projector materializes flagged matches as a graph for link analysis:
// (:Investor)-[:FLAGGED]->(:WatchlistEntity). Investigators query it to find
// clusters of investors flagged against the same watchlist entries.
type Projector struct {
	client *Client
	logger ectologger.Logger
}

// NewProjector creates a new match projector
func NewProjector(client *Client, logger ectologger.Logger) *Projector {
	return &Projector{
		client: client,
		logger: logger,
	}
}

// ProjectMatch merges the investor and watchlist nodes and the FLAGGED edge.
// MERGE keeps reprocessing idempotent; the edge carries the latest score.
func (p *Projector) ProjectMatch(ctx context.Context, entity *models.WatchlistEntity, investor *models.Investor, record *models.MatchRecord) error {
	ctx, span := tracing.StartSpan(ctx, "graph.Projector.ProjectMatch")
	defer span.End()

	cypher := `
		MERGE (i:Investor {id: $investor_id})
		SET i.name = $investor_name, i.category = $category
		MERGE (w:WatchlistEntity {densus_code: $densus_code})
		SET w.name = $entity_name, w.suspect_type = $suspect_type
		MERGE (i)-[f:FLAGGED]->(w)
		SET f.score = $score, f.match_id = $match_id, f.report_id = $report_id, f.flagged_at = $flagged_at
	`

	params := map[string]any{
		"investor_id":   investor.ID,
		"investor_name": investor.Name,
		"category":      string(investor.Category),
		"densus_code":   entity.DensusCode,
		"entity_name":   entity.FullName(),
		"suspect_type":  string(entity.SuspectType),
		"score":         record.Score,
		"match_id":      record.ID,
		"report_id":     record.ReportID,
		"flagged_at":    record.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}

	_, err := p.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		return nil, result.Err()
	})
	if err != nil {
		p.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"match_id":    record.ID,
			"densus_code": entity.DensusCode,
		}).Error("Failed to project flagged match")
		return err
	}

	return nil
}

// FlaggedNeighbors returns the investor ids flagged against the same
// watchlist entity, for investigation fan-out.
func (p *Projector) FlaggedNeighbors(ctx context.Context, densusCode string) ([]string, error) {
	ctx, span := tracing.StartSpan(ctx, "graph.Projector.FlaggedNeighbors")
	defer span.End()

	cypher := `
		MATCH (i:Investor)-[:FLAGGED]->(w:WatchlistEntity {densus_code: $densus_code})
		RETURN i.id AS id
		ORDER BY id
	`

	result, err := p.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, map[string]any{"densus_code": densusCode})
		if err != nil {
			return nil, err
		}

		var ids []string
		for res.Next(ctx) {
			if v, ok := res.Record().Get("id"); ok {
				if s, ok := v.(string); ok {
					ids = append(ids, s)
				}
			}
		}
		return ids, res.Err()
	})
	if err != nil {
		p.logger.WithContext(ctx).WithError(err).Error("Failed to query flagged neighbors")
		return nil, err
	}

	ids, _ := result.([]string)
	return ids, nil
}
