// Package events handles event emission for report lifecycle changes
package events

import (
	"context"
	"encoding/json"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/juniper/pkg/kafka"
	"github.com/Ramsey-B/juniper/pkg/models"
	"github.com/Ramsey-B/juniper/pkg/tracing"
)

// SchemaVersion is the current event schema version
const SchemaVersion = "1.0"

// EventType defines the type of event
type EventType string

const (
	EventTypeMatchFlagged    EventType = "match.flagged"
	EventTypeReportCompleted EventType = "report.completed"
)

// Emitter publishes screening lifecycle events to Kafka
type Emitter struct {
	producer *kafka.Producer
	logger   ectologger.Logger
}

// NewEmitter creates a new event emitter
func NewEmitter(producer *kafka.Producer, logger ectologger.Logger) *Emitter {
	return &Emitter{
		producer: producer,
		logger:   logger,
	}
}

// EmitMatchFlagged emits an event when a match record reaches the flag
// threshold. Downstream compliance tooling subscribes to this.
func (e *Emitter) EmitMatchFlagged(ctx context.Context, record *models.MatchRecord) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitMatchFlagged")
	defer span.End()

	data := map[string]any{
		"schema_version": SchemaVersion,
		"match_id":       record.ID,
		"category":       record.Category,
		"investor_id":    record.InvestorID,
		"densus_code":    record.DensusCode,
		"score":          record.Score,
	}
	dataJSON, _ := json.Marshal(data)

	event := &kafka.ScreeningEvent{
		EventType: string(EventTypeMatchFlagged),
		ReportID:  record.ReportID,
		Data:      dataJSON,
	}

	if err := e.producer.PublishScreeningEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit match.flagged event")
		return err
	}

	return nil
}

// EmitReportCompleted emits an event when a report reaches a terminal status
func (e *Emitter) EmitReportCompleted(ctx context.Context, report *models.ScreeningReport) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitReportCompleted")
	defer span.End()

	data := map[string]any{
		"schema_version": SchemaVersion,
		"document_id":    report.DocumentID,
	}
	dataJSON, _ := json.Marshal(data)

	event := &kafka.ScreeningEvent{
		EventType:  string(EventTypeReportCompleted),
		ReportID:   report.ID,
		DocumentID: report.DocumentID,
		Status:     string(report.Status),
		Data:       dataJSON,
	}

	if err := e.producer.PublishScreeningEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit report.completed event")
		return err
	}

	return nil
}
