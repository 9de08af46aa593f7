package screening

import (
	"context"
	"errors"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/juniper/pkg/kafka"
	"github.com/Ramsey-B/juniper/pkg/models"
	"github.com/Ramsey-B/juniper/pkg/tracing"
)

// RequestHandler consumes screening requests and runs the pipeline.
type RequestHandler struct {
	logger       ectologger.Logger
	orchestrator *Orchestrator
}

// NewRequestHandler creates a new request handler
func NewRequestHandler(logger ectologger.Logger, orchestrator *Orchestrator) *RequestHandler {
	return &RequestHandler{
		logger:       logger,
		orchestrator: orchestrator,
	}
}

// Handle processes one screening request message. Prerequisite failures are
// terminal for the message (nothing to retry until the missing data arrives),
// so they commit; transient failures propagate for redelivery.
func (h *RequestHandler) Handle(ctx context.Context, msg *kafka.IncomingMessage) error {
	ctx, span := tracing.StartSpan(ctx, "screening.RequestHandler.Handle")
	defer span.End()

	log := h.logger.WithContext(ctx).WithFields(map[string]any{
		"document_id": msg.Request.DocumentID,
	})
	log.Info("Processing screening request")

	err := h.orchestrator.ProcessDocument(ctx, msg.Request.DocumentID)
	if err != nil {
		var prereq *models.PrerequisiteError
		if errors.As(err, &prereq) {
			log.WithError(err).Warn("Screening prerequisites not met, dropping request")
			return nil
		}
		var format *models.FormatError
		var parse *models.ParseError
		if errors.As(err, &format) || errors.As(err, &parse) {
			log.WithError(err).Error("Document is unreadable, dropping request")
			return nil
		}
		return err
	}

	return nil
}
