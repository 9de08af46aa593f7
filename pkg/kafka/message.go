package kafka

import (
	"encoding/json"
	"fmt"
	"time"
)

// IncomingMessage wraps a raw Kafka message with parsed headers
type IncomingMessage struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Partition int
	Offset    int64
	Timestamp time.Time
	Topic     string

	// Parsed content
	Request *ScreeningRequest
}

// ScreeningRequest asks the pipeline to process one uploaded document. The
// document collaborator publishes it after registering the upload.
type ScreeningRequest struct {
	DocumentID  string    `json:"document_id"`
	RequestedBy string    `json:"requested_by,omitempty"`
	RequestedAt time.Time `json:"requested_at,omitempty"`
}

// ParseRequest parses the message value as a screening request
func (m *IncomingMessage) ParseRequest() error {
	var req ScreeningRequest
	if err := json.Unmarshal(m.Value, &req); err != nil {
		return err
	}
	if req.DocumentID == "" {
		return fmt.Errorf("screening request missing document_id")
	}
	m.Request = &req
	return nil
}
