package events

import (
	"time"

	"github.com/civicdesk/grievance-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventGrievanceSubmitted EventType = "grievance_submitted"
	EventGrievanceResponded EventType = "grievance_responded"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID int64       `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	GrievanceID int64       `json:"grievance_id"`
	Actor       Actor       `json:"actor"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// GrievanceSubmittedPayload payload.
type GrievanceSubmittedPayload struct {
	Department domain.Department `json:"department"`
	Title      string            `json:"title"`
}

// GrievanceRespondedPayload payload.
type GrievanceRespondedPayload struct {
	Department      domain.Department      `json:"department"`
	FiledBy         int64                  `json:"filed_by"`
	PreviousStatus  domain.GrievanceStatus `json:"previous_status"`
	ResponsePreview string                 `json:"response_preview"`
}
