package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType names what happened
type EventType string

const (
	EventAnalysisCompleted EventType = "analysis.completed"
	EventPathGenerated     EventType = "path.generated"
	EventProgressUpdated   EventType = "progress.updated"
)

// Event is a fact published by the mentor service after a state change
type Event struct {
	ID         uuid.UUID       `json:"id"`
	Type       EventType       `json:"type"`
	UserID     uuid.UUID       `json:"user_id"`
	SessionID  *int64          `json:"session_id,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// NewEvent creates an event with a fresh id. A payload that cannot be
// encoded is dropped.
func NewEvent(eventType EventType, userID uuid.UUID, payload any) Event {
	e := Event{
		ID:         uuid.New(),
		Type:       eventType,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
	}
	if payload != nil {
		if data, err := json.Marshal(payload); err == nil {
			e.Payload = data
		}
	}
	return e
}

// WithSession attaches the session the event refers to
func (e Event) WithSession(id int64) Event {
	e.SessionID = &id
	return e
}

// AnalysisCompletedPayload is the payload of analysis.completed
type AnalysisCompletedPayload struct {
	Language     string  `json:"language"`
	Score        float64 `json:"score"`
	IssuesCount  int     `json:"issues_count"`
	ExternalUsed bool    `json:"external_used"`
}

// PathGeneratedPayload is the payload of path.generated
type PathGeneratedPayload struct {
	CurrentLevel SkillLevel `json:"current_level"`
	TargetLevel  SkillLevel `json:"target_level"`
	TopicIDs     []string   `json:"topic_ids"`
	Hours        int        `json:"hours"`
}

// ProgressUpdatedPayload is the payload of progress.updated
type ProgressUpdatedPayload struct {
	Progress  float64 `json:"progress"`
	Completed int     `json:"completed"`
	NextTopic string  `json:"next_topic,omitempty"`
}
