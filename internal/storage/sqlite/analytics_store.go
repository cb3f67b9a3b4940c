package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/codementor/internal/domain"
)

// AnalyticsEvent represents a recorded mentor event.
type AnalyticsEvent struct {
	ID        int64     `json:"id"`
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	UserID    string    `json:"user_id"`
	SessionID *int64    `json:"session_id,omitempty"`
	Data      string    `json:"data"`
	CreatedAt time.Time `json:"created_at"`
}

// AnalyticsStore records mentor events locally. It implements the mentor
// event sink so every published event is also kept for later queries.
type AnalyticsStore struct {
	db *DB
}

// NewAnalyticsStore creates a new SQLite-backed analytics store.
func NewAnalyticsStore(db *DB) *AnalyticsStore {
	return &AnalyticsStore{db: db}
}

// Publish stores an event.
func (s *AnalyticsStore) Publish(ctx context.Context, e domain.Event) error {
	data := string(e.Payload)
	if data == "" {
		data = "{}"
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO analytics_events (event_id, event_type, user_id, session_id, data, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID.String(), string(e.Type), e.UserID.String(), e.SessionID, data, e.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("insert analytics event: %w", err)
	}
	return nil
}

// Query returns events of the given type, optionally filtered by user and
// time range, newest first.
func (s *AnalyticsStore) Query(ctx context.Context, eventType domain.EventType, userID string, since, until time.Time) ([]AnalyticsEvent, error) {
	query := "SELECT id, event_id, event_type, user_id, session_id, data, created_at FROM analytics_events WHERE event_type = ?"
	args := []any{string(eventType)}

	if userID != "" {
		query += " AND user_id = ?"
		args = append(args, userID)
	}
	if !since.IsZero() {
		query += " AND created_at >= ?"
		args = append(args, since)
	}
	if !until.IsZero() {
		query += " AND created_at <= ?"
		args = append(args, until)
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query analytics: %w", err)
	}
	defer rows.Close()

	var events []AnalyticsEvent
	for rows.Next() {
		var e AnalyticsEvent
		if err := rows.Scan(&e.ID, &e.EventID, &e.EventType, &e.UserID, &e.SessionID, &e.Data, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan analytics event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Count returns the number of events of the given type.
func (s *AnalyticsStore) Count(ctx context.Context, eventType domain.EventType) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM analytics_events WHERE event_type = ?", string(eventType),
	).Scan(&count)
	return count, err
}

// Prune deletes events older than the given duration.
func (s *AnalyticsStore) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	result, err := s.db.ExecContext(ctx, "DELETE FROM analytics_events WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune analytics: %w", err)
	}
	return result.RowsAffected()
}
