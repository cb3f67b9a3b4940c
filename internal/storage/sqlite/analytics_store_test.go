package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/codementor/internal/domain"
)

func TestAnalyticsStore_PublishAndQuery(t *testing.T) {
	db := openTestDB(t)
	store := NewAnalyticsStore(db)
	ctx := context.Background()
	userID := uuid.New()

	first := domain.NewEvent(domain.EventAnalysisCompleted, userID, domain.AnalysisCompletedPayload{
		Language: "python",
		Score:    85,
	}).WithSession(7)
	if err := store.Publish(ctx, first); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if err := store.Publish(ctx, domain.NewEvent(domain.EventPathGenerated, userID, nil)); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if err := store.Publish(ctx, domain.NewEvent(domain.EventAnalysisCompleted, uuid.New(), nil)); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	count, err := store.Count(ctx, domain.EventAnalysisCompleted)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 2 {
		t.Errorf("Count() = %d; want 2", count)
	}

	events, err := store.Query(ctx, domain.EventAnalysisCompleted, userID.String(), time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("Query() returned %d events; want 1", len(events))
	}
	if events[0].SessionID == nil || *events[0].SessionID != 7 {
		t.Errorf("SessionID = %v; want 7", events[0].SessionID)
	}
	if events[0].EventID != first.ID.String() {
		t.Errorf("EventID = %q; want %q", events[0].EventID, first.ID)
	}
}

func TestAnalyticsStore_Prune(t *testing.T) {
	db := openTestDB(t)
	store := NewAnalyticsStore(db)
	ctx := context.Background()

	old := domain.NewEvent(domain.EventProgressUpdated, uuid.New(), nil)
	old.OccurredAt = time.Now().UTC().Add(-48 * time.Hour)
	if err := store.Publish(ctx, old); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if err := store.Publish(ctx, domain.NewEvent(domain.EventProgressUpdated, uuid.New(), nil)); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	pruned, err := store.Prune(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if pruned != 1 {
		t.Errorf("Prune() = %d; want 1", pruned)
	}
}
