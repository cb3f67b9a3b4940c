package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/codementor/internal/domain"
)

func newTestSession(userID uuid.UUID, score float64, createdAt time.Time) *domain.LearningSession {
	return &domain.LearningSession{
		UserID:          userID,
		Type:            domain.SessionCodeReview,
		Language:        "python",
		CodeContent:     "while True:\n    pass",
		Feedback:        "Good work!",
		Score:           score,
		DurationMinutes: 5,
		CreatedAt:       createdAt,
	}
}

func TestSessionStore_CreateAndGet(t *testing.T) {
	db := openTestDB(t)
	store := NewSessionStore(db)
	u := createTestUser(t, db, "ada")

	sess := newTestSession(u.ID, 85, time.Now().UTC())
	sess.Issues = []domain.CodeIssue{{
		Type:        domain.IssuePerformance,
		Description: "Possible infinite loop detected",
		Suggestion:  "Make sure the loop has a proper exit condition",
		Severity:    domain.SeverityHigh,
		Confidence:  0.8,
	}}
	if err := store.Create(context.Background(), sess); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if sess.ID == 0 {
		t.Fatal("Create() did not assign an id")
	}

	got, err := store.Get(context.Background(), u.ID, sess.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.CodeContent != sess.CodeContent {
		t.Errorf("CodeContent = %q; want %q", got.CodeContent, sess.CodeContent)
	}
	if got.Score != 85 {
		t.Errorf("Score = %v; want 85", got.Score)
	}
	if len(got.Issues) != 1 || got.Issues[0].Type != domain.IssuePerformance {
		t.Errorf("Issues = %+v; want one performance issue", got.Issues)
	}
}

func TestSessionStore_GetOtherUser(t *testing.T) {
	db := openTestDB(t)
	store := NewSessionStore(db)
	owner := createTestUser(t, db, "ada")
	other := createTestUser(t, db, "grace")

	sess := newTestSession(owner.ID, 70, time.Now().UTC())
	if err := store.Create(context.Background(), sess); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	_, err := store.Get(context.Background(), other.ID, sess.ID)
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("Get() error = %v; want ErrSessionNotFound", err)
	}
}

func TestSessionStore_ListPaging(t *testing.T) {
	db := openTestDB(t)
	store := NewSessionStore(db)
	u := createTestUser(t, db, "ada")

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		sess := newTestSession(u.ID, float64(60+i), base.Add(time.Duration(i)*time.Minute))
		if err := store.Create(context.Background(), sess); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	page, err := store.List(context.Background(), u.ID, 1, 2)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("List() returned %d sessions; want 2", len(page))
	}
	if page[0].Score != 63 || page[1].Score != 62 {
		t.Errorf("List() scores = %v, %v; want 63, 62", page[0].Score, page[1].Score)
	}
	if page[0].CodeContent != "" {
		t.Error("List() should not load code content")
	}

	all, err := store.All(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(all) != 5 {
		t.Errorf("All() returned %d sessions; want 5", len(all))
	}
}

func TestSessionStore_ListEmpty(t *testing.T) {
	db := openTestDB(t)
	sessions, err := NewSessionStore(db).List(context.Background(), uuid.New(), 0, 10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if sessions == nil || len(sessions) != 0 {
		t.Errorf("List() = %v; want empty slice", sessions)
	}
}
