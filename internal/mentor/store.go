package mentor

import (
	"context"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/codementor/internal/domain"
)

// UserStore persists learner profiles
type UserStore interface {
	Create(ctx context.Context, u *domain.UserProfile) error
	Get(ctx context.Context, id uuid.UUID) (*domain.UserProfile, error)
	Update(ctx context.Context, u *domain.UserProfile) error
}

// SessionStore persists learning sessions together with their issues
type SessionStore interface {
	// Create stores s and its issues and sets s.ID
	Create(ctx context.Context, s *domain.LearningSession) error
	Get(ctx context.Context, userID uuid.UUID, id int64) (*domain.LearningSession, error)
	// List returns sessions newest first, without code or issues
	List(ctx context.Context, userID uuid.UUID, skip, limit int) ([]domain.LearningSession, error)
	// All returns every session of the user, without code or issues
	All(ctx context.Context, userID uuid.UUID) ([]domain.LearningSession, error)
}

// PathStore persists the current learning path of each user
type PathStore interface {
	Save(ctx context.Context, p *domain.LearningPath) error
	Get(ctx context.Context, userID string) (*domain.LearningPath, error)
}

// EventSink receives mentor events
type EventSink interface {
	Publish(ctx context.Context, e domain.Event) error
}

// EventSinkFunc adapts a function to EventSink
type EventSinkFunc func(ctx context.Context, e domain.Event) error

func (f EventSinkFunc) Publish(ctx context.Context, e domain.Event) error {
	return f(ctx, e)
}
