package mentor

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/codementor/internal/domain"
)

type memUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]domain.UserProfile
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[uuid.UUID]domain.UserProfile)}
}

func (m *memUsers) Create(_ context.Context, u *domain.UserProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return domain.ErrUserAlreadyExists
		}
	}
	m.users[u.ID] = *u
	return nil
}

func (m *memUsers) Get(_ context.Context, id uuid.UUID) (*domain.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (m *memUsers) Update(_ context.Context, u *domain.UserProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	m.users[u.ID] = *u
	return nil
}

type memSessions struct {
	mu       sync.Mutex
	nextID   int64
	sessions []domain.LearningSession
}

func (m *memSessions) Create(_ context.Context, s *domain.LearningSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	s.ID = m.nextID
	m.sessions = append(m.sessions, *s)
	return nil
}

func (m *memSessions) Get(_ context.Context, userID uuid.UUID, id int64) (*domain.LearningSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		if s.ID == id && s.UserID == userID {
			return &s, nil
		}
	}
	return nil, domain.ErrSessionNotFound
}

func (m *memSessions) List(ctx context.Context, userID uuid.UUID, skip, limit int) ([]domain.LearningSession, error) {
	all, _ := m.All(ctx, userID)
	if skip >= len(all) {
		return []domain.LearningSession{}, nil
	}
	all = all[skip:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (m *memSessions) All(_ context.Context, userID uuid.UUID) ([]domain.LearningSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.LearningSession{}
	for _, s := range m.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

type memPaths struct {
	mu    sync.Mutex
	paths map[string]domain.LearningPath
}

func newMemPaths() *memPaths {
	return &memPaths{paths: make(map[string]domain.LearningPath)}
}

func (m *memPaths) Save(_ context.Context, p *domain.LearningPath) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paths[p.UserID] = *p
	return nil
}

func (m *memPaths) Get(_ context.Context, userID string) (*domain.LearningPath, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.paths[userID]
	if !ok {
		return nil, domain.ErrPathNotFound
	}
	return &p, nil
}

type recordingSink struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *recordingSink) Publish(_ context.Context, e domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordingSink) types() []domain.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}
