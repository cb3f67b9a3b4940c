// Package mentor orchestrates code analysis, learning sessions and
// learning paths on top of the scanner, scoring, assessment and
// curriculum packages.
package mentor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/codementor/internal/assessment"
	"github.com/felixgeelhaar/codementor/internal/curriculum"
	"github.com/felixgeelhaar/codementor/internal/domain"
	"github.com/felixgeelhaar/codementor/internal/scanner"
	"github.com/felixgeelhaar/codementor/internal/scoring"
)

const (
	defaultTopic     = "general"
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// Assessor produces the external part of an analysis
type Assessor interface {
	Assess(ctx context.Context, req assessment.Request) domain.ExternalAnalysis
}

// Service is the mentor application service
type Service struct {
	users    UserStore
	sessions SessionStore
	paths    PathStore
	selector *curriculum.Selector
	assessor Assessor
	sinks    []EventSink
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithAssessor sets the external assessor. Without one, analyses use the
// local score only.
func WithAssessor(a Assessor) Option {
	return func(s *Service) { s.assessor = a }
}

// WithEventSinks adds sinks that receive every published event
func WithEventSinks(sinks ...EventSink) Option {
	return func(s *Service) { s.sinks = append(s.sinks, sinks...) }
}

// WithLogger sets the service logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a mentor service
func NewService(users UserStore, sessions SessionStore, paths PathStore, selector *curriculum.Selector, opts ...Option) *Service {
	s := &Service{
		users:    users,
		sessions: sessions,
		paths:    paths,
		selector: selector,
		logger:   slog.Default(),
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns the topic catalog the service selects from
func (s *Service) Catalog() *curriculum.Catalog {
	return s.selector.Catalog()
}

// AnalyzeRequest is a snippet submitted for review
type AnalyzeRequest struct {
	Code        string `json:"code"`
	Language    string `json:"language"`
	Topic       string `json:"topic,omitempty"`
	SessionType string `json:"session_type,omitempty"`
}

// AnalyzeResponse is the outcome of an analysis
type AnalyzeResponse struct {
	SessionID   int64                 `json:"session_id"`
	Analysis    domain.AnalysisResult `json:"analysis"`
	Feedback    string                `json:"feedback"`
	Score       float64               `json:"score"`
	Suggestions []string              `json:"suggestions"`
	IssuesCount int                   `json:"issues_count"`
}

// Analyze scans and assesses the code, stores the session and publishes
// analysis.completed. A failing assessment degrades to the local score.
func (s *Service) Analyze(ctx context.Context, user *domain.UserProfile, req AnalyzeRequest) (*AnalyzeResponse, error) {
	if strings.TrimSpace(req.Code) == "" {
		return nil, domain.ErrEmptyCode
	}
	if strings.TrimSpace(req.Language) == "" {
		return nil, domain.ErrMissingLanguage
	}
	sessionType, err := domain.ParseSessionType(req.SessionType)
	if err != nil {
		return nil, err
	}
	topic := req.Topic
	if topic == "" {
		topic = defaultTopic
	}

	started := s.now()
	result := domain.AnalysisResult{
		SyntaxIssues:      orEmpty(scanner.Syntax(req.Code, req.Language)),
		PerformanceIssues: orEmpty(scanner.Performance(req.Code, req.Language)),
		SecurityIssues:    orEmpty(scanner.Security(req.Code)),
	}
	if s.assessor != nil {
		result.External = s.assessor.Assess(ctx, assessment.Request{
			Code:       req.Code,
			Language:   req.Language,
			SkillLevel: user.SkillLevel,
		})
	}
	result.OverallScore = scoring.AggregateResult(&result)

	issuesCount := len(result.SyntaxIssues)
	feedback := scoring.Compose(result.OverallScore, issuesCount)

	sess := &domain.LearningSession{
		UserID:          user.ID,
		Type:            sessionType,
		Language:        req.Language,
		Topic:           topic,
		CodeContent:     req.Code,
		Feedback:        feedback,
		Score:           result.OverallScore,
		DurationMinutes: int(math.Round(s.now().Sub(started).Minutes())),
		Issues:          result.Issues(),
		CreatedAt:       started,
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.logger.Info("code analyzed",
		"user_id", user.ID,
		"session_id", sess.ID,
		"language", req.Language,
		"score", result.OverallScore,
		"external_failed", result.External.Failed,
	)

	s.publish(ctx, domain.NewEvent(domain.EventAnalysisCompleted, user.ID, domain.AnalysisCompletedPayload{
		Language:     req.Language,
		Score:        result.OverallScore,
		IssuesCount:  len(sess.Issues),
		ExternalUsed: result.External.HasScore(),
	}).WithSession(sess.ID))

	suggestions := result.External.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}
	return &AnalyzeResponse{
		SessionID:   sess.ID,
		Analysis:    result,
		Feedback:    feedback,
		Score:       result.OverallScore,
		Suggestions: suggestions,
		IssuesCount: issuesCount,
	}, nil
}

// Sessions returns a page of the user's sessions. A non-positive limit
// selects the default page size; limits above the maximum are capped.
func (s *Service) Sessions(ctx context.Context, user *domain.UserProfile, skip, limit int) ([]domain.LearningSession, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return s.sessions.List(ctx, user.ID, skip, limit)
}

// Session returns one of the user's sessions
func (s *Service) Session(ctx context.Context, user *domain.UserProfile, id int64) (*domain.LearningSession, error) {
	return s.sessions.Get(ctx, user.ID, id)
}

// Stats summarises the user's sessions
func (s *Service) Stats(ctx context.Context, user *domain.UserProfile) (domain.SessionStats, error) {
	sessions, err := s.sessions.All(ctx, user.ID)
	if err != nil {
		return domain.SessionStats{}, fmt.Errorf("load sessions: %w", err)
	}
	return domain.ComputeStats(sessions), nil
}

// CreateUserRequest registers a learner
type CreateUserRequest struct {
	Username             string   `json:"username"`
	Email                string   `json:"email"`
	FullName             string   `json:"full_name,omitempty"`
	SkillLevel           string   `json:"skill_level,omitempty"`
	ProgrammingLanguages []string `json:"programming_languages,omitempty"`
	LearningGoals        []string `json:"learning_goals,omitempty"`
}

// CreateUser validates and stores a new profile
func (s *Service) CreateUser(ctx context.Context, req CreateUserRequest) (*domain.UserProfile, error) {
	u, err := domain.NewUserProfile(req.Username, req.Email, req.FullName)
	if err != nil {
		return nil, err
	}

	update := domain.UserUpdate{}
	if req.SkillLevel != "" {
		update.SkillLevel = &req.SkillLevel
	}
	if req.ProgrammingLanguages != nil {
		update.ProgrammingLanguages = &req.ProgrammingLanguages
	}
	if req.LearningGoals != nil {
		update.LearningGoals = &req.LearningGoals
	}
	if err := update.Apply(u); err != nil {
		return nil, err
	}
	u.UpdatedAt = u.CreatedAt

	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info("user created", "user_id", u.ID, "username", u.Username)
	return u, nil
}

// GetUser loads a profile
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*domain.UserProfile, error) {
	return s.users.Get(ctx, id)
}

// UpdateUser applies an update to a stored profile
func (s *Service) UpdateUser(ctx context.Context, id uuid.UUID, update domain.UserUpdate) (*domain.UserProfile, error) {
	u, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := update.Apply(u); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// GeneratePath builds a new path for the user and replaces the stored one
func (s *Service) GeneratePath(ctx context.Context, user *domain.UserProfile) (*domain.LearningPath, error) {
	path, err := s.selector.GeneratePath(ctx, user)
	if err != nil {
		return nil, err
	}
	if err := s.paths.Save(ctx, path); err != nil {
		return nil, fmt.Errorf("save path: %w", err)
	}

	ids := make([]string, len(path.Topics))
	for i, t := range path.Topics {
		ids[i] = t.ID
	}
	s.publish(ctx, domain.NewEvent(domain.EventPathGenerated, user.ID, domain.PathGeneratedPayload{
		CurrentLevel: path.CurrentLevel,
		TargetLevel:  path.TargetLevel,
		TopicIDs:     ids,
		Hours:        path.EstimatedCompletionTime,
	}))
	return path, nil
}

// CurrentPath returns the user's stored path
func (s *Service) CurrentPath(ctx context.Context, user *domain.UserProfile) (*domain.LearningPath, error) {
	return s.paths.Get(ctx, user.ID.String())
}

// NextStep returns the next topic of the stored path, or whether the path
// is complete or blocked on prerequisites.
func (s *Service) NextStep(ctx context.Context, user *domain.UserProfile) (*curriculum.Step, error) {
	path, err := s.CurrentPath(ctx, user)
	if err != nil {
		return nil, err
	}
	step := curriculum.NextStep(path, path.CompletedTopicIDs)
	return &step, nil
}

// ProgressReport is the outcome of recording progress
type ProgressReport struct {
	Progress      float64               `json:"progress"`
	Encouragement string                `json:"encouragement"`
	Completed     []string              `json:"completed_topic_ids"`
	NextTopic     *domain.LearningTopic `json:"next_topic,omitempty"`
	Complete      bool                  `json:"complete"`
	Blocked       bool                  `json:"blocked"`
	Missing       []string              `json:"missing_prerequisites,omitempty"`
}

// RecordProgress adds completed topic ids to the stored path and
// recomputes its progress.
func (s *Service) RecordProgress(ctx context.Context, user *domain.UserProfile, completed []string) (*ProgressReport, error) {
	path, err := s.CurrentPath(ctx, user)
	if err != nil {
		return nil, err
	}

	path.CompletedTopicIDs = mergeIDs(path.CompletedTopicIDs, completed)
	progress, err := curriculum.UpdateProgress(path, path.CompletedTopicIDs)
	if err != nil {
		return nil, err
	}
	path.UpdatedAt = s.now()
	if err := s.paths.Save(ctx, path); err != nil {
		return nil, fmt.Errorf("save path: %w", err)
	}

	step := curriculum.NextStep(path, path.CompletedTopicIDs)
	report := &ProgressReport{
		Progress:      progress,
		Encouragement: curriculum.Encourage(progress),
		Completed:     path.CompletedTopicIDs,
		NextTopic:     step.Topic,
		Complete:      step.Complete,
		Blocked:       step.Blocked,
		Missing:       step.Missing,
	}

	payload := domain.ProgressUpdatedPayload{Progress: progress, Completed: len(path.CompletedTopicIDs)}
	if report.NextTopic != nil {
		payload.NextTopic = report.NextTopic.ID
	}
	s.publish(ctx, domain.NewEvent(domain.EventProgressUpdated, user.ID, payload))
	return report, nil
}

// publish fans the event out to every sink. Sink errors are logged only.
func (s *Service) publish(ctx context.Context, e domain.Event) {
	var errs []error
	for _, sink := range s.sinks {
		if err := sink.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		s.logger.Warn("event publish failed", "event_type", e.Type, "event_id", e.ID, "error", err)
	}
}

func mergeIDs(existing, added []string) []string {
	seen := make(map[string]bool, len(existing)+len(added))
	out := make([]string, 0, len(existing)+len(added))
	for _, ids := range [][]string{existing, added} {
		for _, id := range ids {
			id = strings.TrimSpace(id)
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func orEmpty(issues []domain.CodeIssue) []domain.CodeIssue {
	if issues == nil {
		return []domain.CodeIssue{}
	}
	return issues
}
