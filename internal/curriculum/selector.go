package curriculum

import (
	"context"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/codementor/internal/domain"
)

// Advice is what a path advisor suggests for a freshly selected path
type Advice struct {
	Order []string `json:"optimized_order"`
	Tips  []string `json:"learning_tips"`
	Weeks int      `json:"estimated_weeks"`
}

// Advisor reviews a selected path. Its output is best-effort: any error
// leaves the path exactly as selected.
type Advisor interface {
	Advise(ctx context.Context, profile *domain.UserProfile, topics []domain.LearningTopic) (*Advice, error)
}

// Selector builds learning paths from a catalog
type Selector struct {
	catalog *Catalog
	advisor Advisor
	logger  *slog.Logger
	now     func() time.Time
}

// SelectorOption configures a Selector
type SelectorOption func(*Selector)

// WithAdvisor sets the optional path advisor
func WithAdvisor(a Advisor) SelectorOption {
	return func(s *Selector) { s.advisor = a }
}

// WithLogger sets the logger used for advisor failures
func WithLogger(l *slog.Logger) SelectorOption {
	return func(s *Selector) { s.logger = l }
}

// NewSelector creates a selector over catalog
func NewSelector(catalog *Catalog, opts ...SelectorOption) *Selector {
	s := &Selector{
		catalog: catalog,
		logger:  slog.Default(),
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns the underlying catalog
func (s *Selector) Catalog() *Catalog {
	return s.catalog
}

// SelectForLevel returns copies of the topics offered at level
func (s *Selector) SelectForLevel(level domain.SkillLevel) []domain.LearningTopic {
	return s.catalog.SelectForLevel(level)
}

// GeneratePath builds a path one tier above the profile's level. An empty
// level is treated as beginner. The advisor, when configured, may only add
// tips; topic order is never changed by it.
func (s *Selector) GeneratePath(ctx context.Context, profile *domain.UserProfile) (*domain.LearningPath, error) {
	level := domain.SkillBeginner
	if profile.SkillLevel != "" {
		parsed, err := domain.ParseSkillLevel(string(profile.SkillLevel))
		if err != nil {
			return nil, err
		}
		level = parsed
	}

	topics := s.catalog.SelectForLevel(level)
	now := s.now()
	path := &domain.LearningPath{
		UserID:            profile.ID.String(),
		CurrentLevel:      level,
		TargetLevel:       level.Next(),
		Topics:            topics,
		CompletedTopicIDs: []string{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	path.EstimatedCompletionTime = path.TotalHours()

	if s.advisor != nil {
		advice, err := s.advisor.Advise(ctx, profile, cloneTopics(topics))
		switch {
		case err != nil:
			s.logger.Warn("path advisor failed", "user_id", path.UserID, "error", err)
		case advice != nil:
			path.Tips = append([]string{}, advice.Tips...)
		}
	}

	return path, nil
}

// NextTopic returns the first path topic that is not completed and whose
// prerequisites are all completed. Prerequisites are checked against the
// completed set, not only against topics on the path.
func NextTopic(path *domain.LearningPath, completed []string) *domain.LearningTopic {
	done := toSet(completed)
	for _, t := range path.Topics {
		if done[t.ID] {
			continue
		}
		if prerequisitesMet(t, done) {
			next := t.Clone()
			return &next
		}
	}
	return nil
}

// Step is where a learner stands on a path. Topic is set when a topic is
// ready to study; otherwise the path is either complete or blocked.
type Step struct {
	Topic    *domain.LearningTopic `json:"next_topic"`
	Complete bool                  `json:"complete"`
	Blocked  bool                  `json:"blocked"`
	// Missing lists unmet prerequisites that are not themselves on the path.
	Missing []string `json:"missing_prerequisites,omitempty"`
}

// NextStep reports the next topic, or why there is none. A path is complete
// only when every topic on it is in completed.
func NextStep(path *domain.LearningPath, completed []string) Step {
	if next := NextTopic(path, completed); next != nil {
		return Step{Topic: next}
	}

	done := toSet(completed)
	onPath := make(map[string]bool, len(path.Topics))
	for _, t := range path.Topics {
		onPath[t.ID] = true
	}

	remaining := 0
	seen := make(map[string]bool)
	var missing []string
	for _, t := range path.Topics {
		if done[t.ID] {
			continue
		}
		remaining++
		for _, pre := range t.Prerequisites {
			if done[pre] || onPath[pre] || seen[pre] {
				continue
			}
			seen[pre] = true
			missing = append(missing, pre)
		}
	}

	if remaining == 0 {
		return Step{Complete: len(path.Topics) > 0}
	}
	return Step{Blocked: true, Missing: missing}
}

func prerequisitesMet(t domain.LearningTopic, done map[string]bool) bool {
	for _, pre := range t.Prerequisites {
		if !done[pre] {
			return false
		}
	}
	return true
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func cloneTopics(topics []domain.LearningTopic) []domain.LearningTopic {
	out := make([]domain.LearningTopic, len(topics))
	for i, t := range topics {
		out[i] = t.Clone()
	}
	return out
}
