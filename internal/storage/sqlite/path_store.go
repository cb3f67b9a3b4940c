package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/codementor/internal/domain"
)

// PathStore keeps the current learning path of each user in SQLite.
// Topics are stored as a JSON snapshot so later catalog changes do not
// rewrite a learner's path.
type PathStore struct {
	db *DB
}

// NewPathStore creates a new SQLite-backed path store.
func NewPathStore(db *DB) *PathStore {
	return &PathStore{db: db}
}

// Save inserts or replaces the user's path.
func (s *PathStore) Save(ctx context.Context, p *domain.LearningPath) error {
	topics, err := json.Marshal(p.Topics)
	if err != nil {
		return fmt.Errorf("marshal topics: %w", err)
	}
	completed, err := json.Marshal(nonNil(p.CompletedTopicIDs))
	if err != nil {
		return fmt.Errorf("marshal completed topics: %w", err)
	}
	tips, err := json.Marshal(nonNil(p.Tips))
	if err != nil {
		return fmt.Errorf("marshal tips: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO learning_paths (user_id, current_level, target_level, topics,
			estimated_completion_time, progress, completed_topic_ids, tips,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			current_level=excluded.current_level, target_level=excluded.target_level,
			topics=excluded.topics, estimated_completion_time=excluded.estimated_completion_time,
			progress=excluded.progress, completed_topic_ids=excluded.completed_topic_ids,
			tips=excluded.tips, created_at=excluded.created_at, updated_at=excluded.updated_at`,
		p.UserID, string(p.CurrentLevel), string(p.TargetLevel), string(topics),
		p.EstimatedCompletionTime, p.Progress, string(completed), string(tips),
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert learning path: %w", err)
	}
	return nil
}

// Get retrieves the user's path.
func (s *PathStore) Get(ctx context.Context, userID string) (*domain.LearningPath, error) {
	var (
		p                       domain.LearningPath
		current, target         string
		topics, completed, tips string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, current_level, target_level, topics, estimated_completion_time,
			progress, completed_topic_ids, tips, created_at, updated_at
		FROM learning_paths WHERE user_id = ?`, userID).Scan(
		&p.UserID, &current, &target, &topics, &p.EstimatedCompletionTime,
		&p.Progress, &completed, &tips, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPathNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan learning path: %w", err)
	}

	p.CurrentLevel = domain.SkillLevel(current)
	p.TargetLevel = domain.SkillLevel(target)
	if err := json.Unmarshal([]byte(topics), &p.Topics); err != nil {
		return nil, fmt.Errorf("unmarshal topics: %w", err)
	}
	if err := json.Unmarshal([]byte(completed), &p.CompletedTopicIDs); err != nil {
		return nil, fmt.Errorf("unmarshal completed topics: %w", err)
	}
	if err := json.Unmarshal([]byte(tips), &p.Tips); err != nil {
		return nil, fmt.Errorf("unmarshal tips: %w", err)
	}
	return &p, nil
}
