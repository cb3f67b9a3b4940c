package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/felixgeelhaar/codementor/internal/domain"
)

// PathRepository implements mentor.PathStore using PostgreSQL
type PathRepository struct {
	pool *pgxpool.Pool
}

// NewPathRepository creates a new PostgreSQL path repository
func NewPathRepository(pool *pgxpool.Pool) *PathRepository {
	return &PathRepository{pool: pool}
}

// Save upserts the user's path
func (r *PathRepository) Save(ctx context.Context, p *domain.LearningPath) error {
	topics, err := json.Marshal(p.Topics)
	if err != nil {
		return fmt.Errorf("marshal topics: %w", err)
	}

	query := `
		INSERT INTO learning_paths (user_id, current_level, target_level, topics,
			estimated_completion_time, progress, completed_topic_ids, tips,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id) DO UPDATE SET
			current_level = EXCLUDED.current_level,
			target_level = EXCLUDED.target_level,
			topics = EXCLUDED.topics,
			estimated_completion_time = EXCLUDED.estimated_completion_time,
			progress = EXCLUDED.progress,
			completed_topic_ids = EXCLUDED.completed_topic_ids,
			tips = EXCLUDED.tips,
			created_at = EXCLUDED.created_at,
			updated_at = EXCLUDED.updated_at
	`
	_, err = r.pool.Exec(ctx, query,
		p.UserID, string(p.CurrentLevel), string(p.TargetLevel), string(topics),
		p.EstimatedCompletionTime, p.Progress, nonNil(p.CompletedTopicIDs), nonNil(p.Tips),
		p.CreatedAt, p.UpdatedAt,
	)
	return err
}

// Get retrieves the user's path
func (r *PathRepository) Get(ctx context.Context, userID string) (*domain.LearningPath, error) {
	query := `
		SELECT user_id, current_level, target_level, topics, estimated_completion_time,
			progress, completed_topic_ids, tips, created_at, updated_at
		FROM learning_paths WHERE user_id = $1
	`
	p := &domain.LearningPath{}
	var current, target string
	var topics []byte
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&p.UserID, &current, &target, &topics, &p.EstimatedCompletionTime,
		&p.Progress, &p.CompletedTopicIDs, &p.Tips, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPathNotFound
	}
	if err != nil {
		return nil, err
	}

	p.CurrentLevel = domain.SkillLevel(current)
	p.TargetLevel = domain.SkillLevel(target)
	if err := json.Unmarshal(topics, &p.Topics); err != nil {
		return nil, fmt.Errorf("unmarshal topics: %w", err)
	}
	return p, nil
}
