package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/felixgeelhaar/codementor/internal/domain"
)

// SessionRepository implements mentor.SessionStore using PostgreSQL
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new PostgreSQL session repository
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// Create inserts a session with its issues in one transaction
func (r *SessionRepository) Create(ctx context.Context, s *domain.LearningSession) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO learning_sessions (user_id, session_type, language, topic,
			code_content, ai_feedback, score, duration_minutes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`,
		s.UserID, string(s.Type), s.Language, s.Topic,
		s.CodeContent, s.Feedback, s.Score, s.DurationMinutes, s.CreatedAt,
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	batch := &pgx.Batch{}
	for _, iss := range s.Issues {
		batch.Queue(`
			INSERT INTO code_analyses (session_id, issue_type, description,
				suggestion, severity, line_number, confidence)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, s.ID, string(iss.Type), iss.Description, iss.Suggestion,
			string(iss.Severity), iss.LineNumber, iss.Confidence)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert code analyses: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// Get retrieves a session of the user with its code and issues
func (r *SessionRepository) Get(ctx context.Context, userID uuid.UUID, id int64) (*domain.LearningSession, error) {
	query := `
		SELECT id, user_id, session_type, language, topic, code_content,
			ai_feedback, score, duration_minutes, created_at
		FROM learning_sessions WHERE id = $1 AND user_id = $2
	`
	s := &domain.LearningSession{}
	var kind string
	err := r.pool.QueryRow(ctx, query, id, userID).Scan(
		&s.ID, &s.UserID, &kind, &s.Language, &s.Topic, &s.CodeContent,
		&s.Feedback, &s.Score, &s.DurationMinutes, &s.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	s.Type = domain.SessionType(kind)

	rows, err := r.pool.Query(ctx, `
		SELECT issue_type, description, suggestion, severity, line_number, confidence
		FROM code_analyses WHERE session_id = $1 ORDER BY id
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	s.Issues = []domain.CodeIssue{}
	for rows.Next() {
		var iss domain.CodeIssue
		var issueType, severity string
		if err := rows.Scan(&issueType, &iss.Description, &iss.Suggestion, &severity, &iss.LineNumber, &iss.Confidence); err != nil {
			return nil, err
		}
		iss.Type = domain.IssueType(issueType)
		iss.Severity = domain.Severity(severity)
		s.Issues = append(s.Issues, iss)
	}
	return s, rows.Err()
}

// List returns a page of the user's sessions, newest first
func (r *SessionRepository) List(ctx context.Context, userID uuid.UUID, skip, limit int) ([]domain.LearningSession, error) {
	query := `
		SELECT id, user_id, session_type, language, topic, ai_feedback,
			score, duration_minutes, created_at
		FROM learning_sessions WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, userID, limit, skip)
	if err != nil {
		return nil, err
	}
	return collectSessions(rows)
}

// All returns every session of the user
func (r *SessionRepository) All(ctx context.Context, userID uuid.UUID) ([]domain.LearningSession, error) {
	query := `
		SELECT id, user_id, session_type, language, topic, ai_feedback,
			score, duration_minutes, created_at
		FROM learning_sessions WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return collectSessions(rows)
}

func collectSessions(rows pgx.Rows) ([]domain.LearningSession, error) {
	defer rows.Close()

	sessions := []domain.LearningSession{}
	for rows.Next() {
		var s domain.LearningSession
		var kind string
		if err := rows.Scan(
			&s.ID, &s.UserID, &kind, &s.Language, &s.Topic, &s.Feedback,
			&s.Score, &s.DurationMinutes, &s.CreatedAt,
		); err != nil {
			return nil, err
		}
		s.Type = domain.SessionType(kind)
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
