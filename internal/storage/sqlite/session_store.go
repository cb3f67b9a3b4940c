package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/codementor/internal/domain"
)

// SessionStore implements learning session persistence backed by SQLite.
// Issues are stored one row each in code_analyses.
type SessionStore struct {
	db *DB
}

// NewSessionStore creates a new SQLite-backed session store.
func NewSessionStore(db *DB) *SessionStore {
	return &SessionStore{db: db}
}

// Create inserts the session and its issues in one transaction and sets s.ID.
func (s *SessionStore) Create(ctx context.Context, sess *domain.LearningSession) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO learning_sessions (user_id, session_type, language, topic,
			code_content, ai_feedback, score, duration_minutes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.UserID.String(), string(sess.Type), sess.Language, sess.Topic,
		sess.CodeContent, sess.Feedback, sess.Score, sess.DurationMinutes, sess.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("session id: %w", err)
	}

	for _, iss := range sess.Issues {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO code_analyses (session_id, issue_type, description,
				suggestion, severity, line_number, confidence)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, string(iss.Type), iss.Description, iss.Suggestion,
			string(iss.Severity), iss.LineNumber, iss.Confidence,
		)
		if err != nil {
			return fmt.Errorf("insert code analysis: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit session: %w", err)
	}
	sess.ID = id
	return nil
}

// Get retrieves a session of the user with its code and issues.
func (s *SessionStore) Get(ctx context.Context, userID uuid.UUID, id int64) (*domain.LearningSession, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, session_type, language, topic, code_content,
			ai_feedback, score, duration_minutes, created_at
		FROM learning_sessions WHERE id = ? AND user_id = ?`, id, userID.String())

	sess, err := scanSession(row, true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	issues, err := s.issues(ctx, id)
	if err != nil {
		return nil, err
	}
	sess.Issues = issues
	return sess, nil
}

// List returns a page of the user's sessions, newest first.
func (s *SessionStore) List(ctx context.Context, userID uuid.UUID, skip, limit int) ([]domain.LearningSession, error) {
	return s.query(ctx, `
		SELECT id, user_id, session_type, language, topic, ai_feedback,
			score, duration_minutes, created_at
		FROM learning_sessions WHERE user_id = ?
		ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		userID.String(), limit, skip)
}

// All returns every session of the user, newest first.
func (s *SessionStore) All(ctx context.Context, userID uuid.UUID) ([]domain.LearningSession, error) {
	return s.query(ctx, `
		SELECT id, user_id, session_type, language, topic, ai_feedback,
			score, duration_minutes, created_at
		FROM learning_sessions WHERE user_id = ?
		ORDER BY created_at DESC, id DESC`,
		userID.String())
}

func (s *SessionStore) query(ctx context.Context, query string, args ...any) ([]domain.LearningSession, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []domain.LearningSession{}
	for rows.Next() {
		sess, err := scanSession(rows, false)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *sess)
	}
	return sessions, rows.Err()
}

func (s *SessionStore) issues(ctx context.Context, sessionID int64) ([]domain.CodeIssue, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT issue_type, description, suggestion, severity, line_number, confidence
		FROM code_analyses WHERE session_id = ? ORDER BY id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query code analyses: %w", err)
	}
	defer rows.Close()

	issues := []domain.CodeIssue{}
	for rows.Next() {
		var (
			iss            domain.CodeIssue
			kind, severity string
		)
		if err := rows.Scan(&kind, &iss.Description, &iss.Suggestion, &severity, &iss.LineNumber, &iss.Confidence); err != nil {
			return nil, fmt.Errorf("scan code analysis: %w", err)
		}
		iss.Type = domain.IssueType(kind)
		iss.Severity = domain.Severity(severity)
		issues = append(issues, iss)
	}
	return issues, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner, withCode bool) (*domain.LearningSession, error) {
	var (
		sess          domain.LearningSession
		rawUser, kind string
		err           error
	)
	if withCode {
		err = row.Scan(&sess.ID, &rawUser, &kind, &sess.Language, &sess.Topic, &sess.CodeContent,
			&sess.Feedback, &sess.Score, &sess.DurationMinutes, &sess.CreatedAt)
	} else {
		err = row.Scan(&sess.ID, &rawUser, &kind, &sess.Language, &sess.Topic,
			&sess.Feedback, &sess.Score, &sess.DurationMinutes, &sess.CreatedAt)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}

	if sess.UserID, err = uuid.Parse(rawUser); err != nil {
		return nil, fmt.Errorf("parse session user id: %w", err)
	}
	sess.Type = domain.SessionType(kind)
	return &sess, nil
}
