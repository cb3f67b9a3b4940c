package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/felixgeelhaar/codementor/internal/domain"
)

// UserStore implements user profile persistence backed by SQLite.
type UserStore struct {
	db *DB
}

// NewUserStore creates a new SQLite-backed user store.
func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db}
}

// Create inserts a new profile. Duplicate usernames or emails yield
// domain.ErrUserAlreadyExists.
func (s *UserStore) Create(ctx context.Context, u *domain.UserProfile) error {
	langs, goals, err := marshalLists(u)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (id, username, email, full_name, skill_level,
			programming_languages, learning_goals, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID.String(), u.Username, u.Email, u.FullName, string(u.SkillLevel),
		langs, goals, u.CreatedAt, u.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", domain.ErrUserAlreadyExists, u.Username)
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// Get retrieves a profile by id.
func (s *UserStore) Get(ctx context.Context, id uuid.UUID) (*domain.UserProfile, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, username, email, full_name, skill_level,
			programming_languages, learning_goals, created_at, updated_at
		FROM users WHERE id = ?`, id.String())

	var (
		u            domain.UserProfile
		rawID, level string
		langs, goals string
	)
	err := row.Scan(&rawID, &u.Username, &u.Email, &u.FullName, &level,
		&langs, &goals, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}

	if u.ID, err = uuid.Parse(rawID); err != nil {
		return nil, fmt.Errorf("parse user id: %w", err)
	}
	u.SkillLevel = domain.SkillLevel(level)
	if err := json.Unmarshal([]byte(langs), &u.ProgrammingLanguages); err != nil {
		return nil, fmt.Errorf("unmarshal programming_languages: %w", err)
	}
	if err := json.Unmarshal([]byte(goals), &u.LearningGoals); err != nil {
		return nil, fmt.Errorf("unmarshal learning_goals: %w", err)
	}
	return &u, nil
}

// Update overwrites the mutable fields of a profile.
func (s *UserStore) Update(ctx context.Context, u *domain.UserProfile) error {
	langs, goals, err := marshalLists(u)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE users SET full_name = ?, skill_level = ?,
			programming_languages = ?, learning_goals = ?, updated_at = ?
		WHERE id = ?`,
		u.FullName, string(u.SkillLevel), langs, goals, u.UpdatedAt, u.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func marshalLists(u *domain.UserProfile) (string, string, error) {
	langs, err := json.Marshal(nonNil(u.ProgrammingLanguages))
	if err != nil {
		return "", "", fmt.Errorf("marshal programming_languages: %w", err)
	}
	goals, err := json.Marshal(nonNil(u.LearningGoals))
	if err != nil {
		return "", "", fmt.Errorf("marshal learning_goals: %w", err)
	}
	return string(langs), string(goals), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique
}
