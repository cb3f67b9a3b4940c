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

// UserRepository implements mentor.UserStore using PostgreSQL
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, u *domain.UserProfile) error {
	query := `
		INSERT INTO users (id, username, email, full_name, skill_level,
			programming_languages, learning_goals, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.pool.Exec(ctx, query,
		u.ID, u.Username, u.Email, u.FullName, string(u.SkillLevel),
		nonNil(u.ProgrammingLanguages), nonNil(u.LearningGoals), u.CreatedAt, u.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", domain.ErrUserAlreadyExists, u.Username)
	}
	return err
}

// Get retrieves a user by ID
func (r *UserRepository) Get(ctx context.Context, id uuid.UUID) (*domain.UserProfile, error) {
	query := `
		SELECT id, username, email, full_name, skill_level,
			programming_languages, learning_goals, created_at, updated_at
		FROM users WHERE id = $1
	`
	u := &domain.UserProfile{}
	var level string
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.Username, &u.Email, &u.FullName, &level,
		&u.ProgrammingLanguages, &u.LearningGoals, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	u.SkillLevel = domain.SkillLevel(level)
	return u, nil
}

// Update overwrites the mutable fields of a user
func (r *UserRepository) Update(ctx context.Context, u *domain.UserProfile) error {
	query := `
		UPDATE users SET full_name = $2, skill_level = $3, programming_languages = $4,
			learning_goals = $5, updated_at = $6
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		u.ID, u.FullName, string(u.SkillLevel),
		nonNil(u.ProgrammingLanguages), nonNil(u.LearningGoals), u.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
