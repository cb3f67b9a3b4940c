package domain

import "errors"

// -----------------------------------------------------------------------------
// Domain Errors
// These errors represent domain-level failures and are used by repositories
// and services to communicate domain-specific error conditions.
// -----------------------------------------------------------------------------

// User errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrInvalidUsername   = errors.New("invalid username")
	ErrInvalidEmail      = errors.New("invalid email address")
)

// Skill level errors
var (
	ErrInvalidSkillLevel = errors.New("invalid skill level")
)

// Learning session errors
var (
	ErrSessionNotFound    = errors.New("learning session not found")
	ErrInvalidSessionType = errors.New("invalid session type")
	ErrEmptyCode          = errors.New("code must not be empty")
	ErrMissingLanguage    = errors.New("language is required")
)

// Curriculum errors
var (
	ErrTopicNotFound = errors.New("topic not found")
	ErrPathNotFound  = errors.New("learning path not found")

	// ErrEmptyPath is returned when progress is computed for a path
	// without topics.
	ErrEmptyPath = errors.New("learning path has no topics")
)

// General errors
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInternalError = errors.New("internal error")
)
