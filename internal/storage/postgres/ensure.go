package postgres

import "github.com/felixgeelhaar/codementor/internal/mentor"

// Ensure PostgreSQL repositories implement the mentor storage interfaces.
var (
	_ mentor.UserStore    = (*UserRepository)(nil)
	_ mentor.SessionStore = (*SessionRepository)(nil)
	_ mentor.PathStore    = (*PathRepository)(nil)
)
