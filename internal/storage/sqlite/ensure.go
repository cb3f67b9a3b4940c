package sqlite

import "github.com/felixgeelhaar/codementor/internal/mentor"

// Ensure SQLite stores implement the mentor storage interfaces.
var (
	_ mentor.UserStore    = (*UserStore)(nil)
	_ mentor.SessionStore = (*SessionStore)(nil)
	_ mentor.PathStore    = (*PathStore)(nil)
	_ mentor.EventSink    = (*AnalyticsStore)(nil)
)
