package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/codementor/internal/curriculum"
	"github.com/felixgeelhaar/codementor/internal/domain"
	"github.com/felixgeelhaar/codementor/internal/mentor"
	"github.com/felixgeelhaar/codementor/internal/storage/sqlite"
)

type testServer struct {
	router *Router
	db     *sqlite.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := mentor.NewService(
		sqlite.NewUserStore(db),
		sqlite.NewSessionStore(db),
		sqlite.NewPathStore(db),
		curriculum.NewSelector(curriculum.MustDefaultCatalog()),
		mentor.WithLogger(logger),
		mentor.WithEventSinks(sqlite.NewAnalyticsStore(db)),
	)
	router := NewRouter(svc, Config{
		AppName: "CodeMentor AI",
		Version: "1.0.0",
		Debug:   true,
		Ready:   db.Ready,
		Logger:  logger,
	})
	t.Cleanup(func() { router.Close() })
	return &testServer{router: router, db: db}
}

func (s *testServer) do(t *testing.T, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = strings.NewReader(b)
		default:
			data, err := json.Marshal(b)
			if err != nil {
				t.Fatalf("marshal body: %v", err)
			}
			reader = bytes.NewReader(data)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) createUser(t *testing.T, username string) domain.UserProfile {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/v1/users", "", map[string]any{
		"username": username,
		"email":    username + "@example.com",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create user status = %d; body = %s", rec.Code, rec.Body.String())
	}
	var user domain.UserProfile
	decodeBody(t, rec, &user)
	return user
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decodeBody(t, rec, &resp)
	return resp.Error.Code
}

func TestRouter_RootAndHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET / status = %d", rec.Code)
	}
	var root map[string]string
	decodeBody(t, rec, &root)
	if root["message"] != "Welcome to CodeMentor AI" || root["version"] != "1.0.0" || root["status"] != "running" {
		t.Errorf("GET / = %v", root)
	}

	rec = s.do(t, http.MethodGet, "/health", "", nil)
	var health map[string]string
	decodeBody(t, rec, &health)
	if health["status"] != "healthy" {
		t.Errorf("health status = %q; want healthy", health["status"])
	}

	rec = s.do(t, http.MethodGet, "/ready", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("GET /ready status = %d; want 200", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing")
	}
}

func TestRouter_ReadyFailure(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := NewRouter(nil, Config{
		Debug:  true,
		Logger: logger,
		Ready:  func(context.Context) error { return errors.New("database is locked") },
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d; want 503", rec.Code)
	}
}

func TestRouter_Users(t *testing.T) {
	s := newTestServer(t)
	user := s.createUser(t, "ada")

	if user.SkillLevel != domain.SkillBeginner {
		t.Errorf("SkillLevel = %q; want beginner", user.SkillLevel)
	}

	rec := s.do(t, http.MethodPost, "/api/v1/users", "", map[string]any{
		"username": "ada",
		"email":    "other@example.com",
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate status = %d; want 409", rec.Code)
	}

	rec = s.do(t, http.MethodGet, "/api/v1/users/me", user.ID.String(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET me status = %d", rec.Code)
	}

	rec = s.do(t, http.MethodPut, "/api/v1/users/me", user.ID.String(), map[string]any{
		"skill_level": "intermediate",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT me status = %d; body = %s", rec.Code, rec.Body.String())
	}
	var updated domain.UserProfile
	decodeBody(t, rec, &updated)
	if updated.SkillLevel != domain.SkillIntermediate {
		t.Errorf("SkillLevel = %q; want intermediate", updated.SkillLevel)
	}

	rec = s.do(t, http.MethodPut, "/api/v1/users/me", user.ID.String(), map[string]any{
		"skill_level": "guru",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid level status = %d; want 400", rec.Code)
	}
}

func TestRouter_RequireUser(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name     string
		userID   string
		wantCode int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"malformed id", "not-a-uuid", http.StatusBadRequest},
		{"unknown user", uuid.NewString(), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodGet, "/api/v1/code/stats", tt.userID, nil)
			if rec.Code != tt.wantCode {
				t.Errorf("status = %d; want %d", rec.Code, tt.wantCode)
			}
		})
	}
}

func TestRouter_AnalyzeAndSessions(t *testing.T) {
	s := newTestServer(t)
	user := s.createUser(t, "grace")
	id := user.ID.String()

	rec := s.do(t, http.MethodPost, "/api/v1/code/analyze", id, map[string]any{
		"code":     "while True:\n    pass",
		"language": "python",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("analyze status = %d; body = %s", rec.Code, rec.Body.String())
	}
	var resp mentor.AnalyzeResponse
	decodeBody(t, rec, &resp)
	if resp.Score != 85 {
		t.Errorf("Score = %v; want 85", resp.Score)
	}
	if resp.SessionID == 0 {
		t.Error("SessionID = 0; want persisted session")
	}
	if resp.Suggestions == nil {
		t.Error("Suggestions = nil; want empty list")
	}

	rec = s.do(t, http.MethodGet, "/api/v1/code/sessions", id, nil)
	var list struct {
		Sessions []domain.LearningSession `json:"sessions"`
	}
	decodeBody(t, rec, &list)
	if len(list.Sessions) != 1 {
		t.Fatalf("sessions = %d; want 1", len(list.Sessions))
	}

	rec = s.do(t, http.MethodGet, "/api/v1/code/sessions/"+itoa(resp.SessionID), id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get session status = %d", rec.Code)
	}
	var session domain.LearningSession
	decodeBody(t, rec, &session)
	if session.Type != domain.SessionCodeReview {
		t.Errorf("Type = %q; want code_review", session.Type)
	}

	rec = s.do(t, http.MethodGet, "/api/v1/code/sessions/9999", id, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing session status = %d; want 404", rec.Code)
	}

	other := s.createUser(t, "linus")
	rec = s.do(t, http.MethodGet, "/api/v1/code/sessions/"+itoa(resp.SessionID), other.ID.String(), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("foreign session status = %d; want 404", rec.Code)
	}

	rec = s.do(t, http.MethodGet, "/api/v1/code/stats", id, nil)
	var stats domain.SessionStats
	decodeBody(t, rec, &stats)
	if stats.TotalSessions != 1 || stats.AverageScore != 85 {
		t.Errorf("stats = %+v; want 1 session averaging 85", stats)
	}
}

func TestRouter_AnalyzeValidation(t *testing.T) {
	s := newTestServer(t)
	id := s.createUser(t, "edsger").ID.String()

	tests := []struct {
		name string
		body any
	}{
		{"empty code", map[string]any{"code": "", "language": "python"}},
		{"missing language", map[string]any{"code": "x = 1"}},
		{"bad session type", map[string]any{"code": "x = 1", "language": "python", "session_type": "karaoke"}},
		{"malformed json", `{"code":`},
		{"unknown field", map[string]any{"code": "x = 1", "language": "python", "extra": true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/api/v1/code/analyze", id, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d; want 400", rec.Code)
			}
			if code := errorCode(t, rec); code != "BAD_REQUEST" {
				t.Errorf("error code = %q; want BAD_REQUEST", code)
			}
		})
	}
}

func TestRouter_Topics(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/topics", "", nil)
	var all struct {
		Topics []domain.LearningTopic `json:"topics"`
	}
	decodeBody(t, rec, &all)
	if len(all.Topics) == 0 {
		t.Fatal("topics empty")
	}

	rec = s.do(t, http.MethodGet, "/api/v1/topics?level=advanced", "", nil)
	var advanced struct {
		Topics []domain.LearningTopic `json:"topics"`
	}
	decodeBody(t, rec, &advanced)
	if len(advanced.Topics) != 1 || advanced.Topics[0].ID != "python_ai" {
		t.Errorf("advanced topics = %+v; want [python_ai]", advanced.Topics)
	}

	rec = s.do(t, http.MethodGet, "/api/v1/topics?level=wizard", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad level status = %d; want 400", rec.Code)
	}

	rec = s.do(t, http.MethodGet, "/api/v1/topics/python_basics", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("topic status = %d; want 200", rec.Code)
	}

	rec = s.do(t, http.MethodGet, "/api/v1/topics/cobol", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing topic status = %d; want 404", rec.Code)
	}
}

func TestRouter_PathLifecycle(t *testing.T) {
	s := newTestServer(t)
	id := s.createUser(t, "barbara").ID.String()

	rec := s.do(t, http.MethodGet, "/api/v1/paths/current", id, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("current before generate status = %d; want 404", rec.Code)
	}

	rec = s.do(t, http.MethodPost, "/api/v1/paths", id, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("generate status = %d; body = %s", rec.Code, rec.Body.String())
	}
	var path domain.LearningPath
	decodeBody(t, rec, &path)
	if len(path.Topics) != 3 || path.EstimatedCompletionTime != 24 {
		t.Errorf("path = %d topics, %d hours; want 3, 24", len(path.Topics), path.EstimatedCompletionTime)
	}

	rec = s.do(t, http.MethodPost, "/api/v1/paths/current/progress", id, map[string]any{
		"completed_topic_ids": []string{"python_basics"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("progress status = %d; body = %s", rec.Code, rec.Body.String())
	}
	var report mentor.ProgressReport
	decodeBody(t, rec, &report)
	if report.Progress < 33.3 || report.Progress > 33.4 {
		t.Errorf("Progress = %v; want 33.3", report.Progress)
	}
	if report.Encouragement == "" {
		t.Error("Encouragement empty")
	}

	rec = s.do(t, http.MethodGet, "/api/v1/paths/current/next", id, nil)
	var next curriculum.Step
	decodeBody(t, rec, &next)
	if next.Complete || next.Blocked || next.Topic == nil || next.Topic.ID != "python_data_structures" {
		t.Errorf("next = %+v; want python_data_structures", next)
	}
}

func TestRouter_NextTopicBlockedOnPrerequisites(t *testing.T) {
	s := newTestServer(t)
	id := s.createUser(t, "grace").ID.String()

	rec := s.do(t, http.MethodPut, "/api/v1/users/me", id, map[string]any{"skill_level": "intermediate"})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d; body = %s", rec.Code, rec.Body.String())
	}
	rec = s.do(t, http.MethodPost, "/api/v1/paths", id, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("generate status = %d; body = %s", rec.Code, rec.Body.String())
	}

	rec = s.do(t, http.MethodGet, "/api/v1/paths/current/next", id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("next status = %d; body = %s", rec.Code, rec.Body.String())
	}
	var next curriculum.Step
	decodeBody(t, rec, &next)
	if next.Complete {
		t.Error("Complete = true for an untouched path")
	}
	if !next.Blocked || next.Topic != nil {
		t.Errorf("next = %+v; want blocked with no topic", next)
	}
	want := []string{"python_functions", "python_data_structures"}
	if strings.Join(next.Missing, ",") != strings.Join(want, ",") {
		t.Errorf("Missing = %v; want %v", next.Missing, want)
	}

	rec = s.do(t, http.MethodPost, "/api/v1/paths/current/progress", id, map[string]any{
		"completed_topic_ids": []string{"python_functions"},
	})
	var report mentor.ProgressReport
	decodeBody(t, rec, &report)
	if report.Blocked || report.NextTopic == nil || report.NextTopic.ID != "python_oop" {
		t.Errorf("report = %+v; want next python_oop", report)
	}
	if report.Progress != 0 {
		t.Errorf("Progress = %v; want 0 for an off-path topic", report.Progress)
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/code/analyze", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d; want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Allow-Origin = %q", got)
	}
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
