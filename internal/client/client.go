// Package client talks to the CodeMentor HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/codementor/internal/curriculum"
	"github.com/felixgeelhaar/codementor/internal/domain"
	"github.com/felixgeelhaar/codementor/internal/mentor"
)

// Error is an error response returned by the server
type Error struct {
	Status  int
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%d %s)", e.Message, e.Status, e.Code)
}

// Client is a typed client for the HTTP API
type Client struct {
	baseURL    string
	userID     uuid.UUID
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithUser sets the X-User-ID sent with user-scoped calls
func WithUser(id uuid.UUID) Option {
	return func(c *Client) { c.userID = id }
}

// New creates a client for the server at baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			// Analysis waits on the LLM adapter
			Timeout: 2 * time.Minute,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Health reports whether the server answers /health
func (c *Client) Health(ctx context.Context) error {
	var out map[string]string
	return c.do(ctx, http.MethodGet, "/health", nil, &out)
}

// CreateUser registers a learner
func (c *Client) CreateUser(ctx context.Context, req mentor.CreateUserRequest) (*domain.UserProfile, error) {
	var out domain.UserProfile
	if err := c.do(ctx, http.MethodPost, "/api/v1/users", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the configured learner's profile
func (c *Client) Me(ctx context.Context) (*domain.UserProfile, error) {
	var out domain.UserProfile
	if err := c.do(ctx, http.MethodGet, "/api/v1/users/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateMe applies a partial profile update
func (c *Client) UpdateMe(ctx context.Context, update domain.UserUpdate) (*domain.UserProfile, error) {
	var out domain.UserProfile
	if err := c.do(ctx, http.MethodPut, "/api/v1/users/me", update, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Analyze submits code for analysis
func (c *Client) Analyze(ctx context.Context, req mentor.AnalyzeRequest) (*mentor.AnalyzeResponse, error) {
	var out mentor.AnalyzeResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/code/analyze", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Sessions lists sessions newest first
func (c *Client) Sessions(ctx context.Context, skip, limit int) ([]domain.LearningSession, error) {
	q := url.Values{}
	q.Set("skip", strconv.Itoa(skip))
	q.Set("limit", strconv.Itoa(limit))

	var out struct {
		Sessions []domain.LearningSession `json:"sessions"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/code/sessions?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out.Sessions, nil
}

// Session fetches one session with its issues
func (c *Client) Session(ctx context.Context, id int64) (*domain.LearningSession, error) {
	var out domain.LearningSession
	if err := c.do(ctx, http.MethodGet, "/api/v1/code/sessions/"+strconv.FormatInt(id, 10), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Stats returns aggregate session statistics
func (c *Client) Stats(ctx context.Context) (*domain.SessionStats, error) {
	var out domain.SessionStats
	if err := c.do(ctx, http.MethodGet, "/api/v1/code/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Topics lists catalog topics, filtered to a level when one is given
func (c *Client) Topics(ctx context.Context, level string) ([]domain.LearningTopic, error) {
	path := "/api/v1/topics"
	if level != "" {
		path += "?level=" + url.QueryEscape(level)
	}
	var out struct {
		Topics []domain.LearningTopic `json:"topics"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Topics, nil
}

// GeneratePath creates a new learning path
func (c *Client) GeneratePath(ctx context.Context) (*domain.LearningPath, error) {
	var out domain.LearningPath
	if err := c.do(ctx, http.MethodPost, "/api/v1/paths", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CurrentPath returns the stored learning path
func (c *Client) CurrentPath(ctx context.Context) (*domain.LearningPath, error) {
	var out domain.LearningPath
	if err := c.do(ctx, http.MethodGet, "/api/v1/paths/current", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// NextStep returns the next topic, or whether the path is complete or blocked
func (c *Client) NextStep(ctx context.Context) (*curriculum.Step, error) {
	var out curriculum.Step
	if err := c.do(ctx, http.MethodGet, "/api/v1/paths/current/next", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RecordProgress marks topics complete
func (c *Client) RecordProgress(ctx context.Context, completed []string) (*mentor.ProgressReport, error) {
	body := map[string][]string{"completed_topic_ids": completed}
	var out mentor.ProgressReport
	if err := c.do(ctx, http.MethodPost, "/api/v1/paths/current/progress", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userID != uuid.Nil {
		req.Header.Set("X-User-ID", c.userID.String())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &Error{Status: resp.StatusCode, Code: "UNKNOWN", Message: http.StatusText(resp.StatusCode)}
		var wrapper struct {
			Error *Error `json:"error"`
		}
		if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&wrapper); err == nil && wrapper.Error != nil {
			apiErr.Code = wrapper.Error.Code
			apiErr.Message = wrapper.Error.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}
