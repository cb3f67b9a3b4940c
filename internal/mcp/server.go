// Package mcp exposes code analysis and the curriculum as MCP tools.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	mcp "github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/mcp-go/server"
	"github.com/google/uuid"

	"github.com/felixgeelhaar/codementor/internal/domain"
	"github.com/felixgeelhaar/codementor/internal/mentor"
)

// Server wraps the MCP server with CodeMentor functionality
type Server struct {
	mcpServer *server.Server
	service   *mentor.Service
	userID    uuid.UUID
}

// Config contains configuration for the MCP server
type Config struct {
	Service *mentor.Service
	// UserID is used when a tool call names no user
	UserID  uuid.UUID
	Version string
}

// NewServer creates a new MCP server for CodeMentor
func NewServer(cfg Config) *Server {
	s := &Server{
		service: cfg.Service,
		userID:  cfg.UserID,
	}

	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	s.mcpServer = server.New(server.Info{
		Name:    "codementor",
		Version: version,
	}, server.WithInstructions(`
CodeMentor reviews code and guides learners through a topic curriculum.

Available tools:
- codementor_analyze: Analyze a code snippet and record a learning session
- codementor_topics: List curriculum topics, optionally for one skill level
- codementor_path: Show the current learning path, generating one if needed
- codementor_next_topic: Suggest the next topic on the learning path
- codementor_stats: Summarize past analysis sessions

Scores range from 0 to 100. Feedback is tiered by score and lists detected
issues by category.
`))

	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	s.mcpServer.Tool("codementor_analyze").
		Description("Analyze code for syntax, performance and security issues and return a score with feedback").
		Handler(s.handleAnalyze)

	s.mcpServer.Tool("codementor_topics").
		Description("List curriculum topics. Pass a skill level to see the topics selected for it.").
		Handler(s.handleTopics)

	s.mcpServer.Tool("codementor_path").
		Description("Show the learner's current path. Generates one when none exists or regenerate is set.").
		Handler(s.handlePath)

	s.mcpServer.Tool("codementor_next_topic").
		Description("Suggest the next topic whose prerequisites are complete.").
		Handler(s.handleNextTopic)

	s.mcpServer.Tool("codementor_stats").
		Description("Summarize the learner's analysis sessions.").
		Handler(s.handleStats)
}

// Input/Output types for tools

type AnalyzeInput struct {
	Code        string `json:"code" jsonschema:"description=Source code to analyze"`
	Language    string `json:"language" jsonschema:"description=Programming language of the code"`
	Topic       string `json:"topic,omitempty" jsonschema:"description=Topic the code practices"`
	SessionType string `json:"session_type,omitempty" jsonschema:"description=Session type,enum=code_review,enum=practice,enum=project_guidance"`
	UserID      string `json:"user_id,omitempty" jsonschema:"description=Learner id; defaults to the configured user"`
}

type AnalyzeOutput struct {
	SessionID   int64    `json:"session_id"`
	Score       float64  `json:"score"`
	Feedback    string   `json:"feedback"`
	Suggestions []string `json:"suggestions"`
	IssuesCount int      `json:"issues_count"`
	Summary     string   `json:"summary"`
}

type TopicsInput struct {
	Level string `json:"level,omitempty" jsonschema:"description=Skill level,enum=beginner,enum=intermediate,enum=advanced"`
}

type TopicSummary struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Difficulty     string   `json:"difficulty"`
	EstimatedHours int      `json:"estimated_hours"`
	Prerequisites  []string `json:"prerequisites,omitempty"`
}

type TopicsOutput struct {
	Topics []TopicSummary `json:"topics"`
}

type PathInput struct {
	Regenerate bool   `json:"regenerate,omitempty" jsonschema:"description=Replace the current path with a new one"`
	UserID     string `json:"user_id,omitempty" jsonschema:"description=Learner id; defaults to the configured user"`
}

type PathOutput struct {
	CurrentLevel   string         `json:"current_level"`
	Topics         []TopicSummary `json:"topics"`
	EstimatedHours int            `json:"estimated_hours"`
	Progress       float64        `json:"progress"`
	Completed      []string       `json:"completed_topic_ids"`
	Tips           []string       `json:"tips,omitempty"`
}

type UserInput struct {
	UserID string `json:"user_id,omitempty" jsonschema:"description=Learner id; defaults to the configured user"`
}

type NextTopicOutput struct {
	Topic                *TopicSummary `json:"topic,omitempty"`
	Complete             bool          `json:"complete"`
	Blocked              bool          `json:"blocked"`
	MissingPrerequisites []string      `json:"missing_prerequisites,omitempty"`
	Message              string        `json:"message"`
}

type StatsOutput struct {
	TotalSessions      int     `json:"total_sessions"`
	AverageScore       float64 `json:"average_score"`
	BestScore          float64 `json:"best_score"`
	TotalDurationHours float64 `json:"total_duration_hours"`
}

// Tool handlers

func (s *Server) handleAnalyze(ctx context.Context, input AnalyzeInput) (AnalyzeOutput, error) {
	user, err := s.user(ctx, input.UserID)
	if err != nil {
		return AnalyzeOutput{}, err
	}

	resp, err := s.service.Analyze(ctx, user, mentor.AnalyzeRequest{
		Code:        input.Code,
		Language:    input.Language,
		Topic:       input.Topic,
		SessionType: input.SessionType,
	})
	if err != nil {
		return AnalyzeOutput{}, fmt.Errorf("analyze: %w", err)
	}

	return AnalyzeOutput{
		SessionID:   resp.SessionID,
		Score:       resp.Score,
		Feedback:    resp.Feedback,
		Suggestions: resp.Suggestions,
		IssuesCount: resp.IssuesCount,
		Summary:     issueSummary(resp.Analysis),
	}, nil
}

func (s *Server) handleTopics(ctx context.Context, input TopicsInput) (TopicsOutput, error) {
	catalog := s.service.Catalog()
	topics := catalog.Topics()
	if input.Level != "" {
		level, err := domain.ParseSkillLevel(input.Level)
		if err != nil {
			return TopicsOutput{}, err
		}
		topics = catalog.SelectForLevel(level)
	}
	return TopicsOutput{Topics: summarize(topics)}, nil
}

func (s *Server) handlePath(ctx context.Context, input PathInput) (PathOutput, error) {
	user, err := s.user(ctx, input.UserID)
	if err != nil {
		return PathOutput{}, err
	}

	var path *domain.LearningPath
	if !input.Regenerate {
		path, err = s.service.CurrentPath(ctx, user)
	}
	if input.Regenerate || errors.Is(err, domain.ErrPathNotFound) {
		path, err = s.service.GeneratePath(ctx, user)
	}
	if err != nil {
		return PathOutput{}, fmt.Errorf("learning path: %w", err)
	}

	return PathOutput{
		CurrentLevel:   string(path.CurrentLevel),
		Topics:         summarize(path.Topics),
		EstimatedHours: path.EstimatedCompletionTime,
		Progress:       path.Progress,
		Completed:      path.CompletedTopicIDs,
		Tips:           path.Tips,
	}, nil
}

func (s *Server) handleNextTopic(ctx context.Context, input UserInput) (NextTopicOutput, error) {
	user, err := s.user(ctx, input.UserID)
	if err != nil {
		return NextTopicOutput{}, err
	}

	step, err := s.service.NextStep(ctx, user)
	if err != nil {
		return NextTopicOutput{}, fmt.Errorf("next topic: %w", err)
	}
	switch {
	case step.Complete:
		return NextTopicOutput{Complete: true, Message: "Every topic on the path is complete."}, nil
	case step.Topic == nil:
		msg := "No topic on the path is ready yet."
		if len(step.Missing) > 0 {
			msg = "Complete these prerequisites first: " + strings.Join(step.Missing, ", ")
		}
		return NextTopicOutput{Blocked: true, MissingPrerequisites: step.Missing, Message: msg}, nil
	}

	topic := step.Topic
	summary := summarize([]domain.LearningTopic{*topic})[0]
	return NextTopicOutput{
		Topic:   &summary,
		Message: fmt.Sprintf("Next up: %s (about %d hours)", topic.Title, topic.EstimatedHours),
	}, nil
}

func (s *Server) handleStats(ctx context.Context, input UserInput) (StatsOutput, error) {
	user, err := s.user(ctx, input.UserID)
	if err != nil {
		return StatsOutput{}, err
	}

	stats, err := s.service.Stats(ctx, user)
	if err != nil {
		return StatsOutput{}, fmt.Errorf("stats: %w", err)
	}
	return StatsOutput{
		TotalSessions:      stats.TotalSessions,
		AverageScore:       stats.AverageScore,
		BestScore:          stats.BestScore,
		TotalDurationHours: stats.TotalDurationHours,
	}, nil
}

// user resolves an explicit id or falls back to the configured user
func (s *Server) user(ctx context.Context, raw string) (*domain.UserProfile, error) {
	id := s.userID
	if raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid user_id: %w", err)
		}
		id = parsed
	}
	if id == uuid.Nil {
		return nil, errors.New("no user configured; pass user_id or set user_id in the CLI config")
	}
	return s.service.GetUser(ctx, id)
}

func summarize(topics []domain.LearningTopic) []TopicSummary {
	out := make([]TopicSummary, 0, len(topics))
	for _, t := range topics {
		out = append(out, TopicSummary{
			ID:             t.ID,
			Title:          t.Title,
			Difficulty:     string(t.Difficulty),
			EstimatedHours: t.EstimatedHours,
			Prerequisites:  t.Prerequisites,
		})
	}
	return out
}

func issueSummary(a domain.AnalysisResult) string {
	parts := []string{
		fmt.Sprintf("Syntax: %d", len(a.SyntaxIssues)),
		fmt.Sprintf("Performance: %d", len(a.PerformanceIssues)),
		fmt.Sprintf("Security: %d", len(a.SecurityIssues)),
	}
	return strings.Join(parts, " | ")
}

// ServeStdio starts the MCP server on stdio
func (s *Server) ServeStdio(ctx context.Context) error {
	return mcp.ServeStdio(ctx, s.mcpServer)
}

// ServeHTTP starts the MCP server on HTTP (alternative transport)
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	return mcp.ServeHTTP(ctx, s.mcpServer, addr)
}

// GetMCPServer returns the underlying MCP server (for testing)
func (s *Server) GetMCPServer() *server.Server {
	return s.mcpServer
}
