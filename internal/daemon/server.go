// Package daemon assembles the mentor service from configuration and
// serves it over HTTP.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/felixgeelhaar/codementor/internal/api"
	"github.com/felixgeelhaar/codementor/internal/api/middleware"
	"github.com/felixgeelhaar/codementor/internal/assessment"
	"github.com/felixgeelhaar/codementor/internal/config"
	"github.com/felixgeelhaar/codementor/internal/curriculum"
	"github.com/felixgeelhaar/codementor/internal/llm"
	"github.com/felixgeelhaar/codementor/internal/mentor"
	"github.com/felixgeelhaar/codementor/internal/queue"
	"github.com/felixgeelhaar/codementor/internal/storage/postgres"
	redisstore "github.com/felixgeelhaar/codementor/internal/storage/redis"
	"github.com/felixgeelhaar/codementor/internal/storage/sqlite"
)

// Server represents the CodeMentor HTTP server
type Server struct {
	cfg    *config.Config
	logger *slog.Logger
	server *http.Server
	router *api.Router

	llmRegistry *llm.Registry
	sqliteDB    *sqlite.DB
	service     *mentor.Service
	ready       func(ctx context.Context) error
	closers     []func() error
}

// ServerConfig holds configuration for creating a new server
type ServerConfig struct {
	Config  *config.Config
	Version string
	Logger  *slog.Logger
}

// NewServer wires stores, providers and event sinks and builds the HTTP
// server. Resources opened here are released by Shutdown or Close.
func NewServer(ctx context.Context, cfg ServerConfig) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	s := &Server{
		cfg:    cfg.Config,
		logger: cfg.Logger,
	}

	if err := s.build(ctx); err != nil {
		s.Close()
		return nil, err
	}

	rl := s.cfg.Server.RateLimit
	s.router = api.NewRouter(s.service, api.Config{
		AppName: s.cfg.AppName,
		Version: cfg.Version,
		Debug:   s.cfg.Server.Debug,
		RateLimit: middleware.RateLimitConfig{
			RequestsPerMinute: rl.RequestsPerMinute,
			BurstMultiplier:   rl.BurstMultiplier,
			Logger:            s.logger,
		},
		Ready:  s.ready,
		Logger: s.logger,
	})
	s.closers = append(s.closers, s.router.Close)

	s.server = &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // LLM assessment can be slow
		IdleTimeout:  120 * time.Second,
	}
	return s, nil
}

func (s *Server) build(ctx context.Context) error {
	users, sessions, paths, err := s.setupStores(ctx)
	if err != nil {
		return err
	}

	if s.cfg.Storage.RedisURL != "" {
		client, err := redisstore.Connect(ctx, s.cfg.Storage.RedisURL)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		s.closers = append(s.closers, client.Close)
		ttl := time.Duration(s.cfg.Storage.PathTTLHours) * time.Hour
		paths = redisstore.NewPathStore(client, ttl)
		s.logger.Info("learning paths stored in redis", "ttl", ttl)
	}

	sinks, err := s.setupEventSinks()
	if err != nil {
		return err
	}

	s.llmRegistry = llm.NewRegistry()
	s.closers = append(s.closers, s.llmRegistry.Close)
	if err := s.setupLLMProviders(ctx, s.llmRegistry); err != nil {
		return fmt.Errorf("setup llm providers: %w", err)
	}

	selectorOpts := []curriculum.SelectorOption{curriculum.WithLogger(s.logger)}
	if s.cfg.LLM.PathAdvisor && len(s.llmRegistry.List()) > 0 {
		selectorOpts = append(selectorOpts, curriculum.WithAdvisor(assessment.NewPathAdvisor(s.llmRegistry)))
	}
	selector := curriculum.NewSelector(curriculum.MustDefaultCatalog(), selectorOpts...)

	opts := []mentor.Option{
		mentor.WithLogger(s.logger),
		mentor.WithEventSinks(sinks...),
	}
	if len(s.llmRegistry.List()) > 0 {
		opts = append(opts, mentor.WithAssessor(assessment.NewAssessor(s.llmRegistry,
			assessment.WithLogger(s.logger),
			assessment.WithMaxTokens(s.cfg.LLM.MaxTokens),
		)))
	} else {
		s.logger.Warn("no LLM provider configured; scores use local analysis only")
	}

	s.service = mentor.NewService(users, sessions, paths, selector, opts...)
	return nil
}

// setupStores opens PostgreSQL when configured and SQLite otherwise
func (s *Server) setupStores(ctx context.Context) (mentor.UserStore, mentor.SessionStore, mentor.PathStore, error) {
	if s.cfg.UsePostgres() {
		pool, err := postgres.Connect(ctx, s.cfg.Storage.DatabaseURL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		s.closers = append(s.closers, func() error { pool.Close(); return nil })
		if err := postgres.Migrate(ctx, pool); err != nil {
			return nil, nil, nil, fmt.Errorf("migrate postgres: %w", err)
		}
		s.ready = pool.Ping
		s.logger.Info("using postgres storage")
		return postgres.NewUserRepository(pool), postgres.NewSessionRepository(pool), postgres.NewPathRepository(pool), nil
	}

	db, err := sqlite.Open(s.cfg.SQLiteFile())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open sqlite: %w", err)
	}
	s.closers = append(s.closers, db.Close)
	db = db.WithLogger(s.logger)
	if err := db.Migrate(ctx); err != nil {
		return nil, nil, nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	s.sqliteDB = db
	s.ready = db.Ready
	s.logger.Info("using sqlite storage", "path", s.cfg.SQLiteFile())
	return sqlite.NewUserStore(db), sqlite.NewSessionStore(db), sqlite.NewPathStore(db), nil
}

// setupEventSinks records analytics locally and, when a broker is
// configured, publishes to RabbitMQ as well
func (s *Server) setupEventSinks() ([]mentor.EventSink, error) {
	var sinks []mentor.EventSink

	if s.sqliteDB != nil {
		sinks = append(sinks, sqlite.NewAnalyticsStore(s.sqliteDB))
	}

	if url := s.cfg.Events.RabbitMQURL; url != "" {
		conn, err := queue.NewConnection(url, s.logger)
		if err != nil {
			return nil, fmt.Errorf("connect rabbitmq: %w", err)
		}
		s.closers = append(s.closers, conn.Close)
		sinks = append(sinks, queue.NewProducer(conn, s.logger))
	}
	return sinks, nil
}

// setupLLMProviders registers every enabled provider behind the resilience
// wrapper
func (s *Server) setupLLMProviders(ctx context.Context, registry *llm.Registry) error {
	res := s.cfg.LLM.Resilience
	rcfg := llm.DefaultResilientConfig()
	rcfg.MaxConcurrent = res.MaxConcurrent
	rcfg.RatePerSecond = res.RatePerSecond
	rcfg.FailureThreshold = res.FailureThreshold
	rcfg.OpenTimeout = time.Duration(res.OpenTimeoutSecs) * time.Second
	rcfg.Logger = s.logger

	for _, name := range s.cfg.EnabledProviders() {
		pc := s.cfg.LLM.Providers[name]

		var (
			provider llm.Provider
			err      error
		)
		switch name {
		case config.ProviderClaude:
			provider, err = llm.NewClaudeProvider(llm.ClaudeConfig{APIKey: pc.APIKey, Model: pc.Model})
		case config.ProviderOpenAI:
			provider, err = llm.NewOpenAIProvider(llm.OpenAIConfig{APIKey: pc.APIKey, Model: pc.Model})
		case config.ProviderGemini:
			provider, err = llm.NewGeminiProvider(ctx, llm.GeminiConfig{APIKey: pc.APIKey, Model: pc.Model})
		case config.ProviderOllama:
			provider = llm.NewOllamaProvider(llm.OllamaConfig{BaseURL: pc.URL, Model: pc.Model})
		default:
			continue
		}
		if err != nil {
			s.logger.Warn("skipping LLM provider", "name", name, "error", err)
			continue
		}

		registry.Register(name, llm.NewResilientProvider(provider, rcfg))
		s.logger.Info("registered LLM provider", "name", name, "model", pc.Model)
	}

	if len(registry.List()) == 0 {
		return nil
	}
	if err := registry.SetDefault(s.cfg.LLM.DefaultProvider); err != nil {
		s.logger.Warn("default LLM provider not available, using first registered",
			"requested", s.cfg.LLM.DefaultProvider, "error", err)
		return registry.SetDefault("auto")
	}
	return nil
}

// Service returns the assembled mentor service
func (s *Server) Service() *mentor.Service {
	return s.service
}

// Handler returns the HTTP handler with middleware applied
func (s *Server) Handler() http.Handler {
	return s.router
}

// Providers lists the registered LLM providers
func (s *Server) Providers() []string {
	return s.llmRegistry.List()
}

// Start begins listening. It blocks until the server stops.
func (s *Server) Start() error {
	s.logger.Info("starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown stops accepting requests and releases resources
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")
	err := s.server.Shutdown(ctx)
	return errors.Join(err, s.Close())
}

// Close releases stores, broker connections and providers in reverse
// order of acquisition
func (s *Server) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

