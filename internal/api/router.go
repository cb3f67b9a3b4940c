// Package api serves the mentor over HTTP.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/codementor/internal/api/middleware"
	"github.com/felixgeelhaar/codementor/internal/domain"
	"github.com/felixgeelhaar/codementor/internal/mentor"
)

const maxBodyBytes = 1 << 20

type contextKey string

const contextKeyUser contextKey = "user"

// Config holds router settings
type Config struct {
	AppName string
	Version string
	// Debug disables rate limiting
	Debug     bool
	RateLimit middleware.RateLimitConfig
	// Ready reports storage readiness for /ready
	Ready  func(ctx context.Context) error
	Logger *slog.Logger
}

// Router wraps the HTTP multiplexer with middleware and handlers
type Router struct {
	mux     *http.ServeMux
	handler http.Handler
	svc     *mentor.Service
	cfg     Config
	logger  *slog.Logger
	limiter *middleware.RateLimiter
}

// NewRouter creates a router with all routes and middleware configured
func NewRouter(svc *mentor.Service, cfg Config) *Router {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.AppName == "" {
		cfg.AppName = "CodeMentor"
	}
	r := &Router{
		mux:    http.NewServeMux(),
		svc:    svc,
		cfg:    cfg,
		logger: cfg.Logger,
	}

	r.registerRoutes()
	r.handler = r.buildMiddlewareChain(r.mux)
	return r
}

// ServeHTTP implements http.Handler
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

// Close releases the rate limiter
func (r *Router) Close() error {
	if r.limiter != nil {
		return r.limiter.Close()
	}
	return nil
}

func (r *Router) registerRoutes() {
	r.mux.HandleFunc("GET /{$}", r.handleRoot)
	r.mux.HandleFunc("GET /health", r.handleHealth)
	r.mux.HandleFunc("GET /ready", r.handleReady)

	// Users
	r.mux.HandleFunc("POST /api/v1/users", r.handleCreateUser)
	r.mux.HandleFunc("GET /api/v1/users/me", r.requireUser(r.handleGetMe))
	r.mux.HandleFunc("PUT /api/v1/users/me", r.requireUser(r.handleUpdateMe))

	// Code analysis
	r.mux.HandleFunc("POST /api/v1/code/analyze", r.requireUser(r.handleAnalyze))
	r.mux.HandleFunc("GET /api/v1/code/sessions", r.requireUser(r.handleListSessions))
	r.mux.HandleFunc("GET /api/v1/code/sessions/{id}", r.requireUser(r.handleGetSession))
	r.mux.HandleFunc("GET /api/v1/code/stats", r.requireUser(r.handleStats))

	// Curriculum
	r.mux.HandleFunc("GET /api/v1/topics", r.handleListTopics)
	r.mux.HandleFunc("GET /api/v1/topics/{id}", r.handleGetTopic)
	r.mux.HandleFunc("POST /api/v1/paths", r.requireUser(r.handleGeneratePath))
	r.mux.HandleFunc("GET /api/v1/paths/current", r.requireUser(r.handleCurrentPath))
	r.mux.HandleFunc("GET /api/v1/paths/current/next", r.requireUser(r.handleNextTopic))
	r.mux.HandleFunc("POST /api/v1/paths/current/progress", r.requireUser(r.handleRecordProgress))
}

func (r *Router) buildMiddlewareChain(handler http.Handler) http.Handler {
	// Last applied runs first
	handler = middleware.Recovery(r.logger)(handler)
	handler = middleware.Logger(r.logger)(handler)

	if !r.cfg.Debug {
		rl := r.cfg.RateLimit
		if rl.RequestsPerMinute == 0 {
			rl = middleware.DefaultRateLimitConfig()
		}
		rl.Logger = r.logger
		r.limiter = middleware.NewRateLimiter(rl)
		handler = r.limiter.Middleware(handler)
	}

	handler = middleware.RequestID(handler)
	handler = middleware.CORS(handler)
	return handler
}

// requireUser resolves the X-User-ID header to a stored profile
func (r *Router) requireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		raw := strings.TrimSpace(req.Header.Get("X-User-ID"))
		if raw == "" {
			r.writeError(w, req, http.StatusUnauthorized, ErrUnauthorizedWith("X-User-ID header required"))
			return
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			r.writeError(w, req, http.StatusBadRequest, ErrBadRequestWith("X-User-ID must be a UUID"))
			return
		}

		user, err := r.svc.GetUser(req.Context(), id)
		if err != nil {
			r.fail(w, req, err)
			return
		}

		ctx := context.WithValue(req.Context(), contextKeyUser, user)
		next(w, req.WithContext(ctx))
	}
}

func userFrom(ctx context.Context) *domain.UserProfile {
	u, _ := ctx.Value(contextKeyUser).(*domain.UserProfile)
	return u
}

func (r *Router) handleRoot(w http.ResponseWriter, req *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Welcome to " + r.cfg.AppName,
		"version": r.cfg.Version,
		"status":  "running",
	})
}

func (r *Router) handleHealth(w http.ResponseWriter, req *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (r *Router) handleReady(w http.ResponseWriter, req *http.Request) {
	if r.cfg.Ready != nil {
		if err := r.cfg.Ready(req.Context()); err != nil {
			r.logger.Error("database health check failed",
				"error", err,
				"request_id", middleware.GetRequestID(req.Context()),
			)
			WriteJSON(w, http.StatusServiceUnavailable, map[string]any{
				"status": "not ready",
				"checks": map[string]string{"database": "unhealthy"},
			})
			return
		}
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
		"checks": map[string]string{"database": "healthy"},
	})
}

// decode reads a size-limited JSON body into v
func decode(w http.ResponseWriter, req *http.Request, v any) error {
	body := http.MaxBytesReader(w, req.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return ErrBadRequestWith(fmt.Sprintf("invalid request body: %v", err))
	}
	return nil
}

func (r *Router) writeError(w http.ResponseWriter, req *http.Request, status int, apiErr *APIError) {
	WriteError(r.logger, w, req, status, apiErr)
}

// fail maps err and writes it
func (r *Router) fail(w http.ResponseWriter, req *http.Request, err error) {
	status, apiErr := FromError(err)
	r.writeError(w, req, status, apiErr)
}
