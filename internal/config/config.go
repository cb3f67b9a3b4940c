// Package config loads service configuration from defaults, an optional
// YAML file, a secrets file and environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the service
type Config struct {
	AppName string        `yaml:"app_name"`
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Events  EventsConfig  `yaml:"events"`
	LLM     LLMConfig     `yaml:"llm"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port     int    `yaml:"port"`
	Bind     string `yaml:"bind"`
	Debug    bool   `yaml:"debug"`
	LogLevel string `yaml:"log_level"`
	// RateLimit applies per client address; debug mode turns it off
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig bounds HTTP requests per client
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute"`
	BurstMultiplier   int `yaml:"burst_multiplier"`
}

// StorageConfig selects and configures the stores
type StorageConfig struct {
	// DatabaseURL selects PostgreSQL when it is a postgres:// URL
	DatabaseURL string `yaml:"database_url"`
	SQLitePath  string `yaml:"sqlite_path"`
	// RedisURL moves learning paths to Redis when set
	RedisURL     string `yaml:"redis_url"`
	PathTTLHours int    `yaml:"path_ttl_hours"`
}

// EventsConfig holds event transport settings
type EventsConfig struct {
	RabbitMQURL string `yaml:"rabbitmq_url"`
}

// LLMConfig holds LLM provider settings
type LLMConfig struct {
	DefaultProvider string                     `yaml:"default_provider"`
	Providers       map[string]*ProviderConfig `yaml:"providers"`
	PathAdvisor     bool                       `yaml:"path_advisor"`
	MaxTokens       int                        `yaml:"max_tokens"`
	Resilience      ResilienceConfig           `yaml:"resilience"`
}

// ProviderConfig holds settings for a single LLM provider
type ProviderConfig struct {
	Enabled bool   `yaml:"enabled"`
	Model   string `yaml:"model"`
	URL     string `yaml:"url,omitempty"`
	APIKey  string `yaml:"-"` // secrets.yaml or environment only
}

// ResilienceConfig tunes the circuit breaker, bulkhead and rate limit
// around every provider
type ResilienceConfig struct {
	MaxConcurrent    int `yaml:"max_concurrent"`
	RatePerSecond    int `yaml:"rate_per_second"`
	FailureThreshold int `yaml:"failure_threshold"`
	OpenTimeoutSecs  int `yaml:"open_timeout_seconds"`
}

// SecretsConfig holds API keys loaded from secrets.yaml
type SecretsConfig struct {
	Providers map[string]struct {
		APIKey string `yaml:"api_key"`
	} `yaml:"providers"`
}

// Provider names
const (
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
)

// Dir returns the path to ~/.codementor
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".codementor"), nil
}

// EnsureDir creates ~/.codementor and its logs directory
func EnsureDir() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Join(dir, "logs"), 0755); err != nil {
		return "", fmt.Errorf("create dir %s: %w", dir, err)
	}
	return dir, nil
}

// Default returns the built-in configuration
func Default() *Config {
	sqlitePath := "codementor.db"
	if dir, err := Dir(); err == nil {
		sqlitePath = filepath.Join(dir, "codementor.db")
	}

	return &Config{
		AppName: "CodeMentor",
		Server: ServerConfig{
			Port:     8000,
			Bind:     "0.0.0.0",
			LogLevel: "info",
			RateLimit: RateLimitConfig{
				RequestsPerMinute: 60,
				BurstMultiplier:   3,
			},
		},
		Storage: StorageConfig{
			SQLitePath: sqlitePath,
		},
		LLM: LLMConfig{
			DefaultProvider: "auto",
			Providers: map[string]*ProviderConfig{
				ProviderOpenAI: {Model: "gpt-4o"},
				ProviderClaude: {Model: "claude-sonnet-4-20250514"},
				ProviderGemini: {Model: "gemini-2.0-flash"},
				ProviderOllama: {Model: "llama3", URL: "http://localhost:11434"},
			},
			MaxTokens: 1024,
			Resilience: ResilienceConfig{
				MaxConcurrent:    5,
				RatePerSecond:    2,
				FailureThreshold: 3,
				OpenTimeoutSecs:  60,
			},
		},
	}
}

// Load builds the configuration. The YAML file is CODEMENTOR_CONFIG when
// set, otherwise ~/.codementor/config.yaml; a missing file is not an error.
func Load() (*Config, error) {
	path := os.Getenv("CODEMENTOR_CONFIG")
	if path == "" {
		if dir, err := Dir(); err == nil {
			path = filepath.Join(dir, "config.yaml")
		}
	}
	return LoadFile(path)
}

// LoadFile builds the configuration from the given YAML file
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
			cfg.fillProviderDefaults()
		}

		if err := loadSecrets(filepath.Join(filepath.Dir(path), "secrets.yaml"), cfg); err != nil {
			return nil, fmt.Errorf("load secrets: %w", err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadSecrets applies API keys from secrets.yaml
func loadSecrets(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read secrets: %w", err)
	}

	var secrets SecretsConfig
	if err := yaml.Unmarshal(data, &secrets); err != nil {
		return fmt.Errorf("parse secrets: %w", err)
	}

	for name, secret := range secrets.Providers {
		if secret.APIKey == "" {
			continue
		}
		p := cfg.provider(name)
		p.APIKey = secret.APIKey
		p.Enabled = true
	}
	return nil
}

// fillProviderDefaults restores default model and URL for providers that a
// YAML file declared only partially
func (c *Config) fillProviderDefaults() {
	for name, def := range Default().LLM.Providers {
		p := c.provider(name)
		if p.Model == "" {
			p.Model = def.Model
		}
		if p.URL == "" {
			p.URL = def.URL
		}
	}
}

func (c *Config) applyEnv() {
	c.AppName = getEnv("APP_NAME", c.AppName)
	c.Server.Port = getEnvInt("PORT", c.Server.Port)
	c.Server.Debug = getEnvBool("DEBUG", c.Server.Debug)
	c.Server.LogLevel = getEnv("LOG_LEVEL", c.Server.LogLevel)
	c.Server.RateLimit.RequestsPerMinute = getEnvInt("RATE_LIMIT_PER_MINUTE", c.Server.RateLimit.RequestsPerMinute)
	c.Storage.DatabaseURL = getEnv("DATABASE_URL", c.Storage.DatabaseURL)
	c.Storage.RedisURL = getEnv("REDIS_URL", c.Storage.RedisURL)
	c.Events.RabbitMQURL = getEnv("RABBITMQ_URL", c.Events.RabbitMQURL)
	c.LLM.DefaultProvider = getEnv("LLM_PROVIDER", c.LLM.DefaultProvider)
	c.LLM.PathAdvisor = getEnvBool("PATH_ADVISOR", c.LLM.PathAdvisor)

	for name, key := range map[string]string{
		ProviderOpenAI: "OPENAI_API_KEY",
		ProviderClaude: "ANTHROPIC_API_KEY",
		ProviderGemini: "GEMINI_API_KEY",
	} {
		if v := os.Getenv(key); v != "" {
			p := c.provider(name)
			p.APIKey = v
			p.Enabled = true
		}
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		c.provider(ProviderOpenAI).Model = v
	}
	if v := os.Getenv("OLLAMA_URL"); v != "" {
		p := c.provider(ProviderOllama)
		p.URL = v
		p.Enabled = true
	}
}

func (c *Config) provider(name string) *ProviderConfig {
	if c.LLM.Providers == nil {
		c.LLM.Providers = make(map[string]*ProviderConfig)
	}
	p, ok := c.LLM.Providers[name]
	if !ok {
		p = &ProviderConfig{}
		c.LLM.Providers[name] = p
	}
	return p
}

// Validate checks value ranges and names
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	if _, err := ParseLogLevel(c.Server.LogLevel); err != nil {
		return err
	}
	if rl := c.Server.RateLimit; rl.RequestsPerMinute <= 0 || rl.BurstMultiplier <= 0 {
		return fmt.Errorf("invalid rate limit %d/min with burst x%d", rl.RequestsPerMinute, rl.BurstMultiplier)
	}
	switch c.LLM.DefaultProvider {
	case "", "auto", ProviderOpenAI, ProviderClaude, ProviderGemini, ProviderOllama:
	default:
		return fmt.Errorf("unknown LLM provider %q", c.LLM.DefaultProvider)
	}
	if c.Storage.DatabaseURL != "" && !c.UsePostgres() && !strings.HasPrefix(c.Storage.DatabaseURL, "sqlite://") {
		return fmt.Errorf("unsupported database url scheme in %q", c.Storage.DatabaseURL)
	}
	return nil
}

// UsePostgres reports whether DatabaseURL points at PostgreSQL
func (c *Config) UsePostgres() bool {
	u := c.Storage.DatabaseURL
	return strings.HasPrefix(u, "postgres://") || strings.HasPrefix(u, "postgresql://")
}

// SQLiteFile returns the SQLite database path, honouring a sqlite:// URL
func (c *Config) SQLiteFile() string {
	if rest, ok := strings.CutPrefix(c.Storage.DatabaseURL, "sqlite://"); ok && rest != "" {
		return rest
	}
	return c.Storage.SQLitePath
}

// EnabledProviders returns the names of enabled providers in a stable order
func (c *Config) EnabledProviders() []string {
	var names []string
	for _, name := range []string{ProviderClaude, ProviderOpenAI, ProviderGemini, ProviderOllama} {
		if p, ok := c.LLM.Providers[name]; ok && p.Enabled {
			names = append(names, name)
		}
	}
	return names
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}

// ParseLogLevel converts a level name to a slog level
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
