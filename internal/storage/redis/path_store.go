// Package redis keeps learning paths in Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/codementor/internal/domain"
	"github.com/felixgeelhaar/codementor/internal/mentor"
)

const keyPrefix = "codementor:path:"

var _ mentor.PathStore = (*PathStore)(nil)

// PathStore stores each user's learning path as a JSON document.
type PathStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPathStore creates a path store. A zero ttl keeps paths forever.
func NewPathStore(client *redis.Client, ttl time.Duration) *PathStore {
	return &PathStore{client: client, ttl: ttl}
}

// Connect parses a redis:// URL and verifies the server with a ping.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Save writes the path, replacing any previous one.
func (s *PathStore) Save(ctx context.Context, p *domain.LearningPath) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal path: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+p.UserID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save path: %w", err)
	}
	return nil
}

// Get reads the user's path.
func (s *PathStore) Get(ctx context.Context, userID string) (*domain.LearningPath, error) {
	data, err := s.client.Get(ctx, keyPrefix+userID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrPathNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load path: %w", err)
	}

	var p domain.LearningPath
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshal path: %w", err)
	}
	return &p, nil
}
