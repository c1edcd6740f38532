package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/drivecreds/internal/model"
	"github.com/mcoot/drivecreds/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Each credential is a plain string key with no TTL.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = defaultKeyPrefix
	}
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) key(username model.CanonicalUsername) string {
	return credentialKey(s.cfg.KeyPrefix, username)
}

func (s *Storage) Exists(ctx context.Context, username model.CanonicalUsername) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(username)).Result()
	if err != nil {
		return false, fmt.Errorf("redis storage: %w", err)
	}
	return n > 0, nil
}

// CreateIfAbsent relies on SETNX, so concurrent registrations of the same
// username resolve to exactly one writer
func (s *Storage) CreateIfAbsent(ctx context.Context, cred *model.Credential) error {
	ok, err := s.client.SetNX(ctx, s.key(cred.Username), cred.PasswordHash, 0).Result()
	if err != nil {
		return fmt.Errorf("redis storage: %w", err)
	}
	if !ok {
		return model.ErrCredentialExists
	}
	return nil
}

func (s *Storage) Get(ctx context.Context, username model.CanonicalUsername) (*model.Credential, error) {
	hash, err := s.client.Get(ctx, s.key(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrCredentialNotFound
		}
		return nil, fmt.Errorf("redis storage: %w", err)
	}
	return &model.Credential{Username: username, PasswordHash: hash}, nil
}
