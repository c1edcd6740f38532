package factory

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/drivecreds/internal/dependencies/hasher"
	"github.com/mcoot/drivecreds/internal/services/auth"
	"github.com/mcoot/drivecreds/internal/storage"
	"github.com/mcoot/drivecreds/internal/storage/file"
	"github.com/mcoot/drivecreds/internal/storage/memory"
	"github.com/mcoot/drivecreds/internal/storage/postgres"
	redisstorage "github.com/mcoot/drivecreds/internal/storage/redis"
	"github.com/mcoot/drivecreds/internal/storage/s3store"
)

// Storage type constants
const (
	StorageTypeMemory   = "memory"
	StorageTypeFile     = "file"
	StorageTypeRedis    = "redis"
	StorageTypePostgres = "postgres"
	StorageTypeS3       = "s3"
)

// App contains all wired application components
type App struct {
	Storage     storage.Storage
	Hasher      hasher.Hasher
	AuthService *auth.Service
}

// Close releases the storage backend
func (a *App) Close() error {
	return a.Storage.Close()
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend
	// If empty, defaults to "memory"
	StorageType string

	// Backend settings; only the one matching StorageType is used
	File     file.Config
	Redis    redisstorage.Config
	Postgres postgres.Config
	S3       s3store.Config

	// Hasher selects the password hashing scheme
	// If the scheme is empty, hasher.DefaultConfig() is used
	Hasher hasher.Config
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := newStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	hashCfg := cfg.Hasher
	if hashCfg.Scheme == "" {
		hashCfg = hasher.DefaultConfig()
	}
	h, err := hasher.New(hashCfg)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	logger.Info("application wired",
		slog.String("storage", storageTypeOrDefault(cfg.StorageType)),
		slog.String("hash_scheme", h.Primary()),
	)

	return newWithDependencies(store, h, logger), nil
}

func newStorage(ctx context.Context, cfg Config, logger *slog.Logger) (storage.Storage, error) {
	switch storageTypeOrDefault(cfg.StorageType) {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeFile:
		fileCfg := cfg.File
		if fileCfg.Dir == "" {
			fileCfg = file.DefaultConfig()
		}
		return file.New(fileCfg, logger)
	case StorageTypeRedis:
		if cfg.Redis.URL == "" {
			return nil, fmt.Errorf("redis url required when storage type is %s", StorageTypeRedis)
		}
		return redisstorage.New(cfg.Redis)
	case StorageTypePostgres:
		if cfg.Postgres.DSN == "" {
			return nil, fmt.Errorf("postgres dsn required when storage type is %s", StorageTypePostgres)
		}
		return postgres.New(ctx, cfg.Postgres)
	case StorageTypeS3:
		if cfg.S3.Bucket == "" {
			return nil, fmt.Errorf("s3 bucket required when storage type is %s", StorageTypeS3)
		}
		return s3store.New(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("invalid storage type %q: must be memory, file, redis, postgres or s3", cfg.StorageType)
	}
}

func storageTypeOrDefault(t string) string {
	if t == "" {
		return StorageTypeMemory
	}
	return t
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, h hasher.Hasher, logger *slog.Logger) *App {
	return &App{
		Storage:     store,
		Hasher:      h,
		AuthService: auth.New(store, h, logger),
	}
}
