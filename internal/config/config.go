// Package config loads server settings from defaults, an optional YAML file,
// an optional .env file and the environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mcoot/drivecreds/internal/api"
	"github.com/mcoot/drivecreds/internal/dependencies/hasher"
	"github.com/mcoot/drivecreds/internal/factory"
	"github.com/mcoot/drivecreds/internal/storage/file"
	"github.com/mcoot/drivecreds/internal/storage/postgres"
	redisstorage "github.com/mcoot/drivecreds/internal/storage/redis"
	"github.com/mcoot/drivecreds/internal/storage/s3store"
)

// ConfigPathEnv names a YAML config file when no path is given explicitly
const ConfigPathEnv = "DRIVECREDS_CONFIG"

// DefaultEnvFile is read if present; a missing file is not an error
const DefaultEnvFile = ".env"

// Config is the complete server configuration
type Config struct {
	Server  api.ServerConfig `yaml:"server"`
	Log     LogConfig        `yaml:"log"`
	Storage StorageConfig    `yaml:"storage"`
	Hasher  hasher.Config    `yaml:"hasher"`
}

// LogConfig controls the process logger
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level"`
	// Format is json or text
	Format string `yaml:"format"`
}

// StorageConfig selects a credential backend and holds settings for each
type StorageConfig struct {
	Type     string              `yaml:"type"`
	File     file.Config         `yaml:"file"`
	Redis    redisstorage.Config `yaml:"redis"`
	Postgres postgres.Config     `yaml:"postgres"`
	S3       s3store.Config      `yaml:"s3"`
}

// Default returns the configuration used when nothing overrides it
func Default() Config {
	return Config{
		Server: api.DefaultServerConfig(),
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Storage: StorageConfig{
			Type:     factory.StorageTypeFile,
			File:     file.DefaultConfig(),
			Redis:    redisstorage.DefaultConfig(),
			Postgres: postgres.DefaultConfig(),
			S3:       s3store.DefaultConfig(),
		},
		Hasher: hasher.DefaultConfig(),
	}
}

// LoadOptions controls where Load looks for settings
type LoadOptions struct {
	// Path is a YAML file; falls back to $DRIVECREDS_CONFIG. Empty means none.
	Path string
	// EnvFile is a dotenv file; defaults to DefaultEnvFile
	EnvFile string
	// LookupEnv defaults to os.LookupEnv
	LookupEnv func(string) (string, bool)
}

// Load builds a validated Config
func Load(opts LoadOptions) (Config, error) {
	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	dotenv, err := readEnvFile(envFile)
	if err != nil {
		return Config{}, err
	}
	env := layeredEnv{lookup: lookup, fallback: dotenv}

	cfg := Default()

	path := opts.Path
	if path == "" {
		path, _ = env.get(ConfigPathEnv)
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(env); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// Validate reports the first invalid setting
func (c Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if _, err := c.Log.level(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format %q: must be json or text", c.Log.Format)
	}

	switch c.Storage.Type {
	case factory.StorageTypeMemory, factory.StorageTypeFile:
	case factory.StorageTypeRedis:
		if c.Storage.Redis.URL == "" {
			return errors.New("storage.redis.url required when storage type is redis")
		}
	case factory.StorageTypePostgres:
		if c.Storage.Postgres.DSN == "" {
			return errors.New("storage.postgres.dsn required when storage type is postgres")
		}
	case factory.StorageTypeS3:
		if c.Storage.S3.Bucket == "" {
			return errors.New("storage.s3.bucket required when storage type is s3")
		}
	default:
		return fmt.Errorf("invalid storage type %q", c.Storage.Type)
	}

	switch c.Hasher.Scheme {
	case hasher.SchemeBcrypt, hasher.SchemeSHA512Crypt:
	default:
		return fmt.Errorf("%w: %q", hasher.ErrUnsupportedScheme, c.Hasher.Scheme)
	}
	return nil
}

// FactoryConfig converts the storage and hasher settings for factory.New
func (c Config) FactoryConfig(logger *slog.Logger) factory.Config {
	return factory.Config{
		Logger:      logger,
		StorageType: c.Storage.Type,
		File:        c.Storage.File,
		Redis:       c.Storage.Redis,
		Postgres:    c.Storage.Postgres,
		S3:          c.Storage.S3,
		Hasher:      c.Hasher,
	}
}

// NewLogger builds the process logger writing to w
func (c LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level, err := c.level()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func (c LogConfig) level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.Level))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", c.Level)
	}
	return level, nil
}
