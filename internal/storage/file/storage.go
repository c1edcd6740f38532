package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mcoot/drivecreds/internal/model"
	"github.com/mcoot/drivecreds/internal/storage"
)

// hashSuffix is the extension of each per-user record file
const hashSuffix = ".hash"

// Storage keeps one "<username>.hash" file per credential. Each file holds the
// hash followed by a newline and nothing else.
type Storage struct {
	dir    string
	cfg    Config
	logger *slog.Logger
}

// New creates a file storage rooted at cfg.Dir, creating the directory if needed
func New(cfg Config, logger *slog.Logger) (*Storage, error) {
	if cfg.Dir == "" {
		return nil, errors.New("file storage: directory is required")
	}
	if cfg.FileMode == 0 {
		cfg.FileMode = DefaultConfig().FileMode
	}
	if cfg.DirMode == 0 {
		cfg.DirMode = DefaultConfig().DirMode
	}
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	if err := os.MkdirAll(cfg.Dir, cfg.DirMode); err != nil {
		return nil, fmt.Errorf("file storage: create %s: %w", cfg.Dir, err)
	}

	return &Storage{
		dir:    cfg.Dir,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// path returns the record file for username. Canonical usernames cannot
// contain path separators, so the result always stays inside dir.
func (s *Storage) path(username model.CanonicalUsername) string {
	return filepath.Join(s.dir, string(username)+hashSuffix)
}

func (s *Storage) Exists(ctx context.Context, username model.CanonicalUsername) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, err := os.Stat(s.path(username))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("file storage: %w", err)
}

func (s *Storage) CreateIfAbsent(ctx context.Context, cred *model.Credential) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := writeFileExclusive(s.path(cred.Username), []byte(cred.PasswordHash+"\n"), s.cfg.FileMode, s.logger)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return model.ErrCredentialExists
		}
		return fmt.Errorf("file storage: %w", err)
	}
	return nil
}

func (s *Storage) Get(ctx context.Context, username model.CanonicalUsername) (*model.Credential, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(username))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, model.ErrCredentialNotFound
		}
		return nil, fmt.Errorf("file storage: %w", err)
	}

	hash := strings.TrimSpace(string(data))
	if hash == "" {
		return nil, fmt.Errorf("file storage: empty record for %q", username)
	}
	return &model.Credential{Username: username, PasswordHash: hash}, nil
}

func (s *Storage) Close() error {
	return nil
}
