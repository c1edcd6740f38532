package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/mcoot/drivecreds/internal/dependencies/hasher"
	"github.com/mcoot/drivecreds/internal/model"
	"github.com/mcoot/drivecreds/internal/storage"
)

// Errors
var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameExists     = errors.New("username already exists")
	ErrPasswordTooLong    = errors.New("password too long")
)

// dummyPassword is hashed once and compared against when a username has no
// record, so a missing user costs as much as a wrong password
const dummyPassword = "drivecreds-dummy-password"

// Registration is the result of a successful Register call
type Registration struct {
	Username    model.CanonicalUsername
	DisplayName string
}

// Service registers and verifies username/password credentials.
// It issues no sessions; callers get the canonical username or an error.
type Service struct {
	storage storage.Storage
	hasher  hasher.Hasher
	logger  *slog.Logger

	dummyOnce sync.Once
	dummyHash string
}

// New creates a new auth Service
func New(storage storage.Storage, hasher hasher.Hasher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Service{
		storage: storage,
		hasher:  hasher,
		logger:  logger,
	}
}

// Register creates a credential for rawUsername. displayName is echoed back
// but never stored or used as part of the key.
func (s *Service) Register(ctx context.Context, rawUsername, displayName, password string) (*Registration, error) {
	displayName = strings.TrimSpace(displayName)
	if rawUsername == "" || displayName == "" || password == "" {
		return nil, ErrMissingFields
	}

	username, err := model.Canonicalize(rawUsername)
	if err != nil {
		return nil, err
	}

	// Cheap pre-check so duplicates don't pay for a hash. The store's
	// create-if-absent below is what actually guarantees uniqueness.
	exists, err := s.storage.Exists(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("check existing credential: %w", err)
	}
	if exists {
		return nil, ErrUsernameExists
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, hasher.ErrPasswordTooLong) {
			return nil, ErrPasswordTooLong
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	err = s.storage.CreateIfAbsent(ctx, &model.Credential{
		Username:     username,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, model.ErrCredentialExists) {
			return nil, ErrUsernameExists
		}
		return nil, fmt.Errorf("store credential: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered", slog.String("username", string(username)))

	return &Registration{
		Username:    username,
		DisplayName: displayName,
	}, nil
}

// Verify checks password against the credential stored for rawUsername.
// A malformed username, an unknown username and a wrong password all
// return ErrInvalidCredentials.
func (s *Service) Verify(ctx context.Context, rawUsername, password string) (model.CanonicalUsername, error) {
	if rawUsername == "" || password == "" {
		return "", ErrMissingFields
	}

	username, err := model.Canonicalize(rawUsername)
	if err != nil {
		s.burnCompare(password)
		s.logger.InfoContext(ctx, "login rejected", slog.String("reason", "invalid_username"))
		return "", ErrInvalidCredentials
	}

	cred, err := s.storage.Get(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrCredentialNotFound) {
			s.burnCompare(password)
			s.logger.InfoContext(ctx, "login rejected",
				slog.String("username", string(username)),
				slog.String("reason", "unknown_user"),
			)
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("load credential: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := s.hasher.Compare(cred.PasswordHash, password); err != nil {
		if errors.Is(err, hasher.ErrMismatch) {
			s.logger.InfoContext(ctx, "login rejected",
				slog.String("username", string(username)),
				slog.String("reason", "wrong_password"),
			)
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("compare password: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in", slog.String("username", string(username)))
	return username, nil
}

// burnCompare runs one comparison against a throwaway hash and discards the result
func (s *Service) burnCompare(password string) {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash(dummyPassword)
		if err != nil {
			s.logger.Warn("could not prepare dummy hash", slog.String("error", err.Error()))
			return
		}
		s.dummyHash = hash
	})
	if s.dummyHash != "" {
		_ = s.hasher.Compare(s.dummyHash, password)
	}
}
