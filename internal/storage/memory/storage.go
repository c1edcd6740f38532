package memory

import (
	"context"
	"sync"

	"github.com/mcoot/drivecreds/internal/model"
	"github.com/mcoot/drivecreds/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu          sync.RWMutex
	credentials map[model.CanonicalUsername]string
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		credentials: make(map[model.CanonicalUsername]string),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) Exists(ctx context.Context, username model.CanonicalUsername) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.credentials[username]
	return ok, nil
}

func (s *Storage) CreateIfAbsent(ctx context.Context, cred *model.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.credentials[cred.Username]; ok {
		return model.ErrCredentialExists
	}
	s.credentials[cred.Username] = cred.PasswordHash
	return nil
}

func (s *Storage) Get(ctx context.Context, username model.CanonicalUsername) (*model.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	hash, ok := s.credentials[username]
	if !ok {
		return nil, model.ErrCredentialNotFound
	}
	return &model.Credential{Username: username, PasswordHash: hash}, nil
}

// Count returns the number of stored credentials
func (s *Storage) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.credentials)
}

func (s *Storage) Close() error {
	return nil
}
