package mocks

import (
	"strings"
	"sync"

	"github.com/mcoot/drivecreds/internal/dependencies/hasher"
)

const mockHashPrefix = "mock$"

// MockHasher is a fast, deterministic Hasher for testing
// Hashes are "mock$" + password, so never use it outside tests
type MockHasher struct {
	mu sync.Mutex

	HashErr    error
	CompareErr error

	HashCalls    int
	CompareCalls int
	Compared     []string
}

// Ensure MockHasher implements Hasher
var _ hasher.Hasher = (*MockHasher)(nil)

// NewMockHasher creates a MockHasher with no injected failures
func NewMockHasher() *MockHasher {
	return &MockHasher{}
}

// Hash returns the mock hash of password, or HashErr if set
func (h *MockHasher) Hash(password string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.HashCalls++
	if h.HashErr != nil {
		return "", h.HashErr
	}
	return mockHashPrefix + password, nil
}

// Compare checks password against a mock hash, or returns CompareErr if set
func (h *MockHasher) Compare(hash, password string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.CompareCalls++
	h.Compared = append(h.Compared, hash)
	if h.CompareErr != nil {
		return h.CompareErr
	}
	if !strings.HasPrefix(hash, mockHashPrefix) {
		return hasher.ErrUnsupportedHash
	}
	if strings.TrimPrefix(hash, mockHashPrefix) != password {
		return hasher.ErrMismatch
	}
	return nil
}
