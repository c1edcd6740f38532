package factory

import (
	"github.com/mcoot/drivecreds/internal/dependencies/mocks"
	"github.com/mcoot/drivecreds/internal/storage/memory"
	"github.com/mcoot/drivecreds/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Direct handles for assertions
	Memory     *memory.Storage
	MockHasher *mocks.MockHasher
}

// NewTestApp creates an App backed by in-memory storage and a mock hasher
func NewTestApp() *TestApp {
	store := memory.New()
	mockHasher := mocks.NewMockHasher()

	app := newWithDependencies(store, mockHasher, testutil.NopLogger())

	return &TestApp{
		App:        app,
		Memory:     store,
		MockHasher: mockHasher,
	}
}
