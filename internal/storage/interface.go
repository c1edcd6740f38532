package storage

import (
	"context"

	"github.com/mcoot/drivecreds/internal/model"
)

// Storage defines the credential store. It exclusively owns the mapping from
// canonical username to password hash.
type Storage interface {
	// Exists reports whether a credential is stored for username
	Exists(ctx context.Context, username model.CanonicalUsername) (bool, error)

	// CreateIfAbsent stores cred in one indivisible step. It returns
	// model.ErrCredentialExists if a credential is already stored for the
	// username and never overwrites it.
	CreateIfAbsent(ctx context.Context, cred *model.Credential) error

	// Get returns the stored credential or model.ErrCredentialNotFound
	Get(ctx context.Context, username model.CanonicalUsername) (*model.Credential, error)

	// Close releases any underlying connections
	Close() error
}
