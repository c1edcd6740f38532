package redis

import (
	"fmt"

	"github.com/mcoot/drivecreds/internal/model"
)

// Key prefix used when none is configured
const defaultKeyPrefix = "drivecreds"

// credentialKey returns the Redis key holding the hash for username
func credentialKey(prefix string, username model.CanonicalUsername) string {
	return fmt.Sprintf("%s:credential:%s", prefix, username)
}
