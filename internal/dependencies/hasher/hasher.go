package hasher

import (
	"errors"
	"fmt"
)

// Scheme names accepted in configuration
const (
	SchemeBcrypt      = "bcrypt"
	SchemeSHA512Crypt = "sha512crypt"
)

// Errors
var (
	ErrMismatch          = errors.New("password does not match hash")
	ErrPasswordTooLong   = errors.New("password too long")
	ErrUnsupportedHash   = errors.New("unsupported password hash format")
	ErrUnsupportedScheme = errors.New("unsupported hash scheme")
)

// Hasher produces and checks salted, self-describing password hashes.
// Both operations are deliberately slow.
type Hasher interface {
	// Hash returns a salted hash of password with the salt embedded in it
	Hash(password string) (string, error)

	// Compare returns nil when password matches hash and ErrMismatch when it does not
	Compare(hash, password string) error
}

// Scheme is a Hasher that can recognize its own output
type Scheme interface {
	Hasher
	Name() string
	Recognizes(hash string) bool
}

// Config selects and tunes the hashing scheme
type Config struct {
	Scheme       string `yaml:"scheme"`
	BcryptCost   int    `yaml:"bcrypt_cost"`
	SHA512Rounds int    `yaml:"sha512_rounds"`
}

// DefaultConfig returns the reference configuration (bcrypt, cost 10)
func DefaultConfig() Config {
	return Config{
		Scheme:       SchemeBcrypt,
		BcryptCost:   DefaultBcryptCost,
		SHA512Rounds: DefaultSHA512Rounds,
	}
}

// New builds a Multi that hashes with the configured scheme and verifies
// hashes produced by any supported scheme
func New(cfg Config) (*Multi, error) {
	bc, err := NewBcrypt(cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	sc, err := NewSHA512Crypt(cfg.SHA512Rounds)
	if err != nil {
		return nil, err
	}

	switch cfg.Scheme {
	case "", SchemeBcrypt:
		return NewMulti(bc, sc), nil
	case SchemeSHA512Crypt:
		return NewMulti(sc, bc), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, cfg.Scheme)
	}
}
