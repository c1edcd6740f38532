package hasher

import (
	"errors"
	"fmt"
	"strings"

	"github.com/GehirnInc/crypt"
	"github.com/GehirnInc/crypt/common"
	"github.com/GehirnInc/crypt/sha512_crypt"
)

// DefaultSHA512Rounds is well above the crypt(3) default of 5000
const DefaultSHA512Rounds = 100000

var sha512Salt = common.Salt{
	MagicPrefix:   []byte(sha512_crypt.MagicPrefix),
	SaltLenMin:    sha512_crypt.SaltLenMin,
	SaltLenMax:    sha512_crypt.SaltLenMax,
	RoundsDefault: sha512_crypt.RoundsDefault,
	RoundsMin:     sha512_crypt.RoundsMin,
	RoundsMax:     sha512_crypt.RoundsMax,
}

// SHA512Crypt hashes passwords with crypt(3) sha512-crypt ($6$)
type SHA512Crypt struct {
	rounds int
}

var _ Scheme = (*SHA512Crypt)(nil)

// NewSHA512Crypt creates a sha512-crypt scheme. Zero rounds selects DefaultSHA512Rounds.
func NewSHA512Crypt(rounds int) (*SHA512Crypt, error) {
	if rounds == 0 {
		rounds = DefaultSHA512Rounds
	}
	if rounds < sha512_crypt.RoundsMin || rounds > sha512_crypt.RoundsMax {
		return nil, fmt.Errorf("sha512-crypt rounds %d out of range [%d, %d]",
			rounds, sha512_crypt.RoundsMin, sha512_crypt.RoundsMax)
	}
	return &SHA512Crypt{rounds: rounds}, nil
}

func (s *SHA512Crypt) Name() string {
	return SchemeSHA512Crypt
}

func (s *SHA512Crypt) Recognizes(hash string) bool {
	return strings.HasPrefix(hash, sha512_crypt.MagicPrefix)
}

func (s *SHA512Crypt) Hash(password string) (string, error) {
	hash, err := sha512_crypt.New().Generate(
		[]byte(password),
		sha512Salt.GenerateWRounds(sha512_crypt.SaltLenMax, s.rounds),
	)
	if err != nil {
		return "", fmt.Errorf("sha512-crypt: %w", err)
	}
	return hash, nil
}

func (s *SHA512Crypt) Compare(hash, password string) error {
	err := sha512_crypt.New().Verify(hash, []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, crypt.ErrKeyMismatch):
		return ErrMismatch
	default:
		return fmt.Errorf("sha512-crypt: %w", err)
	}
}
