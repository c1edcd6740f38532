package hasher

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type HasherSuite struct {
	suite.Suite
	bcrypt *Bcrypt
	sha512 *SHA512Crypt
}

func TestHasherSuite(t *testing.T) {
	suite.Run(t, new(HasherSuite))
}

func (s *HasherSuite) SetupTest() {
	var err error
	s.bcrypt, err = NewBcrypt(bcrypt.MinCost)
	s.Require().NoError(err)
	s.sha512, err = NewSHA512Crypt(1000)
	s.Require().NoError(err)
}

// Bcrypt tests

func (s *HasherSuite) TestBcryptRoundTrip() {
	hash, err := s.bcrypt.Hash("secret123")
	s.Require().NoError(err)

	s.NotContains(hash, "secret123")
	s.True(s.bcrypt.Recognizes(hash))
	s.NoError(s.bcrypt.Compare(hash, "secret123"))
	s.ErrorIs(s.bcrypt.Compare(hash, "wrongpass"), ErrMismatch)
}

func (s *HasherSuite) TestBcryptSaltsEachHash() {
	h1, _ := s.bcrypt.Hash("secret123")
	h2, _ := s.bcrypt.Hash("secret123")
	s.NotEqual(h1, h2)
}

func (s *HasherSuite) TestBcryptEmbedsCost() {
	hash, err := s.bcrypt.Hash("secret123")
	s.Require().NoError(err)

	cost, err := bcrypt.Cost([]byte(hash))
	s.Require().NoError(err)
	s.Equal(bcrypt.MinCost, cost)
}

func (s *HasherSuite) TestBcryptRejectsLongPassword() {
	_, err := s.bcrypt.Hash(strings.Repeat("p", 73))
	s.ErrorIs(err, ErrPasswordTooLong)
}

func (s *HasherSuite) TestBcryptMalformedHashIsNotMismatch() {
	err := s.bcrypt.Compare("$2a$short", "secret123")
	s.Error(err)
	s.NotErrorIs(err, ErrMismatch)
}

func (s *HasherSuite) TestBcryptDefaultCost() {
	b, err := NewBcrypt(0)
	s.Require().NoError(err)
	s.Equal(DefaultBcryptCost, b.cost)
}

func (s *HasherSuite) TestBcryptCostOutOfRange() {
	_, err := NewBcrypt(bcrypt.MaxCost + 1)
	s.Error(err)
}

// SHA512Crypt tests

func (s *HasherSuite) TestSHA512CryptRoundTrip() {
	hash, err := s.sha512.Hash("secret123")
	s.Require().NoError(err)

	s.True(strings.HasPrefix(hash, "$6$"))
	s.Contains(hash, "rounds=1000")
	s.NoError(s.sha512.Compare(hash, "secret123"))
	s.ErrorIs(s.sha512.Compare(hash, "wrongpass"), ErrMismatch)
}

func (s *HasherSuite) TestSHA512CryptSaltsEachHash() {
	h1, err := s.sha512.Hash("secret123")
	s.Require().NoError(err)
	h2, err := s.sha512.Hash("secret123")
	s.Require().NoError(err)

	s.NotEqual(h1, h2)
	s.NoError(s.sha512.Compare(h1, "secret123"))
	s.NoError(s.sha512.Compare(h2, "secret123"))
}

func (s *HasherSuite) TestSHA512CryptRoundsOutOfRange() {
	_, err := NewSHA512Crypt(10)
	s.Error(err)
}

// Multi tests

func (s *HasherSuite) TestMultiHashesWithPrimary() {
	m := NewMulti(s.sha512, s.bcrypt)
	hash, err := m.Hash("secret123")
	s.Require().NoError(err)
	s.True(s.sha512.Recognizes(hash))
	s.Equal(SchemeSHA512Crypt, m.Primary())
}

func (s *HasherSuite) TestMultiVerifiesEitherScheme() {
	m := NewMulti(s.sha512, s.bcrypt)

	bh, _ := s.bcrypt.Hash("secret123")
	sh, _ := s.sha512.Hash("secret123")

	s.NoError(m.Compare(bh, "secret123"))
	s.NoError(m.Compare(sh, "secret123"))
	s.ErrorIs(m.Compare(bh, "nope"), ErrMismatch)
	s.ErrorIs(m.Compare(sh, "nope"), ErrMismatch)
}

func (s *HasherSuite) TestMultiUnknownHash() {
	m := NewMulti(s.bcrypt)
	s.ErrorIs(m.Compare("plaintext", "plaintext"), ErrUnsupportedHash)
}

// New tests

func (s *HasherSuite) TestNewDefaultsToBcrypt() {
	m, err := New(Config{BcryptCost: bcrypt.MinCost, SHA512Rounds: 1000})
	s.Require().NoError(err)
	s.Equal(SchemeBcrypt, m.Primary())
}

func (s *HasherSuite) TestNewSHA512Crypt() {
	m, err := New(Config{Scheme: SchemeSHA512Crypt, BcryptCost: bcrypt.MinCost, SHA512Rounds: 1000})
	s.Require().NoError(err)
	s.Equal(SchemeSHA512Crypt, m.Primary())
}

func (s *HasherSuite) TestNewUnknownScheme() {
	_, err := New(Config{Scheme: "md5"})
	s.ErrorIs(err, ErrUnsupportedScheme)
}
