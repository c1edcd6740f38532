package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/drivecreds/internal/dependencies/hasher"
	"github.com/mcoot/drivecreds/internal/dependencies/mocks"
	"github.com/mcoot/drivecreds/internal/model"
	"github.com/mcoot/drivecreds/internal/storage/memory"
	"github.com/mcoot/drivecreds/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	hasher  *mocks.MockHasher
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.hasher = mocks.NewMockHasher()
	s.service = New(s.storage, s.hasher, testutil.NopLogger())
	s.ctx = context.Background()
}

// Register tests

func (s *ServiceSuite) TestRegisterSucceeds() {
	reg, err := s.service.Register(s.ctx, "alice", "Alice", "secret123")
	s.Require().NoError(err)

	s.Equal(model.CanonicalUsername("alice"), reg.Username)
	s.Equal("Alice", reg.DisplayName)
}

func (s *ServiceSuite) TestRegisterCanonicalizesUsername() {
	reg, err := s.service.Register(s.ctx, "  Alice ", "Alice", "secret123")
	s.Require().NoError(err)
	s.Equal(model.CanonicalUsername("alice"), reg.Username)

	exists, _ := s.storage.Exists(s.ctx, "alice")
	s.True(exists)
}

func (s *ServiceSuite) TestRegisterStoresOnlyHash() {
	_, _ = s.service.Register(s.ctx, "alice", "Alice", "secret123")

	cred, err := s.storage.Get(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("mock$secret123", cred.PasswordHash)
	s.Equal(1, s.hasher.HashCalls)
}

func (s *ServiceSuite) TestRegisterDuplicateIsConflict() {
	_, err := s.service.Register(s.ctx, "alice", "Alice", "secret123")
	s.Require().NoError(err)

	_, err = s.service.Register(s.ctx, "ALICE", "Alice Again", "different")
	s.ErrorIs(err, ErrUsernameExists)

	// Original record untouched
	cred, _ := s.storage.Get(s.ctx, "alice")
	s.Equal("mock$secret123", cred.PasswordHash)
}

func (s *ServiceSuite) TestRegisterDuplicateSkipsHashing() {
	_, _ = s.service.Register(s.ctx, "alice", "Alice", "secret123")
	_, _ = s.service.Register(s.ctx, "alice", "Alice", "secret123")

	s.Equal(1, s.hasher.HashCalls)
}

func (s *ServiceSuite) TestRegisterMissingFields() {
	cases := [][3]string{
		{"", "Alice", "secret123"},
		{"alice", "", "secret123"},
		{"alice", " \t ", "secret123"},
		{"alice", "Alice", ""},
	}
	for _, c := range cases {
		_, err := s.service.Register(s.ctx, c[0], c[1], c[2])
		s.ErrorIs(err, ErrMissingFields, "%v", c)
	}
	s.Equal(0, s.storage.Count())
}

func (s *ServiceSuite) TestRegisterTrimsDisplayName() {
	reg, err := s.service.Register(s.ctx, "alice", "  Alice  ", "secret123")
	s.Require().NoError(err)
	s.Equal("Alice", reg.DisplayName)
}

func (s *ServiceSuite) TestRegisterInvalidUsername() {
	for _, raw := range []string{"ab", "a b", strings.Repeat("a", 33), "al/ice"} {
		_, err := s.service.Register(s.ctx, raw, "Alice", "secret123")
		s.ErrorIs(err, model.ErrInvalidUsername, raw)
	}
	s.Equal(0, s.storage.Count())
	s.Equal(0, s.hasher.HashCalls)
}

func (s *ServiceSuite) TestRegisterPasswordTooLong() {
	s.hasher.HashErr = hasher.ErrPasswordTooLong

	_, err := s.service.Register(s.ctx, "alice", "Alice", "secret123")
	s.ErrorIs(err, ErrPasswordTooLong)
	s.Equal(0, s.storage.Count())
}

func (s *ServiceSuite) TestRegisterHashFailureIsInternal() {
	s.hasher.HashErr = errors.New("entropy exhausted")

	_, err := s.service.Register(s.ctx, "alice", "Alice", "secret123")
	s.ErrorContains(err, "entropy exhausted")
	s.NotErrorIs(err, ErrUsernameExists)
	s.Equal(0, s.storage.Count())
}

func (s *ServiceSuite) TestRegisterCancelledContext() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	_, err := s.service.Register(ctx, "alice", "Alice", "secret123")
	s.ErrorIs(err, context.Canceled)
	s.Equal(0, s.storage.Count())
}

func (s *ServiceSuite) TestConcurrentRegisterHasSingleWinner() {
	const callers = 12

	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.service.Register(s.ctx, "Racer", "Racer", "secret123")
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		s.ErrorIs(err, ErrUsernameExists)
	}
	s.Equal(1, ok)
	s.Equal(1, s.storage.Count())
}

// Verify tests

func (s *ServiceSuite) TestVerifySucceeds() {
	_, _ = s.service.Register(s.ctx, "alice", "Alice", "secret123")

	user, err := s.service.Verify(s.ctx, "alice", "secret123")
	s.Require().NoError(err)
	s.Equal(model.CanonicalUsername("alice"), user)
}

func (s *ServiceSuite) TestVerifyIsCaseInsensitive() {
	_, _ = s.service.Register(s.ctx, "alice", "Alice", "secret123")

	user, err := s.service.Verify(s.ctx, " ALICE ", "secret123")
	s.Require().NoError(err)
	s.Equal(model.CanonicalUsername("alice"), user)
}

func (s *ServiceSuite) TestVerifyWrongPassword() {
	_, _ = s.service.Register(s.ctx, "alice", "Alice", "secret123")

	_, err := s.service.Verify(s.ctx, "alice", "wrongpass")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestVerifyUnknownUserMatchesWrongPassword() {
	_, _ = s.service.Register(s.ctx, "alice", "Alice", "secret123")

	_, errUnknown := s.service.Verify(s.ctx, "nosuchuser", "anything")
	_, errWrong := s.service.Verify(s.ctx, "alice", "wrongpass")

	s.ErrorIs(errUnknown, ErrInvalidCredentials)
	s.Equal(errWrong, errUnknown)
}

func (s *ServiceSuite) TestVerifyInvalidUsernameIsUnauthorized() {
	_, err := s.service.Verify(s.ctx, "a b", "secret123")
	s.ErrorIs(err, ErrInvalidCredentials)
	s.NotErrorIs(err, model.ErrInvalidUsername)
}

func (s *ServiceSuite) TestVerifyUnknownUserStillComparesHash() {
	_, err := s.service.Verify(s.ctx, "nosuchuser", "anything")
	s.ErrorIs(err, ErrInvalidCredentials)

	s.Equal(1, s.hasher.CompareCalls)
	s.Equal([]string{"mock$" + dummyPassword}, s.hasher.Compared)
}

func (s *ServiceSuite) TestVerifyMissingFields() {
	_, err := s.service.Verify(s.ctx, "", "secret123")
	s.ErrorIs(err, ErrMissingFields)

	_, err = s.service.Verify(s.ctx, "alice", "")
	s.ErrorIs(err, ErrMissingFields)
}

func (s *ServiceSuite) TestVerifyCompareFailureIsInternal() {
	_, _ = s.service.Register(s.ctx, "alice", "Alice", "secret123")
	s.hasher.CompareErr = hasher.ErrUnsupportedHash

	_, err := s.service.Verify(s.ctx, "alice", "secret123")
	s.ErrorIs(err, hasher.ErrUnsupportedHash)
	s.NotErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestVerifyDoesNotMutate() {
	_, _ = s.service.Register(s.ctx, "alice", "Alice", "secret123")
	before, _ := s.storage.Get(s.ctx, "alice")

	_, _ = s.service.Verify(s.ctx, "alice", "secret123")
	_, _ = s.service.Verify(s.ctx, "alice", "wrongpass")

	after, _ := s.storage.Get(s.ctx, "alice")
	s.Equal(before, after)
	s.Equal(1, s.storage.Count())
}

// Real hashing

func (s *ServiceSuite) TestRoundTripWithBcrypt() {
	bc, err := hasher.NewBcrypt(bcrypt.MinCost)
	s.Require().NoError(err)
	svc := New(memory.New(), hasher.NewMulti(bc), testutil.NopLogger())

	for i, pw := range []string{"secret123", "p", "pässwörd", strings.Repeat("x", 72)} {
		user := fmt.Sprintf("driver-%d", i)
		_, err := svc.Register(s.ctx, user, "Name", pw)
		s.Require().NoError(err, pw)

		got, err := svc.Verify(s.ctx, user, pw)
		s.Require().NoError(err, pw)
		s.Equal(model.CanonicalUsername(user), got)
	}
}

// Logging

func (s *ServiceSuite) TestLogsNeverContainPasswords() {
	logger, logs := testutil.CaptureLogger()
	svc := New(s.storage, s.hasher, logger)

	_, _ = svc.Register(s.ctx, "alice", "Alice", "hunter2-register")
	_, _ = svc.Verify(s.ctx, "alice", "hunter2-register")
	_, _ = svc.Verify(s.ctx, "alice", "hunter2-wrong")
	_, _ = svc.Verify(s.ctx, "ghost", "hunter2-ghost")

	out := logs.String()
	s.Contains(out, "user registered")
	s.Contains(out, "user logged in")
	s.Contains(out, "wrong_password")
	s.Contains(out, "unknown_user")
	s.NotContains(out, "hunter2")
}
