// Package storagetest holds the behaviour every credential store backend must share.
package storagetest

import (
	"context"
	"fmt"
	"sync"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/drivecreds/internal/model"
	"github.com/mcoot/drivecreds/internal/storage"
)

// Suite is embedded by backend test suites. The embedding suite's SetupTest
// must set Storage and Ctx.
type Suite struct {
	suite.Suite
	Storage storage.Storage
	Ctx     context.Context
}

func cred(username, hash string) *model.Credential {
	return &model.Credential{Username: model.CanonicalUsername(username), PasswordHash: hash}
}

func (s *Suite) TestCreateAndGet() {
	err := s.Storage.CreateIfAbsent(s.Ctx, cred("alice", "$2a$10$hash"))
	s.Require().NoError(err)

	got, err := s.Storage.Get(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.CanonicalUsername("alice"), got.Username)
	s.Equal("$2a$10$hash", got.PasswordHash)
}

func (s *Suite) TestGetNotFound() {
	_, err := s.Storage.Get(s.Ctx, "nosuchuser")
	s.ErrorIs(err, model.ErrCredentialNotFound)
}

func (s *Suite) TestExists() {
	exists, err := s.Storage.Exists(s.Ctx, "alice")
	s.Require().NoError(err)
	s.False(exists)

	s.Require().NoError(s.Storage.CreateIfAbsent(s.Ctx, cred("alice", "h1")))

	exists, err = s.Storage.Exists(s.Ctx, "alice")
	s.Require().NoError(err)
	s.True(exists)
}

func (s *Suite) TestCreateIfAbsentNeverOverwrites() {
	s.Require().NoError(s.Storage.CreateIfAbsent(s.Ctx, cred("alice", "first")))

	err := s.Storage.CreateIfAbsent(s.Ctx, cred("alice", "second"))
	s.ErrorIs(err, model.ErrCredentialExists)

	got, err := s.Storage.Get(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal("first", got.PasswordHash)
}

func (s *Suite) TestUsernamesAreIndependent() {
	s.Require().NoError(s.Storage.CreateIfAbsent(s.Ctx, cred("alice", "ha")))
	s.Require().NoError(s.Storage.CreateIfAbsent(s.Ctx, cred("bob", "hb")))

	a, err := s.Storage.Get(s.Ctx, "alice")
	s.Require().NoError(err)
	b, err := s.Storage.Get(s.Ctx, "bob")
	s.Require().NoError(err)
	s.Equal("ha", a.PasswordHash)
	s.Equal("hb", b.PasswordHash)
}

func (s *Suite) TestConcurrentCreateHasSingleWinner() {
	const writers = 16

	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.Storage.CreateIfAbsent(s.Ctx, cred("racer", fmt.Sprintf("hash-%d", i)))
		}(i)
	}
	wg.Wait()

	winner := -1
	for i, err := range errs {
		if err == nil {
			s.Equal(-1, winner, "more than one writer succeeded")
			winner = i
			continue
		}
		s.ErrorIs(err, model.ErrCredentialExists)
	}
	s.Require().NotEqual(-1, winner, "no writer succeeded")

	got, err := s.Storage.Get(s.Ctx, "racer")
	s.Require().NoError(err)
	s.Equal(fmt.Sprintf("hash-%d", winner), got.PasswordHash)
}
