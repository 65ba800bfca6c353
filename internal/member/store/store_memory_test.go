package store

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/suite"

	"kitchensink/internal/member/models"
	"kitchensink/pkg/platform/sentinel"
)

type InMemorySuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *InMemorySuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestInMemorySuite(t *testing.T) {
	suite.Run(t, new(InMemorySuite))
}

func newMember(id int64, name, email string) *models.Member {
	return &models.Member{ID: id, Name: name, Email: email, PhoneNumber: "2125551212"}
}

// TestInsertAndLookups verifies members can be found by id and email.
func (s *InMemorySuite) TestInsertAndLookups() {
	m := newMember(0, "John Smith", "john.smith@mailinator.com")
	s.Require().NoError(s.store.Insert(s.ctx, m))

	s.Run("finds by id", func() {
		found, err := s.store.FindByID(s.ctx, 0)
		s.Require().NoError(err)
		s.Equal(m, found)
	})

	s.Run("finds by exact email", func() {
		found, err := s.store.FindByEmail(s.ctx, "john.smith@mailinator.com")
		s.Require().NoError(err)
		s.Equal(m.ID, found.ID)
	})

	s.Run("email lookup is exact match", func() {
		_, err := s.store.FindByEmail(s.ctx, "John.Smith@mailinator.com")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returns ErrNotFound for unknown id", func() {
		_, err := s.store.FindByID(s.ctx, 42)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returned members are copies", func() {
		found, err := s.store.FindByID(s.ctx, 0)
		s.Require().NoError(err)
		found.Name = "Mutated"

		again, err := s.store.FindByID(s.ctx, 0)
		s.Require().NoError(err)
		s.Equal("John Smith", again.Name)
	})
}

// TestUniqueness verifies duplicate emails and ids are rejected.
func (s *InMemorySuite) TestUniqueness() {
	s.Require().NoError(s.store.Insert(s.ctx, newMember(1, "Ann", "ann@example.com")))

	s.Run("rejects duplicate email", func() {
		err := s.store.Insert(s.ctx, newMember(2, "Other Ann", "ann@example.com"))
		s.Require().ErrorIs(err, sentinel.ErrAlreadyUsed)
	})

	s.Run("rejects duplicate id as a key collision", func() {
		err := s.store.Insert(s.ctx, newMember(1, "Bob", "bob@example.com"))
		s.Require().ErrorIs(err, sentinel.ErrKeyCollision)
		s.NotErrorIs(err, sentinel.ErrAlreadyUsed)
	})

	count, err := s.store.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), count)
}

// TestConcurrentInsertSameEmail verifies exactly one insert wins.
func (s *InMemorySuite) TestConcurrentInsertSameEmail() {
	const goroutines = 50
	var wg sync.WaitGroup
	var successes, conflicts atomic.Int32

	for i := range goroutines {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			err := s.store.Insert(s.ctx, newMember(id, fmt.Sprintf("Racer %c", 'a'+id), "race@example.com"))
			switch {
			case err == nil:
				successes.Add(1)
			case s.ErrorIs(err, sentinel.ErrAlreadyUsed):
				conflicts.Add(1)
			}
		}(int64(i))
	}
	wg.Wait()

	s.Equal(int32(1), successes.Load(), "exactly one insert should succeed")
	s.Equal(int32(goroutines-1), conflicts.Load())
}

// TestListOrderedByName verifies ordering by name with id as tie-breaker.
func (s *InMemorySuite) TestListOrderedByName() {
	s.Run("empty store lists nothing", func() {
		members, err := s.store.ListOrderedByName(s.ctx)
		s.Require().NoError(err)
		s.NotNil(members)
		s.Empty(members)
	})

	s.Require().NoError(s.store.Insert(s.ctx, newMember(3, "Carol", "carol@example.com")))
	s.Require().NoError(s.store.Insert(s.ctx, newMember(2, "Alice", "alice2@example.com")))
	s.Require().NoError(s.store.Insert(s.ctx, newMember(1, "Bob", "bob@example.com")))
	s.Require().NoError(s.store.Insert(s.ctx, newMember(0, "Alice", "alice@example.com")))

	members, err := s.store.ListOrderedByName(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(members, 4)

	var got []int64
	for _, m := range members {
		got = append(got, m.ID)
	}
	s.Equal([]int64{0, 2, 1, 3}, got)
}

func (s *InMemorySuite) TestCancelledContext() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	err := s.store.Insert(ctx, newMember(9, "Late", "late@example.com"))
	s.Require().ErrorIs(err, sentinel.ErrUnavailable)

	_, err = s.store.FindByID(s.ctx, 9)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}
