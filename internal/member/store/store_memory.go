package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"kitchensink/internal/member/models"
	"kitchensink/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded member store.
type InMemory struct {
	mu      sync.RWMutex
	byID    map[int64]*models.Member
	byEmail map[string]int64
}

// NewInMemory creates an empty store.
func NewInMemory() *InMemory {
	return &InMemory{
		byID:    make(map[int64]*models.Member),
		byEmail: make(map[string]int64),
	}
}

// EnsureIndexes is a no-op; uniqueness is enforced by the email map.
func (s *InMemory) EnsureIndexes(_ context.Context) error {
	return nil
}

// Insert stores a copy of member. A taken email fails with
// sentinel.ErrAlreadyUsed, a taken id with sentinel.ErrKeyCollision.
func (s *InMemory) Insert(ctx context.Context, member *models.Member) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("insert member: %w: %w", sentinel.ErrUnavailable, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[member.Email]; ok {
		return fmt.Errorf("email %s: %w", member.Email, sentinel.ErrAlreadyUsed)
	}
	if _, ok := s.byID[member.ID]; ok {
		return fmt.Errorf("id %d: %w", member.ID, sentinel.ErrKeyCollision)
	}
	stored := *member
	s.byID[member.ID] = &stored
	s.byEmail[member.Email] = member.ID
	return nil
}

// FindByID returns the member with id or sentinel.ErrNotFound.
func (s *InMemory) FindByID(_ context.Context, id int64) (*models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	found := *m
	return &found, nil
}

// FindByEmail returns the member with exactly this email or sentinel.ErrNotFound.
func (s *InMemory) FindByEmail(_ context.Context, email string) (*models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	found := *s.byID[id]
	return &found, nil
}

// ListOrderedByName returns every member sorted by name, then id.
func (s *InMemory) ListOrderedByName(_ context.Context) ([]*models.Member, error) {
	s.mu.RLock()
	members := make([]*models.Member, 0, len(s.byID))
	for _, m := range s.byID {
		copied := *m
		members = append(members, &copied)
	}
	s.mu.RUnlock()

	slices.SortFunc(members, func(a, b *models.Member) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return members, nil
}

// Count returns the number of stored members.
func (s *InMemory) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.byID)), nil
}
