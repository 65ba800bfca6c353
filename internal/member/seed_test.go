package member

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitchensink/internal/member/models"
	"kitchensink/internal/member/service"
	"kitchensink/internal/member/store"
	"kitchensink/internal/sequence"
)

type indexFailingStore struct {
	*store.InMemory
}

func (indexFailingStore) EnsureIndexes(context.Context) error {
	return errors.New("not primary")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBootstrapSeedsDefaultMember(t *testing.T) {
	ctx := context.Background()
	members := store.NewInMemory()
	seq := sequence.NewInMemory()
	svc := NewService(members, seq, service.WithLogger(discardLogger()))

	require.NoError(t, Bootstrap(ctx, members, seq, svc, true, discardLogger()))

	m, err := members.FindByEmail(ctx, DefaultMemberEmail)
	require.NoError(t, err)
	assert.Equal(t, &models.Member{ID: 0, Name: DefaultMemberName, Email: DefaultMemberEmail, PhoneNumber: DefaultMemberPhone}, m)

	// A second startup leaves the store and the sequence untouched.
	require.NoError(t, Bootstrap(ctx, members, seq, svc, true, discardLogger()))
	count, err := members.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	current, ok, err := seq.Current(ctx, service.SequenceName)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(0), current)
}

func TestBootstrapWithoutSeeding(t *testing.T) {
	ctx := context.Background()
	members := store.NewInMemory()
	seq := sequence.NewInMemory()
	svc := NewService(members, seq)

	require.NoError(t, Bootstrap(ctx, members, seq, svc, false, discardLogger()))

	count, err := members.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	current, ok, err := seq.Current(ctx, service.SequenceName)
	require.NoError(t, err)
	assert.True(t, ok, "sequence floor is seeded even without a default member")
	assert.Equal(t, sequence.MissingCounterValue, current)
}

func TestBootstrapToleratesIndexFailure(t *testing.T) {
	ctx := context.Background()
	members := indexFailingStore{InMemory: store.NewInMemory()}
	seq := sequence.NewInMemory()
	svc := NewService(members, seq, service.WithLogger(discardLogger()))

	require.NoError(t, Bootstrap(ctx, members, seq, svc, true, discardLogger()))

	count, err := members.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
