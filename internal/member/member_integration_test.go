//go:build integration

package member_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitchensink/internal/member"
	"kitchensink/internal/member/models"
	"kitchensink/internal/member/service"
	"kitchensink/internal/member/store"
	"kitchensink/internal/sequence"
	httptransport "kitchensink/internal/transport/http"
	"kitchensink/pkg/testutil"
	"kitchensink/pkg/testutil/containers"
)

// newMongoRouter resets the collections, bootstraps them and returns the
// full router over MongoDB.
func newMongoRouter(t *testing.T) http.Handler {
	t.Helper()
	ctx := context.Background()
	mc := containers.GetManager().GetMongo(t)
	require.NoError(t, mc.DropCollections(ctx, store.Collection, sequence.CountersCollection))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	members := store.NewMongo(mc.DB)
	ids := sequence.NewMongo(mc.DB)
	svc := member.NewService(members, ids, service.WithLogger(logger))
	require.NoError(t, member.Bootstrap(ctx, members, ids, svc, true, logger))

	return httptransport.NewRouter(httptransport.Deps{
		Logger:         logger,
		RequestTimeout: 10 * time.Second,
		AllowedOrigins: []string{"*"},
		Modules:        []httptransport.RouteRegistrar{member.NewHandler(svc, logger)},
	})
}

func TestMemberRegistryOverMongo(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	router := newMongoRouter(t)

	testutil.Given(t, "a freshly seeded store", func(t *testing.T) {
		testutil.Then(t, "the default member has id zero", func(t *testing.T) {
			rr := testutil.Serve(t, router, http.MethodGet, "/members/0", "")
			testutil.AssertStatus(t, rr, http.StatusOK)
			assert.Equal(t, models.Member{
				ID: 0, Name: "John Smith", Email: "john.smith@mailinator.com", PhoneNumber: "2125551212",
			}, testutil.UnmarshalResponse[models.Member](t, rr))
		})

		testutil.When(t, "the same email is registered again", func(t *testing.T) {
			rr := testutil.Serve(t, router, http.MethodPost, "/members",
				`{"name":"John Smith","email":"john.smith@mailinator.com","phoneNumber":"2125551212"}`)
			testutil.Then(t, "the registration conflicts", func(t *testing.T) {
				testutil.AssertFieldErrors(t, rr, http.StatusConflict, map[string]string{"email": "Email already exists"})
			})
		})

		testutil.When(t, "a member with a digit in the name and a short phone is registered", func(t *testing.T) {
			rr := testutil.Serve(t, router, http.MethodPost, "/members",
				`{"name":"J0hn","email":"other@example.com","phoneNumber":"123"}`)
			testutil.Then(t, "both fields are reported", func(t *testing.T) {
				testutil.AssertFieldErrors(t, rr, http.StatusBadRequest, map[string]string{
					"name":        models.MsgNameDigits,
					"phoneNumber": models.MsgPhoneSize,
				})
			})
		})

		testutil.When(t, "a valid member is registered", func(t *testing.T) {
			rr := testutil.Serve(t, router, http.MethodPost, "/members",
				`{"name":"Alice Adams","email":"alice@example.com","phoneNumber":"2125550001"}`)
			testutil.Then(t, "it receives the next id", func(t *testing.T) {
				testutil.AssertStatus(t, rr, http.StatusCreated)
				assert.Equal(t, int64(1), testutil.UnmarshalResponse[models.Member](t, rr).ID)
			})
			testutil.And(t, "the list is ordered by name", func(t *testing.T) {
				list := testutil.UnmarshalResponse[[]models.Member](t, testutil.Serve(t, router, http.MethodGet, "/members", ""))
				require.Len(t, list, 2)
				assert.Equal(t, "Alice Adams", list[0].Name)
				assert.Equal(t, "John Smith", list[1].Name)
			})
		})
	})
}

func TestConcurrentRegistrationOverMongo(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	router := newMongoRouter(t)

	const goroutines = 20
	var wg sync.WaitGroup
	var created, conflicts atomic.Int32

	for i := range goroutines {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			body := fmt.Sprintf(`{"name":"Racer","email":"race@example.com","phoneNumber":"21255500%02d"}`, n)
			switch testutil.Serve(t, router, http.MethodPost, "/members", body).Code {
			case http.StatusCreated:
				created.Add(1)
			case http.StatusConflict:
				conflicts.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), created.Load(), "exactly one registration should succeed")
	assert.Equal(t, int32(goroutines-1), conflicts.Load())
}
