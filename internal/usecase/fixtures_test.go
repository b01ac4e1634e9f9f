package usecase

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"outdoormatch/internal/adapter/repository"
	"outdoormatch/internal/domain/entity"
	domain "outdoormatch/internal/domain/repository"
	"outdoormatch/pkg/errors"
)

var errStoreDown = errors.Transient("store unavailable", nil)

func newStore(t *testing.T, userIDs ...string) *repository.MemoryStore {
	t.Helper()
	store := repository.NewMemoryStore()
	for _, id := range userIDs {
		u := entity.NewUser(id, "name-"+id, id+"@example.com", time.Now())
		require.NoError(t, store.Users().Create(context.Background(), u))
	}
	return store
}

func addCommunity(t *testing.T, store *repository.MemoryStore, c *entity.Community) {
	t.Helper()
	require.NoError(t, store.Communities().Create(context.Background(), c))
}

func getUser(t *testing.T, store *repository.MemoryStore, id string) *entity.User {
	t.Helper()
	u, err := store.Users().GetByID(context.Background(), id)
	require.NoError(t, err)
	return u
}

// flakyCommunities fails availability writes.
type flakyCommunities struct {
	domain.CommunityRepository
}

func (flakyCommunities) AddActiveMember(context.Context, string, int, string) error {
	return errStoreDown
}

func (flakyCommunities) RemoveActiveMember(context.Context, string, int, string) error {
	return errStoreDown
}

// flakyChats fails the first failures chat creations, then delegates.
type flakyChats struct {
	domain.ChatRepository
	failures int
}

func (f *flakyChats) CreateIfAbsent(ctx context.Context, chat *entity.Chat) (bool, error) {
	if f.failures > 0 {
		f.failures--
		return false, errStoreDown
	}
	return f.ChatRepository.CreateIfAbsent(ctx, chat)
}

type denyAll struct{}

func (denyAll) Allow(string, string) (bool, time.Duration) { return false, 3 * time.Second }

type fakeImages struct {
	paths []string
	types []string
	err   error
}

func (f *fakeImages) Upload(_ context.Context, _ io.Reader, contentType, path string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.paths = append(f.paths, path)
	f.types = append(f.types, contentType)
	return "https://img.example/" + path, nil
}
