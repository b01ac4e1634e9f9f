package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outdoormatch/internal/domain/entity"
	"outdoormatch/pkg/errors"
)

func seedUsers(t *testing.T, store *MemoryStore, ids ...string) {
	t.Helper()
	now := time.Now()
	for _, id := range ids {
		require.NoError(t, store.Users().Create(context.Background(), entity.NewUser(id, id, "", now)))
	}
}

func TestMemoryUserCreateConflict(t *testing.T) {
	store := NewMemoryStore()
	seedUsers(t, store, "alice")

	err := store.Users().Create(context.Background(), entity.NewUser("alice", "Alice", "", time.Now()))
	assert.True(t, errors.Is(err, errors.CodeConflict))
}

func TestMemoryReadsReturnCopies(t *testing.T) {
	store := NewMemoryStore()
	seedUsers(t, store, "alice")
	ctx := context.Background()

	u, err := store.Users().GetByID(ctx, "alice")
	require.NoError(t, err)
	u.CheckedMatches = append(u.CheckedMatches, "mallory")

	again, err := store.Users().GetByID(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, again.CheckedMatches)
}

func TestMemoryRecordCheck(t *testing.T) {
	store := NewMemoryStore()
	seedUsers(t, store, "a", "b")
	users := store.Users()
	ctx := context.Background()

	res, err := users.RecordCheck(ctx, "a", "b")
	require.NoError(t, err)
	assert.False(t, res.AlreadyChecked)
	assert.False(t, res.Mutual)
	assert.Equal(t, []string{"b"}, res.Actor.CheckedMatches)

	res, err = users.RecordCheck(ctx, "a", "b")
	require.NoError(t, err)
	assert.True(t, res.AlreadyChecked)
	assert.Equal(t, []string{"b"}, res.Actor.CheckedMatches)

	res, err = users.RecordCheck(ctx, "b", "a")
	require.NoError(t, err)
	assert.True(t, res.Mutual)

	_, err = users.RecordCheck(ctx, "a", "ghost")
	assert.True(t, errors.IsNotFound(err))
}

func TestMemoryGetByIDsSkipsMissing(t *testing.T) {
	store := NewMemoryStore()
	seedUsers(t, store, "b", "a")

	users, err := store.Users().GetByIDs(context.Background(), []string{"a", "ghost", "b"})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "a", users[0].ID)
	assert.Equal(t, "b", users[1].ID)
}

func TestMemoryActiveMembersAreSets(t *testing.T) {
	store := NewMemoryStore()
	communities := store.Communities()
	ctx := context.Background()

	c := &entity.Community{Name: "Surfing"}
	require.NoError(t, communities.Create(ctx, c))
	require.NotEmpty(t, c.ID)

	require.NoError(t, communities.AddActiveMember(ctx, c.ID, 3, "a"))
	require.NoError(t, communities.AddActiveMember(ctx, c.ID, 3, "a"))
	got, err := communities.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got.ActiveOn(3))

	require.NoError(t, communities.RemoveActiveMember(ctx, c.ID, 3, "a"))
	require.NoError(t, communities.RemoveActiveMember(ctx, c.ID, 3, "a"))
	got, err = communities.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, got.ActiveOn(3))

	err = communities.AddActiveMember(ctx, "missing", 0, "a")
	assert.True(t, errors.IsNotFound(err))
}

func TestMemoryChatCreateIfAbsentKeepsHistory(t *testing.T) {
	store := NewMemoryStore()
	chats := store.Chats()
	ctx := context.Background()
	a := &entity.User{ID: "a", Name: "A"}
	b := &entity.User{ID: "b", Name: "B"}

	created, err := chats.CreateIfAbsent(ctx, entity.NewDirectChat(a, b, time.Now()))
	require.NoError(t, err)
	assert.True(t, created)

	require.NoError(t, chats.AppendMessage(ctx, "a_b", entity.Message{ID: "m1", SenderID: "a", Text: "hi", Timestamp: time.Now()}))

	created, err = chats.CreateIfAbsent(ctx, entity.NewDirectChat(b, a, time.Now()))
	require.NoError(t, err)
	assert.False(t, created)

	chat, err := chats.GetByID(ctx, "a_b")
	require.NoError(t, err)
	require.Len(t, chat.Messages, 1)
	require.NotNil(t, chat.LastMessage)
	assert.Equal(t, "hi", *chat.LastMessage)
}

func TestMemoryChatWatch(t *testing.T) {
	store := NewMemoryStore()
	chats := store.Chats()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := chats.CreateIfAbsent(ctx, entity.NewDirectChat(&entity.User{ID: "a"}, &entity.User{ID: "b"}, time.Now()))
	require.NoError(t, err)

	snapshots := make(chan *entity.Chat, 4)
	done := make(chan error, 1)
	go func() {
		done <- chats.Watch(ctx, "a_b", func(c *entity.Chat) error {
			snapshots <- c
			return nil
		})
	}()

	first := <-snapshots
	assert.Empty(t, first.Messages)

	require.NoError(t, chats.AppendMessage(ctx, "a_b", entity.Message{ID: "m1", SenderID: "b", Text: "yo", Timestamp: time.Now()}))

	select {
	case next := <-snapshots:
		assert.Len(t, next.Messages, 1)
	case <-time.After(time.Second):
		t.Fatal("no snapshot after append")
	}

	cancel()
	assert.NoError(t, <-done)
}

func TestMemoryWatchMissingChat(t *testing.T) {
	store := NewMemoryStore()
	err := store.Chats().Watch(context.Background(), "nope", func(*entity.Chat) error { return nil })
	assert.True(t, errors.IsNotFound(err))
}
