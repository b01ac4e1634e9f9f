package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outdoormatch/internal/domain/entity"
	"outdoormatch/pkg/errors"
)

func TestCheckPendingThenMatched(t *testing.T) {
	store := newStore(t, "A", "B")
	uc := NewMatchUseCase(store.Users(), store.Chats(), nil)
	ctx := context.Background()

	outcome, err := uc.Check(ctx, "A", "B")
	require.NoError(t, err)
	assert.Equal(t, MatchPending, outcome.Status)
	assert.Empty(t, outcome.ChatID)

	outcome, err = uc.Check(ctx, "B", "A")
	require.NoError(t, err)
	assert.Equal(t, MatchMatched, outcome.Status)
	assert.Equal(t, "A_B", outcome.ChatID)

	chat, err := store.Chats().GetByID(ctx, "A_B")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A", "B"}, chat.Participants)
	assert.Empty(t, chat.Messages)
	assert.Nil(t, chat.LastMessage)

	assert.Equal(t, []string{"A_B"}, getUser(t, store, "A").Chats)
	assert.Equal(t, []string{"A_B"}, getUser(t, store, "B").Chats)
}

func TestCheckMatchesWhenTargetAlreadyChecked(t *testing.T) {
	store := newStore(t, "A", "B")
	ctx := context.Background()
	_, err := store.Users().RecordCheck(ctx, "B", "A")
	require.NoError(t, err)

	uc := NewMatchUseCase(store.Users(), store.Chats(), nil)
	outcome, err := uc.Check(ctx, "A", "B")
	require.NoError(t, err)
	assert.Equal(t, MatchMatched, outcome.Status)

	chat, err := store.Chats().GetByID(ctx, outcome.ChatID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A", "B"}, chat.Participants)
	assert.Empty(t, chat.Messages)
	assert.Equal(t, "name-A", chat.ParticipantsData["A"].Name)
}

func TestCheckIsIdempotent(t *testing.T) {
	store := newStore(t, "A", "B")
	uc := NewMatchUseCase(store.Users(), store.Chats(), nil)
	ctx := context.Background()

	_, err := uc.Check(ctx, "A", "B")
	require.NoError(t, err)
	outcome, err := uc.Check(ctx, "A", "B")
	require.NoError(t, err)
	assert.True(t, outcome.AlreadyChecked)
	assert.Equal(t, []string{"B"}, getUser(t, store, "A").CheckedMatches)

	_, err = uc.Check(ctx, "B", "A")
	require.NoError(t, err)
	again, err := uc.Check(ctx, "B", "A")
	require.NoError(t, err)
	assert.Equal(t, MatchMatched, again.Status)
	assert.True(t, again.AlreadyChecked)
	assert.Equal(t, []string{"A_B"}, getUser(t, store, "B").Chats)
}

func TestRematchKeepsMessages(t *testing.T) {
	store := newStore(t, "A", "B")
	matches := NewMatchUseCase(store.Users(), store.Chats(), nil)
	chats := NewChatUseCase(store.Chats(), store.Users(), matches, nil)
	ctx := context.Background()

	_, err := matches.Check(ctx, "A", "B")
	require.NoError(t, err)
	_, err = matches.Check(ctx, "B", "A")
	require.NoError(t, err)

	_, err = chats.SendMessage(ctx, "A", "A_B", "see you at the crag")
	require.NoError(t, err)

	for _, pair := range [][2]string{{"A", "B"}, {"B", "A"}, {"A", "B"}} {
		_, err := matches.Check(ctx, pair[0], pair[1])
		require.NoError(t, err)
	}

	chat, err := store.Chats().GetByID(ctx, "A_B")
	require.NoError(t, err)
	require.Len(t, chat.Messages, 1)
	assert.Equal(t, "see you at the crag", chat.Messages[0].Text)
}

func TestConcurrentChecksYieldOneChat(t *testing.T) {
	store := newStore(t, "A", "B")
	uc := NewMatchUseCase(store.Users(), store.Chats(), nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	outcomes := make([]*MatchOutcome, 2)
	for i, pair := range [][2]string{{"A", "B"}, {"B", "A"}} {
		wg.Add(1)
		go func(i int, actor, target string) {
			defer wg.Done()
			out, err := uc.Check(ctx, actor, target)
			assert.NoError(t, err)
			outcomes[i] = out
		}(i, pair[0], pair[1])
	}
	wg.Wait()

	matched := 0
	for _, o := range outcomes {
		if o.Status == MatchMatched {
			matched++
			assert.Equal(t, "A_B", o.ChatID)
		}
	}
	assert.GreaterOrEqual(t, matched, 1)

	ids, err := store.Chats().GetByIDs(ctx, []string{"A_B", "B_A"})
	require.NoError(t, err)
	assert.Len(t, ids, 1)
}

func TestCheckValidation(t *testing.T) {
	store := newStore(t, "A")
	uc := NewMatchUseCase(store.Users(), store.Chats(), nil)
	ctx := context.Background()

	_, err := uc.Check(ctx, "", "A")
	assert.True(t, errors.Is(err, errors.CodeUnauthorized))

	_, err = uc.Check(ctx, "A", "")
	assert.True(t, errors.Is(err, errors.CodeValidation))

	_, err = uc.Check(ctx, "A", "A")
	assert.True(t, errors.Is(err, errors.CodeValidation))

	_, err = uc.Check(ctx, "A", "ghost")
	assert.True(t, errors.IsNotFound(err))
	assert.Empty(t, getUser(t, store, "A").CheckedMatches)
}

func TestCheckRateLimited(t *testing.T) {
	store := newStore(t, "A", "B")
	uc := NewMatchUseCase(store.Users(), store.Chats(), denyAll{})

	_, err := uc.Check(context.Background(), "A", "B")
	assert.True(t, errors.Is(err, errors.CodeTooManyRequests))
	assert.Empty(t, getUser(t, store, "A").CheckedMatches)
}

func TestRetriedCheckHealsFailedProvisioning(t *testing.T) {
	store := newStore(t, "A", "B")
	ctx := context.Background()
	_, err := store.Users().RecordCheck(ctx, "B", "A")
	require.NoError(t, err)

	flaky := &flakyChats{ChatRepository: store.Chats(), failures: 1}
	uc := NewMatchUseCase(store.Users(), flaky, nil)

	_, err = uc.Check(ctx, "A", "B")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeUnavailable))
	// The check itself committed.
	assert.Equal(t, []string{"B"}, getUser(t, store, "A").CheckedMatches)

	outcome, err := uc.Check(ctx, "A", "B")
	require.NoError(t, err)
	assert.True(t, outcome.AlreadyChecked)
	assert.Equal(t, MatchMatched, outcome.Status)
	assert.Equal(t, []string{"A_B"}, getUser(t, store, "A").Chats)
}

func TestReconcileProvisionsMissingChats(t *testing.T) {
	store := newStore(t, "A", "B", "C")
	ctx := context.Background()
	users := store.Users()

	// A and B matched but the chat was never provisioned; C is one-sided.
	for _, pair := range [][2]string{{"A", "B"}, {"B", "A"}, {"A", "C"}} {
		_, err := users.RecordCheck(ctx, pair[0], pair[1])
		require.NoError(t, err)
	}

	uc := NewMatchUseCase(users, store.Chats(), nil)
	uc.now = func() time.Time { return time.Unix(1700000000, 0) }

	repaired, err := uc.Reconcile(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, 1, repaired)
	assert.Equal(t, []string{"A_B"}, getUser(t, store, "A").Chats)
	assert.Equal(t, []string{"A_B"}, getUser(t, store, "B").Chats)

	repaired, err = uc.Reconcile(ctx, "A")
	require.NoError(t, err)
	assert.Zero(t, repaired)

	checked, err := uc.ListChecked(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C"}, checked)
}

func TestReconcileSkipsDanglingTargets(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	u := entity.NewUser("A", "Ada", "", time.Now())
	u.CheckedMatches = []string{"gone"}
	require.NoError(t, store.Users().Create(ctx, u))

	uc := NewMatchUseCase(store.Users(), store.Chats(), nil)
	repaired, err := uc.Reconcile(ctx, "A")
	require.NoError(t, err)
	assert.Zero(t, repaired)
}
