package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outdoormatch/internal/domain/entity"
	"outdoormatch/pkg/errors"
)

func TestListActiveMembersExample(t *testing.T) {
	store := newStore(t, "A", "B")
	addCommunity(t, store, &entity.Community{
		ID:   "C1",
		Name: "Bouldering",
		ActiveMembers: map[string][]string{
			"0": {"A", "B"},
			"2": {"B"},
		},
	})
	uc := NewAvailabilityUseCase(store.Communities(), store.Users())

	candidates, err := uc.ListActiveMembers(context.Background(), "C1", "A")
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "B", candidates[0].ID)
	assert.Equal(t, "name-B", candidates[0].Name)
	assert.Equal(t, entity.Week{true, false, true, false, false, false, false}, candidates[0].Availability)
}

func TestListActiveMembersOrderingAndDangling(t *testing.T) {
	store := newStore(t, "me", "zed", "amy", "kim")
	addCommunity(t, store, &entity.Community{
		ID: "C1",
		ActiveMembers: map[string][]string{
			"1": {"zed", "me", "ghost"},
			"4": {"kim", "amy"},
		},
	})
	uc := NewAvailabilityUseCase(store.Communities(), store.Users())

	candidates, err := uc.ListActiveMembers(context.Background(), "C1", "me")
	require.NoError(t, err)

	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"amy", "kim", "zed"}, ids)
}

func TestListActiveMembersEmptyAndMissing(t *testing.T) {
	store := newStore(t, "me")
	addCommunity(t, store, &entity.Community{ID: "C1", ActiveMembers: map[string][]string{"3": {"me"}}})
	uc := NewAvailabilityUseCase(store.Communities(), store.Users())

	candidates, err := uc.ListActiveMembers(context.Background(), "C1", "me")
	require.NoError(t, err)
	assert.Empty(t, candidates)

	_, err = uc.ListActiveMembers(context.Background(), "nope", "me")
	assert.True(t, errors.IsNotFound(err))
}

func TestToggleAvailabilityTracksLastCall(t *testing.T) {
	store := newStore(t, "u")
	addCommunity(t, store, &entity.Community{ID: "C1"})
	uc := NewAvailabilityUseCase(store.Communities(), store.Users())
	ctx := context.Background()

	res, err := uc.ToggleAvailability(ctx, ToggleCommand{CommunityID: "C1", UserID: "u", Day: 4, Present: true})
	require.NoError(t, err)
	assert.True(t, res.Confirmed)
	assert.True(t, res.Week[4])

	// Idempotent: a second identical call leaves the same state.
	_, err = uc.ToggleAvailability(ctx, ToggleCommand{CommunityID: "C1", UserID: "u", Day: 4, Present: true})
	require.NoError(t, err)
	c, err := store.Communities().GetByID(ctx, "C1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u"}, c.ActiveOn(4))

	for i := 0; i < 2; i++ {
		res, err = uc.ToggleAvailability(ctx, ToggleCommand{CommunityID: "C1", UserID: "u", Day: 4, Present: false})
		require.NoError(t, err)
		assert.False(t, res.Week.Any())
	}

	week, err := uc.GetAvailability(ctx, "C1", "u")
	require.NoError(t, err)
	assert.False(t, week.Any())
}

func TestToggleAvailabilityValidation(t *testing.T) {
	store := newStore(t, "u")
	addCommunity(t, store, &entity.Community{ID: "C1"})
	uc := NewAvailabilityUseCase(store.Communities(), store.Users())
	ctx := context.Background()

	for _, day := range []int{-1, 7} {
		_, err := uc.ToggleAvailability(ctx, ToggleCommand{CommunityID: "C1", UserID: "u", Day: day, Present: true})
		assert.True(t, errors.Is(err, errors.CodeValidation), "day %d", day)
	}

	_, err := uc.ToggleAvailability(ctx, ToggleCommand{CommunityID: "C1", Day: 0, Present: true})
	assert.True(t, errors.Is(err, errors.CodeUnauthorized))

	_, err = uc.ToggleAvailability(ctx, ToggleCommand{CommunityID: "nope", UserID: "u", Day: 0, Present: true})
	assert.True(t, errors.IsNotFound(err))
}

func TestToggleFailureRequiresRevert(t *testing.T) {
	store := newStore(t, "u")
	addCommunity(t, store, &entity.Community{ID: "C1"})
	uc := NewAvailabilityUseCase(flakyCommunities{store.Communities()}, store.Users())

	cmd := ToggleCommand{CommunityID: "C1", UserID: "u", Day: 2, Present: true}
	local := cmd.Apply(entity.Week{})
	assert.True(t, local[2])

	_, err := uc.ToggleAvailability(context.Background(), cmd)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeUnavailable))

	local = cmd.Revert(local)
	assert.Equal(t, entity.Week{}, local)
}
