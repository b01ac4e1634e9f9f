package usecase

import (
	"context"
	"sort"

	"outdoormatch/internal/domain/entity"
	"outdoormatch/internal/domain/repository"
	"outdoormatch/pkg/errors"
)

type CommunityUseCase struct {
	communityRepo repository.CommunityRepository
	userRepo      repository.UserRepository
	cache         CommunityCache
}

// NewCommunityUseCase accepts a nil cache.
func NewCommunityUseCase(communityRepo repository.CommunityRepository, userRepo repository.UserRepository, cache CommunityCache) *CommunityUseCase {
	return &CommunityUseCase{
		communityRepo: communityRepo,
		userRepo:      userRepo,
		cache:         cache,
	}
}

func summarize(communities []*entity.Community) []entity.CommunitySummary {
	summaries := make([]entity.CommunitySummary, 0, len(communities))
	for _, c := range communities {
		summaries = append(summaries, c.Summary())
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].Name != summaries[j].Name {
			return summaries[i].Name < summaries[j].Name
		}
		return summaries[i].ID < summaries[j].ID
	})
	return summaries
}

func (uc *CommunityUseCase) ListCommunities(ctx context.Context) ([]entity.CommunitySummary, error) {
	if uc.cache != nil {
		if list, ok := uc.cache.GetList(ctx); ok {
			return list, nil
		}
	}

	communities, err := uc.communityRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	summaries := summarize(communities)
	if uc.cache != nil {
		uc.cache.SetList(ctx, summaries)
	}
	return summaries, nil
}

func (uc *CommunityUseCase) GetCommunity(ctx context.Context, id string) (*entity.Community, error) {
	return uc.communityRepo.GetByID(ctx, id)
}

// JoinCommunity adds the user to the community and the community to the
// user. Joining does not declare any availability.
func (uc *CommunityUseCase) JoinCommunity(ctx context.Context, communityID, userID string) error {
	if userID == "" {
		return errors.Unauthorized("Authentication required", nil)
	}

	if _, err := uc.communityRepo.GetByID(ctx, communityID); err != nil {
		return err
	}
	if _, err := uc.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}

	if err := uc.communityRepo.AddMember(ctx, communityID, userID); err != nil {
		return err
	}
	if err := uc.userRepo.AddCommunity(ctx, userID, communityID); err != nil {
		return err
	}

	if uc.cache != nil {
		uc.cache.Invalidate(ctx)
	}
	return nil
}

func (uc *CommunityUseCase) ListUserCommunities(ctx context.Context, userID string) ([]entity.CommunitySummary, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	communities, err := uc.communityRepo.GetByIDs(ctx, user.Communities)
	if err != nil {
		return nil, err
	}
	return summarize(communities), nil
}
