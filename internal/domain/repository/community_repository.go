package repository

import (
	"context"

	"outdoormatch/internal/domain/entity"
)

type CommunityRepository interface {
	// Create assigns an id when community.ID is empty.
	Create(ctx context.Context, community *entity.Community) error
	GetByID(ctx context.Context, id string) (*entity.Community, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Community, error)
	List(ctx context.Context) ([]*entity.Community, error)

	AddMember(ctx context.Context, communityID, userID string) error
	// AddActiveMember and RemoveActiveMember are set-union writes on one day
	// of the availability index and are no-ops when already applied.
	AddActiveMember(ctx context.Context, communityID string, day int, userID string) error
	RemoveActiveMember(ctx context.Context, communityID string, day int, userID string) error
}
