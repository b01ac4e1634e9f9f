package repository

import (
	"context"

	"outdoormatch/internal/domain/entity"
)

// CheckResult is what RecordCheck observed inside its atomic unit.
type CheckResult struct {
	Actor  *entity.User
	Target *entity.User
	// AlreadyChecked is true when no write was needed.
	AlreadyChecked bool
	// Mutual is true when the target had already checked the actor.
	Mutual bool
}

type UserRepository interface {
	// Create fails with a Conflict error when the user already exists.
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// GetByIDs skips ids with no record and keeps the input order.
	GetByIDs(ctx context.Context, ids []string) ([]*entity.User, error)

	// RecordCheck adds targetID to actorID's checked set unless present and
	// reads the target's checked set, as one atomic unit.
	RecordCheck(ctx context.Context, actorID, targetID string) (*CheckResult, error)
	AddChat(ctx context.Context, userID, chatID string) error
	AddCommunity(ctx context.Context, userID, communityID string) error
	UpdateNotes(ctx context.Context, userID, notes string) error
	UpdatePhoto(ctx context.Context, userID, photoURL string) error

	// Watch calls fn with the current record and again after every change
	// until ctx is done or fn returns an error.
	Watch(ctx context.Context, userID string, fn func(*entity.User) error) error
}
