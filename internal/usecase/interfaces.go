package usecase

import (
	"context"
	"time"

	"outdoormatch/internal/domain/entity"
)

// TokenVerifier resolves an ID token to the uid it was issued to.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (string, error)
}

// CommunityCache holds the community list between reads. Implementations
// treat their own failures as a miss.
type CommunityCache interface {
	GetList(ctx context.Context) ([]entity.CommunitySummary, bool)
	SetList(ctx context.Context, list []entity.CommunitySummary)
	Invalidate(ctx context.Context)
}

type RateLimiter interface {
	Allow(userID, action string) (bool, time.Duration)
}
