package usecase

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"outdoormatch/internal/domain/entity"
	"outdoormatch/internal/domain/repository"
	"outdoormatch/internal/infrastructure/metrics"
	"outdoormatch/internal/infrastructure/ratelimit"
	"outdoormatch/pkg/errors"
	"outdoormatch/pkg/logger"
)

type MatchStatus string

const (
	MatchPending MatchStatus = "pending"
	MatchMatched MatchStatus = "matched"
)

type MatchOutcome struct {
	Status MatchStatus `json:"status"`
	ChatID string      `json:"chat_id,omitempty"`
	// AlreadyChecked is true when the actor had checked the target before,
	// so this call recorded nothing new.
	AlreadyChecked bool `json:"already_checked"`
}

type MatchUseCase struct {
	userRepo    repository.UserRepository
	chatRepo    repository.ChatRepository
	rateLimiter RateLimiter
	tracer      trace.Tracer
	now         func() time.Time
}

// NewMatchUseCase accepts a nil rate limiter.
func NewMatchUseCase(userRepo repository.UserRepository, chatRepo repository.ChatRepository, rateLimiter RateLimiter) *MatchUseCase {
	return &MatchUseCase{
		userRepo:    userRepo,
		chatRepo:    chatRepo,
		rateLimiter: rateLimiter,
		tracer:      otel.Tracer("outdoormatch/internal/usecase/match"),
		now:         time.Now,
	}
}

// Check records that actingUserID is interested in targetUserID. When the
// interest is mutual the pair's chat is provisioned and the outcome is
// Matched. Retrying a check is safe: nothing is recorded twice and a chat
// missing after an earlier partial failure is provisioned again.
func (uc *MatchUseCase) Check(ctx context.Context, actingUserID, targetUserID string) (*MatchOutcome, error) {
	if actingUserID == "" {
		return nil, errors.Unauthorized("Authentication required", nil)
	}
	if targetUserID == "" {
		return nil, errors.Validation("target user is required")
	}
	if targetUserID == actingUserID {
		return nil, errors.Validation("you cannot check yourself")
	}

	if uc.rateLimiter != nil {
		if ok, wait := uc.rateLimiter.Allow(actingUserID, ratelimit.ActionCheck); !ok {
			return nil, errors.TooManyRequests(fmt.Sprintf("Too many checks, try again in %s", wait.Round(time.Second)))
		}
	}

	ctx, span := uc.tracer.Start(ctx, "match.check", trace.WithAttributes(
		attribute.String("user.id", actingUserID),
		attribute.String("target.id", targetUserID),
	))
	defer span.End()

	res, err := uc.userRepo.RecordCheck(ctx, actingUserID, targetUserID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "record check failed")
		metrics.IncMatchCheck("error")
		return nil, err
	}

	outcome := &MatchOutcome{Status: MatchPending, AlreadyChecked: res.AlreadyChecked}
	if !res.Mutual {
		metrics.IncMatchCheck(string(MatchPending))
		return outcome, nil
	}

	chatID, err := uc.provisionChat(ctx, res.Actor, res.Target)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "chat provisioning failed")
		metrics.IncMatchCheck("error")
		return nil, err
	}

	outcome.Status = MatchMatched
	outcome.ChatID = chatID
	span.SetAttributes(attribute.String("chat.id", chatID))
	metrics.IncMatchCheck(string(MatchMatched))
	return outcome, nil
}

// provisionChat creates the pair's chat unless it exists and links it from
// both users. Every step is idempotent.
func (uc *MatchUseCase) provisionChat(ctx context.Context, a, b *entity.User) (string, error) {
	chat := entity.NewDirectChat(a, b, uc.now())

	created, err := uc.chatRepo.CreateIfAbsent(ctx, chat)
	if err != nil {
		return "", err
	}
	if created {
		metrics.IncChatCreated()
		logger.Info("Chat %s created for mutual match", chat.ID)
	}

	for _, u := range []*entity.User{a, b} {
		if u.HasChat(chat.ID) {
			continue
		}
		if err := uc.userRepo.AddChat(ctx, u.ID, chat.ID); err != nil {
			return "", err
		}
	}
	return chat.ID, nil
}

// Reconcile provisions the chat of every mutual match of userID whose chat
// is not linked from userID's record, and returns how many it repaired.
func (uc *MatchUseCase) Reconcile(ctx context.Context, userID string) (int, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}

	repaired := 0
	for _, targetID := range user.CheckedMatches {
		if user.HasChat(entity.ChatID(user.ID, targetID)) {
			continue
		}

		target, err := uc.userRepo.GetByID(ctx, targetID)
		if err != nil {
			if errors.IsNotFound(err) {
				continue
			}
			return repaired, err
		}
		if !target.HasChecked(user.ID) {
			continue
		}

		if _, err := uc.provisionChat(ctx, user, target); err != nil {
			return repaired, err
		}
		repaired++
	}

	if repaired > 0 {
		logger.Info("Reconciled %d chats for user %s", repaired, userID)
	}
	return repaired, nil
}

// ListChecked is the ids userID has checked, in the order they were checked.
func (uc *MatchUseCase) ListChecked(ctx context.Context, userID string) ([]string, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.CheckedMatches == nil {
		return []string{}, nil
	}
	return user.CheckedMatches, nil
}
