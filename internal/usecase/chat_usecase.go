package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"outdoormatch/internal/domain/entity"
	"outdoormatch/internal/domain/repository"
	"outdoormatch/internal/infrastructure/metrics"
	"outdoormatch/internal/infrastructure/ratelimit"
	"outdoormatch/pkg/errors"
	"outdoormatch/pkg/logger"
	"outdoormatch/pkg/utils"
)

type ChatUseCase struct {
	chatRepo    repository.ChatRepository
	userRepo    repository.UserRepository
	matches     *MatchUseCase
	rateLimiter RateLimiter
	now         func() time.Time
}

// NewChatUseCase accepts a nil match use case (no reconciliation on list)
// and a nil rate limiter.
func NewChatUseCase(
	chatRepo repository.ChatRepository,
	userRepo repository.UserRepository,
	matches *MatchUseCase,
	rateLimiter RateLimiter,
) *ChatUseCase {
	return &ChatUseCase{
		chatRepo:    chatRepo,
		userRepo:    userRepo,
		matches:     matches,
		rateLimiter: rateLimiter,
		now:         time.Now,
	}
}

func (uc *ChatUseCase) GetChat(ctx context.Context, userID, chatID string) (*entity.Chat, error) {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}

	if !chat.HasParticipant(userID) {
		return nil, errors.Forbidden("You are not a participant in this chat", nil)
	}

	return chat, nil
}

// ListUserChats returns one page of userID's chats, most recent activity
// first, and the total count.
func (uc *ChatUseCase) ListUserChats(ctx context.Context, userID string, limit, offset int) ([]entity.ChatSummary, int, error) {
	if uc.matches != nil {
		if _, err := uc.matches.Reconcile(ctx, userID); err != nil && !errors.IsNotFound(err) {
			logger.Warn("Chat reconciliation for %s failed: %v", userID, err)
		}
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	summaries, err := uc.summariesFor(ctx, user)
	if err != nil {
		return nil, 0, err
	}

	start, end := utils.Window(len(summaries), offset, limit)
	return summaries[start:end], len(summaries), nil
}

func (uc *ChatUseCase) summariesFor(ctx context.Context, user *entity.User) ([]entity.ChatSummary, error) {
	chats, err := uc.chatRepo.GetByIDs(ctx, user.Chats)
	if err != nil {
		return nil, err
	}

	summaries := make([]entity.ChatSummary, 0, len(chats))
	for _, chat := range chats {
		if !chat.HasParticipant(user.ID) {
			continue
		}
		summaries = append(summaries, chat.SummaryFor(user.ID))
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		if !summaries[i].LastMessageTime.Equal(summaries[j].LastMessageTime) {
			return summaries[i].LastMessageTime.After(summaries[j].LastMessageTime)
		}
		return summaries[i].ID < summaries[j].ID
	})
	return summaries, nil
}

func (uc *ChatUseCase) SendMessage(ctx context.Context, userID, chatID, text string) (*entity.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.Validation("Message text is required")
	}
	if utf8.RuneCountInString(text) > entity.MaxMessageLength {
		return nil, errors.Validation(fmt.Sprintf("Message text must be at most %d characters", entity.MaxMessageLength))
	}

	if uc.rateLimiter != nil {
		if ok, wait := uc.rateLimiter.Allow(userID, ratelimit.ActionSendMessage); !ok {
			return nil, errors.TooManyRequests(fmt.Sprintf("Too many messages, try again in %s", wait.Round(time.Second)))
		}
	}

	if _, err := uc.GetChat(ctx, userID, chatID); err != nil {
		return nil, err
	}

	message := entity.Message{
		ID:        uuid.New().String(),
		SenderID:  userID,
		Text:      text,
		Timestamp: uc.now().UTC(),
	}

	if err := uc.chatRepo.AppendMessage(ctx, chatID, message); err != nil {
		return nil, err
	}

	metrics.IncMessageSent()
	return &message, nil
}

// WatchChat calls fn with the chat now and after every change until ctx is
// done or fn fails.
func (uc *ChatUseCase) WatchChat(ctx context.Context, userID, chatID string, fn func(*entity.Chat) error) error {
	if _, err := uc.GetChat(ctx, userID, chatID); err != nil {
		return err
	}
	return uc.chatRepo.Watch(ctx, chatID, fn)
}

// WatchUserChats calls fn with userID's full chat list now and whenever the
// user's record changes.
func (uc *ChatUseCase) WatchUserChats(ctx context.Context, userID string, fn func([]entity.ChatSummary) error) error {
	return uc.userRepo.Watch(ctx, userID, func(user *entity.User) error {
		summaries, err := uc.summariesFor(ctx, user)
		if err != nil {
			return err
		}
		return fn(summaries)
	})
}
