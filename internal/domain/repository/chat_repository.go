package repository

import (
	"context"

	"outdoormatch/internal/domain/entity"
)

type ChatRepository interface {
	// CreateIfAbsent writes chat only if no document has its id. created
	// reports whether this call wrote it; an existing chat is left untouched.
	CreateIfAbsent(ctx context.Context, chat *entity.Chat) (created bool, err error)
	GetByID(ctx context.Context, id string) (*entity.Chat, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Chat, error)
	// AppendMessage appends to the message list and updates the last-message
	// fields in one write.
	AppendMessage(ctx context.Context, chatID string, message entity.Message) error
	Watch(ctx context.Context, chatID string, fn func(*entity.Chat) error) error
}
