package repository

import (
	"context"

	"cloud.google.com/go/firestore"

	"outdoormatch/internal/domain/entity"
	"outdoormatch/internal/domain/repository"
	"outdoormatch/pkg/errors"
	"outdoormatch/pkg/logger"
)

type firestoreChatRepository struct {
	client *firestore.Client
}

func NewFirestoreChatRepository(client *firestore.Client) repository.ChatRepository {
	return &firestoreChatRepository{
		client: client,
	}
}

func (r *firestoreChatRepository) doc(id string) *firestore.DocumentRef {
	return r.client.Collection(chatsCollection).Doc(id)
}

func decodeChat(doc *firestore.DocumentSnapshot) (*entity.Chat, error) {
	var chat entity.Chat
	if err := doc.DataTo(&chat); err != nil {
		return nil, errors.Internal("Failed to parse chat data", err)
	}
	chat.ID = doc.Ref.ID
	if chat.Messages == nil {
		chat.Messages = []entity.Message{}
	}
	return &chat, nil
}

func (r *firestoreChatRepository) CreateIfAbsent(ctx context.Context, chat *entity.Chat) (bool, error) {
	// Create fails if the document exists, so two matches racing on the same
	// pair end up with one chat and the earlier messages intact.
	_, err := r.doc(chat.ID).Create(ctx, chat)
	if err != nil {
		if isAlreadyExists(err) {
			logger.Debug("Chat %s already exists", chat.ID)
			return false, nil
		}
		return false, storeError(err, "Chat", "create chat")
	}
	return true, nil
}

func (r *firestoreChatRepository) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	doc, err := r.doc(id).Get(ctx)
	if err != nil {
		return nil, storeError(err, "Chat", "get chat")
	}
	return decodeChat(doc)
}

func (r *firestoreChatRepository) GetByIDs(ctx context.Context, ids []string) ([]*entity.Chat, error) {
	if len(ids) == 0 {
		return []*entity.Chat{}, nil
	}

	refs := make([]*firestore.DocumentRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, r.doc(id))
	}

	docs, err := r.client.GetAll(ctx, refs)
	if err != nil {
		return nil, storeError(err, "Chat", "get chats")
	}

	chats := make([]*entity.Chat, 0, len(docs))
	for _, doc := range docs {
		if !doc.Exists() {
			continue
		}
		chat, err := decodeChat(doc)
		if err != nil {
			logger.Warn("GetByIDs: skipping unreadable chat %s: %v", doc.Ref.ID, err)
			continue
		}
		chats = append(chats, chat)
	}
	return chats, nil
}

func (r *firestoreChatRepository) AppendMessage(ctx context.Context, chatID string, message entity.Message) error {
	_, err := r.doc(chatID).Update(ctx, []firestore.Update{
		{Path: "messages", Value: firestore.ArrayUnion(message)},
		{Path: "lastMessage", Value: message.Text},
		{Path: "lastMessageTime", Value: message.Timestamp},
	})
	return storeError(err, "Chat", "send message")
}

func (r *firestoreChatRepository) Watch(ctx context.Context, chatID string, fn func(*entity.Chat) error) error {
	return watchDocument(ctx, r.doc(chatID), "Chat", func(doc *firestore.DocumentSnapshot) error {
		chat, err := decodeChat(doc)
		if err != nil {
			return err
		}
		return fn(chat)
	})
}
