package handler

import (
	"context"
	"encoding/json"
	"net/http"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"outdoormatch/internal/adapter/api/middleware"
	"outdoormatch/internal/domain/entity"
	ws "outdoormatch/internal/infrastructure/websocket"
	"outdoormatch/internal/usecase"
	"outdoormatch/pkg/errors"
	"outdoormatch/pkg/logger"
	"outdoormatch/pkg/response"
)

const (
	kindChat     = "chat"
	kindChatList = "chat_list"
)

type WebSocketHandler struct {
	chatUseCase *usecase.ChatUseCase
	wsManager   *ws.Manager
}

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Mobile clients send no Origin; auth is by token.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func NewWebSocketHandler(chatUseCase *usecase.ChatUseCase, wsManager *ws.Manager) *WebSocketHandler {
	return &WebSocketHandler{
		chatUseCase: chatUseCase,
		wsManager:   wsManager,
	}
}

func wsError(err error) ws.ErrorData {
	appErr, ok := err.(*errors.AppError)
	if !ok {
		appErr = errors.Internal("Subscription failed", err)
	}
	return ws.ErrorData{Code: appErr.Code, Message: appErr.Message}
}

// stream runs watch on its own context, cancelled when the client goes away,
// and closes the client when watch ends.
func (h *WebSocketHandler) stream(client *ws.Client, watch func(ctx context.Context) error) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-client.Done()
		cancel()
	}()

	go func() {
		defer client.Close()
		if err := watch(ctx); err != nil && ctx.Err() == nil {
			logger.Warn("Subscription %s for %s ended: %v", client.Kind, client.UserID, err)
			client.Emit(ws.MessageTypeError, wsError(err))
		}
	}()
}

// WatchChat streams a chat to a participant and accepts send_message frames.
func (h *WebSocketHandler) WatchChat(c echo.Context) error {
	userID := middleware.UserID(c)
	chatID := c.Param("id")

	if _, err := h.chatUseCase.GetChat(c.Request().Context(), userID, chatID); err != nil {
		return response.Error(c, err)
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Warn("websocket upgrade failed: %v", err)
		return nil
	}

	client := ws.NewClient(userID, kindChat, conn)
	h.stream(client, func(ctx context.Context) error {
		return h.chatUseCase.WatchChat(ctx, userID, chatID, func(chat *entity.Chat) error {
			return client.Emit(ws.MessageTypeChat, chat)
		})
	})

	h.wsManager.Serve(client, func(frame []byte) {
		h.handleChatFrame(client, chatID, frame)
	})
	return nil
}

func (h *WebSocketHandler) handleChatFrame(client *ws.Client, chatID string, frame []byte) {
	msg, err := ws.ParseMessage(frame)
	if err != nil {
		client.Emit(ws.MessageTypeError, ws.ErrorData{Code: errors.CodeBadRequest, Message: "Invalid frame"})
		return
	}

	switch msg.Type {
	case ws.MessageTypePing:
		client.Emit(ws.MessageTypePong, nil)

	case ws.MessageTypeSendMessage:
		var data ws.SendMessageData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			client.Emit(ws.MessageTypeError, ws.ErrorData{Code: errors.CodeBadRequest, Message: "Invalid send_message data"})
			return
		}

		message, err := h.chatUseCase.SendMessage(context.Background(), client.UserID, chatID, data.Text)
		if err != nil {
			e := wsError(err)
			e.TempID = data.TempID
			client.Emit(ws.MessageTypeError, e)
			return
		}
		client.Emit(ws.MessageTypeMessageSent, map[string]interface{}{
			"temp_id": data.TempID,
			"message": message,
		})

	default:
		client.Emit(ws.MessageTypeError, ws.ErrorData{Code: errors.CodeBadRequest, Message: "Unknown message type " + msg.Type})
	}
}

// WatchChats streams the caller's chat list.
func (h *WebSocketHandler) WatchChats(c echo.Context) error {
	userID := middleware.UserID(c)

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Warn("websocket upgrade failed: %v", err)
		return nil
	}

	client := ws.NewClient(userID, kindChatList, conn)
	h.stream(client, func(ctx context.Context) error {
		return h.chatUseCase.WatchUserChats(ctx, userID, func(chats []entity.ChatSummary) error {
			return client.Emit(ws.MessageTypeChats, chats)
		})
	})

	h.wsManager.Serve(client, func(frame []byte) {
		if msg, err := ws.ParseMessage(frame); err == nil && msg.Type == ws.MessageTypePing {
			client.Emit(ws.MessageTypePong, nil)
		}
	})
	return nil
}
