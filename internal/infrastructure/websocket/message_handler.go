package websocket

import (
	"encoding/json"
	"time"
)

// WebSocket message types
const (
	MessageTypePing        = "ping"
	MessageTypePong        = "pong"
	MessageTypeSendMessage = "send_message"
	MessageTypeChat        = "chat"
	MessageTypeChats       = "chats"
	MessageTypeMessageSent = "message_sent"
	MessageTypeError       = "error"
)

// WSMessage is the envelope of every frame in both directions.
type WSMessage struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp string          `json:"timestamp"`
}

type SendMessageData struct {
	TempID string `json:"temp_id,omitempty"`
	Text   string `json:"text"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	TempID  string `json:"temp_id,omitempty"`
}

// NewMessage builds an outbound envelope.
func NewMessage(messageType string, data interface{}) (*WSMessage, error) {
	msg := &WSMessage{
		Type:      messageType,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		msg.Data = raw
	}
	return msg, nil
}

// ParseMessage decodes an inbound frame.
func ParseMessage(frame []byte) (*WSMessage, error) {
	var msg WSMessage
	if err := json.Unmarshal(frame, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Emit wraps data in an envelope and queues it on c.
func (c *Client) Emit(messageType string, data interface{}) error {
	msg, err := NewMessage(messageType, data)
	if err != nil {
		return err
	}
	return c.SendJSON(msg)
}
