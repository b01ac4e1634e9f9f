package entity

import (
	"sort"
	"strings"
	"time"
)

const chatIDSeparator = "_"

// ParticipantSnapshot is copied into the chat when it is created and is not
// refreshed when the user later edits their profile.
type ParticipantSnapshot struct {
	Name     string `json:"name" firestore:"name"`
	PhotoURL string `json:"photo_url,omitempty" firestore:"photoURL"`
}

type Chat struct {
	ID               string                         `json:"id" firestore:"id"`
	Participants     []string                       `json:"participants" firestore:"participants"`
	ParticipantsData map[string]ParticipantSnapshot `json:"participants_data" firestore:"participantsData"`
	Messages         []Message                      `json:"messages" firestore:"messages"`
	LastMessage      *string                        `json:"last_message" firestore:"lastMessage"`
	LastMessageTime  time.Time                      `json:"last_message_time" firestore:"lastMessageTime"`
	CreatedAt        time.Time                      `json:"created_at" firestore:"createdAt"`
}

type ChatSummary struct {
	ID              string              `json:"id"`
	LastMessage     *string             `json:"last_message"`
	LastMessageTime time.Time           `json:"last_message_time"`
	OtherUserID     string              `json:"other_user_id"`
	OtherUser       ParticipantSnapshot `json:"other_user"`
}

// ChatID is a pure function of the unordered pair, so both sides of a match
// address the same document without coordinating.
func ChatID(a, b string) string {
	ids := []string{a, b}
	sort.Strings(ids)
	return strings.Join(ids, chatIDSeparator)
}

// NewDirectChat builds the record created when a and b match.
func NewDirectChat(a, b *User, now time.Time) *Chat {
	return &Chat{
		ID:           ChatID(a.ID, b.ID),
		Participants: []string{a.ID, b.ID},
		ParticipantsData: map[string]ParticipantSnapshot{
			a.ID: {Name: displayName(a), PhotoURL: a.PhotoURL},
			b.ID: {Name: displayName(b), PhotoURL: b.PhotoURL},
		},
		Messages:        []Message{},
		LastMessageTime: now,
		CreatedAt:       now,
	}
}

func displayName(u *User) string {
	if u.Name == "" {
		return "User"
	}
	return u.Name
}

func (c *Chat) HasParticipant(userID string) bool {
	return contains(c.Participants, userID)
}

func (c *Chat) OtherParticipant(userID string) string {
	for _, id := range c.Participants {
		if id != userID {
			return id
		}
	}
	return ""
}

func (c *Chat) SummaryFor(userID string) ChatSummary {
	other := c.OtherParticipant(userID)
	return ChatSummary{
		ID:              c.ID,
		LastMessage:     c.LastMessage,
		LastMessageTime: c.LastMessageTime,
		OtherUserID:     other,
		OtherUser:       c.ParticipantsData[other],
	}
}
