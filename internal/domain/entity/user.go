package entity

import (
	"time"
)

const MaxNotesLength = 200

type User struct {
	ID        string   `json:"id" firestore:"-"`
	Name      string   `json:"name" firestore:"name"`
	Email     string   `json:"email,omitempty" firestore:"email"`
	Bio       string   `json:"bio" firestore:"bio"`
	Interests []string `json:"interests" firestore:"interests"`
	PhotoURL  string   `json:"photo_url,omitempty" firestore:"profilePhoto"`

	Communities []string `json:"communities" firestore:"communities"`
	// Availability is the account-wide week from before availability moved
	// onto communities. Nothing reads it for discovery.
	Availability   Week     `json:"availability" firestore:"availability"`
	CheckedMatches []string `json:"checked_matches" firestore:"checkedMatches"`
	Chats          []string `json:"chats" firestore:"chats"`

	CanDrive      bool   `json:"can_drive" firestore:"canDrive"`
	Notes         string `json:"notes" firestore:"notes"`
	ActivityCount int    `json:"activity_count" firestore:"activityCount"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}

// NewUser returns the record written at signup: every set empty, every day off.
func NewUser(id, name, email string, now time.Time) *User {
	return &User{
		ID:             id,
		Name:           name,
		Email:          email,
		Interests:      []string{},
		Communities:    []string{},
		CheckedMatches: []string{},
		Chats:          []string{},
		CreatedAt:      now,
	}
}

func (u *User) HasChecked(userID string) bool {
	return contains(u.CheckedMatches, userID)
}

func (u *User) HasChat(chatID string) bool {
	return contains(u.Chats, chatID)
}

func (u *User) InCommunity(communityID string) bool {
	return contains(u.Communities, communityID)
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

// AddUnique appends v unless it is already present, mirroring a set-union write.
func AddUnique(values []string, v string) []string {
	if contains(values, v) {
		return values
	}
	return append(values, v)
}

// RemoveValue drops every occurrence of v.
func RemoveValue(values []string, v string) []string {
	out := values[:0:0]
	for _, s := range values {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}

// PublicProfile is what other members see. Checked matches, chats and email
// stay private to the owner.
type PublicProfile struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Bio           string   `json:"bio"`
	Interests     []string `json:"interests"`
	PhotoURL      string   `json:"photo_url,omitempty"`
	CanDrive      bool     `json:"can_drive"`
	Notes         string   `json:"notes"`
	ActivityCount int      `json:"activity_count"`
}

func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:            u.ID,
		Name:          u.Name,
		Bio:           u.Bio,
		Interests:     u.Interests,
		PhotoURL:      u.PhotoURL,
		CanDrive:      u.CanDrive,
		Notes:         u.Notes,
		ActivityCount: u.ActivityCount,
	}
}
