package entity

import "time"

type ChatType string

const (
	ChatTypeDirect ChatType = "direct"
	ChatTypeGroup  ChatType = "group"
)

type Chat struct {
	Id                  string    `bson:"_id" json:"id"`
	Name                string    `bson:"name,omitempty" json:"name,omitempty"`
	Type                ChatType  `bson:"type" json:"type"`
	Participants        []string  `bson:"participants" json:"participants"`
	Admins              []string  `bson:"admins,omitempty" json:"admins,omitempty"`
	PinnedBy            []string  `bson:"pinnedBy" json:"pinnedBy"`
	LastMessage         string    `bson:"lastMessage,omitempty" json:"lastMessage,omitempty"`
	LastMessageSenderId string    `bson:"lastMessageSenderId,omitempty" json:"lastMessageSenderId,omitempty"`
	LastMessageTime     time.Time `bson:"lastMessageTime" json:"lastMessageTime"`
	CreatedBy           string    `bson:"createdBy" json:"createdBy"`
	CreatedAt           time.Time `bson:"createdAt" json:"createdAt"`
	IsArchived          bool      `bson:"isArchived" json:"isArchived"`
}

// ChatUpdate carries a partial chat edit. Nil fields are left untouched.
type ChatUpdate struct {
	Name       *string `json:"name,omitempty"`
	IsArchived *bool   `json:"isArchived,omitempty"`
}

func (c Chat) HasParticipant(userId string) bool {
	return contains(c.Participants, userId)
}

func (c Chat) IsAdmin(userId string) bool {
	return contains(c.Admins, userId)
}

// AddParticipant adds userId with set semantics. Adding an existing
// participant is a no-op.
func (c *Chat) AddParticipant(userId string) {
	c.Participants = addToSet(c.Participants, userId)
}

// RemoveParticipant removes userId from participants and, because admins
// must stay a subset of participants, from admins as well.
func (c *Chat) RemoveParticipant(userId string) {
	c.Participants = removeFromSet(c.Participants, userId)
	c.Admins = removeFromSet(c.Admins, userId)
}

func (c *Chat) AddAdmin(userId string) {
	c.Admins = addToSet(c.Admins, userId)
}

func (c *Chat) RemoveAdmin(userId string) {
	c.Admins = removeFromSet(c.Admins, userId)
}

func (c *Chat) SetPinned(userId string, pinned bool) {
	if pinned {
		c.PinnedBy = addToSet(c.PinnedBy, userId)
	} else {
		c.PinnedBy = removeFromSet(c.PinnedBy, userId)
	}
}

// IsDirectBetween reports whether c is the unique direct chat joining the
// two given users.
func (c Chat) IsDirectBetween(userId1, userId2 string) bool {
	return c.Type == ChatTypeDirect &&
		len(c.Participants) == 2 &&
		c.HasParticipant(userId1) &&
		c.HasParticipant(userId2)
}
