package entity

import "time"

type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeImage MessageType = "image"
	MessageTypeFile  MessageType = "file"
	MessageTypeAudio MessageType = "audio"
	MessageTypeVideo MessageType = "video"
)

// DeletedMessageText replaces the text of a soft-deleted message. The
// original text is not retained anywhere.
const DeletedMessageText = "This message was deleted"

// PreviewLength caps the lastMessage preview stored on the parent chat.
const PreviewLength = 100

type Message struct {
	Id         string              `bson:"_id" json:"id"`
	ChatId     string              `bson:"chatId" json:"chatId"`
	SenderId   string              `bson:"senderId" json:"senderId"`
	SenderName string              `bson:"senderName,omitempty" json:"senderName,omitempty"`
	Text       string              `bson:"text" json:"text"`
	Type       MessageType         `bson:"type,omitempty" json:"type,omitempty"`
	FileURL    string              `bson:"fileURL,omitempty" json:"fileURL,omitempty"`
	FileName   string              `bson:"fileName,omitempty" json:"fileName,omitempty"`
	ReplyTo    string              `bson:"replyTo,omitempty" json:"replyTo,omitempty"`
	SentAt     time.Time           `bson:"sentAt" json:"sentAt"`
	EditedAt   *time.Time          `bson:"editedAt,omitempty" json:"editedAt,omitempty"`
	IsDeleted  bool                `bson:"isDeleted" json:"isDeleted"`
	ReadBy     []string            `bson:"readBy" json:"readBy"`
	Reactions  map[string][]string `bson:"reactions" json:"reactions"`
}

// MarkRead adds userId to readBy. The set only grows; marking twice is a
// no-op.
func (m *Message) MarkRead(userId string) {
	m.ReadBy = addToSet(m.ReadBy, userId)
}

// AddReaction records userId's reaction under emoji with set semantics.
func (m *Message) AddReaction(emoji, userId string) {
	if m.Reactions == nil {
		m.Reactions = make(map[string][]string)
	}
	m.Reactions[emoji] = addToSet(m.Reactions[emoji], userId)
}

// RemoveReaction drops userId's reaction under emoji. Removing an absent
// reaction is a no-op.
func (m *Message) RemoveReaction(emoji, userId string) {
	if m.Reactions == nil {
		return
	}
	m.Reactions[emoji] = removeFromSet(m.Reactions[emoji], userId)
	if len(m.Reactions[emoji]) == 0 {
		delete(m.Reactions, emoji)
	}
}

// Preview returns text truncated to PreviewLength characters for the
// chat's lastMessage field. Truncation counts runes, not bytes, so a
// multi-byte character is never split.
func Preview(text string) string {
	if len(text) <= PreviewLength {
		return text
	}
	runes := []rune(text)
	if len(runes) <= PreviewLength {
		return text
	}
	return string(runes[:PreviewLength])
}
