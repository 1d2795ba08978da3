package websocket

// ClientRequest is one inbound frame. Action selects the variant; only the
// fields that variant needs are set.
type ClientRequest struct {
	Action string `json:"action"`

	// Subscription management. Id names the subscription so the client can
	// cancel it; each live subscription is torn down individually.
	Id     string `json:"id,omitempty"`
	ChatId string `json:"chatId,omitempty"`
	UserId string `json:"userId,omitempty"`
	Limit  int64  `json:"limit,omitempty"`

	// send_message fields.
	Text     string `json:"text,omitempty"`
	Type     string `json:"type,omitempty"`
	FileURL  string `json:"fileURL,omitempty"`
	FileName string `json:"fileName,omitempty"`
	ReplyTo  string `json:"replyTo,omitempty"`

	// mark_read field.
	MessageId string `json:"messageId,omitempty"`
}

const (
	ActionSubscribeMessages = "subscribe_messages"
	ActionSubscribeChats    = "subscribe_chats"
	ActionSubscribePresence = "subscribe_presence"
	ActionUnsubscribe       = "unsubscribe"
	ActionSendMessage       = "send_message"
	ActionMarkRead          = "mark_read"
)
