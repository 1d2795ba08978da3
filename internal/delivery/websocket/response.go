package websocket

// ServerFrame is one outbound frame. Event names the payload shape; Id
// echoes the subscription the snapshot belongs to.
type ServerFrame struct {
	Event string `json:"event"`
	Id    string `json:"id,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

const (
	EventMessages = "messages"
	EventChats    = "chats"
	EventPresence = "presence"
	EventAck      = "ack"
	EventError    = "error"

	// EventMessageNotify is the lightweight hint fanned out to other
	// participants on send; unlike EventMessages it carries ids, not a
	// snapshot.
	EventMessageNotify = "message_notify"
)
