package ws

import (
	"sync"

	"go.uber.org/zap"
)

// Hub tracks connected clients on this instance and routes frames to them.
type Hub struct {
	clients            map[string]*UserClient
	broadcast          chan []byte
	register           chan *UserClient
	unregister         chan *UserClient
	mu                 sync.RWMutex
	logger             *zap.SugaredLogger
	onClientUnregister func(client *UserClient) error
}

func NewHub(logger *zap.SugaredLogger) IHub {
	return &Hub{
		clients:    make(map[string]*UserClient),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *UserClient),
		unregister: make(chan *UserClient),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserId] = client
			h.mu.Unlock()
			h.logger.Debugf("%s connected", client.UserId)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.UserId]; ok {
				delete(h.clients, client.UserId)
				close(client.send)
				h.logger.Debugf("%s disconnected", client.UserId)
			}
			h.mu.Unlock()

			if h.onClientUnregister != nil {
				if err := h.onClientUnregister(client); err != nil {
					h.logger.Errorf("client unregister callback: %v", err)
				}
			}

		case message := <-h.broadcast:
			h.mu.Lock()
			for userId, client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, userId)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) Broadcast(message []byte) {
	h.broadcast <- message
}

func (h *Hub) SendToClient(userId string, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	client, exists := h.clients[userId]
	if exists {
		select {
		case client.send <- message:
		default:
			h.logger.Warnf("send buffer full for client %s", userId)
		}
	}
}

func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) RegisterClient(client *UserClient) {
	h.register <- client
}

func (h *Hub) UnregisterClient(client *UserClient) {
	h.unregister <- client
}

func (h *Hub) SetOnClientUnregister(callback func(client *UserClient) error) {
	h.onClientUnregister = callback
}
