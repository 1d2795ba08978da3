package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisHub is the multi-instance hub: local connections in memory, frames
// for users connected elsewhere relayed over Redis pub/sub.
type RedisHub struct {
	clients map[string]*UserClient
	mu      sync.RWMutex

	redisClient *redis.Client
	pubsub      *redis.PubSub
	serverId    string

	register   chan *UserClient
	unregister chan *UserClient
	broadcast  chan []byte

	logger             *zap.SugaredLogger
	onClientUnregister func(client *UserClient) error
}

type relayedFrame struct {
	FromServerId string `json:"fromServerId"`
	ToUserId     string `json:"toUserId"`
	Payload      []byte `json:"payload"`
}

func NewRedisHub(rdb *redis.Client, serverId string, logger *zap.SugaredLogger) IHub {
	hub := &RedisHub{
		clients:     make(map[string]*UserClient),
		redisClient: rdb,
		serverId:    serverId,
		register:    make(chan *UserClient),
		unregister:  make(chan *UserClient),
		broadcast:   make(chan []byte, 256),
		logger:      logger,
	}

	hub.pubsub = rdb.PSubscribe(context.Background(), "frames:*")

	return hub
}

func (h *RedisHub) Run() {
	go h.subscribeRedis()

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserId] = client
			h.mu.Unlock()

			// Record which instance holds this user's connection.
			h.redisClient.Set(context.Background(), "user:"+client.UserId+":server", h.serverId, 0)

			h.logger.Debugf("[%s] %s connected", h.serverId, client.UserId)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.UserId]; ok {
				delete(h.clients, client.UserId)
				close(client.send)

				h.redisClient.Del(context.Background(), "user:"+client.UserId+":server")

				h.logger.Debugf("[%s] %s disconnected", h.serverId, client.UserId)
			}
			h.mu.Unlock()

			if h.onClientUnregister != nil {
				if err := h.onClientUnregister(client); err != nil {
					h.logger.Errorf("client unregister callback: %v", err)
				}
			}

		case message := <-h.broadcast:
			h.broadcastLocal(message)
		}
	}
}

func (h *RedisHub) subscribeRedis() {
	ch := h.pubsub.Channel()

	h.logger.Debugf("[%s] redis subscriber started", h.serverId)

	for msg := range ch {
		var frame relayedFrame
		if err := json.Unmarshal([]byte(msg.Payload), &frame); err != nil {
			h.logger.Errorf("unmarshal relayed frame: %v", err)
			continue
		}

		// Skip frames this instance published itself.
		if frame.FromServerId == h.serverId {
			continue
		}

		h.mu.RLock()
		_, existsLocally := h.clients[frame.ToUserId]
		h.mu.RUnlock()
		if !existsLocally {
			continue
		}

		h.SendToClient(frame.ToUserId, frame.Payload)
	}
}

// SendToClient delivers locally when the user is connected here, otherwise
// publishes the frame for whichever instance holds the connection.
func (h *RedisHub) SendToClient(userId string, message []byte) {
	h.mu.RLock()
	client, existsLocally := h.clients[userId]
	h.mu.RUnlock()

	if existsLocally {
		select {
		case client.send <- message:
		default:
			h.logger.Warnf("[%s] send buffer full for client %s", h.serverId, userId)
		}
		return
	}

	h.publishToRedis(userId, message)
}

func (h *RedisHub) publishToRedis(userId string, message []byte) {
	frame := relayedFrame{
		FromServerId: h.serverId,
		ToUserId:     userId,
		Payload:      message,
	}

	payload, err := json.Marshal(frame)
	if err != nil {
		h.logger.Errorf("marshal relayed frame: %v", err)
		return
	}

	if err := h.redisClient.Publish(context.Background(), "frames:"+userId, payload).Err(); err != nil {
		h.logger.Errorf("publish relayed frame: %v", err)
	}
}

func (h *RedisHub) broadcastLocal(message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for userId, client := range h.clients {
		select {
		case client.send <- message:
		default:
			h.logger.Warnf("send buffer full for client %s", userId)
		}
	}
}

func (h *RedisHub) Broadcast(message []byte) {
	h.broadcast <- message
}

func (h *RedisHub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *RedisHub) RegisterClient(client *UserClient) {
	h.register <- client
}

func (h *RedisHub) UnregisterClient(client *UserClient) {
	h.unregister <- client
}

func (h *RedisHub) SetOnClientUnregister(callback func(client *UserClient) error) {
	h.onClientUnregister = callback
}
