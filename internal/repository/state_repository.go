package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/redis/go-redis/v9"
)

var ErrNoLastOpenedChat = errors.New("no last opened chat recorded")

// ClientStateRepository persists small per-user UI state, currently the
// last chat a user had open so the dashboard can restore it on mount.
type ClientStateRepository interface {
	SetLastOpenedChat(ctx context.Context, userId, chatId string) error
	LastOpenedChat(ctx context.Context, userId string) (string, error)
	ClearLastOpenedChat(ctx context.Context, userId string) error
}

type clientStateRepository struct {
	rdb *redis.Client
}

func NewClientStateRepository(rdb *redis.Client) ClientStateRepository {
	return &clientStateRepository{
		rdb: rdb,
	}
}

func lastChatKey(userId string) string {
	return "user:" + userId + ":lastChat"
}

func (r *clientStateRepository) SetLastOpenedChat(ctx context.Context, userId, chatId string) error {
	return r.rdb.Set(ctx, lastChatKey(userId), chatId, 0).Err()
}

func (r *clientStateRepository) LastOpenedChat(ctx context.Context, userId string) (string, error) {
	chatId, err := r.rdb.Get(ctx, lastChatKey(userId)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNoLastOpenedChat
		}
		return "", err
	}
	return chatId, nil
}

func (r *clientStateRepository) ClearLastOpenedChat(ctx context.Context, userId string) error {
	return r.rdb.Del(ctx, lastChatKey(userId)).Err()
}

type memoryClientStateRepository struct {
	chats sync.Map
}

// NewMemoryClientStateRepository keeps last-opened-chat state in process
// memory. Used when Redis is not configured, single server only.
func NewMemoryClientStateRepository() ClientStateRepository {
	return &memoryClientStateRepository{}
}

func (r *memoryClientStateRepository) SetLastOpenedChat(_ context.Context, userId, chatId string) error {
	r.chats.Store(userId, chatId)
	return nil
}

func (r *memoryClientStateRepository) LastOpenedChat(_ context.Context, userId string) (string, error) {
	chatId, ok := r.chats.Load(userId)
	if !ok {
		return "", ErrNoLastOpenedChat
	}
	return chatId.(string), nil
}

func (r *memoryClientStateRepository) ClearLastOpenedChat(_ context.Context, userId string) error {
	r.chats.Delete(userId)
	return nil
}
