package repository

import (
	"context"
	"errors"
	"sort"
	"time"

	"convo/internal/entity"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var (
	ErrChatNotFound       = errors.New("chat not found")
	ErrDirectChatNotFound = errors.New("no direct chat between users")
)

type ChatRepository interface {
	Create(ctx context.Context, chat entity.Chat) (string, error)
	Get(ctx context.Context, chatId string) (entity.Chat, error)
	ByUser(ctx context.Context, userId string) ([]entity.Chat, error)
	Update(ctx context.Context, chatId string, update entity.ChatUpdate) error
	AddParticipant(ctx context.Context, chatId, userId string) error
	RemoveParticipant(ctx context.Context, chatId, userId string) error
	AddAdmin(ctx context.Context, chatId, userId string) error
	RemoveAdmin(ctx context.Context, chatId, userId string) error
	TogglePin(ctx context.Context, chatId, userId string, pinned bool) error
	DirectChatBetween(ctx context.Context, userId1, userId2 string) (entity.Chat, error)
	Delete(ctx context.Context, chatId string) error
	DeleteWithMessages(ctx context.Context, chatId string) error
}

type chatRepository struct {
	db     *mongo.Database
	logger *zap.SugaredLogger
}

func NewChatRepository(db *mongo.Database, logger *zap.SugaredLogger) ChatRepository {
	return &chatRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new chat. For group chats the admin list is forced to
// the creator regardless of caller input; participants are stored with set
// semantics. Timestamps, pinnedBy and the archive flag are assigned here.
func (r *chatRepository) Create(ctx context.Context, chat entity.Chat) (string, error) {
	collection := r.db.Collection("chats")

	now := time.Now().UTC()
	chat.Id = uuid.New().String()
	chat.CreatedAt = now
	chat.LastMessageTime = now
	chat.IsArchived = false
	chat.PinnedBy = []string{}
	chat.Participants = dedupe(chat.Participants)
	if chat.Type == entity.ChatTypeGroup {
		chat.Admins = []string{chat.CreatedBy}
	} else {
		chat.Admins = nil
	}

	_, err := collection.InsertOne(ctx, chat)
	if err != nil {
		return "", err
	}

	r.logger.Debugf("created %s chat %s with %d participants", chat.Type, chat.Id, len(chat.Participants))

	return chat.Id, nil
}

func (r *chatRepository) Get(ctx context.Context, chatId string) (entity.Chat, error) {
	collection := r.db.Collection("chats")
	filter := bson.M{"_id": chatId}

	var chat entity.Chat
	err := collection.FindOne(ctx, filter).Decode(&chat)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return entity.Chat{}, ErrChatNotFound
		}
		return entity.Chat{}, err
	}

	return chat, nil
}

// ByUser returns every chat the user participates in, newest activity
// first.
func (r *chatRepository) ByUser(ctx context.Context, userId string) ([]entity.Chat, error) {
	collection := r.db.Collection("chats")
	filter := bson.M{"participants": userId}

	cursor, err := collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	var chats []entity.Chat
	if err := cursor.All(ctx, &chats); err != nil {
		return nil, err
	}

	SortChatsByActivity(chats)

	return chats, nil
}

// Update merges only the fields set on update.
func (r *chatRepository) Update(ctx context.Context, chatId string, update entity.ChatUpdate) error {
	fields := bson.M{}
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.IsArchived != nil {
		fields["isArchived"] = *update.IsArchived
	}
	if len(fields) == 0 {
		return nil
	}

	collection := r.db.Collection("chats")
	result, err := collection.UpdateOne(ctx, bson.M{"_id": chatId}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrChatNotFound
	}

	return nil
}

func (r *chatRepository) AddParticipant(ctx context.Context, chatId, userId string) error {
	collection := r.db.Collection("chats")
	update := bson.M{
		"$addToSet": bson.M{"participants": userId},
	}

	result, err := collection.UpdateOne(ctx, bson.M{"_id": chatId}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrChatNotFound
	}

	return nil
}

// RemoveParticipant pulls the user from participants and admins in one
// update, keeping admins a subset of participants at all times. Removing an
// absent participant is a no-op.
func (r *chatRepository) RemoveParticipant(ctx context.Context, chatId, userId string) error {
	collection := r.db.Collection("chats")
	update := bson.M{
		"$pull": bson.M{
			"participants": userId,
			"admins":       userId,
			"pinnedBy":     userId,
		},
	}

	result, err := collection.UpdateOne(ctx, bson.M{"_id": chatId}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrChatNotFound
	}

	return nil
}

func (r *chatRepository) AddAdmin(ctx context.Context, chatId, userId string) error {
	collection := r.db.Collection("chats")
	update := bson.M{
		"$addToSet": bson.M{"admins": userId},
	}

	result, err := collection.UpdateOne(ctx, bson.M{"_id": chatId}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrChatNotFound
	}

	return nil
}

func (r *chatRepository) RemoveAdmin(ctx context.Context, chatId, userId string) error {
	collection := r.db.Collection("chats")
	update := bson.M{
		"$pull": bson.M{"admins": userId},
	}

	result, err := collection.UpdateOne(ctx, bson.M{"_id": chatId}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrChatNotFound
	}

	return nil
}

func (r *chatRepository) TogglePin(ctx context.Context, chatId, userId string, pinned bool) error {
	collection := r.db.Collection("chats")

	var update bson.M
	if pinned {
		update = bson.M{"$addToSet": bson.M{"pinnedBy": userId}}
	} else {
		update = bson.M{"$pull": bson.M{"pinnedBy": userId}}
	}

	result, err := collection.UpdateOne(ctx, bson.M{"_id": chatId}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrChatNotFound
	}

	return nil
}

// DirectChatBetween finds the direct chat whose participant set is exactly
// the two given users. Callers use this before creating a direct chat so
// the pair stays unique.
func (r *chatRepository) DirectChatBetween(ctx context.Context, userId1, userId2 string) (entity.Chat, error) {
	collection := r.db.Collection("chats")
	filter := bson.M{
		"type":         entity.ChatTypeDirect,
		"participants": bson.M{"$all": bson.A{userId1, userId2}, "$size": 2},
	}

	var chat entity.Chat
	err := collection.FindOne(ctx, filter).Decode(&chat)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return entity.Chat{}, ErrDirectChatNotFound
		}
		return entity.Chat{}, err
	}

	return chat, nil
}

func (r *chatRepository) Delete(ctx context.Context, chatId string) error {
	collection := r.db.Collection("chats")
	_, err := collection.DeleteOne(ctx, bson.M{"_id": chatId})
	return err
}

// DeleteWithMessages removes every message owned by the chat and then the
// chat record itself inside one transaction. If any step fails the whole
// unit aborts and the chat survives with its messages.
func (r *chatRepository) DeleteWithMessages(ctx context.Context, chatId string) error {
	session, err := r.db.Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.db.Collection("messages").DeleteMany(sc, bson.M{"chatId": chatId}); err != nil {
			return nil, err
		}

		result, err := r.db.Collection("chats").DeleteOne(sc, bson.M{"_id": chatId})
		if err != nil {
			return nil, err
		}
		if result.DeletedCount == 0 {
			return nil, ErrChatNotFound
		}

		return nil, nil
	})
	if err != nil {
		return err
	}

	r.logger.Debugf("deleted chat %s with its messages", chatId)

	return nil
}

// SortChatsByActivity orders chats by lastMessageTime descending. Ties keep
// the retrieval order, which the store returns stably.
func SortChatsByActivity(chats []entity.Chat) {
	sort.SliceStable(chats, func(i, j int) bool {
		return chats[i].LastMessageTime.After(chats[j].LastMessageTime)
	})
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
