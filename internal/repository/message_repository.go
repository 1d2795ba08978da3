package repository

import (
	"context"
	"errors"
	"time"

	"convo/internal/entity"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

var ErrMessageNotFound = errors.New("message not found")

type MessageRepository interface {
	// Send appends the message and refreshes the parent chat's preview
	// fields as one transactional unit.
	Send(ctx context.Context, message entity.Message) (string, error)
	Get(ctx context.Context, chatId, messageId string) (entity.Message, error)
	All(ctx context.Context, chatId string) ([]entity.Message, error)
	Latest(ctx context.Context, chatId string, limit int64) ([]entity.Message, error)
	Edit(ctx context.Context, chatId, messageId, text string) error
	SoftDelete(ctx context.Context, chatId, messageId string) error
	MarkRead(ctx context.Context, chatId, messageId, userId string) error
	AddReaction(ctx context.Context, chatId, messageId, emoji, userId string) error
	RemoveReaction(ctx context.Context, chatId, messageId, emoji, userId string) error
}

type messageRepository struct {
	db     *mongo.Database
	logger *zap.SugaredLogger
}

func NewMessageRepository(db *mongo.Database, logger *zap.SugaredLogger) MessageRepository {
	return &messageRepository{
		db:     db,
		logger: logger,
	}
}

// Send inserts the message and updates the chat's lastMessage preview in a
// single transaction, so the preview can never lag behind a committed
// append. sentAt is assigned here and never changes afterwards.
func (r *messageRepository) Send(ctx context.Context, message entity.Message) (string, error) {
	now := time.Now().UTC()
	message.Id = uuid.New().String()
	message.SentAt = now
	message.IsDeleted = false
	message.ReadBy = []string{message.SenderId}
	message.Reactions = map[string][]string{}

	session, err := r.db.Client().StartSession()
	if err != nil {
		return "", err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.db.Collection("messages").InsertOne(sc, message); err != nil {
			return nil, err
		}

		update := bson.M{
			"$set": bson.M{
				"lastMessage":         entity.Preview(message.Text),
				"lastMessageSenderId": message.SenderId,
				"lastMessageTime":     now,
			},
		}
		result, err := r.db.Collection("chats").UpdateOne(sc, bson.M{"_id": message.ChatId}, update)
		if err != nil {
			return nil, err
		}
		if result.MatchedCount == 0 {
			return nil, ErrChatNotFound
		}

		return nil, nil
	})
	if err != nil {
		return "", err
	}

	r.logger.Debugf("message %s sent to chat %s", message.Id, message.ChatId)

	return message.Id, nil
}

func (r *messageRepository) Get(ctx context.Context, chatId, messageId string) (entity.Message, error) {
	collection := r.db.Collection("messages")
	filter := bson.M{"_id": messageId, "chatId": chatId}

	var message entity.Message
	err := collection.FindOne(ctx, filter).Decode(&message)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return entity.Message{}, ErrMessageNotFound
		}
		return entity.Message{}, err
	}

	return message, nil
}

// All returns the chat's full history in chronological order.
func (r *messageRepository) All(ctx context.Context, chatId string) ([]entity.Message, error) {
	collection := r.db.Collection("messages")
	filter := bson.M{"chatId": chatId}

	opts := options.Find().SetSort(bson.D{{Key: "sentAt", Value: 1}})
	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var messages []entity.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}

	return messages, nil
}

// Latest returns the limit most recent messages in chronological order.
// "The N most recent, oldest first" is not expressible as one ascending
// limited query, so the page is fetched newest-first and reversed.
func (r *messageRepository) Latest(ctx context.Context, chatId string, limit int64) ([]entity.Message, error) {
	if limit <= 0 {
		return r.All(ctx, chatId)
	}

	collection := r.db.Collection("messages")
	filter := bson.M{"chatId": chatId}

	opts := options.Find().
		SetSort(bson.D{{Key: "sentAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var messages []entity.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}

	ReverseMessages(messages)

	return messages, nil
}

// Edit sets new text and editedAt. Soft-deleted messages are not editable;
// the tombstone never gets its text back through this path.
func (r *messageRepository) Edit(ctx context.Context, chatId, messageId, text string) error {
	collection := r.db.Collection("messages")
	filter := bson.M{"_id": messageId, "chatId": chatId, "isDeleted": false}
	update := bson.M{
		"$set": bson.M{
			"text":     text,
			"editedAt": time.Now().UTC(),
		},
	}

	result, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrMessageNotFound
	}

	return nil
}

// SoftDelete replaces the text with the tombstone and flags the message.
// The record keeps its id; deleting twice leaves the same tombstone.
func (r *messageRepository) SoftDelete(ctx context.Context, chatId, messageId string) error {
	collection := r.db.Collection("messages")
	filter := bson.M{"_id": messageId, "chatId": chatId}
	update := bson.M{
		"$set": bson.M{
			"text":      entity.DeletedMessageText,
			"isDeleted": true,
		},
	}

	result, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrMessageNotFound
	}

	return nil
}

func (r *messageRepository) MarkRead(ctx context.Context, chatId, messageId, userId string) error {
	collection := r.db.Collection("messages")
	filter := bson.M{"_id": messageId, "chatId": chatId}
	update := bson.M{
		"$addToSet": bson.M{"readBy": userId},
	}

	result, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrMessageNotFound
	}

	return nil
}

func (r *messageRepository) AddReaction(ctx context.Context, chatId, messageId, emoji, userId string) error {
	collection := r.db.Collection("messages")
	filter := bson.M{"_id": messageId, "chatId": chatId}
	update := bson.M{
		"$addToSet": bson.M{"reactions." + emoji: userId},
	}

	result, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrMessageNotFound
	}

	return nil
}

func (r *messageRepository) RemoveReaction(ctx context.Context, chatId, messageId, emoji, userId string) error {
	collection := r.db.Collection("messages")
	filter := bson.M{"_id": messageId, "chatId": chatId}
	update := bson.M{
		"$pull": bson.M{"reactions." + emoji: userId},
	}

	result, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrMessageNotFound
	}

	return nil
}

// ReverseMessages flips a newest-first page into chronological order.
func ReverseMessages(messages []entity.Message) {
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
}
