package live

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// watcher is the slice of a change stream the delivery loop consumes.
// *mongo.ChangeStream satisfies it directly.
type watcher interface {
	Next(ctx context.Context) bool
	Err() error
	Close(ctx context.Context) error
}

type streamOpener interface {
	messages(ctx context.Context, chatId string) (watcher, error)
	chats(ctx context.Context, userId string) (watcher, error)
	presence(ctx context.Context, userId string) (watcher, error)
}

type mongoStreams struct {
	db *mongo.Database
}

// Delete events carry no full document, so they cannot be matched to a
// chat; they pass the filter and cost one redundant re-query.
func messagesPipeline(chatId string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"$or": bson.A{
			bson.M{"fullDocument.chatId": chatId},
			bson.M{"operationType": "delete"},
		}}}},
	}
}

// The post-image predicate alone misses the event that removes the user
// from a chat: after a `$pull` their id is gone from fullDocument, so
// membership edits are matched through updateDescription as well. The
// re-query filters out chats the user no longer belongs to.
func chatsPipeline(userId string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"$or": bson.A{
			bson.M{"fullDocument.participants": userId},
			bson.M{"operationType": "delete"},
			bson.M{"updateDescription.updatedFields.participants": bson.M{"$exists": true}},
			bson.M{"updateDescription.removedFields": "participants"},
		}}}},
	}
}

func presencePipeline(userId string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"documentKey._id": userId}}},
	}
}

func (s *mongoStreams) messages(ctx context.Context, chatId string) (watcher, error) {
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	return s.db.Collection("messages").Watch(ctx, messagesPipeline(chatId), opts)
}

func (s *mongoStreams) chats(ctx context.Context, userId string) (watcher, error) {
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	return s.db.Collection("chats").Watch(ctx, chatsPipeline(userId), opts)
}

func (s *mongoStreams) presence(ctx context.Context, userId string) (watcher, error) {
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	return s.db.Collection("users").Watch(ctx, presencePipeline(userId), opts)
}
