package repository

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"convo/internal/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrInvalidStatus = errors.New("invalid user status")
)

type UserRepository interface {
	Create(ctx context.Context, user entity.User) (string, error)
	Get(ctx context.Context, userId string) (entity.User, error)
	GetByEmail(ctx context.Context, email string) (entity.User, error)
	All(ctx context.Context) ([]entity.User, error)
	UpdateStatus(ctx context.Context, userId string, status entity.UserStatus) error
	UpdateProfile(ctx context.Context, userId string, update entity.ProfileUpdate) error
}

type userRepository struct {
	db     *mongo.Database
	logger *zap.SugaredLogger
}

func NewUserRepository(db *mongo.Database, logger *zap.SugaredLogger) UserRepository {
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// Create writes a new profile. Status is forced to online and timestamps
// are assigned here regardless of caller input. Existing profiles are not
// checked for, callers look up first.
func (r *userRepository) Create(ctx context.Context, user entity.User) (string, error) {
	collection := r.db.Collection("users")

	now := time.Now().UTC()
	user.Status = entity.StatusOnline
	user.CreatedAt = now
	user.LastSeen = now

	_, err := collection.InsertOne(ctx, user)
	if err != nil {
		return "", err
	}

	r.logger.Debugf("created user profile %s", user.Id)

	return user.Id, nil
}

func (r *userRepository) Get(ctx context.Context, userId string) (entity.User, error) {
	collection := r.db.Collection("users")
	filter := bson.M{"_id": userId}

	var user entity.User
	err := collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return entity.User{}, ErrUserNotFound
		}
		return entity.User{}, err
	}

	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (entity.User, error) {
	collection := r.db.Collection("users")
	filter := bson.M{"email": strings.ToLower(email)}

	var user entity.User
	err := collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return entity.User{}, ErrUserNotFound
		}
		return entity.User{}, err
	}

	return user, nil
}

// All returns every user profile, sorted by display name for stable output.
// There is no server-side text index; search filtering happens above this
// layer and does not scale past a few thousand users.
func (r *userRepository) All(ctx context.Context) ([]entity.User, error) {
	collection := r.db.Collection("users")

	cursor, err := collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	var users []entity.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}

	sort.Slice(users, func(i, j int) bool {
		return users[i].DisplayName < users[j].DisplayName
	})

	return users, nil
}

// UpdateStatus sets the presence state and refreshes lastSeen. Nothing else
// on the profile is touched.
func (r *userRepository) UpdateStatus(ctx context.Context, userId string, status entity.UserStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}

	collection := r.db.Collection("users")
	filter := bson.M{"_id": userId}
	update := bson.M{
		"$set": bson.M{
			"status":   status,
			"lastSeen": time.Now().UTC(),
		},
	}

	result, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrUserNotFound
	}

	return nil
}

// UpdateProfile merges only the fields set on update. Nil fields are
// dropped, never written as empty values.
func (r *userRepository) UpdateProfile(ctx context.Context, userId string, update entity.ProfileUpdate) error {
	fields := ProfileUpdateFields(update)
	if len(fields) == 0 {
		return nil
	}

	collection := r.db.Collection("users")
	filter := bson.M{"_id": userId}

	result, err := collection.UpdateOne(ctx, filter, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrUserNotFound
	}

	r.logger.Debugf("updated profile %s (%d fields)", userId, len(fields))

	return nil
}

// ProfileUpdateFields flattens a partial update into the document fields to
// set, skipping nil entries.
func ProfileUpdateFields(update entity.ProfileUpdate) bson.M {
	fields := bson.M{}
	if update.Username != nil {
		fields["username"] = *update.Username
	}
	if update.DisplayName != nil {
		fields["displayName"] = *update.DisplayName
	}
	if update.PhotoURL != nil {
		fields["photoURL"] = *update.PhotoURL
	}
	if update.Bio != nil {
		fields["bio"] = *update.Bio
	}
	if update.ChatBackground != nil {
		fields["chatBackground"] = *update.ChatBackground
	}
	if update.ThemeColor != nil {
		fields["themeColor"] = *update.ThemeColor
	}
	return fields
}
