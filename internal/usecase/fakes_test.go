package usecase

import (
	"context"
	"strings"
	"time"

	"convo/internal/entity"
	"convo/internal/repository"

	"github.com/google/uuid"
)

// The fakes below mirror the gateway contracts: same sentinel errors, same
// set semantics, same soft-delete and preview behavior. Kept in memory so
// the usecase rules are testable without a database.

type fakeUserRepo struct {
	users map[string]entity.User
}

func newFakeUserRepo(users ...entity.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]entity.User{}}
	for _, u := range users {
		if u.Status == "" {
			u.Status = entity.StatusOnline
		}
		r.users[u.Id] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, user entity.User) (string, error) {
	user.Status = entity.StatusOnline
	now := time.Now().UTC()
	user.LastSeen = now
	user.CreatedAt = now
	r.users[user.Id] = user
	return user.Id, nil
}

func (r *fakeUserRepo) Get(_ context.Context, userId string) (entity.User, error) {
	user, ok := r.users[userId]
	if !ok {
		return entity.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (entity.User, error) {
	for _, user := range r.users {
		if user.Email == strings.ToLower(email) {
			return user, nil
		}
	}
	return entity.User{}, repository.ErrUserNotFound
}

func (r *fakeUserRepo) All(_ context.Context) ([]entity.User, error) {
	out := make([]entity.User, 0, len(r.users))
	for _, user := range r.users {
		out = append(out, user)
	}
	return out, nil
}

func (r *fakeUserRepo) UpdateStatus(_ context.Context, userId string, status entity.UserStatus) error {
	if !status.Valid() {
		return repository.ErrInvalidStatus
	}
	user, ok := r.users[userId]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.Status = status
	user.LastSeen = time.Now().UTC()
	r.users[userId] = user
	return nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, userId string, update entity.ProfileUpdate) error {
	user, ok := r.users[userId]
	if !ok {
		return repository.ErrUserNotFound
	}
	if update.Username != nil {
		user.Username = *update.Username
	}
	if update.DisplayName != nil {
		user.DisplayName = *update.DisplayName
	}
	if update.PhotoURL != nil {
		user.PhotoURL = *update.PhotoURL
	}
	if update.Bio != nil {
		user.Bio = *update.Bio
	}
	if update.ChatBackground != nil {
		user.ChatBackground = *update.ChatBackground
	}
	if update.ThemeColor != nil {
		user.ThemeColor = *update.ThemeColor
	}
	r.users[userId] = user
	return nil
}

type fakeChatRepo struct {
	chats    map[string]entity.Chat
	messages *fakeMessageRepo

	// failDelete makes DeleteWithMessages fail before touching anything,
	// standing in for an aborted transaction.
	failDelete error
}

func newFakeChatRepo(messages *fakeMessageRepo) *fakeChatRepo {
	return &fakeChatRepo{chats: map[string]entity.Chat{}, messages: messages}
}

func (r *fakeChatRepo) Create(_ context.Context, chat entity.Chat) (string, error) {
	chat.Id = uuid.NewString()
	seen := map[string]struct{}{}
	participants := make([]string, 0, len(chat.Participants))
	for _, id := range chat.Participants {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		participants = append(participants, id)
	}
	chat.Participants = participants
	if chat.Type == entity.ChatTypeGroup {
		chat.Admins = []string{chat.CreatedBy}
	}
	chat.PinnedBy = []string{}
	now := time.Now().UTC()
	chat.CreatedAt = now
	chat.LastMessageTime = now
	r.chats[chat.Id] = chat
	return chat.Id, nil
}

func (r *fakeChatRepo) Get(_ context.Context, chatId string) (entity.Chat, error) {
	chat, ok := r.chats[chatId]
	if !ok {
		return entity.Chat{}, repository.ErrChatNotFound
	}
	return chat, nil
}

func (r *fakeChatRepo) ByUser(_ context.Context, userId string) ([]entity.Chat, error) {
	out := []entity.Chat{}
	for _, chat := range r.chats {
		if chat.HasParticipant(userId) {
			out = append(out, chat)
		}
	}
	repository.SortChatsByActivity(out)
	return out, nil
}

func (r *fakeChatRepo) Update(_ context.Context, chatId string, update entity.ChatUpdate) error {
	chat, ok := r.chats[chatId]
	if !ok {
		return repository.ErrChatNotFound
	}
	if update.Name != nil {
		chat.Name = *update.Name
	}
	if update.IsArchived != nil {
		chat.IsArchived = *update.IsArchived
	}
	r.chats[chatId] = chat
	return nil
}

func (r *fakeChatRepo) AddParticipant(_ context.Context, chatId, userId string) error {
	chat, ok := r.chats[chatId]
	if !ok {
		return repository.ErrChatNotFound
	}
	chat.AddParticipant(userId)
	r.chats[chatId] = chat
	return nil
}

func (r *fakeChatRepo) RemoveParticipant(_ context.Context, chatId, userId string) error {
	chat, ok := r.chats[chatId]
	if !ok {
		return repository.ErrChatNotFound
	}
	chat.RemoveParticipant(userId)
	chat.SetPinned(userId, false)
	r.chats[chatId] = chat
	return nil
}

func (r *fakeChatRepo) AddAdmin(_ context.Context, chatId, userId string) error {
	chat, ok := r.chats[chatId]
	if !ok {
		return repository.ErrChatNotFound
	}
	chat.AddAdmin(userId)
	r.chats[chatId] = chat
	return nil
}

func (r *fakeChatRepo) RemoveAdmin(_ context.Context, chatId, userId string) error {
	chat, ok := r.chats[chatId]
	if !ok {
		return repository.ErrChatNotFound
	}
	chat.RemoveAdmin(userId)
	r.chats[chatId] = chat
	return nil
}

func (r *fakeChatRepo) TogglePin(_ context.Context, chatId, userId string, pinned bool) error {
	chat, ok := r.chats[chatId]
	if !ok {
		return repository.ErrChatNotFound
	}
	chat.SetPinned(userId, pinned)
	r.chats[chatId] = chat
	return nil
}

func (r *fakeChatRepo) DirectChatBetween(_ context.Context, userId1, userId2 string) (entity.Chat, error) {
	for _, chat := range r.chats {
		if chat.IsDirectBetween(userId1, userId2) {
			return chat, nil
		}
	}
	return entity.Chat{}, repository.ErrDirectChatNotFound
}

func (r *fakeChatRepo) Delete(_ context.Context, chatId string) error {
	if _, ok := r.chats[chatId]; !ok {
		return repository.ErrChatNotFound
	}
	delete(r.chats, chatId)
	return nil
}

func (r *fakeChatRepo) DeleteWithMessages(_ context.Context, chatId string) error {
	if r.failDelete != nil {
		return r.failDelete
	}
	if _, ok := r.chats[chatId]; !ok {
		return repository.ErrChatNotFound
	}
	if r.messages != nil {
		r.messages.dropChat(chatId)
	}
	delete(r.chats, chatId)
	return nil
}

type fakeMessageRepo struct {
	chats    *fakeChatRepo
	messages map[string][]entity.Message // keyed by chatId, insertion order
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{messages: map[string][]entity.Message{}}
}

func (r *fakeMessageRepo) dropChat(chatId string) {
	delete(r.messages, chatId)
}

func (r *fakeMessageRepo) Send(_ context.Context, message entity.Message) (string, error) {
	message.Id = uuid.NewString()
	message.SentAt = time.Now().UTC()
	message.ReadBy = []string{message.SenderId}
	message.Reactions = map[string][]string{}
	r.messages[message.ChatId] = append(r.messages[message.ChatId], message)

	if r.chats != nil {
		if chat, ok := r.chats.chats[message.ChatId]; ok {
			chat.LastMessage = entity.Preview(message.Text)
			chat.LastMessageSenderId = message.SenderId
			chat.LastMessageTime = message.SentAt
			r.chats.chats[message.ChatId] = chat
		}
	}
	return message.Id, nil
}

func (r *fakeMessageRepo) Get(_ context.Context, chatId, messageId string) (entity.Message, error) {
	for _, message := range r.messages[chatId] {
		if message.Id == messageId {
			return message, nil
		}
	}
	return entity.Message{}, repository.ErrMessageNotFound
}

func (r *fakeMessageRepo) All(_ context.Context, chatId string) ([]entity.Message, error) {
	out := make([]entity.Message, len(r.messages[chatId]))
	copy(out, r.messages[chatId])
	return out, nil
}

func (r *fakeMessageRepo) Latest(_ context.Context, chatId string, limit int64) ([]entity.Message, error) {
	all := r.messages[chatId]
	if limit <= 0 || int64(len(all)) <= limit {
		out := make([]entity.Message, len(all))
		copy(out, all)
		return out, nil
	}
	out := make([]entity.Message, limit)
	copy(out, all[int64(len(all))-limit:])
	return out, nil
}

func (r *fakeMessageRepo) mutate(chatId, messageId string, fn func(*entity.Message) bool) error {
	for i := range r.messages[chatId] {
		if r.messages[chatId][i].Id == messageId {
			if !fn(&r.messages[chatId][i]) {
				return repository.ErrMessageNotFound
			}
			return nil
		}
	}
	return repository.ErrMessageNotFound
}

func (r *fakeMessageRepo) Edit(_ context.Context, chatId, messageId, text string) error {
	return r.mutate(chatId, messageId, func(m *entity.Message) bool {
		if m.IsDeleted {
			return false
		}
		m.Text = text
		now := time.Now().UTC()
		m.EditedAt = &now
		return true
	})
}

func (r *fakeMessageRepo) SoftDelete(_ context.Context, chatId, messageId string) error {
	return r.mutate(chatId, messageId, func(m *entity.Message) bool {
		m.Text = entity.DeletedMessageText
		m.IsDeleted = true
		return true
	})
}

func (r *fakeMessageRepo) MarkRead(_ context.Context, chatId, messageId, userId string) error {
	return r.mutate(chatId, messageId, func(m *entity.Message) bool {
		m.MarkRead(userId)
		return true
	})
}

func (r *fakeMessageRepo) AddReaction(_ context.Context, chatId, messageId, emoji, userId string) error {
	return r.mutate(chatId, messageId, func(m *entity.Message) bool {
		m.AddReaction(emoji, userId)
		return true
	})
}

func (r *fakeMessageRepo) RemoveReaction(_ context.Context, chatId, messageId, emoji, userId string) error {
	return r.mutate(chatId, messageId, func(m *entity.Message) bool {
		m.RemoveReaction(emoji, userId)
		return true
	})
}

type fakeStateRepo struct {
	chats map[string]string
}

func newFakeStateRepo() *fakeStateRepo {
	return &fakeStateRepo{chats: map[string]string{}}
}

func (r *fakeStateRepo) SetLastOpenedChat(_ context.Context, userId, chatId string) error {
	r.chats[userId] = chatId
	return nil
}

func (r *fakeStateRepo) LastOpenedChat(_ context.Context, userId string) (string, error) {
	chatId, ok := r.chats[userId]
	if !ok {
		return "", repository.ErrNoLastOpenedChat
	}
	return chatId, nil
}

func (r *fakeStateRepo) ClearLastOpenedChat(_ context.Context, userId string) error {
	delete(r.chats, userId)
	return nil
}
