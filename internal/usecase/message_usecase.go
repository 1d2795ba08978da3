package usecase

import (
	"context"
	"errors"
	"strings"

	"convo/internal/entity"
	"convo/internal/repository"
)

var ErrEmptyMessage = errors.New("message text is required")

type MessageUsecase interface {
	Send(ctx context.Context, chatId, senderId string, message entity.Message) (string, error)
	Index(ctx context.Context, chatId, userId string, limit int64) ([]entity.Message, error)
	Edit(ctx context.Context, chatId, messageId, userId, text string) error
	Delete(ctx context.Context, chatId, messageId, userId string) error
	MarkRead(ctx context.Context, chatId, messageId, userId string) error
	AddReaction(ctx context.Context, chatId, messageId, userId, emoji string) error
	RemoveReaction(ctx context.Context, chatId, messageId, userId, emoji string) error
	Search(ctx context.Context, chatId, userId, term string) ([]entity.Message, error)
}

type messageUsecase struct {
	messageRepo repository.MessageRepository
	chatRepo    repository.ChatRepository
	userRepo    repository.UserRepository
}

func NewMessageUsecase(messageRepo repository.MessageRepository, chatRepo repository.ChatRepository, userRepo repository.UserRepository) MessageUsecase {
	return &messageUsecase{
		messageRepo: messageRepo,
		chatRepo:    chatRepo,
		userRepo:    userRepo,
	}
}

// Send appends a message to the chat. The sender name is resolved from the
// profile so messages carry a display name without a join on read.
func (m *messageUsecase) Send(ctx context.Context, chatId, senderId string, message entity.Message) (string, error) {
	if strings.TrimSpace(message.Text) == "" {
		return "", ErrEmptyMessage
	}

	if err := m.requireParticipant(ctx, chatId, senderId); err != nil {
		return "", err
	}

	sender, err := m.userRepo.Get(ctx, senderId)
	if err != nil {
		return "", err
	}

	message.ChatId = chatId
	message.SenderId = senderId
	message.SenderName = sender.DisplayName
	if message.SenderName == "" {
		message.SenderName = sender.Username
	}
	if message.Type == "" {
		message.Type = entity.MessageTypeText
	}

	return m.messageRepo.Send(ctx, message)
}

func (m *messageUsecase) Index(ctx context.Context, chatId, userId string, limit int64) ([]entity.Message, error) {
	if err := m.requireParticipant(ctx, chatId, userId); err != nil {
		return nil, err
	}

	return m.messageRepo.Latest(ctx, chatId, limit)
}

func (m *messageUsecase) Edit(ctx context.Context, chatId, messageId, userId, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyMessage
	}
	if err := m.requireParticipant(ctx, chatId, userId); err != nil {
		return err
	}

	return m.messageRepo.Edit(ctx, chatId, messageId, text)
}

func (m *messageUsecase) Delete(ctx context.Context, chatId, messageId, userId string) error {
	if err := m.requireParticipant(ctx, chatId, userId); err != nil {
		return err
	}

	return m.messageRepo.SoftDelete(ctx, chatId, messageId)
}

func (m *messageUsecase) MarkRead(ctx context.Context, chatId, messageId, userId string) error {
	if err := m.requireParticipant(ctx, chatId, userId); err != nil {
		return err
	}

	return m.messageRepo.MarkRead(ctx, chatId, messageId, userId)
}

func (m *messageUsecase) AddReaction(ctx context.Context, chatId, messageId, userId, emoji string) error {
	if err := m.requireParticipant(ctx, chatId, userId); err != nil {
		return err
	}

	return m.messageRepo.AddReaction(ctx, chatId, messageId, emoji, userId)
}

func (m *messageUsecase) RemoveReaction(ctx context.Context, chatId, messageId, userId, emoji string) error {
	if err := m.requireParticipant(ctx, chatId, userId); err != nil {
		return err
	}

	return m.messageRepo.RemoveReaction(ctx, chatId, messageId, emoji, userId)
}

// Search filters the chat's full history on a case-insensitive substring
// match, skipping soft-deleted messages. Full scan, small chats only.
func (m *messageUsecase) Search(ctx context.Context, chatId, userId, term string) ([]entity.Message, error) {
	if err := m.requireParticipant(ctx, chatId, userId); err != nil {
		return nil, err
	}

	messages, err := m.messageRepo.All(ctx, chatId)
	if err != nil {
		return nil, err
	}

	lower := strings.ToLower(term)
	matched := make([]entity.Message, 0, len(messages))
	for _, message := range messages {
		if message.IsDeleted {
			continue
		}
		if strings.Contains(strings.ToLower(message.Text), lower) {
			matched = append(matched, message)
		}
	}

	return matched, nil
}

func (m *messageUsecase) requireParticipant(ctx context.Context, chatId, userId string) error {
	chat, err := m.chatRepo.Get(ctx, chatId)
	if err != nil {
		return err
	}
	if !chat.HasParticipant(userId) {
		return ErrNotParticipant
	}

	return nil
}
