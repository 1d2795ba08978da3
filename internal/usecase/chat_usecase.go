package usecase

import (
	"context"
	"errors"

	"convo/internal/entity"
	"convo/internal/repository"
)

var (
	ErrNotParticipant     = errors.New("you are not a participant of this chat")
	ErrNotAdmin           = errors.New("you are not an admin of this chat")
	ErrNotGroupChat       = errors.New("operation only applies to group chats")
	ErrGroupNameRequired  = errors.New("group name is required")
	ErrNoParticipants     = errors.New("at least one participant is required")
	ErrUnknownParticipant = errors.New("some participants do not exist")
	ErrLastAdmin          = errors.New("a group chat must keep at least one admin")
)

type ChatUsecase interface {
	CreateDirectChat(ctx context.Context, userId, otherId string) (string, error)
	CreateGroupChat(ctx context.Context, name, creatorId string, participantIds []string) (string, error)
	Get(ctx context.Context, chatId, userId string) (entity.Chat, error)
	Index(ctx context.Context, userId string) ([]entity.Chat, error)
	Update(ctx context.Context, chatId, userId string, update entity.ChatUpdate) error
	AddParticipant(ctx context.Context, chatId, actorId, userId string) error
	RemoveParticipant(ctx context.Context, chatId, actorId, userId string) error
	PromoteAdmin(ctx context.Context, chatId, actorId, userId string) error
	DemoteAdmin(ctx context.Context, chatId, actorId, userId string) error
	TogglePin(ctx context.Context, chatId, userId string, pinned bool) error
	Delete(ctx context.Context, chatId, userId string) error
}

type chatUsecase struct {
	chatRepo repository.ChatRepository
	userRepo repository.UserRepository
}

func NewChatUsecase(chatRepo repository.ChatRepository, userRepo repository.UserRepository) ChatUsecase {
	return &chatUsecase{
		chatRepo: chatRepo,
		userRepo: userRepo,
	}
}

// CreateDirectChat returns the chat joining the two users, reusing the
// existing one if the pair already has a direct chat. The lookup-first rule
// keeps direct chats unique per pair.
func (c *chatUsecase) CreateDirectChat(ctx context.Context, userId, otherId string) (string, error) {
	if _, err := c.userRepo.Get(ctx, otherId); err != nil {
		return "", err
	}

	existing, err := c.chatRepo.DirectChatBetween(ctx, userId, otherId)
	if err == nil {
		return existing.Id, nil
	}
	if !errors.Is(err, repository.ErrDirectChatNotFound) {
		return "", err
	}

	chat := entity.Chat{
		Type:         entity.ChatTypeDirect,
		Participants: []string{userId, otherId},
		CreatedBy:    userId,
	}

	return c.chatRepo.Create(ctx, chat)
}

// CreateGroupChat creates a named group. The creator is always among the
// participants and becomes the only admin regardless of caller input.
func (c *chatUsecase) CreateGroupChat(ctx context.Context, name, creatorId string, participantIds []string) (string, error) {
	if name == "" {
		return "", ErrGroupNameRequired
	}
	if len(participantIds) == 0 {
		return "", ErrNoParticipants
	}

	for _, id := range participantIds {
		if _, err := c.userRepo.Get(ctx, id); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return "", ErrUnknownParticipant
			}
			return "", err
		}
	}

	chat := entity.Chat{
		Name:         name,
		Type:         entity.ChatTypeGroup,
		Participants: append([]string{creatorId}, participantIds...),
		CreatedBy:    creatorId,
	}

	return c.chatRepo.Create(ctx, chat)
}

func (c *chatUsecase) Get(ctx context.Context, chatId, userId string) (entity.Chat, error) {
	chat, err := c.chatRepo.Get(ctx, chatId)
	if err != nil {
		return entity.Chat{}, err
	}
	if !chat.HasParticipant(userId) {
		return entity.Chat{}, ErrNotParticipant
	}

	return chat, nil
}

func (c *chatUsecase) Index(ctx context.Context, userId string) ([]entity.Chat, error) {
	return c.chatRepo.ByUser(ctx, userId)
}

// Update renames or archives a chat. Renaming a group is admin-only.
func (c *chatUsecase) Update(ctx context.Context, chatId, userId string, update entity.ChatUpdate) error {
	chat, err := c.chatRepo.Get(ctx, chatId)
	if err != nil {
		return err
	}
	if !chat.HasParticipant(userId) {
		return ErrNotParticipant
	}
	if chat.Type == entity.ChatTypeGroup && update.Name != nil && !chat.IsAdmin(userId) {
		return ErrNotAdmin
	}

	return c.chatRepo.Update(ctx, chatId, update)
}

func (c *chatUsecase) AddParticipant(ctx context.Context, chatId, actorId, userId string) error {
	chat, err := c.requireGroupAdmin(ctx, chatId, actorId)
	if err != nil {
		return err
	}

	if _, err := c.userRepo.Get(ctx, userId); err != nil {
		return err
	}
	if chat.HasParticipant(userId) {
		return nil
	}

	return c.chatRepo.AddParticipant(ctx, chatId, userId)
}

// RemoveParticipant drops the user from the group. The gateway strips admin
// status in the same update, so admins stay a subset of participants.
func (c *chatUsecase) RemoveParticipant(ctx context.Context, chatId, actorId, userId string) error {
	if actorId != userId {
		if _, err := c.requireGroupAdmin(ctx, chatId, actorId); err != nil {
			return err
		}
	} else {
		// Leaving is open to any participant, but the sole admin must
		// hand over first while others remain, same rule as DemoteAdmin.
		chat, err := c.chatRepo.Get(ctx, chatId)
		if err != nil {
			return err
		}
		if chat.Type != entity.ChatTypeGroup {
			return ErrNotGroupChat
		}
		if !chat.HasParticipant(userId) {
			return ErrNotParticipant
		}
		if chat.IsAdmin(userId) && len(chat.Admins) == 1 && len(chat.Participants) > 1 {
			return ErrLastAdmin
		}
	}

	return c.chatRepo.RemoveParticipant(ctx, chatId, userId)
}

func (c *chatUsecase) PromoteAdmin(ctx context.Context, chatId, actorId, userId string) error {
	chat, err := c.requireGroupAdmin(ctx, chatId, actorId)
	if err != nil {
		return err
	}
	if !chat.HasParticipant(userId) {
		return ErrNotParticipant
	}

	return c.chatRepo.AddAdmin(ctx, chatId, userId)
}

// DemoteAdmin removes admin rights. The last admin of a group cannot be
// demoted; the chat must keep at least one while it exists.
func (c *chatUsecase) DemoteAdmin(ctx context.Context, chatId, actorId, userId string) error {
	chat, err := c.requireGroupAdmin(ctx, chatId, actorId)
	if err != nil {
		return err
	}
	if chat.IsAdmin(userId) && len(chat.Admins) == 1 {
		return ErrLastAdmin
	}

	return c.chatRepo.RemoveAdmin(ctx, chatId, userId)
}

func (c *chatUsecase) TogglePin(ctx context.Context, chatId, userId string, pinned bool) error {
	chat, err := c.chatRepo.Get(ctx, chatId)
	if err != nil {
		return err
	}
	if !chat.HasParticipant(userId) {
		return ErrNotParticipant
	}

	return c.chatRepo.TogglePin(ctx, chatId, userId, pinned)
}

// Delete removes a chat and its whole message history. For group chats the
// caller must be an admin, checked here before any mutation; for direct
// chats any participant may delete.
func (c *chatUsecase) Delete(ctx context.Context, chatId, userId string) error {
	chat, err := c.chatRepo.Get(ctx, chatId)
	if err != nil {
		return err
	}
	if !chat.HasParticipant(userId) {
		return ErrNotParticipant
	}
	if chat.Type == entity.ChatTypeGroup && !chat.IsAdmin(userId) {
		return ErrNotAdmin
	}

	return c.chatRepo.DeleteWithMessages(ctx, chatId)
}

func (c *chatUsecase) requireGroupAdmin(ctx context.Context, chatId, userId string) (entity.Chat, error) {
	chat, err := c.chatRepo.Get(ctx, chatId)
	if err != nil {
		return entity.Chat{}, err
	}
	if chat.Type != entity.ChatTypeGroup {
		return entity.Chat{}, ErrNotGroupChat
	}
	if !chat.HasParticipant(userId) {
		return entity.Chat{}, ErrNotParticipant
	}
	if !chat.IsAdmin(userId) {
		return entity.Chat{}, ErrNotAdmin
	}

	return chat, nil
}
