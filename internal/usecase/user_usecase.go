package usecase

import (
	"context"

	"convo/internal/entity"
	"convo/internal/repository"
)

type UserUsecase interface {
	Get(ctx context.Context, userId string) (entity.User, error)
	Search(ctx context.Context, term string) ([]entity.User, error)
	UpdateStatus(ctx context.Context, userId string, status entity.UserStatus) error
	UpdateProfile(ctx context.Context, userId string, update entity.ProfileUpdate) error
	HandleUnregisterClient(ctx context.Context, userId string) error
	LastOpenedChat(ctx context.Context, userId string) (string, error)
	SetLastOpenedChat(ctx context.Context, userId, chatId string) error
}

type userUsecase struct {
	userRepo  repository.UserRepository
	stateRepo repository.ClientStateRepository
}

func NewUserUsecase(userRepo repository.UserRepository, stateRepo repository.ClientStateRepository) UserUsecase {
	return &userUsecase{
		userRepo:  userRepo,
		stateRepo: stateRepo,
	}
}

func (u *userUsecase) Get(ctx context.Context, userId string) (entity.User, error) {
	return u.userRepo.Get(ctx, userId)
}

// Search retrieves every profile and filters case-insensitively on
// displayName, username and email. Full scan, fine at small scale only.
func (u *userUsecase) Search(ctx context.Context, term string) ([]entity.User, error) {
	users, err := u.userRepo.All(ctx)
	if err != nil {
		return nil, err
	}

	if term == "" {
		return users, nil
	}

	matched := make([]entity.User, 0, len(users))
	for _, user := range users {
		if user.MatchesSearch(term) {
			matched = append(matched, user)
		}
	}

	return matched, nil
}

func (u *userUsecase) UpdateStatus(ctx context.Context, userId string, status entity.UserStatus) error {
	return u.userRepo.UpdateStatus(ctx, userId, status)
}

func (u *userUsecase) UpdateProfile(ctx context.Context, userId string, update entity.ProfileUpdate) error {
	return u.userRepo.UpdateProfile(ctx, userId, update)
}

// HandleUnregisterClient marks a user offline once their socket goes away.
func (u *userUsecase) HandleUnregisterClient(ctx context.Context, userId string) error {
	return u.userRepo.UpdateStatus(ctx, userId, entity.StatusOffline)
}

func (u *userUsecase) LastOpenedChat(ctx context.Context, userId string) (string, error) {
	return u.stateRepo.LastOpenedChat(ctx, userId)
}

func (u *userUsecase) SetLastOpenedChat(ctx context.Context, userId, chatId string) error {
	return u.stateRepo.SetLastOpenedChat(ctx, userId, chatId)
}
