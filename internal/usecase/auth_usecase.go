package usecase

import (
	"context"
	"errors"
	"strings"

	"convo/internal/entity"
	"convo/internal/repository"
	"convo/pkg/jwt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailAlreadyTaken  = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type AuthUsecase interface {
	Register(ctx context.Context, req entity.RegisterRequest) (entity.AuthResponse, error)
	Login(ctx context.Context, req entity.LoginRequest) (entity.AuthResponse, error)
	ValidateToken(token string) (*entity.TokenClaims, error)
}

type authUsecase struct {
	userRepo   repository.UserRepository
	jwtManager *jwt.Manager
}

func NewAuthUsecase(userRepo repository.UserRepository, jwtManager *jwt.Manager) AuthUsecase {
	return &authUsecase{
		userRepo:   userRepo,
		jwtManager: jwtManager,
	}
}

// Register creates the credential record and the profile in one step. The
// profile comes up online with fresh timestamps, like any first sign-in.
func (a *authUsecase) Register(ctx context.Context, req entity.RegisterRequest) (entity.AuthResponse, error) {
	email := strings.ToLower(req.Email)

	_, err := a.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return entity.AuthResponse{}, ErrEmailAlreadyTaken
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return entity.AuthResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return entity.AuthResponse{}, err
	}

	user := entity.User{
		Id:          uuid.New().String(),
		Email:       email,
		Username:    req.Username,
		DisplayName: req.DisplayName,
		Password:    string(hash),
	}

	if _, err := a.userRepo.Create(ctx, user); err != nil {
		return entity.AuthResponse{}, err
	}

	created, err := a.userRepo.Get(ctx, user.Id)
	if err != nil {
		return entity.AuthResponse{}, err
	}

	return a.respond(created)
}

func (a *authUsecase) Login(ctx context.Context, req entity.LoginRequest) (entity.AuthResponse, error) {
	user, err := a.userRepo.GetByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return entity.AuthResponse{}, ErrInvalidCredentials
		}
		return entity.AuthResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return entity.AuthResponse{}, ErrInvalidCredentials
	}

	if err := a.userRepo.UpdateStatus(ctx, user.Id, entity.StatusOnline); err != nil {
		return entity.AuthResponse{}, err
	}

	return a.respond(user)
}

func (a *authUsecase) ValidateToken(token string) (*entity.TokenClaims, error) {
	return a.jwtManager.Validate(token)
}

func (a *authUsecase) respond(user entity.User) (entity.AuthResponse, error) {
	token, err := a.jwtManager.Generate(user)
	if err != nil {
		return entity.AuthResponse{}, err
	}

	user.Password = ""

	return entity.AuthResponse{
		User:  user,
		Token: token,
	}, nil
}
