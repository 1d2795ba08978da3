package usecase

import (
	"context"
	"testing"
	"time"

	"convo/internal/entity"
	"convo/pkg/jwt"

	"github.com/stretchr/testify/require"
)

func newAuthFixture(t *testing.T) (*fakeUserRepo, AuthUsecase) {
	t.Helper()
	userRepo := newFakeUserRepo()
	return userRepo, NewAuthUsecase(userRepo, jwt.NewManager("test-secret", time.Hour))
}

func TestRegister(t *testing.T) {
	userRepo, uc := newAuthFixture(t)
	ctx := context.Background()

	resp, err := uc.Register(ctx, entity.RegisterRequest{
		Email:       "Alice@Example.com",
		Username:    "alice_w",
		DisplayName: "Alice",
		Password:    "hunter22",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.Equal(t, "alice@example.com", resp.User.Email)
	require.Equal(t, entity.StatusOnline, resp.User.Status)
	require.Empty(t, resp.User.Password, "response must not carry the password hash")

	stored, err := userRepo.Get(ctx, resp.User.Id)
	require.NoError(t, err)
	require.NotEmpty(t, stored.Password)
	require.NotEqual(t, "hunter22", stored.Password, "password must be stored hashed")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	_, uc := newAuthFixture(t)
	ctx := context.Background()

	req := entity.RegisterRequest{Email: "alice@example.com", Username: "alice_w", Password: "hunter22"}
	_, err := uc.Register(ctx, req)
	require.NoError(t, err)

	_, err = uc.Register(ctx, req)
	require.ErrorIs(t, err, ErrEmailAlreadyTaken)
}

func TestLogin(t *testing.T) {
	userRepo, uc := newAuthFixture(t)
	ctx := context.Background()

	registered, err := uc.Register(ctx, entity.RegisterRequest{
		Email:    "alice@example.com",
		Username: "alice_w",
		Password: "hunter22",
	})
	require.NoError(t, err)

	require.NoError(t, userRepo.UpdateStatus(ctx, registered.User.Id, entity.StatusOffline))

	resp, err := uc.Login(ctx, entity.LoginRequest{Email: "ALICE@example.com", Password: "hunter22"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.Empty(t, resp.User.Password)

	stored, err := userRepo.Get(ctx, registered.User.Id)
	require.NoError(t, err)
	require.Equal(t, entity.StatusOnline, stored.Status)
}

func TestLoginBadCredentials(t *testing.T) {
	_, uc := newAuthFixture(t)
	ctx := context.Background()

	_, err := uc.Register(ctx, entity.RegisterRequest{
		Email:    "alice@example.com",
		Username: "alice_w",
		Password: "hunter22",
	})
	require.NoError(t, err)

	_, err = uc.Login(ctx, entity.LoginRequest{Email: "alice@example.com", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = uc.Login(ctx, entity.LoginRequest{Email: "nobody@example.com", Password: "hunter22"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateToken(t *testing.T) {
	_, uc := newAuthFixture(t)

	resp, err := uc.Register(context.Background(), entity.RegisterRequest{
		Email:    "alice@example.com",
		Username: "alice_w",
		Password: "hunter22",
	})
	require.NoError(t, err)

	claims, err := uc.ValidateToken(resp.Token)
	require.NoError(t, err)
	require.Equal(t, resp.User.Id, claims.UserId)
	require.Equal(t, "alice@example.com", claims.Email)

	_, err = uc.ValidateToken("not-a-token")
	require.Error(t, err)
}
