package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"convo/internal/entity"
	"convo/internal/usecase"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAuthUsecase struct {
	response entity.AuthResponse
	err      error
	claims   *entity.TokenClaims
}

func (f *fakeAuthUsecase) Register(_ context.Context, _ entity.RegisterRequest) (entity.AuthResponse, error) {
	return f.response, f.err
}

func (f *fakeAuthUsecase) Login(_ context.Context, _ entity.LoginRequest) (entity.AuthResponse, error) {
	return f.response, f.err
}

func (f *fakeAuthUsecase) ValidateToken(token string) (*entity.TokenClaims, error) {
	if f.claims != nil && token == f.response.Token {
		return f.claims, nil
	}
	return nil, usecase.ErrInvalidCredentials
}

func authCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == AuthCookieName {
			return c
		}
	}
	t.Fatal("authToken cookie not set")
	return nil
}

func TestRegisterSetsAuthCookie(t *testing.T) {
	authUc := &fakeAuthUsecase{response: entity.AuthResponse{Token: "tok-123"}}
	handler := NewAuthHandler(authUc, zap.NewNop().Sugar())

	body := `{"email":"alice@example.com","username":"alice_w","password":"hunter22"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Register(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	cookie := authCookie(t, rec)
	require.Equal(t, "tok-123", cookie.Value)
	require.Equal(t, "/", cookie.Path)
	require.Equal(t, authCookieMaxAge, cookie.MaxAge)
	require.True(t, cookie.HttpOnly)
	require.True(t, cookie.Secure)
	require.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	handler := NewAuthHandler(&fakeAuthUsecase{}, zap.NewNop().Sugar())

	body := `{"email":"alice@example.com","password":"short"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Register(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginBadCredentials(t *testing.T) {
	authUc := &fakeAuthUsecase{err: usecase.ErrInvalidCredentials}
	handler := NewAuthHandler(authUc, zap.NewNop().Sugar())

	body := `{"email":"alice@example.com","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutClearsCookie(t *testing.T) {
	handler := NewAuthHandler(&fakeAuthUsecase{}, zap.NewNop().Sugar())

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	rec := httptest.NewRecorder()

	handler.Logout(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	cookie := authCookie(t, rec)
	require.Empty(t, cookie.Value)
	require.Negative(t, cookie.MaxAge)
}

func TestAuthenticateMiddleware(t *testing.T) {
	authUc := &fakeAuthUsecase{
		response: entity.AuthResponse{Token: "tok-123"},
		claims:   &entity.TokenClaims{UserId: "user-1", Email: "alice@example.com"},
	}
	middleware := NewAuthMiddleware(authUc)

	var gotClaims *entity.TokenClaims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims, _ = r.Context().Value(UserContextKey).(*entity.TokenClaims)
		w.WriteHeader(http.StatusOK)
	})
	protected := middleware.Authenticate(next)

	// Cookie auth.
	req := httptest.NewRequest(http.MethodGet, "/chats", nil)
	req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: "tok-123"})
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotClaims)
	require.Equal(t, "user-1", gotClaims.UserId)

	// Bearer fallback.
	gotClaims = nil
	req = httptest.NewRequest(http.MethodGet, "/chats", nil)
	req.Header.Set("Authorization", "Bearer tok-123")
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotClaims)

	// No token at all.
	req = httptest.NewRequest(http.MethodGet, "/chats", nil)
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Garbage token.
	req = httptest.NewRequest(http.MethodGet, "/chats", nil)
	req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: "bogus"})
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
