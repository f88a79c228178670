package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/iho/khata/internal/adapter/http/dto"
	"github.com/iho/khata/internal/domain"
	"github.com/iho/khata/internal/infrastructure/auth"
	"github.com/iho/khata/internal/usecase"
)

type userServiceStub struct {
	registerFn     func(ctx context.Context, input usecase.RegisterInput) (*domain.User, error)
	authenticateFn func(ctx context.Context, input usecase.AuthenticateInput) (*domain.User, error)
	getUserFn      func(ctx context.Context, id string) (*domain.User, error)
}

func (s *userServiceStub) Register(ctx context.Context, input usecase.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, input)
}

func (s *userServiceStub) Authenticate(ctx context.Context, input usecase.AuthenticateInput) (*domain.User, error) {
	return s.authenticateFn(ctx, input)
}

func (s *userServiceStub) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.getUserFn(ctx, id)
}

func testJWTManager() *auth.JWTManager {
	return auth.NewJWTManager("test-secret", time.Minute)
}

func TestAuthHandler_Register_Success(t *testing.T) {
	user := &domain.User{
		ID:    "user-1",
		Email: "shop@example.com",
		Name:  "Shop Owner",
	}

	h := NewAuthHandler(&userServiceStub{
		registerFn: func(ctx context.Context, input usecase.RegisterInput) (*domain.User, error) {
			if input.Email != "shop@example.com" {
				t.Fatalf("unexpected email: %s", input.Email)
			}
			return user, nil
		},
	}, testJWTManager())

	body := `{"email":"shop@example.com","name":"Shop Owner","password":"strong-password"}`
	rec := httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.UserResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != user.ID || resp.Email != user.Email {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_Register_EmailTaken(t *testing.T) {
	h := NewAuthHandler(&userServiceStub{
		registerFn: func(ctx context.Context, input usecase.RegisterInput) (*domain.User, error) {
			return nil, domain.ErrEmailTaken
		},
	}, testJWTManager())

	body := `{"email":"shop@example.com","name":"Shop Owner","password":"strong-password"}`
	rec := httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body)))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	user := &domain.User{
		ID:    "user-1",
		Email: "shop@example.com",
	}

	h := NewAuthHandler(&userServiceStub{
		authenticateFn: func(ctx context.Context, input usecase.AuthenticateInput) (*domain.User, error) {
			return user, nil
		},
	}, testJWTManager())

	body := `{"email":"shop@example.com","password":"strong-password"}`
	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a token")
	}

	claims, err := testJWTManager().Verify(resp.Token)
	if err != nil {
		t.Fatalf("expected issued token to verify: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected token subject %s, got %s", user.ID, claims.UserID)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&userServiceStub{
		authenticateFn: func(ctx context.Context, input usecase.AuthenticateInput) (*domain.User, error) {
			return nil, domain.ErrUnauthorized
		},
	}, testJWTManager())

	body := `{"email":"shop@example.com","password":"wrong"}`
	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body)))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error != "invalid credentials" {
		t.Fatalf("expected uniform credential error, got %q", resp.Error)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	user := &domain.User{
		ID:    "owner-1",
		Email: "shop@example.com",
	}

	h := NewAuthHandler(&userServiceStub{
		getUserFn: func(ctx context.Context, id string) (*domain.User, error) {
			if id != "owner-1" {
				t.Fatalf("expected owner-1, got %s", id)
			}
			return user, nil
		},
	}, testJWTManager())

	rec := httptest.NewRecorder()
	h.Me(rec, authedRequest(http.MethodGet, "/auth/me", nil, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&userServiceStub{}, testJWTManager())

	rec := httptest.NewRecorder()
	h.Me(rec, httptest.NewRequest(http.MethodGet, "/auth/me", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
