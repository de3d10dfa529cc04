package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yamess/authService/internal/auth/domain"
	"github.com/yamess/authService/internal/auth/dto"
	"github.com/yamess/authService/internal/auth/handler"
	"github.com/yamess/authService/internal/auth/service"
	autherrors "github.com/yamess/authService/internal/errors"
	"github.com/yamess/authService/internal/logging"
	"github.com/yamess/authService/internal/mocks"
)

type fixture struct {
	app              *fiber.App
	mockRepo         *mocks.MockUserRepository
	mockTokenService *mocks.MockTokenGenerator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockRepo := mocks.NewMockUserRepository(ctrl)
	mockTokenService := mocks.NewMockTokenGenerator(ctrl)
	usernames := service.NewSeededUsernameGenerator(8, 1)
	userService := service.NewUserService(mockRepo, mockTokenService, usernames, 10, logging.NewDiscard())
	guard := service.NewGuard(mockTokenService, mockRepo)
	authHandler := handler.NewAuthHandler(userService, mockTokenService, guard)

	app := fiber.New()
	handler.RegisterRoutes(app, authHandler)

	return &fixture{app: app, mockRepo: mockRepo, mockTokenService: mockTokenService}
}

func jsonRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// expectCaller wires the token decode + user reload done by the auth
// middleware for a request carrying "Bearer <token>".
func (f *fixture) expectCaller(token string, caller *domain.User) {
	claims := &service.JWTCustomClaims{UserID: caller.ID, Username: caller.Username}
	f.mockTokenService.EXPECT().Decode(token).Return(claims, nil)
	f.mockRepo.EXPECT().GetByID(gomock.Any(), caller.ID).Return(caller, nil)
}

func TestLoginEndpoint(t *testing.T) {
	t.Run("success returns bearer token", func(t *testing.T) {
		f := newFixture(t)

		hash, err := service.HashPassword("correct-horse")
		require.NoError(t, err)
		stored := &domain.User{ID: 7, Username: "AB12CD34", HashedPwd: hash, IsActive: true}

		f.mockRepo.EXPECT().GetByUsername(gomock.Any(), "AB12CD34").Return(stored, nil)
		f.mockRepo.EXPECT().InsertLoginLog(gomock.Any(), gomock.Any()).Return(nil)
		f.mockTokenService.EXPECT().Issue(stored).Return("signed-token", stored.CreatedAt, nil)

		req := jsonRequest(t, http.MethodPost, "/api/v1/token",
			dto.LoginInput{Username: "AB12CD34", Password: "correct-horse"})
		resp, err := f.app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var tokens dto.TokenResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&tokens))
		assert.Equal(t, "signed-token", tokens.AccessToken)
		assert.Equal(t, "bearer", tokens.TokenType)
	})

	t.Run("failure is generic about which factor was wrong", func(t *testing.T) {
		f := newFixture(t)

		// Unknown username and wrong password must be indistinguishable.
		f.mockRepo.EXPECT().GetByUsername(gomock.Any(), "NOBODY00").Return(nil, nil)
		f.mockRepo.EXPECT().InsertLoginLog(gomock.Any(), gomock.Any()).Return(nil)

		req := jsonRequest(t, http.MethodPost, "/api/v1/token",
			dto.LoginInput{Username: "NOBODY00", Password: "whatever"})
		resp, err := f.app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Bearer", resp.Header.Get(fiber.HeaderWWWAuthenticate))

		body, _ := io.ReadAll(resp.Body)
		assert.Contains(t, string(body), "incorrect username or password")
		assert.NotContains(t, string(body), "username not found")
	})

	t.Run("empty body is a bad request", func(t *testing.T) {
		f := newFixture(t)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/token", nil)
		req.Header.Set("Content-Type", "application/json")
		resp, err := f.app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestVerifyTokenEndpoint(t *testing.T) {
	f := newFixture(t)

	f.mockTokenService.EXPECT().Decode("good-token").
		Return(&service.JWTCustomClaims{UserID: 1, Username: "AB12CD34"}, nil)
	f.mockTokenService.EXPECT().Decode("stale-token").
		Return(nil, autherrors.ErrExpiredCredential)

	for _, tc := range []struct {
		token string
		valid bool
	}{
		{token: "good-token", valid: true},
		{token: "stale-token", valid: false},
	} {
		req := jsonRequest(t, http.MethodPost, "/api/v1/token/verify", dto.VerifyInput{Token: tc.token})
		resp, err := f.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var out dto.VerifyResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, tc.valid, out.Valid)
	}
}

func TestRegisterEndpoint(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		f := newFixture(t)

		f.mockRepo.EXPECT().GetByEmail(gomock.Any(), "new@example.com").Return(nil, nil)
		f.mockRepo.EXPECT().GetByUsername(gomock.Any(), gomock.Any()).Return(nil, nil)
		f.mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		req := jsonRequest(t, http.MethodPost, "/api/v1/users/register",
			dto.RegisterInput{Email: "new@example.com", Password: "password123", IsActive: true})
		resp, err := f.app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var out dto.UserOutput
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, "new@example.com", out.Email)
		assert.Len(t, out.Username, 8)

		// The password, hashed or plain, never appears in the response.
		raw, err := json.Marshal(out)
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "password")
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		f := newFixture(t)

		f.mockRepo.EXPECT().GetByEmail(gomock.Any(), "taken@example.com").
			Return(&domain.User{ID: 5, Email: "taken@example.com"}, nil)

		req := jsonRequest(t, http.MethodPost, "/api/v1/users/register",
			dto.RegisterInput{Email: "taken@example.com", Password: "password123"})
		resp, err := f.app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		f := newFixture(t)

		req := jsonRequest(t, http.MethodPost, "/api/v1/users/register",
			dto.RegisterInput{Email: "", Password: ""})
		resp, err := f.app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestMeEndpoint(t *testing.T) {
	t.Run("any authenticated caller reads own profile", func(t *testing.T) {
		f := newFixture(t)

		caller := &domain.User{ID: 7, Email: "me@example.com", Username: "AB12CD34"}
		f.expectCaller("my-token", caller)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer my-token")
		resp, err := f.app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var out dto.UserOutput
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, caller.ID, out.ID)
		assert.Equal(t, caller.Email, out.Email)
	})

	t.Run("no token", func(t *testing.T) {
		f := newFixture(t)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
		resp, err := f.app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("token for a deleted user", func(t *testing.T) {
		f := newFixture(t)

		claims := &service.JWTCustomClaims{UserID: 99, Username: "GHOST000"}
		f.mockTokenService.EXPECT().Decode("orphan-token").Return(claims, nil)
		f.mockRepo.EXPECT().GetByID(gomock.Any(), 99).Return(nil, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer orphan-token")
		resp, err := f.app.Test(req)
		require.NoError(t, err)

		// Distinct from token failures: this is a 404-class condition.
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestListUsersEndpoint(t *testing.T) {
	t.Run("forbidden for regular caller", func(t *testing.T) {
		f := newFixture(t)

		f.expectCaller("user-token", &domain.User{ID: 7, Username: "AB12CD34"})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/list", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer user-token")
		resp, err := f.app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("admin gets a page", func(t *testing.T) {
		f := newFixture(t)

		f.expectCaller("admin-token", &domain.User{ID: 1, Username: "ADMIN111", IsAdmin: true})
		f.mockRepo.EXPECT().List(gomock.Any(), 5, 2).Return([]domain.User{
			{ID: 10, Username: "AAAA1111"},
			{ID: 11, Username: "BBBB2222"},
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/list?skip=5&limit=2", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer admin-token")
		resp, err := f.app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var out []dto.UserOutput
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		require.Len(t, out, 2)
		assert.Equal(t, 10, out[0].ID)
	})
}

func TestUpdateUserEndpoint(t *testing.T) {
	t.Run("self-update accepted", func(t *testing.T) {
		f := newFixture(t)

		caller := &domain.User{ID: 7, Username: "AB12CD34"}
		f.expectCaller("my-token", caller)

		email := "changed@example.com"
		f.mockRepo.EXPECT().Update(gomock.Any(), 7, domain.UserUpdate{Email: &email}).
			Return(&domain.User{ID: 7, Email: email, Username: "AB12CD34"}, nil)

		req := jsonRequest(t, http.MethodPatch, "/api/v1/users/update/7",
			map[string]any{"email": email})
		req.Header.Set(fiber.HeaderAuthorization, "Bearer my-token")
		resp, err := f.app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	})

	t.Run("updating someone else is forbidden", func(t *testing.T) {
		f := newFixture(t)

		f.expectCaller("my-token", &domain.User{ID: 7, Username: "AB12CD34"})

		req := jsonRequest(t, http.MethodPatch, "/api/v1/users/update/8",
			map[string]any{"email": "x@example.com"})
		req.Header.Set(fiber.HeaderAuthorization, "Bearer my-token")
		resp, err := f.app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("superuser flag in payload is stripped", func(t *testing.T) {
		f := newFixture(t)

		f.expectCaller("admin-token", &domain.User{ID: 1, Username: "ADMIN111", IsAdmin: true})

		// The repo must receive an update with no superuser change even
		// though the payload asks for one.
		active := true
		f.mockRepo.EXPECT().Update(gomock.Any(), 7, domain.UserUpdate{IsActive: &active}).
			Return(&domain.User{ID: 7, Username: "AB12CD34", IsActive: true}, nil)

		req := jsonRequest(t, http.MethodPatch, "/api/v1/users/update/7",
			map[string]any{"is_active": true, "is_superuser": true, "id": 999, "username": "HACKED00"})
		req.Header.Set(fiber.HeaderAuthorization, "Bearer admin-token")
		resp, err := f.app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	})

	t.Run("missing target", func(t *testing.T) {
		f := newFixture(t)

		f.expectCaller("admin-token", &domain.User{ID: 1, Username: "ADMIN111", IsAdmin: true})

		email := "x@example.com"
		f.mockRepo.EXPECT().Update(gomock.Any(), 404, domain.UserUpdate{Email: &email}).
			Return(nil, autherrors.ErrNotFound)

		req := jsonRequest(t, http.MethodPatch, "/api/v1/users/update/404",
			map[string]any{"email": email})
		req.Header.Set(fiber.HeaderAuthorization, "Bearer admin-token")
		resp, err := f.app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestDeleteUserEndpoint(t *testing.T) {
	t.Run("admin deletes", func(t *testing.T) {
		f := newFixture(t)

		f.expectCaller("admin-token", &domain.User{ID: 1, Username: "ADMIN111", IsAdmin: true})
		f.mockRepo.EXPECT().Delete(gomock.Any(), 7).Return(nil)

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/users/delete/7", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer admin-token")
		resp, err := f.app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("no self-delete exception for regular users", func(t *testing.T) {
		f := newFixture(t)

		f.expectCaller("user-token", &domain.User{ID: 7, Username: "AB12CD34"})

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/users/delete/7", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer user-token")
		resp, err := f.app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("missing target", func(t *testing.T) {
		f := newFixture(t)

		f.expectCaller("admin-token", &domain.User{ID: 1, Username: "ADMIN111", IsAdmin: true})
		f.mockRepo.EXPECT().Delete(gomock.Any(), 404).Return(autherrors.ErrNotFound)

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/users/delete/404", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer admin-token")
		resp, err := f.app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
