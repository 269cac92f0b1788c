package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lanternsec/facegate/internal/domain"
	"github.com/lanternsec/facegate/internal/service"
)

func TestUserHandler_Register(t *testing.T) {
	t.Run("new account is created", func(t *testing.T) {
		created := &domain.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com", Role: domain.RoleUser, Active: true}

		svc := new(MockUserService)
		svc.On("Register", mock.Anything, service.RegisterInput{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "correct horse battery",
		}).Return(created, nil)

		app := newTestApp()
		h := NewUserHandler(svc, testLogger())
		app.Post("/v1/users", h.Register)

		body, _ := json.Marshal(RegisterRequest{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "correct horse battery",
		})
		req := httptest.NewRequest("POST", "/v1/users", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

		var got domain.User
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "alice", got.Username)
		svc.AssertExpectations(t)
	})

	t.Run("duplicate username maps to 409", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("Register", mock.Anything, mock.Anything).Return(nil, domain.ErrUserExists)

		app := newTestApp()
		h := NewUserHandler(svc, testLogger())
		app.Post("/v1/users", h.Register)

		body, _ := json.Marshal(RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "pw"})
		req := httptest.NewRequest("POST", "/v1/users", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	})
}

func TestUserHandler_Me(t *testing.T) {
	userID := uuid.New()
	svc := new(MockUserService)
	svc.On("GetByID", mock.Anything, userID).
		Return(&domain.User{ID: userID, Username: "alice"}, nil)

	app := newTestApp()
	h := NewUserHandler(svc, testLogger())
	app.Get("/v1/users/me", fakeSession(userID), h.Me)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/users/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got domain.User
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, userID, got.ID)
}

func TestUserHandler_List(t *testing.T) {
	svc := new(MockUserService)
	svc.On("List", mock.Anything, 2, 4).Return([]domain.User{
		{ID: uuid.New(), Username: "alice"},
		{ID: uuid.New(), Username: "bob"},
	}, nil)

	app := newTestApp()
	h := NewUserHandler(svc, testLogger())
	app.Get("/v1/admin/users", h.List)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/admin/users?limit=2&offset=4", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got struct {
		Users []domain.User `json:"users"`
		Count int           `json:"count"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, 2, got.Count)
	svc.AssertExpectations(t)
}
