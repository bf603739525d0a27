package handlers

import (
	"errors"
	"testing"

	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/apperr"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorHandler_MapsKindsToStatus(t *testing.T) {
	cases := []struct {
		kind   apperr.Kind
		status int
	}{
		{apperr.NotFound, fiber.StatusNotFound},
		{apperr.Conflict, fiber.StatusConflict},
		{apperr.BadRequest, fiber.StatusBadRequest},
		{apperr.Validation, fiber.StatusBadRequest},
		{apperr.Unauthorized, fiber.StatusUnauthorized},
		{apperr.Forbidden, fiber.StatusForbidden},
		{apperr.Internal, fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			env := newTestEnv(t)
			env.app.Get("/fail", func(c *fiber.Ctx) error {
				return apperr.New(tc.kind, "boom")
			})

			status, body := env.do(t, fiber.MethodGet, "/fail", "", nil)
			assert.Equal(t, tc.status, status)
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tc.kind.String(), body.Error.Code)
		})
	}
}

func TestErrorHandler_HidesInternalDetails(t *testing.T) {
	env := newTestEnv(t)
	env.app.Get("/fail", func(c *fiber.Ctx) error {
		return apperr.Internalf(errors.New("connection refused"), "failed to load")
	})

	status, body := env.do(t, fiber.MethodGet, "/fail", "", nil)
	assert.Equal(t, fiber.StatusInternalServerError, status)
	require.NotNil(t, body.Error)
	assert.Equal(t, "internal server error", body.Error.Message)
}

func TestErrorHandler_ExposesInternalDetailsInDevelopment(t *testing.T) {
	env := newTestEnv(t)
	env.app = fiber.New(fiber.Config{ErrorHandler: ErrorHandler(true)})
	env.app.Get("/fail", func(c *fiber.Ctx) error {
		return errors.New("connection refused")
	})

	status, body := env.do(t, fiber.MethodGet, "/fail", "", nil)
	assert.Equal(t, fiber.StatusInternalServerError, status)
	require.NotNil(t, body.Error)
	assert.Equal(t, "internal", body.Error.Code)
	assert.Equal(t, "connection refused", body.Error.Message)
}

func TestErrorHandler_ValidationFields(t *testing.T) {
	env := newTestEnv(t)
	env.app.Post("/register", NewAuthHandler(env.auth).Register)

	status, body := env.do(t, fiber.MethodPost, "/register", "", map[string]string{"email": "nope", "password": "short"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	require.NotNil(t, body.Error)
	assert.Equal(t, "validation", body.Error.Code)
	assert.Contains(t, body.Error.Fields, "email")
	assert.Contains(t, body.Error.Fields, "password")
}

func TestErrorHandler_FiberErrors(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, fiber.MethodGet, "/missing", "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	require.NotNil(t, body.Error)
	assert.Equal(t, "not_found", body.Error.Code)
}
