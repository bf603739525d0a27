package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/store/memory"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:         "test-secret",
		JWTAccessExpiry:   15 * time.Minute,
		JWTRefreshExpiry:  time.Hour,
		AdminToken:        "admin-token",
		AppleBundleID:     "com.airwell.app",
		AppleSharedSecret: "shared",
		ReceiptTimeout:    time.Second,
		PushTimeout:       time.Second,
	}
}

type testEnv struct {
	app   *fiber.App
	store *memory.Store
	cfg   *config.Config
	auth  *services.AuthService
	jwt   fiber.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := testConfig()
	st := memory.New()
	return &testEnv{
		app:   fiber.New(fiber.Config{ErrorHandler: ErrorHandler(false)}),
		store: st,
		cfg:   cfg,
		auth:  services.NewAuthService(st, st, cfg, nil),
		jwt:   middleware.JWTProtected(cfg),
	}
}

// register creates a user and returns its access token.
func (e *testEnv) register(t *testing.T) (string, uuid.UUID) {
	t.Helper()
	resp, err := e.auth.Register(context.Background(), &dto.RegisterRequest{
		Email:    "user-" + uuid.NewString() + "@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	return resp.AccessToken, resp.User.ID
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorBody  `json:"error"`
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func decodeData(t *testing.T, env envelope, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, dst))
}
