package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/authctx"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/receipt"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/store/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:         "test-secret",
		JWTAccessExpiry:   15 * time.Minute,
		JWTRefreshExpiry:  time.Hour,
		AppleBundleID:     "com.airwell.app",
		AppleSharedSecret: "shared",
		ReceiptTimeout:    time.Second,
		PushTimeout:       time.Second,
	}
}

func createUser(t *testing.T, st *memory.Store, mutate func(u *models.User)) *models.User {
	t.Helper()
	u := &models.User{Email: "user-" + uuid.NewString() + "@example.com", Role: models.RoleUser, AuthProvider: "email"}
	if mutate != nil {
		mutate(u)
	}
	require.NoError(t, st.CreateUser(context.Background(), u))
	return u
}

func principal(u *models.User) authctx.Principal {
	return authctx.Principal{UserID: u.ID, Email: u.Email, Role: u.Role}
}

// fakeVerifier answers every Verify with a configurable result.
type fakeVerifier struct {
	mu     sync.Mutex
	result *receipt.Result
	err    error
	panics bool
	calls  int
}

func (f *fakeVerifier) Verify(_ context.Context, _ receipt.Request) (*receipt.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.panics {
		panic("verifier exploded")
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeVerifier) set(result *receipt.Result, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.result = result
	f.err = err
}

func (f *fakeVerifier) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
