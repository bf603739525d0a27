package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/store/memory"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAppleVerifier struct {
	claims *AppleIdentityClaims
	err    error
}

func (f *fakeAppleVerifier) VerifyToken(_ context.Context, _, _ string) (*AppleIdentityClaims, error) {
	return f.claims, f.err
}

func newAuthFixture() (*memory.Store, *AuthService, *fakeAppleVerifier) {
	st := memory.New()
	apple := &fakeAppleVerifier{}
	return st, NewAuthService(st, st, testConfig(), apple), apple
}

func TestRegisterAndLogin(t *testing.T) {
	_, svc, _ := newAuthFixture()
	ctx := context.Background()

	resp, err := svc.Register(ctx, &dto.RegisterRequest{Email: "a@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "user", resp.User.Role)

	token, err := jwt.Parse(resp.AccessToken, func(*jwt.Token) (interface{}, error) { return []byte("test-secret"), nil })
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, resp.User.ID.String(), claims["sub"])
	assert.Equal(t, "user", claims["role"])

	_, err = svc.Register(ctx, &dto.RegisterRequest{Email: "a@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "a@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "a@example.com", Password: "password123"})
	assert.NoError(t, err)
}

func TestRefresh_RotatesToken(t *testing.T) {
	_, svc, _ := newAuthFixture()
	ctx := context.Background()

	resp, err := svc.Register(ctx, &dto.RegisterRequest{Email: "r@example.com", Password: "password123"})
	require.NoError(t, err)

	next, err := svc.Refresh(ctx, &dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, resp.RefreshToken, next.RefreshToken)

	_, err = svc.Refresh(ctx, &dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDeleteAccount(t *testing.T) {
	st, svc, _ := newAuthFixture()
	ctx := context.Background()

	resp, err := svc.Register(ctx, &dto.RegisterRequest{Email: "d@example.com", Password: "password123"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteAccount(ctx, resp.User.ID, ""), ErrPasswordRequired)
	assert.ErrorIs(t, svc.DeleteAccount(ctx, resp.User.ID, "nope-nope"), ErrInvalidCredentials)
	require.NoError(t, svc.DeleteAccount(ctx, resp.User.ID, "password123"))

	_, err = st.FindUserByID(ctx, resp.User.ID)
	assert.Error(t, err)
	_, err = svc.Refresh(ctx, &dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)

	// the email can be registered again
	_, err = svc.Register(ctx, &dto.RegisterRequest{Email: "d@example.com", Password: "password123"})
	assert.NoError(t, err)
}

func TestAppleSignIn(t *testing.T) {
	_, svc, apple := newAuthFixture()
	ctx := context.Background()

	apple.claims = &AppleIdentityClaims{}
	apple.claims.Subject = "apple-user-1"

	first, err := svc.AppleSignIn(ctx, &dto.AppleSignInRequest{IdentityToken: "tok"})
	require.NoError(t, err)
	assert.True(t, first.User.IsAppleUser)
	assert.Equal(t, "apple-user-1@privaterelay.appleid.com", first.User.Email)

	second, err := svc.AppleSignIn(ctx, &dto.AppleSignInRequest{IdentityToken: "tok"})
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, second.User.ID)

	apple.err = errors.New("bad signature")
	_, err = svc.AppleSignIn(ctx, &dto.AppleSignInRequest{IdentityToken: "tok"})
	assert.ErrorIs(t, err, ErrAppleToken)
}

func TestAppleSignIn_LinksExistingEmailAccount(t *testing.T) {
	_, svc, apple := newAuthFixture()
	ctx := context.Background()

	registered, err := svc.Register(ctx, &dto.RegisterRequest{Email: "link@example.com", Password: "password123"})
	require.NoError(t, err)

	apple.claims = &AppleIdentityClaims{Email: "link@example.com"}
	apple.claims.Subject = "apple-user-2"

	resp, err := svc.AppleSignIn(ctx, &dto.AppleSignInRequest{IdentityToken: "tok"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, resp.User.ID)
	assert.True(t, resp.User.IsAppleUser)
}
