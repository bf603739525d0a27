package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/store"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = apperr.New(apperr.Conflict, "email already registered")
	ErrInvalidCredentials = apperr.New(apperr.Unauthorized, "invalid email or password")
	ErrInvalidToken       = apperr.New(apperr.Unauthorized, "invalid or expired refresh token")
	ErrUserNotFound       = apperr.New(apperr.NotFound, "user not found")
	ErrPasswordRequired   = apperr.New(apperr.BadRequest, "password is required")
	ErrAppleToken         = apperr.New(apperr.Unauthorized, "failed to verify Apple identity token")
)

type AuthService struct {
	users  store.UserStore
	tokens store.RefreshTokenStore
	cfg    *config.Config
	apple  AppleTokenVerifier
	now    func() time.Time
}

func NewAuthService(users store.UserStore, tokens store.RefreshTokenStore, cfg *config.Config, apple AppleTokenVerifier) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		cfg:    cfg,
		apple:  apple,
		now:    time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if _, err := s.users.FindUserByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, apperr.Internalf(err, "failed to look up user")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Email:        req.Email,
		Password:     string(hash),
		Role:         models.RoleUser,
		AuthProvider: "email",
	}
	if err := s.users.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.generateTokenPair(ctx, &user)
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.users.FindUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokenPair(ctx, user)
}

func (s *AuthService) Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.AuthResponse, error) {
	tokenHash := hashToken(req.RefreshToken)

	stored, err := s.tokens.FindRefreshToken(ctx, tokenHash)
	if err != nil {
		return nil, ErrInvalidToken
	}

	// rotation: a refresh token is usable once
	if err := s.tokens.RevokeRefreshToken(ctx, tokenHash); err != nil {
		return nil, fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	if s.now().After(stored.ExpiresAt) {
		return nil, ErrInvalidToken
	}

	user, err := s.users.FindUserByID(ctx, stored.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return s.generateTokenPair(ctx, user)
}

func (s *AuthService) Logout(ctx context.Context, req *dto.LogoutRequest) error {
	return s.tokens.RevokeRefreshToken(ctx, hashToken(req.RefreshToken))
}

// DeleteAccount soft-deletes the user and revokes every refresh token.
// Email accounts must confirm with their password.
func (s *AuthService) DeleteAccount(ctx context.Context, userID uuid.UUID, password string) error {
	user, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		return ErrUserNotFound
	}

	if user.AuthProvider != "apple" {
		if password == "" {
			return ErrPasswordRequired
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
			return ErrInvalidCredentials
		}
	}

	if err := s.tokens.RevokeUserRefreshTokens(ctx, userID); err != nil {
		return fmt.Errorf("failed to revoke refresh tokens: %w", err)
	}
	if err := s.users.SoftDeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	slog.Info("account deleted", "user_id", userID)
	return nil
}

func (s *AuthService) AppleSignIn(ctx context.Context, req *dto.AppleSignInRequest) (*dto.AuthResponse, error) {
	claims, err := s.apple.VerifyToken(ctx, req.IdentityToken, s.cfg.AppleBundleID)
	if err != nil {
		slog.Warn("apple token verification failed", "error", err)
		return nil, ErrAppleToken.Wrap(err)
	}

	appleUserID := claims.Subject
	email := claims.Email
	if email == "" {
		email = req.Email
	}
	if email == "" {
		email = appleUserID + "@privaterelay.appleid.com"
	}

	user, err := s.users.FindUserByAppleID(ctx, appleUserID)
	if errors.Is(err, store.ErrNotFound) {
		user, err = s.users.FindUserByEmail(ctx, email)
	}

	switch {
	case errors.Is(err, store.ErrNotFound):
		user = &models.User{
			Email:        email,
			Role:         models.RoleUser,
			AppleUserID:  &appleUserID,
			AuthProvider: "apple",
		}
		if err := s.users.CreateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create Apple user: %w", err)
		}
	case err != nil:
		return nil, apperr.Internalf(err, "failed to look up user")
	case user.AppleUserID == nil:
		if err := s.users.LinkAppleID(ctx, user.ID, appleUserID); err != nil {
			return nil, fmt.Errorf("failed to link Apple account: %w", err)
		}
		user.AppleUserID = &appleUserID
		user.AuthProvider = "apple"
	}

	return s.generateTokenPair(ctx, user)
}

func (s *AuthService) generateTokenPair(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateRefreshToken(ctx, user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: dto.UserResponse{
			ID:          user.ID,
			Email:       user.Email,
			Role:        user.Role,
			IsAppleUser: user.AuthProvider == "apple",
		},
	}, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":           user.ID.String(),
		"email":         user.Email,
		"role":          user.Role,
		"is_apple_user": user.AuthProvider == "apple",
		"iat":           now.Unix(),
		"exp":           now.Add(s.cfg.JWTAccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

func (s *AuthService) generateRefreshToken(ctx context.Context, user *models.User) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	rawToken := base64.URLEncoding.EncodeToString(rawBytes)

	record := models.RefreshToken{
		UserID:    user.ID,
		TokenHash: hashToken(rawToken),
		ExpiresAt: s.now().Add(s.cfg.JWTRefreshExpiry),
	}
	if err := s.tokens.CreateRefreshToken(ctx, &record); err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return rawToken, nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
