package postgres

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/store"
	"github.com/google/uuid"
)

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	return translate(s.conn(ctx).Create(user).Error, "create user")
}

func (s *Store) FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err, "find user")
	}
	return &user, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err, "find user")
	}
	return &user, nil
}

func (s *Store) FindUserByAppleID(ctx context.Context, appleUserID string) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).Where("apple_user_id = ?", appleUserID).First(&user).Error; err != nil {
		return nil, translate(err, "find user")
	}
	return &user, nil
}

func (s *Store) LinkAppleID(ctx context.Context, id uuid.UUID, appleUserID string) error {
	res := s.conn(ctx).Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"apple_user_id": appleUserID,
		"auth_provider": "apple",
	})
	if res.Error != nil {
		return translate(res.Error, "link apple id")
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) UpdateProfile(ctx context.Context, id uuid.UUID, update store.ProfileUpdate) (*models.User, error) {
	if cols := update.Columns(); len(cols) > 0 {
		res := s.conn(ctx).Model(&models.User{}).Where("id = ?", id).Updates(cols)
		if res.Error != nil {
			return nil, translate(res.Error, "update profile")
		}
		if res.RowsAffected == 0 {
			return nil, store.ErrNotFound
		}
	}
	return s.FindUserByID(ctx, id)
}

func (s *Store) SoftDeleteUser(ctx context.Context, id uuid.UUID) error {
	res := s.conn(ctx).Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error, "delete user")
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListStations(ctx context.Context) ([]string, error) {
	var stations []string
	err := s.conn(ctx).Model(&models.User{}).
		Where("station_id <> ''").
		Distinct().
		Pluck("station_id", &stations).Error
	return stations, translate(err, "list stations")
}

func (s *Store) SetAQIByStation(ctx context.Context, stationID string, aqi int) (int64, error) {
	res := s.conn(ctx).Model(&models.User{}).Where("station_id = ?", stationID).Update("current_aqi", aqi)
	return res.RowsAffected, translate(res.Error, "update station aqi")
}

func (s *Store) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	return translate(s.conn(ctx).Create(token).Error, "create refresh token")
}

func (s *Store) FindRefreshToken(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	if err := s.conn(ctx).Where("token_hash = ? AND revoked = ?", tokenHash, false).First(&token).Error; err != nil {
		return nil, translate(err, "find refresh token")
	}
	return &token, nil
}

func (s *Store) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	err := s.conn(ctx).Model(&models.RefreshToken{}).Where("token_hash = ?", tokenHash).Update("revoked", true).Error
	return translate(err, "revoke refresh token")
}

func (s *Store) RevokeUserRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	err := s.conn(ctx).Model(&models.RefreshToken{}).Where("user_id = ?", userID).Update("revoked", true).Error
	return translate(err, "revoke refresh tokens")
}
