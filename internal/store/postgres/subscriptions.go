package postgres

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/store"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (s *Store) CreateSubscriptionType(ctx context.Context, st *models.SubscriptionType) error {
	return translate(s.conn(ctx).Create(st).Error, "create subscription type")
}

func (s *Store) ListSubscriptionTypes(ctx context.Context) ([]models.SubscriptionType, error) {
	var types []models.SubscriptionType
	err := s.conn(ctx).Order("duration_days ASC").Find(&types).Error
	return types, translate(err, "list subscription types")
}

func (s *Store) FindSubscriptionTypeByProductID(ctx context.Context, productID string) (*models.SubscriptionType, error) {
	var st models.SubscriptionType
	if err := s.conn(ctx).Where("product_id = ?", productID).First(&st).Error; err != nil {
		return nil, translate(err, "find subscription type")
	}
	return &st, nil
}

func (s *Store) FindSubscription(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	if err := s.conn(ctx).Preload("SubscriptionType").First(&sub, "id = ?", id).Error; err != nil {
		return nil, translate(err, "find subscription")
	}
	return &sub, nil
}

func (s *Store) FindLatestByOriginalTransactionID(ctx context.Context, originalTransactionID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.conn(ctx).
		Where("original_transaction_id = ?", originalTransactionID).
		Order("purchase_date DESC").
		First(&sub).Error
	if err != nil {
		return nil, translate(err, "find subscription")
	}
	return &sub, nil
}

func (s *Store) FindLatestByTransactionID(ctx context.Context, transactionID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.conn(ctx).
		Where("transaction_id = ? OR original_transaction_id = ?", transactionID, transactionID).
		Order("purchase_date DESC").
		First(&sub).Error
	if err != nil {
		return nil, translate(err, "find subscription")
	}
	return &sub, nil
}

func (s *Store) Activate(ctx context.Context, sub *models.Subscription) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("SubscriptionType").Create(sub).Error; err != nil {
			return translate(err, "create subscription")
		}

		res := tx.Model(&models.User{}).Where("id = ?", sub.UserID).Update("current_subscription_id", sub.ID)
		if res.Error != nil {
			return translate(res.Error, "set current subscription")
		}
		if res.RowsAffected == 0 {
			return store.ErrNotFound
		}

		var seq int
		err := tx.Model(&models.SubscriptionHistoryEntry{}).
			Where("user_id = ?", sub.UserID).
			Select("COALESCE(MAX(sequence), 0)").
			Scan(&seq).Error
		if err != nil {
			return translate(err, "compute history sequence")
		}

		entry := models.SubscriptionHistoryEntry{UserID: sub.UserID, SubscriptionID: sub.ID, Sequence: seq + 1}
		return translate(tx.Create(&entry).Error, "append subscription history")
	})
}

func (s *Store) MarkInactive(ctx context.Context, id uuid.UUID, at time.Time) error {
	res := s.conn(ctx).Model(&models.Subscription{}).Where("id = ?", id).Updates(map[string]interface{}{
		"is_active":         false,
		"marked_expired_at": at,
	})
	if res.Error != nil {
		return translate(res.Error, "mark subscription inactive")
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) History(ctx context.Context, userID uuid.UUID) ([]models.SubscriptionHistoryEntry, error) {
	var entries []models.SubscriptionHistoryEntry
	err := s.conn(ctx).Preload("Subscription").
		Where("user_id = ?", userID).
		Order("sequence ASC").
		Find(&entries).Error
	return entries, translate(err, "list subscription history")
}

func (s *Store) ListExpiredCurrent(ctx context.Context, now time.Time) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := s.conn(ctx).
		Joins("JOIN users ON users.current_subscription_id = subscriptions.id AND users.is_deleted = 0").
		Where("subscriptions.is_active = ? AND subscriptions.expiration_date < ?", true, now).
		Find(&subs).Error
	return subs, translate(err, "list expired subscriptions")
}
