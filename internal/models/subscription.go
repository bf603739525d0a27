package models

import (
	"time"

	"github.com/google/uuid"
)

const PlatformApple = "apple"

// SubscriptionType maps an App Store product to a plan.
type SubscriptionType struct {
	Base
	Name         string `gorm:"size:100;not null" json:"name"`
	ProductID    string `gorm:"size:255;not null;uniqueIndex" json:"product_id"`
	DurationDays int    `gorm:"not null" json:"duration_days"`
	DisplayPrice string `gorm:"size:50" json:"display_price"`
}

type Subscription struct {
	Base
	UserID                uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	SubscriptionTypeID    uuid.UUID  `gorm:"type:uuid;not null" json:"subscription_type_id"`
	Platform              string     `gorm:"size:20;not null;default:'apple'" json:"platform"`
	ProductID             string     `gorm:"size:255;not null" json:"product_id"`
	TransactionID         string     `gorm:"size:255;index" json:"transaction_id"`
	OriginalTransactionID string     `gorm:"size:255;index" json:"original_transaction_id"`
	Receipt               string     `gorm:"type:text" json:"-"`
	PurchaseDate          time.Time  `json:"purchase_date"`
	ExpirationDate        time.Time  `gorm:"index" json:"expiration_date"`
	IsActive              bool       `gorm:"not null;default:true;index" json:"is_active"`
	MarkedExpiredAt       *time.Time `json:"marked_expired_at,omitempty"`

	SubscriptionType *SubscriptionType `gorm:"foreignKey:SubscriptionTypeID" json:"subscription_type,omitempty"`
}

// SubscriptionHistoryEntry is append-only; Sequence orders a user's entries.
type SubscriptionHistoryEntry struct {
	Base
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subscription_history_user_seq,priority:1" json:"user_id"`
	SubscriptionID uuid.UUID `gorm:"type:uuid;not null" json:"subscription_id"`
	Sequence       int       `gorm:"not null;uniqueIndex:idx_subscription_history_user_seq,priority:2" json:"sequence"`

	Subscription *Subscription `gorm:"foreignKey:SubscriptionID" json:"subscription,omitempty"`
}

func (SubscriptionHistoryEntry) TableName() string {
	return "subscription_history"
}
