package dto

import "github.com/ahmetcoskunkizilkaya/airwell-backend/internal/models"

type AppleSubscriptionRequest struct {
	Receipt       string `json:"receipt" validate:"required"`
	ProductID     string `json:"product_id" validate:"required"`
	TransactionID string `json:"transaction_id"`
}

type AppleRestoreRequest struct {
	TransactionID string `json:"transaction_id" validate:"required"`
	ProductID     string `json:"product_id" validate:"required"`
	Receipt       string `json:"receipt"`
}

type SubscriptionStatusResponse struct {
	State        string               `json:"state"`
	IsActive     bool                 `json:"is_active"`
	Subscription *models.Subscription `json:"subscription"`
}

type CreateSubscriptionTypeRequest struct {
	Name         string `json:"name" validate:"required,max=100"`
	ProductID    string `json:"product_id" validate:"required,max=255"`
	DurationDays int    `json:"duration_days" validate:"required,min=1,max=3660"`
	DisplayPrice string `json:"display_price" validate:"max=50"`
}
