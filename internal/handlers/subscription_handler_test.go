package handlers

import (
	"context"
	"testing"

	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/receipt"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rejectingVerifier struct{}

func (rejectingVerifier) Verify(context.Context, receipt.Request) (*receipt.Result, error) {
	return nil, receipt.ErrInvalidReceipt
}

func mountSubscriptions(env *testEnv) {
	svc := services.NewSubscriptionService(env.store, env.store, env.store, rejectingVerifier{}, env.cfg)
	h := NewSubscriptionHandler(svc)
	env.app.Post("/subscriptions/apple", env.jwt, h.CreateApple)
	env.app.Get("/subscriptions/me", env.jwt, h.Me)
	env.app.Get("/subscriptions/history", env.jwt, h.History)
	env.app.Post("/webhooks/apple", h.AppleNotification)
}

func appleNotification(password string) map[string]interface{} {
	return map[string]interface{}{
		"notification_type": "DID_RENEW",
		"password":          password,
		"unified_receipt": map[string]interface{}{
			"latest_receipt": "receipt",
			"latest_receipt_info": []map[string]string{{
				"product_id":              "com.airwell.monthly",
				"transaction_id":          "2000",
				"original_transaction_id": "1000",
				"purchase_date_ms":        "1700000000000",
				"expires_date_ms":         "1702592000000",
			}},
		},
	}
}

func TestSubscriptionHandler_MeWithoutSubscription(t *testing.T) {
	env := newTestEnv(t)
	mountSubscriptions(env)
	token, _ := env.register(t)

	status, body := env.do(t, fiber.MethodGet, "/subscriptions/me", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	var me dto.SubscriptionStatusResponse
	decodeData(t, body, &me)
	assert.Equal(t, services.StateNone, me.State)
	assert.False(t, me.IsActive)
	assert.Nil(t, me.Subscription)

	status, body = env.do(t, fiber.MethodGet, "/subscriptions/history", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `[]`, string(body.Data))
}

func TestSubscriptionHandler_RejectedReceipt(t *testing.T) {
	env := newTestEnv(t)
	mountSubscriptions(env)
	token, _ := env.register(t)

	status, body := env.do(t, fiber.MethodPost, "/subscriptions/apple", token, map[string]string{
		"receipt":    "bogus",
		"product_id": "com.airwell.monthly",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	require.NotNil(t, body.Error)
	assert.Equal(t, "failed to verify receipt", body.Error.Message)
}

func TestSubscriptionHandler_AppleNotification(t *testing.T) {
	env := newTestEnv(t)
	mountSubscriptions(env)

	status, _ := env.do(t, fiber.MethodPost, "/webhooks/apple", "", map[string]string{"unexpected": "payload"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = env.do(t, fiber.MethodPost, "/webhooks/apple", "", appleNotification("wrong"))
	assert.Equal(t, fiber.StatusUnauthorized, status)

	// unknown subscriptions are acknowledged so the store stops retrying
	status, body := env.do(t, fiber.MethodPost, "/webhooks/apple", "", appleNotification("shared"))
	assert.Equal(t, fiber.StatusOK, status)
	assert.True(t, body.Success)
}
