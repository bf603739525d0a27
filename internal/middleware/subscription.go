package middleware

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/authctx"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var ErrSubscriptionRequired = apperr.New(apperr.Forbidden, "an active subscription is required")

type ActiveChecker interface {
	IsActive(ctx context.Context, userID uuid.UUID) (bool, error)
}

// SubscriptionRequired rejects callers whose current subscription is not ACTIVE.
func SubscriptionRequired(subs ActiveChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := authctx.FromFiber(c)
		if err != nil {
			return ErrUnauthorized.Wrap(err)
		}

		active, err := subs.IsActive(c.UserContext(), p.UserID)
		if err != nil {
			return err
		}
		if !active {
			return ErrSubscriptionRequired
		}
		return c.Next()
	}
}
