package handlers

import (
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/receipt"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type SubscriptionHandler struct {
	subscriptions *services.SubscriptionService
}

func NewSubscriptionHandler(subscriptions *services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions}
}

func (h *SubscriptionHandler) CreateApple(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req dto.AppleSubscriptionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	sub, err := h.subscriptions.CreateApple(c.UserContext(), p.UserID, &req)
	if err != nil {
		return err
	}
	return created(c, sub)
}

func (h *SubscriptionHandler) RestoreApple(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req dto.AppleRestoreRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	sub, err := h.subscriptions.RestoreApple(c.UserContext(), p.UserID, &req)
	if err != nil {
		return err
	}
	return ok(c, sub)
}

func (h *SubscriptionHandler) Me(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	status, err := h.subscriptions.Me(c.UserContext(), p.UserID)
	if err != nil {
		return err
	}
	return ok(c, status)
}

func (h *SubscriptionHandler) History(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	entries, err := h.subscriptions.History(c.UserContext(), p.UserID)
	if err != nil {
		return err
	}
	return ok(c, entries)
}

func (h *SubscriptionHandler) ListTypes(c *fiber.Ctx) error {
	types, err := h.subscriptions.ListTypes(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, types)
}

func (h *SubscriptionHandler) CreateType(c *fiber.Ctx) error {
	var req dto.CreateSubscriptionTypeRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	st, err := h.subscriptions.CreateType(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return created(c, st)
}

// Revalidate runs the expiry sweep on demand and returns its report.
func (h *SubscriptionHandler) Revalidate(c *fiber.Ctx) error {
	report, err := h.subscriptions.Revalidate(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, report)
}

// AppleNotification receives App Store server notifications. Authentication is
// the shared secret carried in the payload.
func (h *SubscriptionHandler) AppleNotification(c *fiber.Ctx) error {
	n, err := receipt.ParseNotification(c.Body())
	if err != nil {
		return ErrInvalidBody.Wrap(err)
	}

	if err := h.subscriptions.HandleAppleNotification(c.UserContext(), n); err != nil {
		return err
	}
	return ok(c, fiber.Map{"received": true})
}
