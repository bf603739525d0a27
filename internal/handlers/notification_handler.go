package handlers

import (
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type NotificationHandler struct {
	notifications *services.NotificationService
}

func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) Subscribe(c *fiber.Ctx) error {
	var req dto.TopicRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := h.notifications.Subscribe(c.UserContext(), &req); err != nil {
		return err
	}
	return noContent(c)
}

func (h *NotificationHandler) Unsubscribe(c *fiber.Ctx) error {
	var req dto.TopicRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := h.notifications.Unsubscribe(c.UserContext(), &req); err != nil {
		return err
	}
	return noContent(c)
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	page, err := pageQuery(c)
	if err != nil {
		return err
	}
	var q dto.NotificationQuery
	if err := parseQuery(c, &q); err != nil {
		return err
	}

	res, err := h.notifications.Paginate(c.UserContext(), q.Topic, page)
	if err != nil {
		return err
	}
	return ok(c, res)
}

// Create persists the notification and sends it to its topic. A failed send
// still answers 201 with sent=false.
func (h *NotificationHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateNotificationRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	n, err := h.notifications.Create(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return created(c, n)
}

func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.notifications.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return noContent(c)
}
