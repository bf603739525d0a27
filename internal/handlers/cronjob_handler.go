package handlers

import (
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type CronjobHandler struct {
	cronjobs *services.CronjobService
}

func NewCronjobHandler(cronjobs *services.CronjobService) *CronjobHandler {
	return &CronjobHandler{cronjobs: cronjobs}
}

func (h *CronjobHandler) List(c *fiber.Ctx) error {
	page, err := pageQuery(c)
	if err != nil {
		return err
	}
	var q dto.CronjobQuery
	if err := parseQuery(c, &q); err != nil {
		return err
	}

	res, err := h.cronjobs.Paginate(c.UserContext(), q.Type, page)
	if err != nil {
		return err
	}
	return ok(c, res)
}
