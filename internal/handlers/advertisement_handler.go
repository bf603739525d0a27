package handlers

import (
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AdvertisementHandler struct {
	ads *services.AdvertisementService
}

func NewAdvertisementHandler(ads *services.AdvertisementService) *AdvertisementHandler {
	return &AdvertisementHandler{ads: ads}
}

func (h *AdvertisementHandler) Random(c *fiber.Ctx) error {
	ad, err := h.ads.Random(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, ad)
}

func (h *AdvertisementHandler) Click(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.ads.Click(c.UserContext(), id); err != nil {
		return err
	}
	return noContent(c)
}

// Admin

func (h *AdvertisementHandler) List(c *fiber.Ctx) error {
	page, err := pageQuery(c)
	if err != nil {
		return err
	}

	res, err := h.ads.Paginate(c.UserContext(), page)
	if err != nil {
		return err
	}
	return ok(c, res)
}

func (h *AdvertisementHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateAdvertisementRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	ad, err := h.ads.Create(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return created(c, ad)
}

func (h *AdvertisementHandler) Get(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	ad, err := h.ads.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, ad)
}

func (h *AdvertisementHandler) Update(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateAdvertisementRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	ad, err := h.ads.Update(c.UserContext(), id, &req)
	if err != nil {
		return err
	}
	return ok(c, ad)
}

func (h *AdvertisementHandler) Delete(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.ads.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return noContent(c)
}
