package handlers

import (
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// RecommendationHandler serves both recommendation kinds. Admin routes take
// the kind from the :kind path segment.
type RecommendationHandler struct {
	recommendations *services.RecommendationService
}

func NewRecommendationHandler(recommendations *services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{recommendations: recommendations}
}

func (h *RecommendationHandler) eligible(c *fiber.Ctx, kind string) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	items, err := h.recommendations.Eligible(c.UserContext(), p, kind)
	if err != nil {
		return err
	}
	return ok(c, items)
}

func (h *RecommendationHandler) EligibleBase(c *fiber.Ctx) error {
	return h.eligible(c, models.KindBase)
}

func (h *RecommendationHandler) EligibleInformative(c *fiber.Ctx) error {
	return h.eligible(c, models.KindInformative)
}

func (h *RecommendationHandler) RandomCard(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	card, err := h.recommendations.RandomCard(c.UserContext(), p)
	if err != nil {
		return err
	}
	return ok(c, card)
}

// Admin

func (h *RecommendationHandler) List(c *fiber.Ctx) error {
	page, err := pageQuery(c)
	if err != nil {
		return err
	}

	res, err := h.recommendations.Paginate(c.UserContext(), c.Params("kind"), page)
	if err != nil {
		return err
	}
	return ok(c, res)
}

func (h *RecommendationHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateRecommendationRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	rec, err := h.recommendations.Create(c.UserContext(), c.Params("kind"), &req)
	if err != nil {
		return err
	}
	return created(c, rec)
}

func (h *RecommendationHandler) Get(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	rec, err := h.recommendations.Get(c.UserContext(), c.Params("kind"), id)
	if err != nil {
		return err
	}
	return ok(c, rec)
}

func (h *RecommendationHandler) Update(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateRecommendationRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	rec, err := h.recommendations.Update(c.UserContext(), c.Params("kind"), id, &req)
	if err != nil {
		return err
	}
	return ok(c, rec)
}

func (h *RecommendationHandler) Delete(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.recommendations.Delete(c.UserContext(), c.Params("kind"), id); err != nil {
		return err
	}
	return noContent(c)
}

func (h *RecommendationHandler) CreateCard(c *fiber.Ctx) error {
	ownerID, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.CreateCardRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	card, err := h.recommendations.CreateCard(c.UserContext(), c.Params("kind"), ownerID, &req)
	if err != nil {
		return err
	}
	return created(c, card)
}

func (h *RecommendationHandler) ListCards(c *fiber.Ctx) error {
	ownerID, err := idParam(c, "id")
	if err != nil {
		return err
	}

	cards, err := h.recommendations.ListCards(c.UserContext(), c.Params("kind"), ownerID)
	if err != nil {
		return err
	}
	return ok(c, cards)
}

func (h *RecommendationHandler) UpdateCard(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateCardRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	card, err := h.recommendations.UpdateCard(c.UserContext(), id, &req)
	if err != nil {
		return err
	}
	return ok(c, card)
}

func (h *RecommendationHandler) MoveCard(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.MoveCardRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	card, err := h.recommendations.MoveCard(c.UserContext(), id, &req)
	if err != nil {
		return err
	}
	return ok(c, card)
}

func (h *RecommendationHandler) DeleteCard(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.recommendations.DeleteCard(c.UserContext(), id); err != nil {
		return err
	}
	return noContent(c)
}
