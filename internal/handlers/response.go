package handlers

import (
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/authctx"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/store"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var (
	ErrInvalidBody  = apperr.New(apperr.BadRequest, "invalid request body")
	ErrInvalidQuery = apperr.New(apperr.BadRequest, "invalid query parameters")
	ErrInvalidID    = apperr.New(apperr.BadRequest, "invalid id")
)

func ok(c *fiber.Ctx, data interface{}) error {
	return c.JSON(dto.Envelope{Success: true, Data: data})
}

func created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(dto.Envelope{Success: true, Data: data})
}

func noContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

// parseBody decodes the JSON body into dst and validates it.
func parseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return ErrInvalidBody.Wrap(err)
	}
	return validation.Validate(dst)
}

func parseQuery(c *fiber.Ctx, dst interface{}) error {
	if err := c.QueryParser(dst); err != nil {
		return ErrInvalidQuery.Wrap(err)
	}
	return validation.Validate(dst)
}

func pageQuery(c *fiber.Ctx) (store.Page, error) {
	var q dto.PageQuery
	if err := parseQuery(c, &q); err != nil {
		return store.Page{}, err
	}
	return store.Page{Page: q.Page, Limit: q.Limit, Sort: q.Sort}, nil
}

func idParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, ErrInvalidID.Wrap(err)
	}
	return id, nil
}

func principal(c *fiber.Ctx) (authctx.Principal, error) {
	p, err := authctx.FromFiber(c)
	if err != nil {
		return authctx.Principal{}, middleware.ErrUnauthorized.Wrap(err)
	}
	return p, nil
}
