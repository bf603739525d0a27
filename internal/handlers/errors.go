package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/dto"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
)

func statusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.NotFound:
		return fiber.StatusNotFound
	case apperr.Conflict:
		return fiber.StatusConflict
	case apperr.BadRequest, apperr.Validation:
		return fiber.StatusBadRequest
	case apperr.Unauthorized:
		return fiber.StatusUnauthorized
	case apperr.Forbidden:
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

func codeOf(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return apperr.BadRequest.String()
	case fiber.StatusUnauthorized:
		return apperr.Unauthorized.String()
	case fiber.StatusForbidden:
		return apperr.Forbidden.String()
	case fiber.StatusNotFound:
		return apperr.NotFound.String()
	case fiber.StatusConflict:
		return apperr.Conflict.String()
	case fiber.StatusTooManyRequests:
		return "rate_limited"
	case fiber.StatusRequestEntityTooLarge:
		return "payload_too_large"
	}
	if status >= fiber.StatusInternalServerError {
		return apperr.Internal.String()
	}
	return "error"
}

// ErrorHandler renders every error returned by a handler or middleware as an
// envelope. Details of 5xx failures are only exposed when exposeInternal is set.
func ErrorHandler(exposeInternal bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		body := dto.ErrorBody{Message: "internal server error"}
		status := fiber.StatusInternalServerError

		var appErr *apperr.Error
		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &appErr):
			status = statusOf(appErr.Kind)
			body.Code = appErr.Kind.String()
			body.Message = appErr.Message
			body.Fields = appErr.Fields
		case errors.As(err, &fiberErr):
			status = fiberErr.Code
			body.Code = codeOf(status)
			body.Message = fiberErr.Message
		default:
			body.Code = apperr.Internal.String()
		}

		if status >= fiber.StatusInternalServerError {
			slog.Error("request failed",
				"method", c.Method(),
				"path", c.Path(),
				"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
				"status", status,
				"error", err.Error(),
			)
			if hub := sentryfiber.GetHubFromContext(c); hub != nil {
				hub.CaptureException(err)
			}
			if exposeInternal {
				body.Message = err.Error()
			} else {
				body.Message = "internal server error"
			}
		}

		return c.Status(status).JSON(dto.Envelope{Success: false, Error: &body})
	}
}
