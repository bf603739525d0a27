package handlers

import (
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AirQualityHandler struct {
	airQuality *services.AirQualityService
}

func NewAirQualityHandler(airQuality *services.AirQualityService) *AirQualityHandler {
	return &AirQualityHandler{airQuality: airQuality}
}

func (h *AirQualityHandler) Current(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	reading, err := h.airQuality.Current(c.UserContext(), p)
	if err != nil {
		return err
	}
	return ok(c, reading)
}

func (h *AirQualityHandler) Predictions(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	predictions, err := h.airQuality.Predictions(c.UserContext(), p)
	if err != nil {
		return err
	}
	return ok(c, predictions)
}

// Ingest polls every station now instead of waiting for the hourly job.
func (h *AirQualityHandler) Ingest(c *fiber.Ctx) error {
	report, err := h.airQuality.IngestCurrent(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, report)
}
