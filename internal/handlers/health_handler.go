package handlers

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// Pinger reports whether the database answers.
type Pinger func(ctx context.Context) error

// BreakerState names the current state of the receipt circuit breaker.
type BreakerState func() string

type HealthHandler struct {
	ping    Pinger
	breaker BreakerState
}

func NewHealthHandler(ping Pinger, breaker BreakerState) *HealthHandler {
	return &HealthHandler{ping: ping, breaker: breaker}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	dbStatus := "ok"
	if err := h.ping(ctx); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	receipts := "unknown"
	if h.breaker != nil {
		receipts = h.breaker()
	}

	return ok(c, dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		Receipts:  receipts,
	})
}
