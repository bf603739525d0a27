package handlers

import (
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type RemoteConfigHandler struct {
	configs *services.RemoteConfigService
}

func NewRemoteConfigHandler(configs *services.RemoteConfigService) *RemoteConfigHandler {
	return &RemoteConfigHandler{configs: configs}
}

// GetConfig returns every key with its value decoded by type (public).
func (h *RemoteConfigHandler) GetConfig(c *fiber.Ctx) error {
	values, err := h.configs.Values(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, values)
}

// SetConfigKey sets or updates a config key (admin only)
func (h *RemoteConfigHandler) SetConfigKey(c *fiber.Ctx) error {
	var req dto.SetConfigRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	cfg, err := h.configs.Set(c.UserContext(), c.Params("key"), &req)
	if err != nil {
		return err
	}
	return ok(c, cfg)
}

// DeleteConfigKey deletes a config key (admin only)
func (h *RemoteConfigHandler) DeleteConfigKey(c *fiber.Ctx) error {
	if err := h.configs.Delete(c.UserContext(), c.Params("key")); err != nil {
		return err
	}
	return noContent(c)
}
