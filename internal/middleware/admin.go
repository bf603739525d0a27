package middleware

import (
	"slices"

	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/authctx"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/store"
	"github.com/gofiber/fiber/v2"
)

var ErrAdminRequired = apperr.New(apperr.Forbidden, "admin access required")

// AdminRequired admits a request when any of these hold:
// 1. the X-Admin-Token header matches ADMIN_TOKEN
// 2. the caller's email or id is listed in ADMIN_EMAILS / ADMIN_USER_IDS
// 3. the caller's live user row has the admin role
func AdminRequired(users store.UserStore, cfg *config.Config) fiber.Handler {
	adminEmails := cfg.AdminEmailList()
	adminUserIDs := cfg.AdminUserIDList()

	return func(c *fiber.Ctx) error {
		if hasAdminToken(c, cfg) {
			return c.Next()
		}

		p, err := authctx.FromFiber(c)
		if err != nil {
			return ErrUnauthorized.Wrap(err)
		}

		if slices.Contains(adminEmails, p.Email) || slices.Contains(adminUserIDs, p.UserID.String()) {
			return c.Next()
		}

		user, err := users.FindUserByID(c.UserContext(), p.UserID)
		if err == nil && user.Role == models.RoleAdmin {
			authctx.Set(c, authctx.Principal{UserID: p.UserID, Email: p.Email, Role: models.RoleAdmin})
			return c.Next()
		}

		return ErrAdminRequired
	}
}
