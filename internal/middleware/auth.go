package middleware

import (
	"crypto/subtle"

	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/config"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
)

const AdminTokenHeader = "X-Admin-Token"

var ErrUnauthorized = apperr.New(apperr.Unauthorized, "invalid or expired token")

func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return ErrUnauthorized.Wrap(err)
		},
	})
}

// AdminJWT is JWTProtected for the admin group: requests carrying the
// configured admin token skip token parsing and go straight to AdminRequired.
func AdminJWT(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		Filter: func(c *fiber.Ctx) bool {
			return hasAdminToken(c, cfg)
		},
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return ErrUnauthorized.Wrap(err)
		},
	})
}

func hasAdminToken(c *fiber.Ctx, cfg *config.Config) bool {
	if cfg.AdminToken == "" {
		return false
	}
	got := c.Get(AdminTokenHeader)
	return got != "" && subtle.ConstantTimeCompare([]byte(got), []byte(cfg.AdminToken)) == 1
}
