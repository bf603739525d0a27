// Package authctx extracts the authenticated principal from a request.
package authctx

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	userLocal      = "user"
	principalLocal = "principal"
)

var (
	ErrNoToken     = errors.New("invalid token in context")
	ErrBadClaims   = errors.New("invalid claims")
	ErrMissingSub  = errors.New("missing sub claim")
	ErrInvalidUser = errors.New("invalid user id in token")
)

// Principal is the caller a service acts on behalf of.
type Principal struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

func (p Principal) IsAdmin() bool {
	return p.Role == "admin"
}

// FromFiber reads the principal from the JWT the auth middleware stored in
// c.Locals. A principal already resolved for the request wins.
func FromFiber(c *fiber.Ctx) (Principal, error) {
	if p, ok := c.Locals(principalLocal).(Principal); ok {
		return p, nil
	}

	token, ok := c.Locals(userLocal).(*jwt.Token)
	if !ok || token == nil {
		return Principal{}, ErrNoToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Principal{}, ErrBadClaims
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return Principal{}, ErrMissingSub
	}

	id, err := uuid.Parse(sub)
	if err != nil {
		return Principal{}, ErrInvalidUser
	}

	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	p := Principal{UserID: id, Email: email, Role: role}
	c.Locals(principalLocal, p)
	return p, nil
}

// Set stores p for the rest of the request.
func Set(c *fiber.Ctx, p Principal) {
	c.Locals(principalLocal, p)
}
