package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/workhive/workhive-backend/internal/utils"
)

// AuthContext is the explicit capability every handler passes into the core
// services: who is calling and with which role.
type AuthContext struct {
	AccountID uuid.UUID
	Role      string
}

// AttachAuthContext resolves the parsed JWT into an AuthContext local.
// Runs after JWTFromCookie.
func AttachAuthContext() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Locals("user")
		if raw == nil {
			return fiber.ErrUnauthorized
		}

		token, ok := raw.(*jwt.Token)
		if !ok || token == nil {
			return fiber.ErrUnauthorized
		}

		claims, ok := token.Claims.(*utils.Claims)
		if !ok {
			return fiber.ErrUnauthorized
		}

		uid, err := uuid.Parse(strings.TrimSpace(claims.UserID))
		if err != nil {
			return fiber.ErrUnauthorized
		}

		c.Locals("auth", AuthContext{
			AccountID: uid,
			Role:      strings.ToLower(strings.TrimSpace(claims.Role)),
		})
		return c.Next()
	}
}

// Auth returns the AuthContext attached by AttachAuthContext.
func Auth(c *fiber.Ctx) (AuthContext, error) {
	ac, ok := c.Locals("auth").(AuthContext)
	if !ok {
		return AuthContext{}, fiber.ErrUnauthorized
	}
	return ac, nil
}
