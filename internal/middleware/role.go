package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

func RequireRoles(allowed ...string) fiber.Handler {
	allowedSet := map[string]bool{}
	for _, r := range allowed {
		allowedSet[strings.ToLower(r)] = true
	}

	return func(c *fiber.Ctx) error {
		ac, err := Auth(c)
		if err != nil {
			return err
		}
		if !allowedSet[ac.Role] {
			return fiber.NewError(fiber.StatusForbidden, "forbidden: insufficient role")
		}
		return c.Next()
	}
}
