package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lanternsec/facegate/internal/domain"
)

// RequireAdmin allows only sessions carrying the admin role. It must run
// after SessionAuth.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := GetClaims(c)
		if err != nil {
			return err
		}

		if claims.Role != domain.RoleAdmin {
			return domain.ErrForbidden
		}

		return c.Next()
	}
}
