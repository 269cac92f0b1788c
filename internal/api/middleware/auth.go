package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/lanternsec/facegate/internal/domain"
	"github.com/lanternsec/facegate/internal/session"
)

const (
	// LocalUserID is the key to retrieve the authenticated user's id from
	// context
	LocalUserID = "user_id"
	// LocalClaims is the key to retrieve the full session claims from
	// context
	LocalClaims = "claims"
)

// SessionAuth validates the bearer token and puts the session claims in
// the request context.
func SessionAuth(jwt *session.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractBearerToken(c)
		if token == "" {
			return domain.ErrUnauthorized
		}

		claims, err := jwt.ValidateToken(token)
		if err != nil {
			// Expired and malformed tokens both read as 401; the code
			// distinguishes them for the client.
			if errors.Is(err, session.ErrExpiredToken) {
				return domain.ErrTokenExpired
			}
			return domain.ErrUnauthorized
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalClaims, claims)

		return c.Next()
	}
}

// extractBearerToken extracts token from Authorization header
func extractBearerToken(c *fiber.Ctx) string {
	auth := c.Get("Authorization")
	if auth == "" {
		return ""
	}

	// Expected format: "Bearer <token>"
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

// GetUserID retrieves the authenticated user's id from Fiber context
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	userID, ok := c.Locals(LocalUserID).(uuid.UUID)
	if !ok {
		return uuid.Nil, domain.ErrUnauthorized
	}
	return userID, nil
}

// GetClaims retrieves the full session claims from Fiber context
func GetClaims(c *fiber.Ctx) (*session.Claims, error) {
	claims, ok := c.Locals(LocalClaims).(*session.Claims)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}
