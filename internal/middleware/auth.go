package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/HuongLanTo/split-money/internal/auth"
)

const (
	// userIDKey is the locals key for the authenticated user ID.
	userIDKey = "user_id"
	// emailKey is the locals key for the authenticated user's email.
	emailKey = "email"
)

// UserID extracts the authenticated user ID from the request.
// Returns empty string if not set.
func UserID(c *fiber.Ctx) string {
	userID, _ := c.Locals(userIDKey).(string)
	return userID
}

// Email extracts the authenticated user's email from the request.
// Returns empty string if not set.
func Email(c *fiber.Ctx) string {
	email, _ := c.Locals(emailKey).(string)
	return email
}

// SetUser stores the authenticated identity in the request locals.
// Exported for handler tests that bypass the JWT middleware.
func SetUser(c *fiber.Ctx, userID, email string) {
	c.Locals(userIDKey, userID)
	c.Locals(emailKey, email)
}

// RequireAuth returns a middleware that validates Bearer JWT tokens.
// It extracts the token from the Authorization header, validates it, and
// makes the user ID and email available to downstream handlers.
func RequireAuth(jwtManager *auth.JWTManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": auth.ErrMissingToken.Error(),
			})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": auth.ErrInvalidToken.Error(),
			})
		}

		claims, err := jwtManager.Validate(parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": auth.ErrInvalidToken.Error(),
			})
		}

		SetUser(c, claims.UserID, claims.Email)
		return c.Next()
	}
}
