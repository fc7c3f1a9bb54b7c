package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/hasibdev/blog-api/internal/config"
	"github.com/hasibdev/blog-api/internal/response"
)

const localsUserID = "user_id"

// Protected gates a route on a valid access token read from the configured
// cookie. It is stateless — no storage round trip; ownership checks happen
// inside the handlers against the loaded resource.
func Protected(tokens *TokenService, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(cfg.AccessCookieName)
		if token == "" {
			return response.Fail(c, fiber.StatusUnauthorized, "Access denied. No token provided.")
		}

		userID, err := tokens.VerifyAccessToken(token)
		if err != nil {
			switch {
			case errors.Is(err, ErrTokenExpired):
				return response.Fail(c, fiber.StatusUnauthorized, "Token has expired.")
			case errors.Is(err, ErrTokenInvalid):
				return response.Fail(c, fiber.StatusUnauthorized, "Invalid token.")
			default:
				return response.Fail(c, fiber.StatusInternalServerError, "Internal server error.")
			}
		}

		c.Locals(localsUserID, userID)
		return c.Next()
	}
}

// CallerID returns the authenticated user id attached by Protected.
func CallerID(c *fiber.Ctx) string {
	id, _ := c.Locals(localsUserID).(string)
	return id
}

// IsOwner compares the caller's id to a resource's stored owner id by value.
// Identifiers cross token and JSON boundaries as strings, so this is the only
// comparison mutating handlers may use.
func IsOwner(callerID, ownerID string) bool {
	return callerID != "" && callerID == ownerID
}
