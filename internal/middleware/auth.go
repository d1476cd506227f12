package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"workforce-portal/internal/auth"
	"workforce-portal/internal/policy"
	"workforce-portal/pkg/logger"
)

// IdentityKey is the fiber.Ctx Locals key holding the caller's policy.Identity.
const IdentityKey = "identity"

// UseToken requires a valid "Authorization: Bearer <jwt>" header.
func UseToken(tokens *auth.Tokens) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c, "No token provided")
		}
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return unauthorized(c, "Invalid token format")
		}
		return verify(c, tokens, parts[1])
	}
}

// UseQueryToken reads the token from the "token" query parameter. Browsers
// cannot set headers on websocket upgrades.
func UseQueryToken(tokens *auth.Tokens) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Query("token")
		if raw == "" {
			return unauthorized(c, "No token provided")
		}
		return verify(c, tokens, raw)
	}
}

func verify(c *fiber.Ctx, tokens *auth.Tokens, raw string) error {
	id, err := tokens.Verify(raw)
	if err != nil {
		logger.SecurityLogger.Warn("Rejected token",
			zap.String("ip", c.IP()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		if errors.Is(err, auth.ErrTokenExpired) {
			return unauthorized(c, "Token expired")
		}
		return unauthorized(c, "Invalid token")
	}
	c.Locals(IdentityKey, id)
	return c.Next()
}

// CurrentIdentity returns the identity stored by UseToken.
func CurrentIdentity(c *fiber.Ctx) policy.Identity {
	id, _ := c.Locals(IdentityKey).(policy.Identity)
	return id
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": message,
		"success": false,
		"status":  fiber.StatusUnauthorized,
	})
}
