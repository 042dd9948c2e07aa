package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"Auto-Checkin-EHR/src/utils"
)

// AuthJWT dashboard API 的 Bearer token 驗證
func AuthJWT(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing or invalid Authorization header"})
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ParseJWT(secret, tokenStr)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token", "detail": err.Error()})
		}

		c.Locals("username", claims.Username)
		return c.Next()
	}
}
