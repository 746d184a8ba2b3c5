package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// RequireCronSecret guards the scheduled endpoints. The external scheduler
// passes the shared secret as ?key= or in the X-Cron-Secret header. An
// unconfigured secret rejects every call rather than opening the route.
func RequireCronSecret(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Query("key")
		if key == "" {
			key = c.Get("X-Cron-Secret")
		}
		if secret == "" || subtle.ConstantTimeCompare([]byte(key), []byte(secret)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"ok": false, "error": "unauthorized"})
		}
		return c.Next()
	}
}
