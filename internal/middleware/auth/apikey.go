package auth

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/loadbroker/backend/pkg/logger"
)

// APIKey checks the x-api-key header against the configured key. Paths in
// skip are served without auth (health probe).
func APIKey(apiKey string, skip ...string) fiber.Handler {
	skipped := make(map[string]struct{}, len(skip))
	for _, path := range skip {
		skipped[path] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		if _, ok := skipped[c.Path()]; ok {
			return c.Next()
		}

		presented := c.Get("x-api-key")
		if subtle.ConstantTimeCompare([]byte(presented), []byte(apiKey)) != 1 {
			logger.Warn("Rejected request with invalid API key",
				zap.String("ip", c.IP()),
				zap.String("path", c.Path()),
			)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid API key",
			})
		}

		return c.Next()
	}
}
