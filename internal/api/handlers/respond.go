package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/loadbroker/backend/pkg/apperrors"
	"github.com/loadbroker/backend/pkg/logger"
)

// respondError maps a typed failure to its status code and a response body
// carrying both the human message and the machine-distinguishable kind.
func respondError(c *fiber.Ctx, err error) error {
	status := apperrors.HTTPStatus(err)

	message := "internal error"
	kind := apperrors.KindOf(err)
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	if status >= 500 {
		logger.Error("Request failed",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	return c.Status(status).JSON(fiber.Map{
		"error": message,
		"kind":  kind,
	})
}
