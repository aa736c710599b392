package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/loadbroker/backend/internal/eligibility"
	"github.com/loadbroker/backend/internal/fmcsa"
	"github.com/loadbroker/backend/pkg/logger"
)

// Registry resolves a validated MC number to a carrier snapshot.
type Registry interface {
	FindByMC(ctx context.Context, mc string) (eligibility.CarrierRecord, error)
}

type CarrierHandler struct {
	registry Registry
}

func NewCarrierHandler(registry Registry) *CarrierHandler {
	return &CarrierHandler{
		registry: registry,
	}
}

func (h *CarrierHandler) FindCarrier(c *fiber.Ctx) error {
	mc := c.Query("mc")
	if err := fmcsa.ValidateMC(mc); err != nil {
		return respondError(c, err)
	}

	record, err := h.registry.FindByMC(c.Context(), mc)
	if err != nil {
		return respondError(c, err)
	}

	verdict := eligibility.Evaluate(record)

	logger.Info("Carrier verified",
		zap.String("mc", mc),
		zap.Bool("eligible", verdict.Eligible),
	)

	return c.JSON(verdict)
}
