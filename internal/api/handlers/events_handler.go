package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/loadbroker/backend/internal/metrics"
	"github.com/loadbroker/backend/internal/negotiation"
	"github.com/loadbroker/backend/pkg/apperrors"
	"github.com/loadbroker/backend/pkg/logger"
)

type EventsHandler struct {
	offers     *negotiation.Sink
	summaries  *negotiation.Sink
	aggregator *metrics.Aggregator
}

func NewEventsHandler(offers, summaries *negotiation.Sink, aggregator *metrics.Aggregator) *EventsHandler {
	return &EventsHandler{
		offers:     offers,
		summaries:  summaries,
		aggregator: aggregator,
	}
}

func (h *EventsHandler) LogOffer(c *fiber.Ctx) error {
	var offer negotiation.OfferRound
	if err := c.BodyParser(&offer); err != nil {
		return respondError(c, apperrors.InvalidInput("invalid request body"))
	}

	if err := offer.Validate(); err != nil {
		return respondError(c, err)
	}

	if err := h.offers.Append(offer); err != nil {
		logger.Error("Failed to append offer round", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to record offer",
		})
	}

	h.aggregator.RecordOffer(offer)

	return c.JSON(fiber.Map{"ok": true})
}

func (h *EventsHandler) LogCallSummary(c *fiber.Ctx) error {
	var summary negotiation.CallSummary
	if err := c.BodyParser(&summary); err != nil {
		return respondError(c, apperrors.InvalidInput("invalid request body"))
	}

	if err := summary.Validate(); err != nil {
		return respondError(c, err)
	}

	if err := h.summaries.Append(summary); err != nil {
		logger.Error("Failed to append call summary", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to record call summary",
		})
	}

	h.aggregator.RecordSummary(summary)

	return c.JSON(fiber.Map{"ok": true})
}
