package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/loadbroker/backend/internal/catalog"
	"github.com/loadbroker/backend/pkg/apperrors"
	"github.com/loadbroker/backend/pkg/logger"
)

type LoadsHandler struct {
	catalog *catalog.Catalog
}

func NewLoadsHandler(cat *catalog.Catalog) *LoadsHandler {
	return &LoadsHandler{
		catalog: cat,
	}
}

func (h *LoadsHandler) SearchLoads(c *fiber.Ctx) error {
	query := catalog.Query{
		OriginCity:       c.Query("origin_city"),
		OriginState:      c.Query("origin_state"),
		DestinationCity:  c.Query("destination_city"),
		DestinationState: c.Query("destination_state"),
		EquipmentType:    c.Query("equipment_type"),
		PickupDate:       c.Query("pickup_date"),
	}

	if query.PickupDate != "" {
		if _, err := time.Parse("2006-01-02", query.PickupDate); err != nil {
			return respondError(c, apperrors.InvalidInput("pickup_date must be YYYY-MM-DD"))
		}
	}

	items := h.catalog.Search(query)

	return c.JSON(fiber.Map{
		"items": items,
		"count": len(items),
	})
}

// ReloadLoads rebuilds the index from the configured source and swaps it in
// atomically. In-flight searches keep reading the old index.
func (h *LoadsHandler) ReloadLoads(c *fiber.Ctx) error {
	if err := h.catalog.Reload(); err != nil {
		logger.Error("Catalog reload failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to reload load catalog",
		})
	}

	logger.Info("Catalog reloaded", zap.Int("loads", h.catalog.Size()))

	return c.JSON(fiber.Map{
		"ok":    true,
		"count": h.catalog.Size(),
	})
}
