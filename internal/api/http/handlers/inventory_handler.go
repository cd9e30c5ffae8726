package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/org-services/internal/service"
)

// InventoryHandler exposes stock checks.
type InventoryHandler struct {
	inventory *service.InventoryService
}

// NewInventoryHandler constructs the handler.
func NewInventoryHandler(inventory *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory}
}

// IsInStock handles GET /api/v1/inventory/:sku_code and answers with a bare boolean.
func (h *InventoryHandler) IsInStock(c *fiber.Ctx) error {
	sku, err := pathKey(c, "sku_code")
	if err != nil {
		return err
	}
	inStock, err := h.inventory.IsInStock(c.UserContext(), sku)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": inStock})
}
