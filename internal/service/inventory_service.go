package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/org-services/internal/repository"
	apperrors "github.com/spec-kit/org-services/pkg/util/errorutil"
)

// InventoryService answers stock availability questions.
type InventoryService struct {
	inventory repository.InventoryRepository
}

// NewInventoryService constructs the service.
func NewInventoryService(repo repository.InventoryRepository) *InventoryService {
	return &InventoryService{inventory: repo}
}

// IsInStock reports whether sku has at least one unit. Unknown SKUs are
// simply out of stock.
func (s *InventoryService) IsInStock(ctx context.Context, sku string) (bool, error) {
	sku = strings.TrimSpace(sku)
	if err := validateKey("sku code", sku); err != nil {
		return false, err
	}
	item, err := s.inventory.GetBySKU(ctx, sku)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.MapError(err)
	}
	return item.InStock(), nil
}
