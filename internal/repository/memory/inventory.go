package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/org-services/internal/domain"
	"github.com/spec-kit/org-services/internal/repository"
)

// InventoryRepository implements repository.InventoryRepository in memory.
type InventoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	bySKU  map[string]domain.InventoryItem
}

var _ repository.InventoryRepository = (*InventoryRepository)(nil)

// NewInventoryRepository creates an empty store.
func NewInventoryRepository() *InventoryRepository {
	return &InventoryRepository{bySKU: make(map[string]domain.InventoryItem)}
}

func (r *InventoryRepository) GetBySKU(ctx context.Context, sku string) (*domain.InventoryItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.bySKU[sku]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &item, nil
}

func (r *InventoryRepository) Upsert(ctx context.Context, item *domain.InventoryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.bySKU[item.SKUCode]; ok {
		item.ID = existing.ID
	} else {
		r.nextID++
		item.ID = r.nextID
	}
	item.UpdatedAt = time.Now().UTC()
	r.bySKU[item.SKUCode] = *item
	return nil
}
