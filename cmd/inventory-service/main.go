package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/org-services/internal/api/http"
	"github.com/spec-kit/org-services/internal/api/http/handlers"
	"github.com/spec-kit/org-services/internal/app"
	"github.com/spec-kit/org-services/internal/config"
	"github.com/spec-kit/org-services/internal/domain"
	"github.com/spec-kit/org-services/internal/persistence"
	"github.com/spec-kit/org-services/internal/repository"
	"github.com/spec-kit/org-services/internal/repository/memory"
	"github.com/spec-kit/org-services/internal/service"
)

func main() {
	cfg, err := config.Load("inventory-service", "8083")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c, err := app.NewContainer(ctx, cfg, app.Options{MigrationSet: persistence.MigrationsInventory})
	if err != nil {
		log.Fatalf("failed to init service: %v", err)
	}
	defer c.Shutdown(context.Background())

	var repo repository.InventoryRepository
	if pool := c.Pool(); pool != nil {
		repo = repository.NewInventoryRepository(pool)
	} else {
		c.Logger.Warn("no database configured; serving seeded in-memory stock")
		repo = seededInventory(ctx, c.Logger)
	}

	fiberApp := c.NewHTTPApp(httptransport.RouteConfig{
		Inventory: handlers.NewInventoryHandler(service.NewInventoryService(repo)),
	})
	if err := c.Serve(fiberApp); err != nil {
		c.Logger.Error("server stopped", zap.Error(err))
	}
}

// seededInventory mirrors the rows of the inventory seed migration.
func seededInventory(ctx context.Context, logger *zap.Logger) repository.InventoryRepository {
	repo := memory.NewInventoryRepository()
	for _, item := range []domain.InventoryItem{
		{SKUCode: "iphone_13", Quantity: 100},
		{SKUCode: "iphone_13_red", Quantity: 0},
	} {
		if err := repo.Upsert(ctx, &item); err != nil {
			logger.Warn("seed inventory", zap.String("sku_code", item.SKUCode), zap.Error(err))
		}
	}
	return repo
}
