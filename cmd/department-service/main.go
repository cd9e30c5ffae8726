package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/org-services/internal/api/http"
	"github.com/spec-kit/org-services/internal/api/http/handlers"
	"github.com/spec-kit/org-services/internal/app"
	"github.com/spec-kit/org-services/internal/config"
	"github.com/spec-kit/org-services/internal/persistence"
	"github.com/spec-kit/org-services/internal/repository"
	"github.com/spec-kit/org-services/internal/repository/memory"
	"github.com/spec-kit/org-services/internal/service"
)

func main() {
	cfg, err := config.Load("department-service", "8081")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c, err := app.NewContainer(ctx, cfg, app.Options{MigrationSet: persistence.MigrationsDepartment})
	if err != nil {
		log.Fatalf("failed to init service: %v", err)
	}
	defer c.Shutdown(context.Background())

	var repo repository.DepartmentRepository
	if pool := c.Pool(); pool != nil {
		repo = repository.NewDepartmentRepository(pool)
	} else {
		c.Logger.Warn("no database configured; departments are kept in memory")
		repo = memory.NewDepartmentRepository()
	}

	departments := service.NewDepartmentService(service.DepartmentDependencies{
		DepartmentRepo: repo,
		Logger:         c.Logger,
	})

	fiberApp := c.NewHTTPApp(httptransport.RouteConfig{
		Departments: handlers.NewDepartmentHandler(departments),
	})
	if err := c.Serve(fiberApp); err != nil {
		c.Logger.Error("server stopped", zap.Error(err))
	}
}
