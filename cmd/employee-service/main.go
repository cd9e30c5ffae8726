package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/org-services/internal/api/http"
	"github.com/spec-kit/org-services/internal/api/http/handlers"
	"github.com/spec-kit/org-services/internal/app"
	"github.com/spec-kit/org-services/internal/client"
	"github.com/spec-kit/org-services/internal/config"
	"github.com/spec-kit/org-services/internal/lock"
	"github.com/spec-kit/org-services/internal/persistence"
	"github.com/spec-kit/org-services/internal/repository"
	"github.com/spec-kit/org-services/internal/repository/memory"
	"github.com/spec-kit/org-services/internal/service"
)

func main() {
	cfg, err := config.Load("employee-service", "8082")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c, err := app.NewContainer(ctx, cfg, app.Options{
		MigrationSet: persistence.MigrationsEmployee,
		UseRedis:     true,
	})
	if err != nil {
		log.Fatalf("failed to init service: %v", err)
	}
	defer c.Shutdown(context.Background())

	var repo repository.EmployeeRepository
	if pool := c.Pool(); pool != nil {
		repo = repository.NewEmployeeRepository(pool)
	} else {
		c.Logger.Warn("no database configured; employees are kept in memory")
		repo = memory.NewEmployeeRepository()
	}

	var locker lock.Locker = lock.NewLocalLocker()
	if c.Redis != nil {
		locker = c.Redis.Locker(c.Logger)
	}

	employees := service.NewEmployeeService(service.EmployeeDependencies{
		EmployeeRepo: repo,
		Departments:  client.NewDepartmentClient(cfg.Department, c.Logger, c.Metrics),
		Locker:       locker,
		Logger:       c.Logger,
	})

	fiberApp := c.NewHTTPApp(httptransport.RouteConfig{
		Employees: handlers.NewEmployeeHandler(employees),
	})
	if err := c.Serve(fiberApp); err != nil {
		c.Logger.Error("server stopped", zap.Error(err))
	}
}
