package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/org-services/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration. Each service binary
// sets only the handlers it owns; nil handlers are skipped.
type RouteConfig struct {
	Health      *handlers.HealthHandler
	Departments *handlers.DepartmentHandler
	Employees   *handlers.EmployeeHandler
	Inventory   *handlers.InventoryHandler
	Metrics     nethttp.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	if cfg.Health != nil {
		app.Get("/health/live", cfg.Health.Live)
		app.Get("/health/ready", cfg.Health.Ready)
	}
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics))
	}

	if h := cfg.Departments; h != nil {
		g := app.Group("/api/departments")
		g.Get("/", h.List)
		g.Get("/code/:code", h.GetByCode)
		g.Get("/:id", h.Get)
		g.Post("/create-department", h.Create)
		g.Put("/update-department/:id", h.Update)
		g.Delete("/delete-department/:id", h.Delete)
	}

	if h := cfg.Employees; h != nil {
		g := app.Group("/api/employees")
		g.Get("/", h.List)
		g.Get("/email/:email", h.GetByEmail)
		g.Get("/:id/department", h.GetWithDepartment)
		g.Get("/:id", h.Get)
		g.Post("/create-employee", h.Create)
		g.Put("/update-employee/:id", h.Update)
		g.Delete("/delete-employee/:id", h.Delete)
	}

	if h := cfg.Inventory; h != nil {
		app.Get("/api/v1/inventory/:sku_code", h.IsInStock)
	}
}
