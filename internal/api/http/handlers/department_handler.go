package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/org-services/internal/api/dto"
	"github.com/spec-kit/org-services/internal/service"
)

// DepartmentHandler exposes department CRUD endpoints.
type DepartmentHandler struct {
	departments *service.DepartmentService
}

// NewDepartmentHandler constructs the handler.
func NewDepartmentHandler(departments *service.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{departments: departments}
}

// List handles GET /api/departments.
func (h *DepartmentHandler) List(c *fiber.Ctx) error {
	depts, err := h.departments.FindAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": depts})
}

// Get handles GET /api/departments/:id.
func (h *DepartmentHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, "department")
	if err != nil {
		return err
	}
	dept, err := h.departments.FindByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dept})
}

// GetByCode handles GET /api/departments/code/:code.
func (h *DepartmentHandler) GetByCode(c *fiber.Ctx) error {
	code, err := pathKey(c, "code")
	if err != nil {
		return err
	}
	dept, err := h.departments.FindByCode(c.UserContext(), code)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dept})
}

// Create handles POST /api/departments/create-department.
func (h *DepartmentHandler) Create(c *fiber.Ctx) error {
	var req dto.DepartmentDTO
	if err := parseBody(c, &req); err != nil {
		return err
	}
	dept, err := h.departments.Save(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dept})
}

// Update handles PUT /api/departments/update-department/:id.
func (h *DepartmentHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, "department")
	if err != nil {
		return err
	}
	var req dto.DepartmentDTO
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := checkBodyID("department", id, req.ID); err != nil {
		return err
	}
	dept, err := h.departments.Update(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dept})
}

// Delete handles DELETE /api/departments/delete-department/:id.
func (h *DepartmentHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "department")
	if err != nil {
		return err
	}
	if err := h.departments.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
