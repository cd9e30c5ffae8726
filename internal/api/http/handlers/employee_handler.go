package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/org-services/internal/api/dto"
	"github.com/spec-kit/org-services/internal/service"
)

// EmployeeHandler exposes employee endpoints.
type EmployeeHandler struct {
	employees *service.EmployeeService
}

// NewEmployeeHandler constructs the handler.
func NewEmployeeHandler(employees *service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employees: employees}
}

// List handles GET /api/employees.
func (h *EmployeeHandler) List(c *fiber.Ctx) error {
	emps, err := h.employees.FindAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": emps})
}

// Get handles GET /api/employees/:id.
func (h *EmployeeHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, "employee")
	if err != nil {
		return err
	}
	emp, err := h.employees.FindByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": emp})
}

// GetByEmail handles GET /api/employees/email/:email.
func (h *EmployeeHandler) GetByEmail(c *fiber.Ctx) error {
	email, err := pathKey(c, "email")
	if err != nil {
		return err
	}
	emp, err := h.employees.FindByEmail(c.UserContext(), email)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": emp})
}

// GetWithDepartment handles GET /api/employees/:id/department.
func (h *EmployeeHandler) GetWithDepartment(c *fiber.Ctx) error {
	id, err := pathID(c, "employee")
	if err != nil {
		return err
	}
	out, err := h.employees.GetWithDepartment(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": out})
}

// Create handles POST /api/employees/create-employee.
func (h *EmployeeHandler) Create(c *fiber.Ctx) error {
	var req dto.EmployeeDTO
	if err := parseBody(c, &req); err != nil {
		return err
	}
	emp, err := h.employees.Save(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": emp})
}

// Update handles PUT /api/employees/update-employee/:id.
func (h *EmployeeHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, "employee")
	if err != nil {
		return err
	}
	var req dto.EmployeeDTO
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := checkBodyID("employee", id, req.ID); err != nil {
		return err
	}
	emp, err := h.employees.Update(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": emp})
}

// Delete handles DELETE /api/employees/delete-employee/:id.
func (h *EmployeeHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "employee")
	if err != nil {
		return err
	}
	if err := h.employees.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
