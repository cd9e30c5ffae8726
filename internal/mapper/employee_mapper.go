package mapper

import (
	"github.com/spec-kit/org-services/internal/api/dto"
	"github.com/spec-kit/org-services/internal/domain"
)

// ToEmployeeDTO converts a stored employee to its wire form.
func ToEmployeeDTO(emp *domain.Employee) dto.EmployeeDTO {
	return dto.EmployeeDTO{
		ID:             emp.ID,
		FirstName:      emp.FirstName,
		LastName:       emp.LastName,
		Email:          emp.Email,
		DepartmentCode: emp.DepartmentCode,
	}
}

// ToEmployeeDTOs converts a list, returning an empty slice for no rows.
func ToEmployeeDTOs(emps []domain.Employee) []dto.EmployeeDTO {
	resp := make([]dto.EmployeeDTO, 0, len(emps))
	for i := range emps {
		resp = append(resp, ToEmployeeDTO(&emps[i]))
	}
	return resp
}

// ToEmployeeEntity builds an employee entity from a request payload.
func ToEmployeeEntity(in dto.EmployeeDTO) *domain.Employee {
	return &domain.Employee{
		ID:             in.ID,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Email:          in.Email,
		DepartmentCode: in.DepartmentCode,
	}
}

// ToEmployeeWithDepartmentDTO builds the composite read model.
func ToEmployeeWithDepartmentDTO(emp *domain.Employee, dept dto.DepartmentDTO) dto.EmployeeWithDepartmentDTO {
	return dto.EmployeeWithDepartmentDTO{
		Employee:   ToEmployeeDTO(emp),
		Department: dept,
	}
}
