// Package mapper translates between persisted entities and transfer objects.
package mapper

import (
	"github.com/spec-kit/org-services/internal/api/dto"
	"github.com/spec-kit/org-services/internal/domain"
)

// ToDepartmentDTO converts a stored department to its wire form.
func ToDepartmentDTO(dept *domain.Department) dto.DepartmentDTO {
	return dto.DepartmentDTO{
		ID:          dept.ID,
		Name:        dept.Name,
		Code:        dept.Code,
		Description: dept.Description,
	}
}

// ToDepartmentDTOs converts a list, returning an empty slice for no rows.
func ToDepartmentDTOs(depts []domain.Department) []dto.DepartmentDTO {
	resp := make([]dto.DepartmentDTO, 0, len(depts))
	for i := range depts {
		resp = append(resp, ToDepartmentDTO(&depts[i]))
	}
	return resp
}

// ToDepartmentEntity builds a department entity from a request payload.
func ToDepartmentEntity(in dto.DepartmentDTO) *domain.Department {
	return &domain.Department{
		ID:          in.ID,
		Name:        in.Name,
		Code:        in.Code,
		Description: in.Description,
	}
}
