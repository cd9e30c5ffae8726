package dto

// DepartmentDTO is the wire form of a department.
type DepartmentDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name" validate:"required,max=120"`
	Code        string `json:"code" validate:"required,max=32"`
	Description string `json:"description" validate:"max=500"`
}
