package dto

// EmployeeDTO is the wire form of an employee.
type EmployeeDTO struct {
	ID             int64  `json:"id"`
	FirstName      string `json:"firstName" validate:"required,max=100"`
	LastName       string `json:"lastName" validate:"required,max=100"`
	Email          string `json:"email" validate:"required,email,max=254"`
	DepartmentCode string `json:"departmentCode" validate:"required,max=32"`
}

// EmployeeWithDepartmentDTO pairs an employee with its department as
// resolved by the department service.
type EmployeeWithDepartmentDTO struct {
	Employee   EmployeeDTO   `json:"employee"`
	Department DepartmentDTO `json:"department"`
}
