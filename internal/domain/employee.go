package domain

import "time"

// Employee is a staff record. DepartmentCode points at a Department owned by
// the department service and is not checked on write.
type Employee struct {
	ID             int64
	FirstName      string
	LastName       string
	Email          string
	DepartmentCode string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
