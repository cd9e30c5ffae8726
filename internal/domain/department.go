package domain

import "time"

// Department represents an organizational unit. Code is the key other
// services use to reference it.
type Department struct {
	ID          int64
	Name        string
	Code        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
