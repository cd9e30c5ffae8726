package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/org-services/internal/domain"
	"github.com/spec-kit/org-services/internal/repository"
)

// EmployeeRepository implements repository.EmployeeRepository in memory.
type EmployeeRepository struct {
	mu      sync.RWMutex
	nextID  int64
	byID    map[int64]domain.Employee
	byEmail map[string]int64
}

var _ repository.EmployeeRepository = (*EmployeeRepository)(nil)

// NewEmployeeRepository creates an empty store.
func NewEmployeeRepository() *EmployeeRepository {
	return &EmployeeRepository{
		byID:    make(map[int64]domain.Employee),
		byEmail: make(map[string]int64),
	}
}

func (r *EmployeeRepository) List(ctx context.Context) ([]domain.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Employee, 0, len(r.byID))
	for _, emp := range r.byID {
		result = append(result, emp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	emp, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &emp, nil
}

func (r *EmployeeRepository) GetByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[emailKey(email)]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	emp := r.byID[id]
	return &emp, nil
}

func (r *EmployeeRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byEmail[emailKey(email)]
	return ok, nil
}

func (r *EmployeeRepository) Create(ctx context.Context, emp *domain.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[emailKey(emp.Email)]; taken {
		return fmt.Errorf("%w: employees_email_key", repository.ErrDuplicate)
	}
	r.nextID++
	now := time.Now().UTC()
	emp.ID = r.nextID
	emp.CreatedAt = now
	emp.UpdatedAt = now
	r.byID[emp.ID] = *emp
	r.byEmail[emailKey(emp.Email)] = emp.ID
	return nil
}

func (r *EmployeeRepository) Update(ctx context.Context, emp *domain.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[emp.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if owner, taken := r.byEmail[emailKey(emp.Email)]; taken && owner != emp.ID {
		return fmt.Errorf("%w: employees_email_key", repository.ErrDuplicate)
	}
	delete(r.byEmail, emailKey(existing.Email))
	emp.CreatedAt = existing.CreatedAt
	emp.UpdatedAt = time.Now().UTC()
	r.byID[emp.ID] = *emp
	r.byEmail[emailKey(emp.Email)] = emp.ID
	return nil
}

func (r *EmployeeRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	emp, ok := r.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	delete(r.byEmail, emailKey(emp.Email))
	delete(r.byID, id)
	return nil
}

// emailKey matches the case-insensitive unique index on employees.email.
func emailKey(email string) string {
	return strings.ToLower(email)
}
