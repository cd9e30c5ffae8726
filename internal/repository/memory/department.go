// Package memory provides map-backed repositories. They mirror the
// constraints of the Postgres schema and are used by tests and by services
// started without POSTGRES_DSN. Data is lost on restart.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/org-services/internal/domain"
	"github.com/spec-kit/org-services/internal/repository"
)

// DepartmentRepository implements repository.DepartmentRepository in memory.
type DepartmentRepository struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]domain.Department
}

var _ repository.DepartmentRepository = (*DepartmentRepository)(nil)

// NewDepartmentRepository creates an empty store.
func NewDepartmentRepository() *DepartmentRepository {
	return &DepartmentRepository{byID: make(map[int64]domain.Department)}
}

func (r *DepartmentRepository) List(ctx context.Context) ([]domain.Department, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Department, 0, len(r.byID))
	for _, dept := range r.byID {
		result = append(result, dept)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *DepartmentRepository) GetByID(ctx context.Context, id int64) (*domain.Department, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dept, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &dept, nil
}

func (r *DepartmentRepository) GetByCode(ctx context.Context, code string) (*domain.Department, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, dept := range r.byID {
		if dept.Code == code {
			return &dept, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *DepartmentRepository) Create(ctx context.Context, dept *domain.Department) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.codeTaken(dept.Code, 0) {
		return fmt.Errorf("%w: departments_code_key", repository.ErrDuplicate)
	}
	r.nextID++
	now := time.Now().UTC()
	dept.ID = r.nextID
	dept.CreatedAt = now
	dept.UpdatedAt = now
	r.byID[dept.ID] = *dept
	return nil
}

func (r *DepartmentRepository) Update(ctx context.Context, dept *domain.Department) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[dept.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if r.codeTaken(dept.Code, dept.ID) {
		return fmt.Errorf("%w: departments_code_key", repository.ErrDuplicate)
	}
	dept.CreatedAt = existing.CreatedAt
	dept.UpdatedAt = time.Now().UTC()
	r.byID[dept.ID] = *dept
	return nil
}

func (r *DepartmentRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.byID, id)
	return nil
}

// codeTaken must be called with mu held.
func (r *DepartmentRepository) codeTaken(code string, exceptID int64) bool {
	for id, dept := range r.byID {
		if id != exceptID && dept.Code == code {
			return true
		}
	}
	return false
}
