package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/org-services/internal/api/dto"
	"github.com/spec-kit/org-services/internal/client"
	"github.com/spec-kit/org-services/internal/lock"
	"github.com/spec-kit/org-services/internal/repository/memory"
	apperrors "github.com/spec-kit/org-services/pkg/util/errorutil"
)

type fakeDepartments struct {
	byCode map[string]dto.DepartmentDTO
	err    error
	calls  atomic.Int32
}

func (f *fakeDepartments) GetByCode(ctx context.Context, code string) (*dto.DepartmentDTO, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	dept, ok := f.byCode[code]
	if !ok {
		return nil, fmt.Errorf("%w: code %s", client.ErrDepartmentNotFound, code)
	}
	return &dept, nil
}

type stubLocker struct {
	err error
}

func (s stubLocker) Lock(ctx context.Context, key string) (func(), error) {
	if s.err != nil {
		return nil, s.err
	}
	return func() {}, nil
}

func newEmployeeService(t *testing.T, depts *fakeDepartments, locker lock.Locker) *EmployeeService {
	t.Helper()
	if depts == nil {
		depts = &fakeDepartments{}
	}
	return NewEmployeeService(EmployeeDependencies{
		EmployeeRepo: memory.NewEmployeeRepository(),
		Departments:  depts,
		Locker:       locker,
	})
}

func alice() dto.EmployeeDTO {
	return dto.EmployeeDTO{FirstName: "Alice", LastName: "Smith", Email: "alice@example.com", DepartmentCode: "D1"}
}

func TestEmployeeService_CRUD(t *testing.T) {
	svc := newEmployeeService(t, nil, lock.NewLocalLocker())
	ctx := context.Background()

	saved, err := svc.Save(ctx, alice())
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.ID)

	byEmail, err := svc.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, byEmail.ID)

	upd := *saved
	upd.LastName = "Jones"
	updated, err := svc.Update(ctx, upd)
	require.NoError(t, err)
	assert.Equal(t, "Jones", updated.LastName)

	all, err := svc.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Jones", all[0].LastName)

	require.NoError(t, svc.Delete(ctx, saved.ID))
	_, err = svc.FindByID(ctx, saved.ID)
	de := requireDomainError(t, err, apperrors.CodeNotFound, http.StatusNotFound)
	assert.Equal(t, fmt.Sprintf("Employee with ID %d not found", saved.ID), de.Message)
}

func TestEmployeeService_Validation(t *testing.T) {
	svc := newEmployeeService(t, nil, nil)
	ctx := context.Background()

	bad := alice()
	bad.Email = "not-an-email"
	bad.FirstName = ""
	_, err := svc.Save(ctx, bad)
	de := requireDomainError(t, err, apperrors.CodeValidationFailed, http.StatusBadRequest)
	assert.Equal(t, "must be a valid email address", de.Details["email"])
	assert.Equal(t, "is required", de.Details["firstName"])

	_, err = svc.FindByID(ctx, 0)
	requireDomainError(t, err, apperrors.CodeBadRequest, http.StatusBadRequest)
	_, err = svc.GetWithDepartment(ctx, -3)
	requireDomainError(t, err, apperrors.CodeBadRequest, http.StatusBadRequest)
	_, err = svc.FindByEmail(ctx, "")
	requireDomainError(t, err, apperrors.CodeBadRequest, http.StatusBadRequest)
}

func TestEmployeeService_DuplicateEmail(t *testing.T) {
	svc := newEmployeeService(t, nil, lock.NewLocalLocker())
	ctx := context.Background()

	first, err := svc.Save(ctx, alice())
	require.NoError(t, err)

	_, err = svc.Save(ctx, alice())
	requireDomainError(t, err, apperrors.CodeConflict, http.StatusConflict)

	bob := alice()
	bob.FirstName = "Bob"
	bob.Email = "bob@example.com"
	second, err := svc.Save(ctx, bob)
	require.NoError(t, err)

	t.Run("taking another employee's email", func(t *testing.T) {
		upd := *second
		upd.Email = first.Email
		_, err := svc.Update(ctx, upd)
		requireDomainError(t, err, apperrors.CodeConflict, http.StatusConflict)
	})

	t.Run("keeping own email", func(t *testing.T) {
		upd := *first
		upd.FirstName = "Alicia"
		_, err := svc.Update(ctx, upd)
		require.NoError(t, err)
	})
}

func TestEmployeeService_ConcurrentCreatesSameEmail(t *testing.T) {
	svc := newEmployeeService(t, nil, lock.NewLocalLocker())
	ctx := context.Background()

	var wg sync.WaitGroup
	var created atomic.Int32
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Save(ctx, alice())
			if err == nil {
				created.Add(1)
				return
			}
			assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict), "unexpected error: %v", err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), created.Load())
	all, err := svc.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestEmployeeService_LockBackendDown(t *testing.T) {
	svc := newEmployeeService(t, nil, stubLocker{err: errors.New("redis: connection refused")})

	_, err := svc.Save(context.Background(), alice())
	require.NoError(t, err, "write proceeds when the lock backend is unreachable")
}

func TestEmployeeService_LockHeld(t *testing.T) {
	svc := NewEmployeeService(EmployeeDependencies{
		EmployeeRepo: memory.NewEmployeeRepository(),
		Departments:  &fakeDepartments{},
		Locker:       stubLocker{err: lock.ErrHeld},
		LockWait:     30 * time.Millisecond,
	})

	_, err := svc.Save(context.Background(), alice())
	requireDomainError(t, err, apperrors.CodeBusy, http.StatusServiceUnavailable)
	assert.ErrorIs(t, err, lock.ErrHeld)
}

func TestEmployeeService_UpdateWhileEmailLocked(t *testing.T) {
	ctx := context.Background()
	locker := lock.NewLocalLocker()
	svc := NewEmployeeService(EmployeeDependencies{
		EmployeeRepo: memory.NewEmployeeRepository(),
		Departments:  &fakeDepartments{},
		Locker:       locker,
		LockWait:     time.Second,
	})
	saved, err := svc.Save(ctx, alice())
	require.NoError(t, err)

	t.Run("waits for the other writer", func(t *testing.T) {
		unlock, err := locker.Lock(ctx, "employee:email:alice@example.com")
		require.NoError(t, err)
		time.AfterFunc(30*time.Millisecond, unlock)

		upd := *saved
		upd.FirstName = "Alicia"
		out, err := svc.Update(ctx, upd)
		require.NoError(t, err)
		assert.Equal(t, "Alicia", out.FirstName)
	})

	t.Run("busy is not a conflict", func(t *testing.T) {
		unlock, err := locker.Lock(ctx, "employee:email:alice@example.com")
		require.NoError(t, err)
		defer unlock()

		short, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		defer cancel()
		upd := *saved
		upd.FirstName = "Ali"
		_, err = svc.Update(short, upd)
		requireDomainError(t, err, apperrors.CodeBusy, http.StatusServiceUnavailable)
		assert.False(t, apperrors.IsCode(err, apperrors.CodeConflict))
	})
}

func TestEmployeeService_EmailIgnoresCase(t *testing.T) {
	svc := newEmployeeService(t, nil, lock.NewLocalLocker())
	ctx := context.Background()

	mixed := alice()
	mixed.Email = "  Alice@Example.COM "
	saved, err := svc.Save(ctx, mixed)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", saved.Email)

	_, err = svc.Save(ctx, alice())
	requireDomainError(t, err, apperrors.CodeConflict, http.StatusConflict)

	found, err := svc.FindByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, found.ID)
}

func TestEmployeeService_GetWithDepartment(t *testing.T) {
	ctx := context.Background()
	engineering := dto.DepartmentDTO{ID: 1, Name: "Engineering", Code: "D1", Description: "Builds"}

	t.Run("found", func(t *testing.T) {
		depts := &fakeDepartments{byCode: map[string]dto.DepartmentDTO{"D1": engineering}}
		svc := newEmployeeService(t, depts, nil)
		saved, err := svc.Save(ctx, alice())
		require.NoError(t, err)

		out, err := svc.GetWithDepartment(ctx, saved.ID)
		require.NoError(t, err)
		assert.Equal(t, *saved, out.Employee)
		assert.Equal(t, engineering, out.Department)
	})

	t.Run("employee missing skips remote call", func(t *testing.T) {
		depts := &fakeDepartments{}
		svc := newEmployeeService(t, depts, nil)

		_, err := svc.GetWithDepartment(ctx, 7)
		requireDomainError(t, err, apperrors.CodeNotFound, http.StatusNotFound)
		assert.Zero(t, depts.calls.Load())
	})

	t.Run("department missing", func(t *testing.T) {
		svc := newEmployeeService(t, &fakeDepartments{}, nil)
		saved, err := svc.Save(ctx, alice())
		require.NoError(t, err)

		_, err = svc.GetWithDepartment(ctx, saved.ID)
		de := requireDomainError(t, err, apperrors.CodeDepartmentNotFound, http.StatusFailedDependency)
		assert.Equal(t, "D1", de.Details["departmentCode"])
		assert.ErrorIs(t, err, client.ErrDepartmentNotFound)
	})

	t.Run("department service down", func(t *testing.T) {
		depts := &fakeDepartments{err: fmt.Errorf("%w: dial tcp: connection refused", client.ErrDepartmentUnavailable)}
		svc := newEmployeeService(t, depts, nil)
		saved, err := svc.Save(ctx, alice())
		require.NoError(t, err)

		_, err = svc.GetWithDepartment(ctx, saved.ID)
		requireDomainError(t, err, apperrors.CodeDependencyUnavailable, http.StatusServiceUnavailable)
	})
}
