package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/spec-kit/org-services/internal/api/dto"
	"github.com/spec-kit/org-services/internal/client"
	"github.com/spec-kit/org-services/internal/lock"
	"github.com/spec-kit/org-services/internal/mapper"
	"github.com/spec-kit/org-services/internal/repository"
	apperrors "github.com/spec-kit/org-services/pkg/util/errorutil"
)

var tracer = otel.Tracer("github.com/spec-kit/org-services/internal/service")

// DepartmentLookup resolves a department owned by another service.
type DepartmentLookup interface {
	GetByCode(ctx context.Context, code string) (*dto.DepartmentDTO, error)
}

// EmployeeService implements employee CRUD and the department enrichment read.
type EmployeeService struct {
	employees   repository.EmployeeRepository
	departments DepartmentLookup
	locker      lock.Locker
	lockWait    time.Duration
	logger      *zap.Logger
}

// EmployeeDependencies groups what the employee service needs. Locker may be
// nil, in which case the unique index alone guards concurrent writers.
// LockWait bounds how long a write waits for the email lock and defaults to
// defaultLockWait.
type EmployeeDependencies struct {
	EmployeeRepo repository.EmployeeRepository
	Departments  DepartmentLookup
	Locker       lock.Locker
	LockWait     time.Duration
	Logger       *zap.Logger
}

const defaultLockWait = 2 * time.Second

// NewEmployeeService constructs the service.
func NewEmployeeService(deps EmployeeDependencies) *EmployeeService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	lockWait := deps.LockWait
	if lockWait <= 0 {
		lockWait = defaultLockWait
	}
	return &EmployeeService{
		employees:   deps.EmployeeRepo,
		departments: deps.Departments,
		locker:      deps.Locker,
		lockWait:    lockWait,
		logger:      logger,
	}
}

// FindAll returns every employee, oldest first.
func (s *EmployeeService) FindAll(ctx context.Context) ([]dto.EmployeeDTO, error) {
	emps, err := s.employees.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return mapper.ToEmployeeDTOs(emps), nil
}

// FindByID fetches one employee.
func (s *EmployeeService) FindByID(ctx context.Context, id int64) (*dto.EmployeeDTO, error) {
	if err := validateID("employee", id); err != nil {
		return nil, err
	}
	emp, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return nil, employeeIDError(err, id)
	}
	out := mapper.ToEmployeeDTO(emp)
	return &out, nil
}

// FindByEmail fetches an employee by email.
func (s *EmployeeService) FindByEmail(ctx context.Context, email string) (*dto.EmployeeDTO, error) {
	email = normalizeEmail(email)
	if err := validateKey("email", email); err != nil {
		return nil, err
	}
	emp, err := s.employees.GetByEmail(ctx, email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFoundMessage(
			fmt.Sprintf("Employee with email %s not found", email),
			map[string]any{"email": email},
		)
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	out := mapper.ToEmployeeDTO(emp)
	return &out, nil
}

// Save creates an employee. The id in the payload is ignored.
func (s *EmployeeService) Save(ctx context.Context, in dto.EmployeeDTO) (*dto.EmployeeDTO, error) {
	normalizeEmployee(&in)
	if err := validatePayload(in); err != nil {
		return nil, err
	}

	unlock, err := s.lockEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	defer unlock()

	exists, err := s.employees.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if exists {
		return nil, duplicateEmail(in.Email)
	}

	emp := mapper.ToEmployeeEntity(in)
	emp.ID = 0
	if err := s.employees.Create(ctx, emp); err != nil {
		return nil, employeeWriteError(err, emp.ID, emp.Email)
	}
	s.logger.Debug("employee created", zap.Int64("employee_id", emp.ID))
	out := mapper.ToEmployeeDTO(emp)
	return &out, nil
}

// Update replaces an employee's fields. The employee must already exist and
// the new email must not belong to anyone else.
func (s *EmployeeService) Update(ctx context.Context, in dto.EmployeeDTO) (*dto.EmployeeDTO, error) {
	if err := validateID("employee", in.ID); err != nil {
		return nil, err
	}
	normalizeEmployee(&in)
	if err := validatePayload(in); err != nil {
		return nil, err
	}

	unlock, err := s.lockEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	defer unlock()

	current, err := s.employees.GetByID(ctx, in.ID)
	if err != nil {
		return nil, employeeIDError(err, in.ID)
	}
	if current.Email != in.Email {
		other, err := s.employees.GetByEmail(ctx, in.Email)
		switch {
		case err == nil && other.ID != in.ID:
			return nil, duplicateEmail(in.Email)
		case err != nil && !errors.Is(err, pgx.ErrNoRows):
			return nil, apperrors.MapError(err)
		}
	}

	emp := mapper.ToEmployeeEntity(in)
	if err := s.employees.Update(ctx, emp); err != nil {
		return nil, employeeWriteError(err, emp.ID, emp.Email)
	}
	out := mapper.ToEmployeeDTO(emp)
	return &out, nil
}

// Delete removes an employee.
func (s *EmployeeService) Delete(ctx context.Context, id int64) error {
	if err := validateID("employee", id); err != nil {
		return err
	}
	if err := s.employees.Delete(ctx, id); err != nil {
		return employeeIDError(err, id)
	}
	return nil
}

// GetWithDepartment returns the employee together with the department its
// code refers to. A failed department lookup fails the whole read.
func (s *EmployeeService) GetWithDepartment(ctx context.Context, id int64) (*dto.EmployeeWithDepartmentDTO, error) {
	if err := validateID("employee", id); err != nil {
		return nil, err
	}
	ctx, span := tracer.Start(ctx, "EmployeeService.GetWithDepartment")
	defer span.End()
	span.SetAttributes(attribute.Int64("employee.id", id))

	emp, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return nil, employeeIDError(err, id)
	}
	span.SetAttributes(attribute.String("department.code", emp.DepartmentCode))

	dept, err := s.departments.GetByCode(ctx, emp.DepartmentCode)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "department lookup failed")
		s.logger.Warn("department lookup failed",
			zap.Int64("employee_id", id),
			zap.String("department_code", emp.DepartmentCode),
			zap.Error(err),
		)
		return nil, departmentLookupError(err, emp.DepartmentCode)
	}

	out := mapper.ToEmployeeWithDepartmentDTO(emp, *dept)
	return &out, nil
}

// lockEmail serializes writers of the same email, waiting up to lockWait for
// a concurrent writer to finish. A lock still held after that is reported as
// Busy. If the lock backend itself fails the write proceeds unlocked.
func (s *EmployeeService) lockEmail(ctx context.Context, email string) (func(), error) {
	noop := func() {}
	if s.locker == nil {
		return noop, nil
	}
	unlock, err := lock.Acquire(ctx, s.locker, "employee:email:"+email, s.lockWait)
	switch {
	case errors.Is(err, lock.ErrHeld), errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return nil, apperrors.NewBusy(
			fmt.Sprintf("Employee with email %s is being modified, retry later", email),
			map[string]any{"email": email},
			err,
		)
	case err != nil:
		s.logger.Warn("email lock unavailable", zap.String("email", email), zap.Error(err))
		return noop, nil
	}
	return unlock, nil
}

func departmentLookupError(err error, code string) error {
	details := map[string]any{"departmentCode": code}
	if errors.Is(err, client.ErrDepartmentNotFound) {
		return apperrors.NewFailedDependency(
			fmt.Sprintf("Department with code %s not found", code), details, err)
	}
	return apperrors.NewDependencyUnavailable("department service unavailable", details, err)
}

func normalizeEmployee(in *dto.EmployeeDTO) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = normalizeEmail(in.Email)
	in.DepartmentCode = strings.TrimSpace(in.DepartmentCode)
}

// normalizeEmail lower-cases emails so uniqueness and lookups ignore case.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func employeeIDError(err error, id int64) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFoundMessage(
			fmt.Sprintf("Employee with ID %d not found", id),
			map[string]any{"id": id},
		)
	}
	return apperrors.MapError(err)
}

func employeeWriteError(err error, id int64, email string) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return duplicateEmail(email)
	}
	return employeeIDError(err, id)
}

func duplicateEmail(email string) error {
	return apperrors.NewConflict(
		fmt.Sprintf("Employee with email %s already exists", email),
		map[string]any{"email": email},
	)
}
