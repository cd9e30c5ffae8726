package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/org-services/internal/api/dto"
	"github.com/spec-kit/org-services/internal/mapper"
	"github.com/spec-kit/org-services/internal/repository"
	apperrors "github.com/spec-kit/org-services/pkg/util/errorutil"
)

// DepartmentService implements department CRUD.
type DepartmentService struct {
	departments repository.DepartmentRepository
	logger      *zap.Logger
}

// DepartmentDependencies groups what the department service needs.
type DepartmentDependencies struct {
	DepartmentRepo repository.DepartmentRepository
	Logger         *zap.Logger
}

// NewDepartmentService constructs the service.
func NewDepartmentService(deps DepartmentDependencies) *DepartmentService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DepartmentService{departments: deps.DepartmentRepo, logger: logger}
}

// FindAll returns every department, oldest first.
func (s *DepartmentService) FindAll(ctx context.Context) ([]dto.DepartmentDTO, error) {
	depts, err := s.departments.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return mapper.ToDepartmentDTOs(depts), nil
}

// FindByID fetches one department.
func (s *DepartmentService) FindByID(ctx context.Context, id int64) (*dto.DepartmentDTO, error) {
	if err := validateID("department", id); err != nil {
		return nil, err
	}
	dept, err := s.departments.GetByID(ctx, id)
	if err != nil {
		return nil, departmentIDError(err, id)
	}
	out := mapper.ToDepartmentDTO(dept)
	return &out, nil
}

// FindByCode fetches a department by its business code.
func (s *DepartmentService) FindByCode(ctx context.Context, code string) (*dto.DepartmentDTO, error) {
	code = strings.TrimSpace(code)
	if err := validateKey("department code", code); err != nil {
		return nil, err
	}
	dept, err := s.departments.GetByCode(ctx, code)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFoundMessage(
			fmt.Sprintf("Department with code %s not found", code),
			map[string]any{"code": code},
		)
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	out := mapper.ToDepartmentDTO(dept)
	return &out, nil
}

// Save creates a department. The id in the payload is ignored.
func (s *DepartmentService) Save(ctx context.Context, in dto.DepartmentDTO) (*dto.DepartmentDTO, error) {
	normalizeDepartment(&in)
	if err := validatePayload(in); err != nil {
		return nil, err
	}
	if err := s.ensureCodeFree(ctx, in.Code, 0); err != nil {
		return nil, err
	}

	dept := mapper.ToDepartmentEntity(in)
	dept.ID = 0
	if err := s.departments.Create(ctx, dept); err != nil {
		return nil, departmentWriteError(err, dept.ID, dept.Code)
	}
	s.logger.Debug("department created", zap.Int64("department_id", dept.ID), zap.String("code", dept.Code))
	out := mapper.ToDepartmentDTO(dept)
	return &out, nil
}

// Update replaces a department's fields. The department must already exist.
func (s *DepartmentService) Update(ctx context.Context, in dto.DepartmentDTO) (*dto.DepartmentDTO, error) {
	if err := validateID("department", in.ID); err != nil {
		return nil, err
	}
	normalizeDepartment(&in)
	if err := validatePayload(in); err != nil {
		return nil, err
	}
	if _, err := s.departments.GetByID(ctx, in.ID); err != nil {
		return nil, departmentIDError(err, in.ID)
	}
	if err := s.ensureCodeFree(ctx, in.Code, in.ID); err != nil {
		return nil, err
	}

	dept := mapper.ToDepartmentEntity(in)
	if err := s.departments.Update(ctx, dept); err != nil {
		return nil, departmentWriteError(err, dept.ID, dept.Code)
	}
	out := mapper.ToDepartmentDTO(dept)
	return &out, nil
}

// Delete removes a department.
func (s *DepartmentService) Delete(ctx context.Context, id int64) error {
	if err := validateID("department", id); err != nil {
		return err
	}
	if err := s.departments.Delete(ctx, id); err != nil {
		return departmentIDError(err, id)
	}
	s.logger.Debug("department deleted", zap.Int64("department_id", id))
	return nil
}

// ensureCodeFree fails with Conflict when code belongs to a department other
// than self. The unique index still decides concurrent writers.
func (s *DepartmentService) ensureCodeFree(ctx context.Context, code string, self int64) error {
	existing, err := s.departments.GetByCode(ctx, code)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return nil
	case err != nil:
		return apperrors.MapError(err)
	case existing.ID != self:
		return duplicateDepartmentCode(code)
	}
	return nil
}

func normalizeDepartment(in *dto.DepartmentDTO) {
	in.Name = strings.TrimSpace(in.Name)
	in.Code = strings.TrimSpace(in.Code)
	in.Description = strings.TrimSpace(in.Description)
}

func departmentIDError(err error, id int64) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFoundMessage(
			fmt.Sprintf("Department with ID %d not found", id),
			map[string]any{"id": id},
		)
	}
	return apperrors.MapError(err)
}

func departmentWriteError(err error, id int64, code string) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return duplicateDepartmentCode(code)
	}
	return departmentIDError(err, id)
}

func duplicateDepartmentCode(code string) error {
	return apperrors.NewConflict(
		fmt.Sprintf("Department with code %s already exists", code),
		map[string]any{"code": code},
	)
}
