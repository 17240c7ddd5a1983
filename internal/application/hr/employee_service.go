package hr

import (
	"context"
	"time"

	appidentity "github.com/erp/suite/internal/application/identity"
	"github.com/erp/suite/internal/domain/hr"
	"github.com/erp/suite/internal/domain/identity"
	"github.com/erp/suite/internal/domain/shared"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// EmployeeService manages a tenant's staff records
type EmployeeService struct {
	employees hr.EmployeeRepository
	users     identity.UserRepository
	auth      *appidentity.Authorizer
	logger    *zap.Logger
}

// NewEmployeeService creates a new EmployeeService
func NewEmployeeService(
	employees hr.EmployeeRepository,
	users identity.UserRepository,
	authorizer *appidentity.Authorizer,
	logger *zap.Logger,
) *EmployeeService {
	return &EmployeeService{
		employees: employees,
		users:     users,
		auth:      authorizer,
		logger:    logger,
	}
}

// Create hires a new employee
func (s *EmployeeService) Create(ctx context.Context, input CreateEmployeeInput) (*EmployeeDTO, error) {
	actor, _, err := s.auth.Check(ctx, identity.ResourceEmployee, identity.ActionCreate)
	if err != nil {
		return nil, err
	}

	generateCode := func(ctx context.Context) (string, error) { return s.employees.GenerateCode(ctx, actor.TenantID) }
	employee, err := shared.CreateNumbered(ctx, generateCode, func(code string) (*hr.Employee, error) {
		employee, err := hr.NewEmployee(actor.TenantID, actor.UserID, code, input.FullName, input.HireDate)
		if err != nil {
			return nil, err
		}
		if err := employee.Update(input.FullName, input.Email, input.Department, input.Position); err != nil {
			return nil, err
		}
		return employee, s.employees.Save(ctx, employee)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Employee created",
		zap.String("tenant_id", actor.TenantID),
		zap.String("employee_id", employee.ID),
		zap.String("code", employee.Code))

	dto := ToEmployeeDTO(employee)
	return &dto, nil
}

// List returns employees
func (s *EmployeeService) List(ctx context.Context, filter EmployeeListFilter) (shared.Paginated[EmployeeDTO], error) {
	actor, _, err := s.auth.Check(ctx, identity.ResourceEmployee, identity.ActionRead)
	if err != nil {
		return shared.Paginated[EmployeeDTO]{}, err
	}

	f := hr.EmployeeFilter{
		Filter:     filter.Filter.Normalize(),
		Department: filter.Department,
	}
	if filter.Status != "" {
		status := hr.EmployeeStatus(filter.Status)
		if status != hr.EmployeeStatusActive && status != hr.EmployeeStatusTerminated {
			return shared.Paginated[EmployeeDTO]{}, shared.NewDomainError(shared.ErrInvalidInput.Code, "Unknown employee status: "+filter.Status)
		}
		f.Status = &status
	}

	employees, total, err := s.employees.FindAll(ctx, actor.TenantID, f)
	if err != nil {
		return shared.Paginated[EmployeeDTO]{}, err
	}
	items := lo.Map(employees, func(e *hr.Employee, _ int) EmployeeDTO { return ToEmployeeDTO(e) })
	return shared.NewPaginated(items, total, f.Page, f.PageSize), nil
}

// Get returns one employee
func (s *EmployeeService) Get(ctx context.Context, id string) (*EmployeeDTO, error) {
	employee, _, err := s.load(ctx, id, identity.ActionRead)
	if err != nil {
		return nil, err
	}
	dto := ToEmployeeDTO(employee)
	return &dto, nil
}

// Update changes placement and contact details, and optionally the linked login
func (s *EmployeeService) Update(ctx context.Context, id string, input UpdateEmployeeInput) (*EmployeeDTO, error) {
	employee, actor, err := s.load(ctx, id, identity.ActionUpdate)
	if err != nil {
		return nil, err
	}
	if err := employee.Update(input.FullName, input.Email, input.Department, input.Position); err != nil {
		return nil, err
	}
	if input.LinkedUserID != nil && *input.LinkedUserID != employee.LinkedUserID {
		if *input.LinkedUserID != "" {
			if _, err := s.users.FindByID(ctx, actor.TenantID, *input.LinkedUserID); err != nil {
				if shared.IsNotFound(err) {
					return nil, shared.NewDomainError("INVALID_USER", "Linked user does not exist")
				}
				return nil, err
			}
		}
		employee.LinkUser(*input.LinkedUserID)
	}
	return s.save(ctx, employee)
}

// Terminate ends an employment at the given date, defaulting to today
func (s *EmployeeService) Terminate(ctx context.Context, id string, at time.Time) (*EmployeeDTO, error) {
	employee, actor, err := s.load(ctx, id, identity.ActionUpdate)
	if err != nil {
		return nil, err
	}
	if at.IsZero() {
		at = time.Now()
	}
	if err := employee.Terminate(at); err != nil {
		return nil, err
	}
	dto, err := s.save(ctx, employee)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Employee terminated",
		zap.String("tenant_id", actor.TenantID),
		zap.String("employee_id", employee.ID),
		zap.Time("at", at))
	return dto, nil
}

// Delete removes an employee record
func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	employee, actor, err := s.load(ctx, id, identity.ActionDelete)
	if err != nil {
		return err
	}
	return s.employees.Delete(ctx, actor.TenantID, employee.ID)
}

func (s *EmployeeService) load(ctx context.Context, id, action string) (*hr.Employee, identity.Actor, error) {
	actor, _, err := s.auth.Check(ctx, identity.ResourceEmployee, action)
	if err != nil {
		return nil, actor, err
	}
	employee, err := s.employees.FindByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, actor, err
	}
	if err := s.auth.CheckRecord(ctx, actor, identity.ResourceEmployee, action, employee.CreatedBy); err != nil {
		return nil, actor, err
	}
	return employee, actor, nil
}

func (s *EmployeeService) save(ctx context.Context, employee *hr.Employee) (*EmployeeDTO, error) {
	if err := s.employees.Save(ctx, employee); err != nil {
		return nil, err
	}
	dto := ToEmployeeDTO(employee)
	return &dto, nil
}
