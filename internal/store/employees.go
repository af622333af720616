package store

import (
	"context"

	"github.com/crewforge/backoffice/internal/model"
	"github.com/crewforge/backoffice/internal/provision"
	"github.com/crewforge/backoffice/internal/tenant"
)

// CreateEmployee persists a new employee. The record is stamped with the
// caller's team when unstamped, a linked user is provisioned when the
// employee has a usable email, and a draft contract is synthesized when the
// employee has none. All of it happens in one transaction.
func (s *Store) CreateEmployee(ctx context.Context, scope tenant.Scope, employee *model.Employee) (provision.Result, error) {
	var result provision.Result
	err := s.transaction(ctx, func(ctx context.Context) error {
		tx := s.conn(ctx)
		scope.Stamp(employee)

		var err error
		result, err = s.prov.EnsureUserForEmployee(tx, employee)
		if err != nil {
			return err
		}
		if err := tx.Create(employee).Error; err != nil {
			return err
		}
		_, err = s.prov.EnsureContract(tx, employee)
		return err
	})
	return result, err
}

// GetEmployee fetches an employee within the caller's scope, preloading the
// linked user and contracts.
func (s *Store) GetEmployee(ctx context.Context, scope tenant.Scope, id uint) (*model.Employee, error) {
	var employee model.Employee
	err := scope.Apply(s.conn(ctx)).
		Preload("User").
		Preload("Contracts").
		First(&employee, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &employee, nil
}

// ListEmployees returns the employees visible to the caller's scope.
func (s *Store) ListEmployees(ctx context.Context, scope tenant.Scope) ([]*model.Employee, error) {
	var employees []*model.Employee
	err := scope.Apply(s.conn(ctx)).
		Order("id asc").
		Find(&employees).Error
	return employees, err
}

// UpdateEmployee saves mutable employee fields. The team reference is never
// reassigned here.
func (s *Store) UpdateEmployee(ctx context.Context, scope tenant.Scope, employee *model.Employee) error {
	res := scope.Apply(s.conn(ctx).Model(&model.Employee{})).
		Where("id = ?", employee.ID).
		Updates(map[string]any{
			"first_name":     employee.FirstName,
			"last_name":      employee.LastName,
			"work_email":     employee.WorkEmail,
			"personal_email": employee.PersonalEmail,
			"position":       employee.Position,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateContract adds a contract to an employee within the caller's scope.
func (s *Store) CreateContract(ctx context.Context, scope tenant.Scope, contract *model.Contract) error {
	// The employee must be visible to the caller before a contract may be
	// attached to it.
	if _, err := s.GetEmployee(ctx, scope, contract.EmployeeID); err != nil {
		return err
	}
	scope.Stamp(contract)
	return s.conn(ctx).Create(contract).Error
}

// ListContracts returns an employee's contracts within the caller's scope.
func (s *Store) ListContracts(ctx context.Context, scope tenant.Scope, employeeID uint) ([]*model.Contract, error) {
	var contracts []*model.Contract
	err := scope.Apply(s.conn(ctx)).
		Where("employee_id = ?", employeeID).
		Order("id asc").
		Find(&contracts).Error
	return contracts, err
}
