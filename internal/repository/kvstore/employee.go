package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/cmlabs-hris/salary-tracker/internal/domain/employee"
	"github.com/cmlabs-hris/salary-tracker/internal/pkg/database"
)

type employeeRepositoryImpl struct {
	db database.Gateway
	mu sync.Mutex
}

func NewEmployeeRepository(db database.Gateway) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

// load reads and migrates the whole document. Callers hold r.mu.
func (r *employeeRepositoryImpl) load(ctx context.Context) ([]employee.Employee, error) {
	raw, found, err := r.db.Get(ctx, KeyEmployees)
	if err != nil {
		return nil, fmt.Errorf("failed to read employees: %w", err)
	}
	if !found || raw == "" {
		return []employee.Employee{}, nil
	}

	employees, _, err := MigrateEmployees([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", employee.ErrCorruptEmployeeStore, err)
	}
	return employees, nil
}

func (r *employeeRepositoryImpl) save(ctx context.Context, employees []employee.Employee) error {
	if employees == nil {
		employees = []employee.Employee{}
	}
	raw, err := json.Marshal(employees)
	if err != nil {
		return fmt.Errorf("failed to encode employees: %w", err)
	}
	if err := r.db.Set(ctx, KeyEmployees, string(raw)); err != nil {
		return fmt.Errorf("failed to write employees: %w", err)
	}
	return nil
}

func indexOf(employees []employee.Employee, id string) int {
	for i := range employees {
		if employees[i].ID == id {
			return i
		}
	}
	return -1
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context) ([]employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	employees, err := r.load(ctx)
	if err != nil {
		return employee.Employee{}, err
	}
	i := indexOf(employees, id)
	if i < 0 {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return employees[i], nil
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	employees, err := r.load(ctx)
	if err != nil {
		return employee.Employee{}, err
	}
	if indexOf(employees, newEmployee.ID) >= 0 {
		return employee.Employee{}, fmt.Errorf("employee with id %s already exists", newEmployee.ID)
	}
	if newEmployee.PaymentHistory == nil {
		newEmployee.PaymentHistory = []employee.PaymentRecord{}
	}

	if err := r.save(ctx, append(employees, newEmployee)); err != nil {
		return employee.Employee{}, err
	}
	return newEmployee, nil
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Update(ctx context.Context, updated employee.Employee) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	employees, err := r.load(ctx)
	if err != nil {
		return employee.Employee{}, err
	}
	i := indexOf(employees, updated.ID)
	if i < 0 {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	employees[i] = updated

	if err := r.save(ctx, employees); err != nil {
		return employee.Employee{}, err
	}
	return updated, nil
}

// Modify implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Modify(ctx context.Context, id string, fn func(employee.Employee) (employee.Employee, error)) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	employees, err := r.load(ctx)
	if err != nil {
		return employee.Employee{}, err
	}
	i := indexOf(employees, id)
	if i < 0 {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}

	updated, err := fn(employees[i].Clone())
	if err != nil {
		return employee.Employee{}, err
	}
	updated.ID = id
	employees[i] = updated

	if err := r.save(ctx, employees); err != nil {
		return employee.Employee{}, err
	}
	return updated, nil
}

// Delete implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	employees, err := r.load(ctx)
	if err != nil {
		return err
	}
	i := indexOf(employees, id)
	if i < 0 {
		return employee.ErrEmployeeNotFound
	}
	return r.save(ctx, append(employees[:i], employees[i+1:]...))
}

// ReplaceAll implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ReplaceAll(ctx context.Context, employees []employee.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.save(ctx, employees)
}
