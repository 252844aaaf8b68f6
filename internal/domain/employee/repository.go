package employee

import "context"

type EmployeeRepository interface {
	List(ctx context.Context) ([]Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	Update(ctx context.Context, updated Employee) (Employee, error)
	// Modify applies fn to the stored employee and saves the result in one
	// locked read-modify-write. An error from fn aborts the write and is returned as is.
	Modify(ctx context.Context, id string, fn func(Employee) (Employee, error)) (Employee, error)
	Delete(ctx context.Context, id string) error
	ReplaceAll(ctx context.Context, employees []Employee) error
}
