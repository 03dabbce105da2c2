package repository

import (
	"context"

	"employee-directory/internal/models"
)

// EmployeeRepository определяет контракт для работы с сотрудниками
// Это позволяет легко мокать репозиторий в тестах
type EmployeeRepository interface {
	AddEmployee(ctx context.Context, employee *models.Employee) (*models.Employee, error)
	// GetEmployee возвращает nil без ошибки, если сотрудника нет
	GetEmployee(ctx context.Context, id int) (*models.Employee, error)
	GetAllEmployees(ctx context.Context) ([]models.Employee, error)
	UpdateEmployee(ctx context.Context, employee *models.Employee) (*models.Employee, error)
	// DeleteEmployee возвращает удаленную запись или nil, если ее не было
	DeleteEmployee(ctx context.Context, id int) (*models.Employee, error)
}

// Проверяем что Repository реализует EmployeeRepository
var _ EmployeeRepository = (*Repository)(nil)
