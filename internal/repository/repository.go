package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"employee-directory/internal/models"

	"github.com/jmoiron/sqlx"
)

const employeeColumns = "id, name, email, department, photo_path"

// storableID проверяет, что id помещается в колонку SERIAL (int4)
// Иначе Postgres отвечает ошибкой 22003 вместо пустого результата
func storableID(id int) bool {
	return id > 0 && id <= math.MaxInt32
}

// Repository инкапсулирует всю работу с базой данных
type Repository struct {
	db *sqlx.DB
}

// NewRepository создает новый репозиторий
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// AddEmployee сохраняет нового сотрудника, ID назначает база
func (r *Repository) AddEmployee(ctx context.Context, employee *models.Employee) (*models.Employee, error) {
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO employees (name, email, department, photo_path)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, employee.Name, employee.Email, employee.Department, employee.PhotoPath).Scan(&employee.ID)
	if err != nil {
		return nil, fmt.Errorf("insert employee: %w", err)
	}
	return employee, nil
}

// GetEmployee получает сотрудника по ID
func (r *Repository) GetEmployee(ctx context.Context, id int) (*models.Employee, error) {
	if !storableID(id) {
		return nil, nil
	}

	var employee models.Employee
	err := r.db.GetContext(ctx, &employee, "SELECT "+employeeColumns+" FROM employees WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get employee %d: %w", id, err)
	}
	return &employee, nil
}

// GetAllEmployees возвращает всех сотрудников в порядке добавления
func (r *Repository) GetAllEmployees(ctx context.Context) ([]models.Employee, error) {
	employees := []models.Employee{}
	err := r.db.SelectContext(ctx, &employees, "SELECT "+employeeColumns+" FROM employees ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return employees, nil
}

// UpdateEmployee перезаписывает все поля сотрудника
func (r *Repository) UpdateEmployee(ctx context.Context, employee *models.Employee) (*models.Employee, error) {
	if !storableID(employee.ID) {
		return nil, models.ErrEmployeeNotFound
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE employees
		SET name = $1, email = $2, department = $3, photo_path = $4
		WHERE id = $5
	`, employee.Name, employee.Email, employee.Department, employee.PhotoPath, employee.ID)
	if err != nil {
		return nil, fmt.Errorf("update employee %d: %w", employee.ID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update employee %d: rows affected: %w", employee.ID, err)
	}
	if rows == 0 {
		return nil, models.ErrEmployeeNotFound
	}

	return employee, nil
}

// DeleteEmployee удаляет сотрудника и возвращает удаленную запись
func (r *Repository) DeleteEmployee(ctx context.Context, id int) (*models.Employee, error) {
	if !storableID(id) {
		return nil, nil
	}

	var employee models.Employee
	err := r.db.GetContext(ctx, &employee, "DELETE FROM employees WHERE id = $1 RETURNING "+employeeColumns, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("delete employee %d: %w", id, err)
	}
	return &employee, nil
}
