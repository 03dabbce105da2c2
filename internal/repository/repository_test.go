package repository

import (
	"context"
	"errors"
	"math"
	"testing"

	"employee-directory/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var employeeRowColumns = []string{"id", "name", "email", "department", "photo_path"}

// setupMockDB создает репозиторий поверх sqlmock
func setupMockDB(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(sqlx.NewDb(db, "postgres")), mock
}

func TestAddEmployeeAssignsID(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery(`INSERT INTO employees`).
		WithArgs("Ann", "ann@x.com", "IT", nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	mock.ExpectQuery(`SELECT id, name, email, department, photo_path FROM employees WHERE id = \$1`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(employeeRowColumns).AddRow(1, "Ann", "ann@x.com", "IT", nil))

	input := &models.Employee{Name: "Ann", Email: "ann@x.com", Department: models.DepartmentIT}
	added, err := repo.AddEmployee(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, 1, added.ID)

	stored, err := repo.GetEmployee(context.Background(), added.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, *added, *stored)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddEmployeeWithPhoto(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery(`INSERT INTO employees`).
		WithArgs("Bob", "bob@x.com", "HR", "abc_bob.png").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	input := &models.Employee{Name: "Bob", Email: "bob@x.com", Department: models.DepartmentHR}
	input.SetPhoto("abc_bob.png")

	added, err := repo.AddEmployee(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, 7, added.ID)
	assert.Equal(t, "abc_bob.png", added.Photo())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddEmployeeError(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery(`INSERT INTO employees`).WillReturnError(errors.New("connection refused"))

	_, err := repo.AddEmployee(context.Background(), &models.Employee{Name: "Ann"})
	assert.ErrorContains(t, err, "connection refused")
}

func TestGetEmployeeMissingReturnsNil(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery(`FROM employees WHERE id = \$1`).
		WithArgs(999).
		WillReturnRows(sqlmock.NewRows(employeeRowColumns))

	employee, err := repo.GetEmployee(context.Background(), 999)
	assert.NoError(t, err)
	assert.Nil(t, employee)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAllEmployees(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery(`FROM employees ORDER BY id`).
		WillReturnRows(sqlmock.NewRows(employeeRowColumns).
			AddRow(1, "Ann", "ann@x.com", "IT", nil).
			AddRow(2, "Bob", "bob@x.com", "HR", "abc_bob.png"))

	employees, err := repo.GetAllEmployees(context.Background())
	require.NoError(t, err)
	require.Len(t, employees, 2)
	assert.Equal(t, "Ann", employees[0].Name)
	assert.False(t, employees[0].HasPhoto())
	assert.Equal(t, models.DepartmentHR, employees[1].Department)
	assert.Equal(t, "abc_bob.png", employees[1].Photo())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAllEmployeesEmpty(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery(`FROM employees ORDER BY id`).
		WillReturnRows(sqlmock.NewRows(employeeRowColumns))

	employees, err := repo.GetAllEmployees(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, employees)
	assert.Empty(t, employees)
}

func TestUpdateEmployeeIsIdempotent(t *testing.T) {
	repo, mock := setupMockDB(t)

	employee := &models.Employee{ID: 1, Name: "Ann", Email: "ann@y.com", Department: models.DepartmentPayroll}

	for i := 0; i < 2; i++ {
		mock.ExpectExec(`UPDATE employees`).
			WithArgs("Ann", "ann@y.com", "Payroll", nil, 1).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}

	first, err := repo.UpdateEmployee(context.Background(), employee)
	require.NoError(t, err)
	second, err := repo.UpdateEmployee(context.Background(), employee)
	require.NoError(t, err)
	assert.Equal(t, *first, *second)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateEmployeeMissing(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectExec(`UPDATE employees`).
		WithArgs("Ghost", "ghost@x.com", "IT", nil, 42).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.UpdateEmployee(context.Background(), &models.Employee{
		ID: 42, Name: "Ghost", Email: "ghost@x.com", Department: models.DepartmentIT,
	})
	assert.ErrorIs(t, err, models.ErrEmployeeNotFound)
}

func TestDeleteEmployeeThenGet(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery(`DELETE FROM employees WHERE id = \$1 RETURNING`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(employeeRowColumns).AddRow(1, "Ann", "ann@x.com", "IT", "abc_ann.png"))
	mock.ExpectQuery(`FROM employees WHERE id = \$1`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(employeeRowColumns))

	deleted, err := repo.DeleteEmployee(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, deleted)
	assert.Equal(t, "abc_ann.png", deleted.Photo())

	employee, err := repo.GetEmployee(context.Background(), 1)
	assert.NoError(t, err)
	assert.Nil(t, employee)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteEmployeeMissing(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery(`DELETE FROM employees`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(employeeRowColumns))

	deleted, err := repo.DeleteEmployee(context.Background(), 5)
	assert.NoError(t, err)
	assert.Nil(t, deleted)
}

func TestOutOfRangeIDNeverQueries(t *testing.T) {
	repo, mock := setupMockDB(t)

	tooBig := math.MaxInt32
	tooBig++

	for _, id := range []int{0, -1, tooBig} {
		employee, err := repo.GetEmployee(context.Background(), id)
		assert.NoError(t, err, id)
		assert.Nil(t, employee, id)

		deleted, err := repo.DeleteEmployee(context.Background(), id)
		assert.NoError(t, err, id)
		assert.Nil(t, deleted, id)

		_, err = repo.UpdateEmployee(context.Background(), &models.Employee{ID: id, Name: "Ann"})
		assert.ErrorIs(t, err, models.ErrEmployeeNotFound, id)
	}

	// Ни одного запроса к базе
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetEmployeeMaxID(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery(`FROM employees WHERE id = \$1`).
		WithArgs(math.MaxInt32).
		WillReturnRows(sqlmock.NewRows(employeeRowColumns))

	employee, err := repo.GetEmployee(context.Background(), math.MaxInt32)
	assert.NoError(t, err)
	assert.Nil(t, employee)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateEmployeeRowsAffectedError(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectExec(`UPDATE employees`).
		WillReturnResult(sqlmock.NewErrorResult(errors.New("driver lost count")))

	_, err := repo.UpdateEmployee(context.Background(), &models.Employee{
		ID: 1, Name: "Ann", Email: "ann@x.com", Department: models.DepartmentIT,
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, "driver lost count")
	assert.NotErrorIs(t, err, models.ErrEmployeeNotFound)
}

func TestMigrate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS employees`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, Migrate(context.Background(), sqlx.NewDb(db, "postgres")))
	assert.NoError(t, mock.ExpectationsWereMet())
}
