package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
)

const createEmployeesTable = `
CREATE TABLE IF NOT EXISTS employees (
    id SERIAL PRIMARY KEY,
    name VARCHAR(50) NOT NULL,
    email TEXT NOT NULL,
    department TEXT NOT NULL,
    photo_path TEXT
);
`

// Migrate создает таблицы, если их еще нет
func Migrate(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, createEmployeesTable)
	return err
}
