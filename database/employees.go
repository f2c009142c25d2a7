package database

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"pdvfarma/model"
)

// GetEmployeeByID returns nil when the employee does not exist or is
// inactive.
func GetEmployeeByID(conn *sqlx.DB, id int) (*model.Operator, error) {
	var op model.Operator
	err := conn.Get(&op, `SELECT id, name FROM employee_master WHERE id = ? AND active = 1`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetEmployeeByID (%d) failed: %w", id, err)
	}
	return &op, nil
}

// ListEmployees returns every active employee for the operator picker.
func ListEmployees(conn *sqlx.DB) ([]model.Operator, error) {
	var ops []model.Operator
	err := conn.Select(&ops, `SELECT id, name FROM employee_master WHERE active = 1 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("ListEmployees failed: %w", err)
	}
	return ops, nil
}

// UpsertEmployeeInTx inserts or renames one employee.
func UpsertEmployeeInTx(tx *sqlx.Tx, op model.Operator) error {
	const q = `
		INSERT INTO employee_master (id, name, active) VALUES (?, ?, 1)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, active = 1
	`
	if _, err := tx.Exec(q, op.ID, op.Name); err != nil {
		return fmt.Errorf("UpsertEmployeeInTx (ID: %d) failed: %w", op.ID, err)
	}
	return nil
}
