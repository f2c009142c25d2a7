package database

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"pdvfarma/model"
)

const customerColumns = `
	customer_code, customer_name, tax_id, government_id, phone,
	street, number, complement, neighborhood, city
`

// GetCustomerByCode returns nil when no customer matches.
func GetCustomerByCode(conn *sqlx.DB, code string) (*model.Customer, error) {
	var c model.Customer
	query := `SELECT ` + customerColumns + ` FROM customer_master WHERE customer_code = ? LIMIT 1`
	err := conn.Get(&c, query, code)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetCustomerByCode (%s) failed: %w", code, err)
	}
	return &c, nil
}

// SearchCustomers matches by name prefix or exact tax id.
func SearchCustomers(conn *sqlx.DB, term string, limit int) ([]model.Customer, error) {
	if limit <= 0 {
		limit = 50
	}
	var customers []model.Customer
	query := `SELECT ` + customerColumns + ` FROM customer_master WHERE customer_name LIKE ? OR tax_id = ? ORDER BY customer_name LIMIT ?`
	err := conn.Select(&customers, query, term+"%", term, limit)
	if err != nil {
		return nil, fmt.Errorf("SearchCustomers (%s) failed: %w", term, err)
	}
	return customers, nil
}

// UpsertCustomerInTx inserts or replaces one customer master row.
func UpsertCustomerInTx(tx *sqlx.Tx, c model.Customer) error {
	const q = `
		INSERT INTO customer_master (
			customer_code, customer_name, tax_id, government_id, phone,
			street, number, complement, neighborhood, city
		) VALUES (
			:customer_code, :customer_name, :tax_id, :government_id, :phone,
			:street, :number, :complement, :neighborhood, :city
		)
		ON CONFLICT(customer_code) DO UPDATE SET
			customer_name = excluded.customer_name,
			tax_id = excluded.tax_id,
			government_id = excluded.government_id,
			phone = excluded.phone,
			street = excluded.street,
			number = excluded.number,
			complement = excluded.complement,
			neighborhood = excluded.neighborhood,
			city = excluded.city
	`
	if _, err := tx.NamedExec(q, c); err != nil {
		return fmt.Errorf("UpsertCustomerInTx (Code: %s) failed: %w", c.Code, err)
	}
	return nil
}
