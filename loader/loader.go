package loader

import (
	"fmt"
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"pdvfarma/database"
	"pdvfarma/model"
	"pdvfarma/parsers"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS product_master (
		product_code TEXT PRIMARY KEY,
		barcode TEXT NOT NULL DEFAULT '',
		product_name TEXT NOT NULL,
		list_price TEXT NOT NULL DEFAULT '0',
		factory_price TEXT NOT NULL DEFAULT '0',
		discount_price TEXT NOT NULL DEFAULT '0',
		promotion_threshold INTEGER NOT NULL DEFAULT 0,
		promotion_price TEXT NOT NULL DEFAULT '0',
		controlled INTEGER NOT NULL DEFAULT 0,
		stock_quantity INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_product_master_barcode ON product_master (barcode)`,
	`CREATE TABLE IF NOT EXISTS customer_master (
		customer_code TEXT PRIMARY KEY,
		customer_name TEXT NOT NULL,
		tax_id TEXT NOT NULL DEFAULT '',
		government_id TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		street TEXT NOT NULL DEFAULT '',
		number TEXT NOT NULL DEFAULT '',
		complement TEXT NOT NULL DEFAULT '',
		neighborhood TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS employee_master (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		active INTEGER NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS price_tokens (
		code TEXT PRIMARY KEY,
		product_code TEXT NOT NULL DEFAULT '',
		price TEXT NOT NULL,
		used INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS export_sequences (
		name TEXT PRIMARY KEY,
		next_no INTEGER NOT NULL
	)`,
}

// InitDatabase creates the local tables and guarantees the fixed footer
// operator (id 1) exists.
func InitDatabase(conn *sqlx.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := conn.Exec(stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}

	tx, err := conn.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	if err := database.UpsertEmployeeInTx(tx, model.Operator{ID: 1, Name: "CAIXA"}); err != nil {
		return err
	}

	return tx.Commit()
}

// ImportProductCSV loads (or refreshes) the product master from a CSV
// file and reports how many rows were imported.
func ImportProductCSV(conn *sqlx.DB, path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	products, err := parsers.ParseProductCSV(file)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(products) == 0 {
		return 0, nil
	}

	tx, err := conn.Beginx()
	if err != nil {
		return 0, fmt.Errorf("failed to begin import transaction: %w", err)
	}
	defer tx.Rollback()

	imported := 0
	for _, p := range products {
		if err := database.UpsertProductInTx(tx, p); err != nil {
			log.Printf("WARN: Failed to upsert product %s: %v", p.ProductCode, err)
			continue
		}
		imported++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit product import: %w", err)
	}
	return imported, nil
}
