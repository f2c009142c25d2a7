package database

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"pdvfarma/model"
)

const productColumns = `
	product_code, barcode, product_name, list_price, factory_price, discount_price,
	promotion_threshold, promotion_price, controlled, stock_quantity
`

// GetProductByCode looks a product up by its internal code or barcode.
// Returns nil (not an error) when nothing matches.
func GetProductByCode(conn *sqlx.DB, code string) (*model.Product, error) {
	var p model.Product
	query := `SELECT ` + productColumns + ` FROM product_master WHERE product_code = ? OR barcode = ? LIMIT 1`
	err := conn.Get(&p, query, code, code)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetProductByCode (%s) failed: %w", code, err)
	}
	return &p, nil
}

// SearchProductsByName returns products whose name contains the term,
// capped for the search modal.
func SearchProductsByName(conn *sqlx.DB, term string, limit int) ([]model.Product, error) {
	if limit <= 0 {
		limit = 50
	}
	var products []model.Product
	query := `SELECT ` + productColumns + ` FROM product_master WHERE product_name LIKE ? ORDER BY product_name LIMIT ?`
	err := conn.Select(&products, query, "%"+term+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("SearchProductsByName (%s) failed: %w", term, err)
	}
	return products, nil
}

// UpsertProductInTx inserts or replaces one product master row.
func UpsertProductInTx(tx *sqlx.Tx, p model.Product) error {
	const q = `
		INSERT INTO product_master (
			product_code, barcode, product_name, list_price, factory_price, discount_price,
			promotion_threshold, promotion_price, controlled, stock_quantity
		) VALUES (
			:product_code, :barcode, :product_name, :list_price, :factory_price, :discount_price,
			:promotion_threshold, :promotion_price, :controlled, :stock_quantity
		)
		ON CONFLICT(product_code) DO UPDATE SET
			barcode = excluded.barcode,
			product_name = excluded.product_name,
			list_price = excluded.list_price,
			factory_price = excluded.factory_price,
			discount_price = excluded.discount_price,
			promotion_threshold = excluded.promotion_threshold,
			promotion_price = excluded.promotion_price,
			controlled = excluded.controlled,
			stock_quantity = excluded.stock_quantity
	`
	if _, err := tx.NamedExec(q, p); err != nil {
		return fmt.Errorf("UpsertProductInTx (Code: %s) failed: %w", p.ProductCode, err)
	}
	return nil
}
