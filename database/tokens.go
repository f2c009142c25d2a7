package database

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"pdvfarma/model"
)

// GetPriceToken returns an unused override token, or nil when the code is
// unknown or already consumed.
func GetPriceToken(conn *sqlx.DB, code string) (*model.PriceToken, error) {
	var t model.PriceToken
	err := conn.Get(&t, `SELECT code, product_code, price, used FROM price_tokens WHERE code = ? AND used = 0`, code)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetPriceToken (%s) failed: %w", code, err)
	}
	return &t, nil
}

// MarkPriceTokenUsed consumes a token so it cannot override a second line.
func MarkPriceTokenUsed(conn *sqlx.DB, code string) error {
	res, err := conn.Exec(`UPDATE price_tokens SET used = 1 WHERE code = ? AND used = 0`, code)
	if err != nil {
		return fmt.Errorf("MarkPriceTokenUsed (%s) failed: %w", code, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("price token %s already consumed", code)
	}
	return nil
}
