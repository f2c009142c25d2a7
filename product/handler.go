package product

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/jmoiron/sqlx"

	"pdvfarma/database"
)

// GetByCodeHandler resolves one product by internal code or barcode.
// Route: /api/products/{code}
func GetByCodeHandler(conn *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := strings.TrimPrefix(r.URL.Path, "/api/products/")
		if code == "" {
			http.Error(w, "product code is required", http.StatusBadRequest)
			return
		}
		p, err := database.GetProductByCode(conn, code)
		if err != nil {
			log.Printf("Error querying product %s: %v", code, err)
			http.Error(w, "failed to retrieve product", http.StatusInternalServerError)
			return
		}
		if p == nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(p)
	}
}

// SearchHandler backs the product search modal.
// Route: /api/products/search?name=...
func SearchHandler(conn *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term := r.URL.Query().Get("name")
		if strings.TrimSpace(term) == "" {
			http.Error(w, "name parameter is required", http.StatusBadRequest)
			return
		}
		products, err := database.SearchProductsByName(conn, term, 50)
		if err != nil {
			log.Printf("Error searching products (%s): %v", term, err)
			http.Error(w, "product search failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(products)
	}
}
