package client

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/jmoiron/sqlx"

	"pdvfarma/database"
	"pdvfarma/model"
)

// SearchHandler backs the customer search modal; matches by name prefix
// or exact tax id.
// Route: /api/customers/search?term=...
func SearchHandler(conn *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term := strings.TrimSpace(r.URL.Query().Get("term"))
		if term == "" {
			http.Error(w, "term parameter is required", http.StatusBadRequest)
			return
		}
		customers, err := database.SearchCustomers(conn, term, 50)
		if err != nil {
			log.Printf("Error searching customers (%s): %v", term, err)
			http.Error(w, "customer search failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(customers)
	}
}

// UpsertHandler registers or updates a customer record from the counter.
func UpsertHandler(conn *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		var customer model.Customer
		if err := json.NewDecoder(r.Body).Decode(&customer); err != nil {
			http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
		customer.Code = strings.TrimSpace(customer.Code)
		customer.Name = strings.TrimSpace(customer.Name)
		if customer.Code == "" || customer.Name == "" {
			http.Error(w, "customer code and name are required", http.StatusBadRequest)
			return
		}

		tx, err := conn.Beginx()
		if err != nil {
			http.Error(w, "failed to begin transaction: "+err.Error(), http.StatusInternalServerError)
			return
		}
		defer tx.Rollback()

		if err := database.UpsertCustomerInTx(tx, customer); err != nil {
			log.Printf("ERROR: Failed to upsert customer %s: %v", customer.Code, err)
			http.Error(w, "failed to save customer", http.StatusInternalServerError)
			return
		}
		if err := tx.Commit(); err != nil {
			http.Error(w, "failed to commit customer: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(customer)
	}
}
