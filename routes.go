package main

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/jmoiron/sqlx"

	"pdvfarma/automation"
	"pdvfarma/client"
	"pdvfarma/database"
	"pdvfarma/loader"
	"pdvfarma/presale"
	"pdvfarma/product"
)

func SetupRoutes(mux *http.ServeMux, dbConn *sqlx.DB, cartStore *presale.CartStore) {

	mux.HandleFunc("/api/employees", func(w http.ResponseWriter, r *http.Request) {
		employees, err := database.ListEmployees(dbConn)
		if err != nil {
			log.Printf("Error listing employees: %v", err)
			http.Error(w, "failed to list employees", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(employees); err != nil {
			log.Printf("Error encoding employee list: %v", err)
		}
	})

	mux.HandleFunc("/api/products/search", product.SearchHandler(dbConn))
	mux.HandleFunc("/api/products/", product.GetByCodeHandler(dbConn))
	mux.HandleFunc("/api/customers/search", client.SearchHandler(dbConn))
	mux.HandleFunc("/api/customers/save", client.UpsertHandler(dbConn))

	mux.HandleFunc("/api/presale/cart", presale.GetCartHandler(cartStore))
	mux.HandleFunc("/api/presale/operator", presale.SetOperatorHandler(dbConn, cartStore))
	mux.HandleFunc("/api/presale/customer", presale.SetCustomerHandler(dbConn, cartStore))
	mux.HandleFunc("/api/presale/lines/add", presale.AddLineHandler(dbConn, cartStore))
	mux.HandleFunc("/api/presale/lines/quantity", presale.UpdateQuantityHandler(cartStore))
	mux.HandleFunc("/api/presale/lines/remove", presale.RemoveLineHandler(cartStore))
	mux.HandleFunc("/api/presale/lines/prescription", presale.SetPrescriptionHandler(cartStore))
	mux.HandleFunc("/api/presale/lines/fulfillment", presale.SetFulfillmentHandler(cartStore))
	mux.HandleFunc("/api/presale/lines/token", presale.ApplyTokenHandler(dbConn, cartStore))
	mux.HandleFunc("/api/presale/export", presale.ExportHandler(dbConn, cartStore))
	mux.HandleFunc("/api/presale/inspect", presale.InspectHandler())

	mux.HandleFunc("/api/masters/reload", loader.ReloadProductsHandler(dbConn))
	mux.HandleFunc("/api/automation/submit", automation.SubmitPreSaleHandler())

	mux.HandleFunc("/api/config", GetConfigHandler())
	mux.HandleFunc("/api/config/save", SaveConfigHandler())
}
