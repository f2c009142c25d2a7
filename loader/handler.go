package loader

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/jmoiron/sqlx"

	"pdvfarma/config"
)

// ReloadProductsHandler re-imports the product master CSV configured in
// the settings screen.
func ReloadProductsHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg := config.GetConfig()
		path := cfg.ProductCSVPath
		if path == "" {
			http.Error(w, "product CSV path is not configured", http.StatusBadRequest)
			return
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			http.Error(w, "product CSV not found: "+path, http.StatusBadRequest)
			return
		}

		log.Printf("Reloading product master from %s...", path)
		imported, err := ImportProductCSV(db, path)
		if err != nil {
			msg := fmt.Sprintf("failed to reload product master: %v", err)
			log.Println(msg)
			http.Error(w, msg, http.StatusInternalServerError)
			return
		}
		log.Printf("Product master reloaded: %d rows.", imported)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message":  "product master updated",
			"imported": imported,
		})
	}
}
