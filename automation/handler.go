package automation

import (
	"encoding/json"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"pdvfarma/config"
)

func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

// SubmitPreSaleHandler uploads an archived pre-sale file to the portal
// using the credentials from the settings screen.
func SubmitPreSaleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSONError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

		var req struct {
			Filename string `json:"filename"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, "invalid request body", http.StatusBadRequest)
			return
		}
		// The filename comes from the UI; refuse anything that walks out
		// of the export folder.
		if req.Filename == "" || strings.ContainsAny(req.Filename, `/\`) {
			writeJSONError(w, "a plain file name is required", http.StatusBadRequest)
			return
		}

		cfg := config.GetConfig()
		if cfg.PortalUserID == "" || cfg.PortalPassword == "" {
			writeJSONError(w, "portal credentials are not configured", http.StatusBadRequest)
			return
		}
		if cfg.ExportFolderPath == "" {
			writeJSONError(w, "export folder is not configured", http.StatusBadRequest)
			return
		}

		filePath := filepath.Join(cfg.ExportFolderPath, req.Filename)
		log.Printf("Starting portal submission for %s...", filePath)
		if err := SubmitPreSale(cfg.PortalUserID, cfg.PortalPassword, filePath); err != nil {
			log.Printf("Automation Error: %v", err)
			writeJSONError(w, "portal submission failed: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"status":  "success",
			"message": "pre-sale file submitted to the portal",
		})
	}
}
