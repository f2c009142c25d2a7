package presale

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"

	"pdvfarma/config"
	"pdvfarma/database"
	"pdvfarma/dbf"
	"pdvfarma/model"
)

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("WARN: Failed to encode JSON response: %v", err)
	}
}

// GetCartHandler returns the current pre-sale state.
func GetCartHandler(store *CartStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cart := store.Snapshot()
		writeJSON(w, map[string]interface{}{
			"cart":  cart,
			"total": cart.Total(),
		})
	}
}

// SetOperatorHandler resolves the employee and attaches it to the cart.
func SetOperatorHandler(conn *sqlx.DB, store *CartStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID int `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
		op, err := database.GetEmployeeByID(conn, req.ID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if op == nil {
			http.Error(w, fmt.Sprintf("employee %d not found", req.ID), http.StatusNotFound)
			return
		}
		store.SetOperator(*op)
		writeJSON(w, op)
	}
}

// SetCustomerHandler attaches a customer by code; an empty code detaches.
func SetCustomerHandler(conn *sqlx.DB, store *CartStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Code string `json:"code"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Code) == "" {
			store.SetCustomer(nil)
			writeJSON(w, map[string]string{"message": "customer detached"})
			return
		}
		customer, err := database.GetCustomerByCode(conn, req.Code)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if customer == nil {
			http.Error(w, fmt.Sprintf("customer %s not found", req.Code), http.StatusNotFound)
			return
		}
		store.SetCustomer(customer)
		writeJSON(w, customer)
	}
}

// AddLineHandler resolves the product and appends a priced line.
func AddLineHandler(conn *sqlx.DB, store *CartStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ProductCode string `json:"productCode"`
			Quantity    int    `json:"quantity"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
		if req.Quantity < 1 {
			req.Quantity = 1
		}
		product, err := database.GetProductByCode(conn, req.ProductCode)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if product == nil {
			http.Error(w, fmt.Sprintf("product %s not found", req.ProductCode), http.StatusNotFound)
			return
		}
		line := NewCartLine(*product, req.Quantity)
		index, err := store.AddLine(line)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, map[string]interface{}{"index": index, "line": line})
	}
}

// UpdateQuantityHandler changes a line's quantity and reprices it.
func UpdateQuantityHandler(store *CartStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Index    int `json:"index"`
			Quantity int `json:"quantity"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
		if err := store.UpdateQuantity(req.Index, req.Quantity); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, map[string]string{"message": "quantity updated"})
	}
}

// RemoveLineHandler drops one line from the cart.
func RemoveLineHandler(store *CartStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Index int `json:"index"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
		if err := store.RemoveLine(req.Index); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, map[string]string{"message": "line removed"})
	}
}

// SetPrescriptionHandler stores either the per-line capture or the
// window-level physician defaults (index -1).
func SetPrescriptionHandler(store *CartStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Index        int                    `json:"index"`
			Prescription model.PrescriptionInfo `json:"prescription"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
		if req.Index < 0 {
			store.SetPrescriptionDefaults(
				req.Prescription.Date,
				req.Prescription.PhysicianRegistration,
				req.Prescription.PhysicianState,
			)
			writeJSON(w, map[string]string{"message": "prescription defaults set"})
			return
		}
		if err := store.SetLinePrescription(req.Index, req.Prescription); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, map[string]string{"message": "prescription attached"})
	}
}

// SetFulfillmentHandler assigns a line to a store pickup or delivery slot.
func SetFulfillmentHandler(store *CartStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Index       int                   `json:"index"`
			Fulfillment model.FulfillmentInfo `json:"fulfillment"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
		if err := store.SetLineFulfillment(req.Index, req.Fulfillment); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, map[string]string{"message": "fulfillment set"})
	}
}

// ApplyTokenHandler validates a price-override token and applies it to a
// line. The token is consumed only after the line accepts it.
func ApplyTokenHandler(conn *sqlx.DB, store *CartStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Index int    `json:"index"`
			Code  string `json:"code"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
		token, err := database.GetPriceToken(conn, req.Code)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if token == nil {
			http.Error(w, fmt.Sprintf("token %s is unknown or already used", req.Code), http.StatusNotFound)
			return
		}
		if err := store.ApplyToken(req.Index, *token); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := database.MarkPriceTokenUsed(conn, req.Code); err != nil {
			log.Printf("WARN: Failed to consume price token %s: %v", req.Code, err)
		}
		writeJSON(w, map[string]string{"message": "token applied"})
	}
}

// ExportHandler runs the export driver: compile, assemble, allocate the
// file number, then stream the file as a download. On success the cart is
// cleared and a receipt copy is written next to the exported file; on
// failure the cart and the counter are left untouched for a retry.
func ExportHandler(conn *sqlx.DB, store *CartStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

		cart := store.Snapshot()
		exporter := &Exporter{Sequence: &database.ExportSequence{Conn: conn}}

		result, err := exporter.Export(cart)
		if err != nil {
			if IsValidationError(err) {
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
				return
			}
			log.Printf("WARN: Pre-sale export failed: %v", err)
			http.Error(w, "export failed: "+err.Error(), http.StatusInternalServerError)
			return
		}

		// The number is consumed from here on. Side failures are logged
		// and reported but never invalidate the export.
		store.Clear()
		log.Printf("INFO: Pre-sale %06d exported (%d records, %d bytes)",
			result.Number, result.RecordCount, len(result.Data))

		cfg := config.GetConfig()
		if cfg.ExportFolderPath != "" {
			archiveExport(cfg.ExportFolderPath, result, cart)
		}

		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Disposition", "attachment; filename*=UTF-8''"+result.Filename)
		if _, err := w.Write(result.Data); err != nil {
			log.Printf("WARN: Download write failed for %s: %v", result.Filename, err)
		}
	}
}

// archiveExport keeps a local copy of the file and its receipt.
func archiveExport(folder string, result *ExportResult, cart model.PreSaleCart) {
	if err := os.MkdirAll(folder, 0755); err != nil {
		log.Printf("WARN: Failed to create export folder %s: %v", folder, err)
		return
	}
	path := filepath.Join(folder, result.Filename)
	if err := os.WriteFile(path, result.Data, 0644); err != nil {
		log.Printf("WARN: Failed to archive %s: %v", path, err)
	}
	receiptPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".TXT"
	if err := os.WriteFile(receiptPath, RenderReceipt(result, cart), 0644); err != nil {
		log.Printf("WARN: Failed to write receipt %s: %v", receiptPath, err)
	}
}

// InspectHandler parses an uploaded pre-sale file back into its records,
// for checking what a previous export actually contains.
func InspectHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		file, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file upload required: "+err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			http.Error(w, "failed to read upload: "+err.Error(), http.StatusBadRequest)
			return
		}

		parsed, err := dbf.Parse(data)
		if err != nil {
			http.Error(w, "not a valid pre-sale file: "+err.Error(), http.StatusBadRequest)
			return
		}

		records := make([]map[string]string, 0, parsed.RecordCount)
		for i := 0; i < parsed.RecordCount; i++ {
			rec := make(map[string]string, len(parsed.Fields))
			for _, fd := range parsed.Fields {
				rec[fd.Name] = parsed.Value(i, fd.Name)
			}
			records = append(records, rec)
		}
		writeJSON(w, map[string]interface{}{
			"recordCount": parsed.RecordCount,
			"records":     records,
		})
	}
}
