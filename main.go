package main

import (
	"log"
	"net/http"
	"os"
	"os/exec"
	"runtime"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"pdvfarma/config"
	"pdvfarma/database"
	"pdvfarma/loader"
	"pdvfarma/presale"
)

func main() {
	log.Println("Connecting to database...")
	dbConn, err := sqlx.Open("sqlite3", "./pdvfarma.db?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		log.Fatalf("db open error: %v", err)
	}
	defer dbConn.Close()
	log.Println("Database connection successful.")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("WARN: Failed to load config file: %v. Using defaults.", err)
	}

	if err := loader.InitDatabase(dbConn); err != nil {
		log.Fatalf("Database initialization failed: %v", err)
	}
	log.Println("Database initialization complete.")

	if cfg.ProductCSVPath != "" {
		if _, err := os.Stat(cfg.ProductCSVPath); err == nil {
			imported, err := loader.ImportProductCSV(dbConn, cfg.ProductCSVPath)
			if err != nil {
				log.Printf("WARN: Failed to import product master: %v", err)
			} else {
				log.Printf("Product master loaded: %d rows.", imported)
			}
		} else {
			log.Printf("WARN: Product CSV %s not found. Lookups may be empty.", cfg.ProductCSVPath)
		}
	}

	cartStore := presale.NewCartStore()

	if cfg.DefaultOperatorID > 0 {
		op, err := database.GetEmployeeByID(dbConn, cfg.DefaultOperatorID)
		if err != nil {
			log.Printf("WARN: Failed to resolve default operator: %v", err)
		} else if op != nil {
			cartStore.SetOperator(*op)
			log.Printf("Default operator set: %d - %s", op.ID, op.Name)
		}
	}

	mux := http.NewServeMux()

	mux.Handle("/static/", http.StripPrefix("/static/",
		http.FileServer(http.Dir("./static"))))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		if _, err := os.Stat("static/index.html"); err == nil {
			http.ServeFile(w, r, "static/index.html")
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("pdvfarma terminal is running\n"))
	})

	SetupRoutes(mux, dbConn, cartStore)

	port := ":8080"
	log.Printf("Starting server on http://localhost%s", port)

	openBrowser("http://localhost:8080")

	if err := http.ListenAndServe(port, mux); err != nil {
		log.Fatalf("server start error: %v", err)
	}
}

func openBrowser(url string) {
	var err error
	switch runtime.GOOS {
	case "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	case "darwin":
		err = exec.Command("open", url).Start()
	default:
		err = exec.Command("xdg-open", url).Start()
	}
	if err != nil {
		log.Printf("failed to open browser: %v", err)
	}
}
