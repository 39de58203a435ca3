package main

import (
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/eigo-practice/backend/internal/database"
	"github.com/eigo-practice/backend/internal/generator"
	"github.com/eigo-practice/backend/internal/middleware"
	"github.com/eigo-practice/backend/internal/practice"
	"github.com/eigo-practice/backend/internal/quota"
)

func main() {
	// .env is optional; real deployments set env vars directly.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	dailyLimit := quota.DefaultDailyLimit
	if v := os.Getenv("DAILY_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			dailyLimit = n
		}
	}

	// The quota counter is durable when a database is configured,
	// in-memory otherwise. Same semantics either way.
	var counter quota.Counter
	if database.Configured() {
		db, err := database.Connect()
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := database.Migrate(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}

		counter = quota.NewPostgresCounter(db, dailyLimit)
		log.Println("Quota counter backed by Postgres")
	} else {
		counter = quota.NewMemoryCounter(dailyLimit)
		log.Println("Quota counter in-memory (no database configured)")
	}

	gen := generator.NewGenerator()
	service := practice.NewService(counter, gen)
	handler := practice.NewHandler(service)

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	practiceAPI := api.PathPrefix("/practice").Subrouter()
	practiceAPI.Use(middleware.SessionKey)
	practiceAPI.HandleFunc("/problem", handler.GenerateProblem).Methods("POST")
	practiceAPI.HandleFunc("/evaluate", handler.EvaluateTranslation).Methods("POST")
	practiceAPI.HandleFunc("/quota", handler.QuotaStatus).Methods("GET")

	api.HandleFunc("/admin/quota/{key}", handler.GetQuota).Methods("GET")
	api.HandleFunc("/admin/quota/{key}/reset", handler.ResetQuota).Methods("POST")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Session-ID", "X-Admin-Token"},
		AllowCredentials: true,
	})

	h := c.Handler(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on :%s (model: %s)", port, gen.ModelName())
	if err := http.ListenAndServe(":"+port, h); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
