package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"ottm-backend/internal/database"
	"ottm-backend/internal/handlers"
	"ottm-backend/internal/language"
	customMiddleware "ottm-backend/internal/middleware"
	"ottm-backend/internal/notify"
	"ottm-backend/internal/repository"
	"ottm-backend/internal/survey"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env (ignore error in production — env vars set directly)
	_ = godotenv.Load()

	// Required env vars
	mongoURI := getEnv("MONGODB_URI", "")
	dbName := getEnv("DB_NAME", "ottm")
	jwtSecret := getEnv("JWT_SECRET", "")
	port := getEnv("PORT", "8080")

	if mongoURI == "" {
		log.Fatal("❌ MONGODB_URI is required")
	}
	if jwtSecret == "" {
		log.Fatal("❌ JWT_SECRET is required")
	}

	// Connect to MongoDB
	if err := database.Connect(mongoURI, dbName); err != nil {
		log.Fatalf("❌ Failed to connect to MongoDB: %v", err)
	}

	// Initialize the store
	store := repository.NewStore()
	cleanup := repository.NewCleanup(store.Features, store.Surveys, store.Comments)

	// Ensure time-series collections and indexes
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := database.EnsureSchema(ctx); err != nil {
		log.Printf("⚠️  Warning: failed to create time-series collections: %v", err)
	}
	if err := store.EnsureIndexes(ctx); err != nil {
		log.Printf("⚠️  Warning: failed to create indexes: %v", err)
	}

	// Initialize the notifier: email when Resend is configured, mock otherwise
	var notifier notify.Notifier
	if apiKey := os.Getenv("RESEND_API_KEY"); apiKey != "" {
		notifier = notify.NewEmail(apiKey, getEnv("FROM_EMAIL", ""), getEnv("NOTIFY_EMAIL", ""))
	} else {
		log.Println("⚠️  RESEND_API_KEY not set, logging notifications instead")
		notifier = notify.NewMock()
	}

	// Initialize the survey engine and handlers
	svc := survey.NewService(store, language.NewDetector())

	surveyHandler := handlers.NewSurveyHandler(svc, notifier)
	projectHandler := handlers.NewProjectHandler(store.Projects, cleanup)
	featureHandler := handlers.NewFeatureHandler(store.Features, store.Projects, cleanup)

	// Setup chi router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"ottm-backend"}`))
	})

	// Projects
	r.Route("/projects", func(r chi.Router) {
		r.Post("/", projectHandler.Create)
		r.Get("/", projectHandler.List)
		r.Get("/count", projectHandler.Count)
		r.Get("/{id}", projectHandler.Get)
		r.Patch("/{id}", projectHandler.Update)
		r.Delete("/{id}", projectHandler.Delete)
	})

	// Features
	r.Route("/features", func(r chi.Router) {
		r.Post("/", featureHandler.Create)
		r.Get("/", featureHandler.List)
		r.Get("/count", featureHandler.Count)
		r.Get("/{id}", featureHandler.Get)
		r.Delete("/{id}", featureHandler.Delete)
		r.Get("/project/{id}", featureHandler.ByProject)
	})

	// Survey
	r.Route("/survey", func(r chi.Router) {
		r.Post("/", surveyHandler.CreateRules)
		r.Get("/rules", surveyHandler.GetRule)
		r.Post("/comments", surveyHandler.AddComment)
		r.Get("/projects/{project_id}/comments", surveyHandler.ListComments)
		r.Get("/times", surveyHandler.LastAnswered)

		// Timestamp key management is admin-only (JWT required)
		r.Group(func(r chi.Router) {
			r.Use(customMiddleware.JWTAuth(jwtSecret))

			r.Post("/timestamps", surveyHandler.AddTimestampKey)
			r.Get("/timestamps", surveyHandler.GetTimestampKey)
		})
	})

	// Start server
	log.Printf("🚀 OTTM backend starting on port %s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
