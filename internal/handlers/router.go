package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/clubstock/clubstock/internal/config"
	"github.com/clubstock/clubstock/internal/middleware"
	"github.com/clubstock/clubstock/internal/services/uploadcare"
)

// Router wraps the mux router and its dependencies
type Router struct {
	*mux.Router
	db     *gorm.DB
	cfg    *config.Config
	logger *zap.Logger
	images *uploadcare.Service
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(db *gorm.DB, cfg *config.Config, logger *zap.Logger, images *uploadcare.Service) *Router {
	r := &Router{
		Router: mux.NewRouter(),
		db:     db,
		cfg:    cfg,
		logger: logger,
		images: images,
	}

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", r.register).Methods("POST")
	auth.HandleFunc("/login", r.login).Methods("POST")
	auth.HandleFunc("/logout", r.logout).Methods("POST")

	// Everything below requires a session
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(cfg.JWTSecret))

	protected.HandleFunc("/auth/me", r.me).Methods("GET")

	// Club routes
	protected.HandleFunc("/clubs", r.listClubs).Methods("GET")
	protected.HandleFunc("/clubs", r.createClub).Methods("POST")
	protected.HandleFunc("/clubs/{id}", r.getClub).Methods("GET")
	protected.HandleFunc("/clubs/{id}", r.updateClub).Methods("PUT")
	protected.HandleFunc("/clubs/{id}", r.deleteClub).Methods("DELETE")

	// Category routes
	protected.HandleFunc("/clubs/{id}/categories", r.listCategories).Methods("GET")
	protected.HandleFunc("/categories", r.createCategory).Methods("POST")
	protected.HandleFunc("/categories/{id}", r.getCategory).Methods("GET")
	protected.HandleFunc("/categories/{id}", r.updateCategory).Methods("PUT")
	protected.HandleFunc("/categories/{id}", r.deleteCategory).Methods("DELETE")

	// Article routes
	protected.HandleFunc("/categories/{id}/articles", r.listArticlesByCategory).Methods("GET")
	protected.HandleFunc("/clubs/{id}/articles", r.listArticlesByClub).Methods("GET")
	protected.HandleFunc("/articles", r.createArticle).Methods("POST")
	protected.HandleFunc("/articles/{id}", r.getArticle).Methods("GET")
	protected.HandleFunc("/articles/{id}", r.updateArticle).Methods("PUT")
	protected.HandleFunc("/articles/{id}", r.deleteArticle).Methods("DELETE")
	protected.HandleFunc("/articles/{id}/labels", r.articleLabels).Methods("GET")

	// Backup routes for the offline app
	protected.HandleFunc("/backups", r.createBackup).Methods("POST")
	protected.HandleFunc("/backups/latest", r.latestBackup).Methods("GET")

	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
