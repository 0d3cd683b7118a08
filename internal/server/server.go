// Package server handles routes and their associated handlers
package server

import (
	"net/http"

	"mealbook/internal/clipper"
	"mealbook/internal/metrics"
	"mealbook/internal/recipe"
	"mealbook/internal/user"
)

// APIConfig carries the dependencies shared by all handlers.
type APIConfig struct {
	Users     *user.Repository
	Follows   *user.FollowRepository
	Recipes   *recipe.Repository
	Metrics   *metrics.Store
	Clipper   *clipper.Clipper
	JWTSecret string
	DataDir   string
}

// SetupMux registers every route and wraps the mux with request metrics.
func SetupMux(cfg *APIConfig) http.Handler {
	mux := http.NewServeMux()

	mdAuth := cfg.middlewareAuthenticate

	// Admin & state
	mux.HandleFunc("GET /api/healthz", cfg.handleReadiness)
	mux.HandleFunc("GET /api/admin/metrics", mdAuth(cfg.handleAdminMetrics))
	// Authentication
	mux.HandleFunc("POST /api/auth/register", cfg.handleRegister)
	mux.HandleFunc("POST /api/auth/login", cfg.handleLogin)
	// Users & follows
	mux.HandleFunc("PUT /api/users/me", mdAuth(cfg.handleUpdateMe))
	mux.HandleFunc("GET /api/users", mdAuth(cfg.handleGetUsers))
	mux.HandleFunc("GET /api/users/{id}", mdAuth(cfg.handleGetUserByID))
	mux.HandleFunc("GET /api/users/{id}/follow-data", mdAuth(cfg.handleGetFollowData))
	mux.HandleFunc("POST /api/users/follow", mdAuth(cfg.handleFollow))
	mux.HandleFunc("POST /api/users/unfollow", mdAuth(cfg.handleUnfollow))
	// Recipes
	mux.HandleFunc("POST /api/createrecipes", cfg.handleCreateRecipe)
	mux.HandleFunc("GET /api/recipes", cfg.handleGetRecipes)
	mux.HandleFunc("GET /api/recipes/{id}", cfg.handleGetRecipeByID)
	mux.HandleFunc("POST /api/cliprecipe", mdAuth(cfg.handleClipRecipe))

	return cfg.middlewareMetrics(mux)
}

func (cfg *APIConfig) handleReadiness(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(http.StatusText(http.StatusOK)))
}
