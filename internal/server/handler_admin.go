package server

import (
	"net/http"

	"mealbook/internal/metrics"
)

// AdminMetrics is the payload of the admin metrics endpoint.
type AdminMetrics struct {
	Usage       []metrics.DailyUsage `json:"usage"`
	RecipeCount int                  `json:"recipeCount"`
	Health      metrics.SysHealth    `json:"health"`
}

func (cfg *APIConfig) handleAdminMetrics(w http.ResponseWriter, r *http.Request) {
	usage, err := cfg.Metrics.GetDailyUsage(7)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Could not fetch metrics", err)
		return
	}
	if usage == nil {
		usage = []metrics.DailyUsage{}
	}

	recipeCount, err := cfg.Recipes.Count(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Could not fetch metrics", err)
		return
	}

	respondWithJSON(w, http.StatusOK, AdminMetrics{
		Usage:       usage,
		RecipeCount: recipeCount,
		Health:      metrics.GetSysHealth(cfg.DataDir),
	})
}
