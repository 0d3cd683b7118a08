package server

import (
	"net/http"

	"github.com/google/uuid"

	"mealbook/internal/recipe"
)

func (cfg *APIConfig) handleCreateRecipe(w http.ResponseWriter, r *http.Request) {
	rec, err := decodePayload[recipe.Recipe](r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Could not create recipe", err)
		return
	}

	if err := rec.Validate(); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	rec.ID = uuid.NewString()
	if err := cfg.Recipes.Save(r.Context(), &rec); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Could not create recipe", err)
		return
	}

	respondWithJSON(w, http.StatusCreated, rec)
}

func (cfg *APIConfig) handleGetRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := cfg.Recipes.List(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Could not fetch recipes", err)
		return
	}
	if recipes == nil {
		recipes = []recipe.Recipe{}
	}

	respondWithJSON(w, http.StatusOK, recipes)
}

func (cfg *APIConfig) handleGetRecipeByID(w http.ResponseWriter, r *http.Request) {
	rec, err := cfg.Recipes.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Could not fetch recipe", err)
		return
	}
	if rec == nil {
		respondWithError(w, http.StatusNotFound, "Recipe not found", nil)
		return
	}

	respondWithJSON(w, http.StatusOK, rec)
}

// handleClipRecipe imports a recipe from a web page's structured data and
// stores it for the authenticated user.
func (cfg *APIConfig) handleClipRecipe(w http.ResponseWriter, r *http.Request) {
	type parameters struct {
		URL      string `json:"url"`
		Category string `json:"category"`
	}

	params, err := decodePayload[parameters](r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Could not clip recipe", err)
		return
	}
	if params.URL == "" {
		respondWithError(w, http.StatusBadRequest, "url is required", nil)
		return
	}

	rec, err := cfg.Clipper.Clip(r.Context(), params.URL)
	if err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, "Could not extract a recipe from that page", err)
		return
	}

	rec.ID = uuid.NewString()
	rec.UserID = authenticatedUserID(r)
	rec.Category = params.Category
	if rec.Category == "" {
		rec.Category = "dinner"
	}

	if err := rec.Validate(); err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, err.Error(), nil)
		return
	}

	if err := cfg.Recipes.Save(r.Context(), rec); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Could not clip recipe", err)
		return
	}

	respondWithJSON(w, http.StatusCreated, rec)
}
