package store

import (
	"context"

	"mealbook/internal/client"
	"mealbook/internal/recipe"
)

// Recipes holds the full recipe collection and a single selected recipe
// fetched by ID.
type Recipes struct {
	api client.Client

	State    AsyncState
	Items    []recipe.Recipe
	Selected *recipe.Recipe
}

// NewRecipes creates a recipe store.
func NewRecipes(api client.Client) *Recipes {
	return &Recipes{api: api}
}

// Create submits a new recipe and appends it to the collection.
func (s *Recipes) Create(ctx context.Context, rec recipe.Recipe) error {
	s.State.begin()
	created, err := s.api.CreateRecipe(ctx, rec)
	if err != nil {
		s.State.reject(err)
		return err
	}

	s.State.fulfill()
	s.Items = append(s.Items, *created)
	return nil
}

// FetchAll replaces the collection with the server's list.
func (s *Recipes) FetchAll(ctx context.Context) error {
	s.State.begin()
	recipes, err := s.api.Recipes(ctx)
	if err != nil {
		s.State.reject(err)
		return err
	}

	s.State.fulfill()
	s.Items = recipes
	return nil
}

// FetchByID loads one recipe into Selected. Pending clears the prior
// selection; on rejection Selected stays nil and the error is recorded.
func (s *Recipes) FetchByID(ctx context.Context, id string) error {
	s.State.begin()
	s.Selected = nil

	rec, err := s.api.RecipeByID(ctx, id)
	if err != nil {
		s.State.reject(err)
		return err
	}

	s.State.fulfill()
	s.Selected = rec
	return nil
}

// RecipeByID satisfies planner.RecipeSource so plan slots can be filled
// straight from this store.
func (s *Recipes) RecipeByID(ctx context.Context, id string) (*recipe.Recipe, error) {
	if err := s.FetchByID(ctx, id); err != nil {
		return nil, err
	}
	return s.Selected, nil
}
