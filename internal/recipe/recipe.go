package recipe

import (
	"fmt"
	"time"
)

// Categories are the recipe categories the app recognizes.
var Categories = []string{
	"breakfast",
	"lunch",
	"dinner",
	"dessert",
	"vegetarian",
	"quick",
	"soup",
	"meat",
}

// Ingredient is a single recipe ingredient.
type Ingredient struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// Nutrition holds per-serving nutrition facts.
type Nutrition struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
	Fiber   float64 `json:"fiber"`
	Sugar   float64 `json:"sugar"`
}

// Recipe is the full recipe record. Recipes are immutable once created;
// there are no update or delete flows.
type Recipe struct {
	ID           string       `json:"id,omitempty"`
	UserID       string       `json:"userId,omitempty"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Category     string       `json:"category"`
	PrepTime     int          `json:"prepTime"`
	Image        string       `json:"image"`
	Calories     float64      `json:"calories"`
	Nutrition    Nutrition    `json:"nutrition"`
	Ingredients  []Ingredient `json:"ingredients"`
	Instructions []string     `json:"instructions"`
	Notes        string       `json:"notes"`
	CreatedAt    time.Time    `json:"createdAt,omitempty"`
}

// Validate checks the fields a recipe must carry before it is stored.
func (r *Recipe) Validate() error {
	if r.Title == "" {
		return fmt.Errorf("recipe title is required")
	}
	if r.Category == "" {
		return fmt.Errorf("recipe category is required")
	}
	for _, c := range Categories {
		if r.Category == c {
			return nil
		}
	}
	return fmt.Errorf("unknown recipe category %q", r.Category)
}
