package grocery

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"mealbook/internal/recipe"
)

// Item is a single entry on the grocery list. FromRecipe tags items that
// were imported from a recipe's ingredient list; manual items are untagged.
type Item struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Amount     string   `json:"amount"`
	Unit       string   `json:"unit"`
	Category   Category `json:"category"`
	Completed  bool     `json:"completed"`
	FromRecipe string   `json:"fromRecipe,omitempty"`
}

// List is an ordered grocery list.
type List []Item

// ItemEdit names the fields an edit may overwrite. Nil fields keep the
// item's current value.
type ItemEdit struct {
	Name     *string
	Amount   *string
	Unit     *string
	Category *Category
}

// ImportFromRecipe removes any items previously imported from recipeTitle,
// then appends one auto-categorized item per ingredient, each tagged with
// the title. Items not tagged with recipeTitle are preserved unchanged,
// which makes re-importing the same recipe replace rather than duplicate.
func ImportFromRecipe(list List, recipeTitle string, ingredients []recipe.Ingredient) List {
	next := make(List, 0, len(list)+len(ingredients))
	for _, item := range list {
		if item.FromRecipe != recipeTitle {
			next = append(next, item)
		}
	}

	for _, ing := range ingredients {
		next = append(next, Item{
			ID:         uuid.NewString(),
			Name:       ing.Name,
			Amount:     formatAmount(ing.Amount),
			Unit:       ing.Unit,
			Category:   Categorize(ing.Name),
			Completed:  false,
			FromRecipe: recipeTitle,
		})
	}
	return next
}

// AddManualItem appends an untagged item with completed = false. A blank
// name leaves the list unchanged.
func AddManualItem(list List, name, amount, unit string, category Category) List {
	name = strings.TrimSpace(name)
	if name == "" {
		return list
	}
	if !ValidCategory(category) {
		category = CategoryOther
	}

	return append(list, Item{
		ID:        uuid.NewString(),
		Name:      name,
		Amount:    amount,
		Unit:      unit,
		Category:  category,
		Completed: false,
	})
}

// ToggleCompleted flips the completed flag of the item with the given ID.
func ToggleCompleted(list List, itemID string) List {
	next := make(List, len(list))
	for i, item := range list {
		if item.ID == itemID {
			item.Completed = !item.Completed
		}
		next[i] = item
	}
	return next
}

// DeleteItem removes the item with the given ID.
func DeleteItem(list List, itemID string) List {
	next := make(List, 0, len(list))
	for _, item := range list {
		if item.ID != itemID {
			next = append(next, item)
		}
	}
	return next
}

// ClearCompleted removes all completed items.
func ClearCompleted(list List) List {
	next := make(List, 0, len(list))
	for _, item := range list {
		if !item.Completed {
			next = append(next, item)
		}
	}
	return next
}

// EditItem overwrites the named fields of the item with the given ID.
// An edit whose new name is blank leaves the list unchanged; fields not
// named in the edit, along with the item's ID, completed flag and source
// tag, are preserved.
func EditItem(list List, itemID string, fields ItemEdit) List {
	if fields.Name != nil && strings.TrimSpace(*fields.Name) == "" {
		return list
	}

	next := make(List, len(list))
	for i, item := range list {
		if item.ID == itemID {
			if fields.Name != nil {
				item.Name = strings.TrimSpace(*fields.Name)
			}
			if fields.Amount != nil {
				item.Amount = *fields.Amount
			}
			if fields.Unit != nil {
				item.Unit = *fields.Unit
			}
			if fields.Category != nil && ValidCategory(*fields.Category) {
				item.Category = *fields.Category
			}
		}
		next[i] = item
	}
	return next
}

// CategoryGroup holds the items of one category for display.
type CategoryGroup struct {
	Category Category
	Items    []Item
}

// GroupByCategory partitions the list into the fixed category order,
// omitting categories with no items.
func GroupByCategory(list List) []CategoryGroup {
	byCategory := make(map[Category][]Item)
	for _, item := range list {
		byCategory[item.Category] = append(byCategory[item.Category], item)
	}

	var groups []CategoryGroup
	for _, c := range Categories {
		if items := byCategory[c]; len(items) > 0 {
			groups = append(groups, CategoryGroup{Category: c, Items: items})
		}
	}
	return groups
}

func formatAmount(amount float64) string {
	if amount == 0 {
		return ""
	}
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
