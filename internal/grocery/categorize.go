package grocery

import "strings"

// Category is one of the fixed grocery categories.
type Category string

const (
	CategoryProduce   Category = "Produce"
	CategoryDairy     Category = "Dairy & Eggs"
	CategoryMeat      Category = "Meat & Seafood"
	CategoryPantry    Category = "Pantry"
	CategoryBakery    Category = "Bakery"
	CategoryFrozen    Category = "Frozen"
	CategoryBeverages Category = "Beverages"
	CategoryOther     Category = "Other"
)

// Categories lists every category in display order. Categories with no
// items are omitted from rendering but remain valid targets for new items.
var Categories = []Category{
	CategoryProduce,
	CategoryDairy,
	CategoryMeat,
	CategoryPantry,
	CategoryBakery,
	CategoryFrozen,
	CategoryBeverages,
	CategoryOther,
}

type rule struct {
	category Category
	keywords []string
}

// rules is an ordered table; the first matching rule wins. The order is a
// deliberate tie-break: "eggs" must hit Dairy & Eggs before any pantry
// keyword could claim it.
var rules = []rule{
	{CategoryDairy, []string{"milk", "cheese", "yogurt", "butter", "cream", "egg"}},
	{CategoryMeat, []string{"chicken", "beef", "pork", "fish", "salmon", "shrimp"}},
	{CategoryProduce, []string{"onion", "garlic", "tomato", "lettuce", "carrot", "pepper", "spinach", "broccoli", "kale"}},
	{CategoryBakery, []string{"bread", "roll", "bagel", "muffin"}},
	{CategoryFrozen, []string{"frozen", "ice cream"}},
	{CategoryBeverages, []string{"juice", "soda", "water", "coffee", "tea"}},
	{CategoryPantry, []string{"flour", "sugar", "salt", "oil", "vinegar", "spice", "sauce"}},
}

// Categorize maps an ingredient name to exactly one category via
// case-insensitive substring match. Unmatched names fall to Other.
func Categorize(name string) Category {
	lower := strings.ToLower(name)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.category
			}
		}
	}
	return CategoryOther
}

// ValidCategory reports whether c is one of the fixed categories.
func ValidCategory(c Category) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}
