package grocery

import (
	"errors"
	"fmt"
	"sync"

	"mealbook/internal/recipe"
	"mealbook/internal/storage"
)

const storageKey = "groceryList"

// Store holds the grocery list in memory and writes it back to durable
// storage after every mutation. Safe for concurrent use.
type Store struct {
	storage *storage.Store

	mu   sync.Mutex
	list List
}

// NewStore loads the saved grocery list, starting empty when none exists.
func NewStore(st *storage.Store) (*Store, error) {
	s := &Store{storage: st, list: List{}}
	err := st.Load(storageKey, &s.list)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to load grocery list: %w", err)
	}
	return s, nil
}

// Items returns the current list. The list operations never mutate a
// returned slice in place, so it is safe to read after the store moves on.
func (s *Store) Items() List {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list
}

// Grouped returns the current list partitioned by category.
func (s *Store) Grouped() []CategoryGroup {
	s.mu.Lock()
	defer s.mu.Unlock()
	return GroupByCategory(s.list)
}

// ImportFromRecipe replaces the batch imported from the recipe and persists.
func (s *Store) ImportFromRecipe(recipeTitle string, ingredients []recipe.Ingredient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apply(ImportFromRecipe(s.list, recipeTitle, ingredients))
}

// AddManualItem appends a manual item and persists.
func (s *Store) AddManualItem(name, amount, unit string, category Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apply(AddManualItem(s.list, name, amount, unit, category))
}

// ToggleCompleted flips one item's completed flag and persists.
func (s *Store) ToggleCompleted(itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apply(ToggleCompleted(s.list, itemID))
}

// DeleteItem removes one item and persists.
func (s *Store) DeleteItem(itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apply(DeleteItem(s.list, itemID))
}

// ClearCompleted removes all completed items and persists.
func (s *Store) ClearCompleted() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apply(ClearCompleted(s.list))
}

// ClearAll empties the list and persists.
func (s *Store) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apply(List{})
}

// EditItem overwrites the named fields of one item and persists.
func (s *Store) EditItem(itemID string, fields ItemEdit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apply(EditItem(s.list, itemID, fields))
}

// apply is called with mu held.
func (s *Store) apply(next List) error {
	if err := s.storage.Save(storageKey, next); err != nil {
		return fmt.Errorf("failed to persist grocery list: %w", err)
	}
	s.list = next
	return nil
}
