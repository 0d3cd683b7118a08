package planner

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"
	"time"

	"mealbook/internal/recipe"
	"mealbook/internal/storage"
)

const storageKey = "weeklyMealPlan"

// RecipeSource fetches a recipe by ID so it can be assigned to a slot.
type RecipeSource interface {
	RecipeByID(ctx context.Context, id string) (*recipe.Recipe, error)
}

// Store holds the weekly plan in memory and writes it back to durable
// storage after every mutation. It also tracks the visible 7-day window.
// Safe for concurrent use.
type Store struct {
	storage *storage.Store

	mu        sync.Mutex
	plan      WeeklyPlan
	weekStart time.Time
}

// NewStore loads the saved plan and ensures the week containing now is
// initialized.
func NewStore(st *storage.Store, now time.Time) (*Store, error) {
	s := &Store{
		storage:   st,
		plan:      WeeklyPlan{},
		weekStart: StartOfWeek(now),
	}

	err := st.Load(storageKey, &s.plan)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to load weekly plan: %w", err)
	}

	InitializeWeek(s.plan, s.weekStart)
	if err := s.persist(); err != nil {
		return nil, err
	}
	return s, nil
}

// Plan returns a snapshot of the full plan, including dates outside the
// visible window.
func (s *Store) Plan() WeeklyPlan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.plan)
}

// WeekStart returns the first day of the visible window.
func (s *Store) WeekStart() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.weekStart
}

// WeekDates returns the date keys of the visible window.
func (s *Store) WeekDates() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return WeekDates(s.weekStart)
}

// Navigate shifts the visible window by direction*7 days and initializes
// the newly visible dates without mutating dates outside the window.
func (s *Store) Navigate(direction int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.weekStart = s.weekStart.AddDate(0, 0, 7*direction)
	InitializeWeek(s.plan, s.weekStart)
	return s.persist()
}

// Assign fetches the recipe and sets it into the slot. On fetch failure
// the slot is left unchanged and the error is returned to the caller.
func (s *Store) Assign(ctx context.Context, source RecipeSource, date string, slot Slot, recipeID string) error {
	rec, err := source.RecipeByID(ctx, recipeID)
	if err != nil {
		return fmt.Errorf("failed to fetch recipe %s: %w", recipeID, err)
	}
	if rec == nil {
		return fmt.Errorf("recipe %s not found", recipeID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	AssignRecipe(s.plan, date, slot, rec)
	return s.persist()
}

// Remove clears the slot and persists.
func (s *Store) Remove(date string, slot Slot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	RemoveRecipe(s.plan, date, slot)
	return s.persist()
}

// Swap exchanges two slots and persists. This is the whole of drag and
// drop: the transformation runs once at gesture completion.
func (s *Store) Swap(srcDate string, srcSlot Slot, dstDate string, dstSlot Slot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	SwapSlots(s.plan, srcDate, srcSlot, dstDate, dstSlot)
	return s.persist()
}

// persist is called with mu held.
func (s *Store) persist() error {
	if err := s.storage.Save(storageKey, s.plan); err != nil {
		return fmt.Errorf("failed to persist weekly plan: %w", err)
	}
	return nil
}
