package planner

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"mealbook/internal/recipe"
	"mealbook/internal/storage"
)

type fakeSource struct {
	recipes map[string]*recipe.Recipe
	err     error
}

func (f *fakeSource) RecipeByID(_ context.Context, id string) (*recipe.Recipe, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.recipes[id], nil
}

func newTestStore(t *testing.T) (*Store, *storage.Store) {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "planner_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	st, err := storage.NewStore(tempDir)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	store, err := NewStore(st, time.Date(2026, 9, 2, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Failed to create plan store: %v", err)
	}
	return store, st
}

func TestNewStoreInitializesWeek(t *testing.T) {
	store, _ := newTestStore(t)

	if got := DateKey(store.WeekStart()); got != "2026-08-31" {
		t.Errorf("Expected week start 2026-08-31, got %s", got)
	}
	if len(store.Plan()) != 7 {
		t.Errorf("Expected 7 initialized days, got %d", len(store.Plan()))
	}
}

func TestStoreAssign(t *testing.T) {
	ctx := context.Background()
	pasta := &recipe.Recipe{ID: "1", Title: "Pasta"}

	t.Run("Success", func(t *testing.T) {
		store, st := newTestStore(t)
		source := &fakeSource{recipes: map[string]*recipe.Recipe{"1": pasta}}

		if err := store.Assign(ctx, source, "2026-09-01", SlotDinner, "1"); err != nil {
			t.Fatalf("Assign failed: %v", err)
		}
		if store.Plan()["2026-09-01"].Dinner == nil {
			t.Fatal("Expected dinner slot filled")
		}

		// The mutation was persisted synchronously.
		reloaded, err := NewStore(st, time.Date(2026, 9, 2, 12, 0, 0, 0, time.UTC))
		if err != nil {
			t.Fatalf("Failed to reload store: %v", err)
		}
		if got := reloaded.Plan()["2026-09-01"].Dinner; got == nil || got.Title != "Pasta" {
			t.Error("Expected assignment to survive a reload")
		}
	})

	t.Run("FetchFailureLeavesSlotUnchanged", func(t *testing.T) {
		store, _ := newTestStore(t)
		source := &fakeSource{err: errors.New("network down")}

		err := store.Assign(ctx, source, "2026-09-01", SlotDinner, "1")
		if err == nil {
			t.Fatal("Expected an error from a failing source")
		}
		if store.Plan()["2026-09-01"].Dinner != nil {
			t.Error("Expected slot unchanged after fetch failure")
		}
	})

	t.Run("MissingRecipeLeavesSlotUnchanged", func(t *testing.T) {
		store, _ := newTestStore(t)
		source := &fakeSource{recipes: map[string]*recipe.Recipe{}}

		if err := store.Assign(ctx, source, "2026-09-01", SlotDinner, "missing"); err == nil {
			t.Fatal("Expected an error for a missing recipe")
		}
		if store.Plan()["2026-09-01"].Dinner != nil {
			t.Error("Expected slot unchanged")
		}
	})
}

// Week navigation and plan rendering happen on different goroutines in
// the bot; the store must tolerate that.
func TestStoreConcurrentNavigateAndRead(t *testing.T) {
	store, _ := newTestStore(t)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			if err := store.Navigate(1); err != nil {
				t.Errorf("Navigate failed: %v", err)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			for _, date := range store.WeekDates() {
				_ = store.Plan()[date]
			}
		}
	}()
	wg.Wait()

	if got := DateKey(store.WeekStart()); got != "2027-08-16" {
		t.Errorf("Expected week start 50 weeks out, got %s", got)
	}
}

func TestStoreNavigate(t *testing.T) {
	store, _ := newTestStore(t)
	source := &fakeSource{recipes: map[string]*recipe.Recipe{"1": {ID: "1", Title: "Pasta"}}}
	if err := store.Assign(context.Background(), source, "2026-09-01", SlotLunch, "1"); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}

	if err := store.Navigate(1); err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}
	if got := DateKey(store.WeekStart()); got != "2026-09-07" {
		t.Errorf("Expected week start 2026-09-07, got %s", got)
	}

	// The new window is initialized, the old one untouched.
	if len(store.Plan()) != 14 {
		t.Errorf("Expected 14 dates after navigation, got %d", len(store.Plan()))
	}
	if store.Plan()["2026-09-01"].Lunch == nil {
		t.Error("Expected assignment outside the window to survive navigation")
	}

	if err := store.Navigate(-1); err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}
	if got := DateKey(store.WeekStart()); got != "2026-08-31" {
		t.Errorf("Expected week start back at 2026-08-31, got %s", got)
	}
}
