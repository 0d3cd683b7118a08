package grocery

import (
	"fmt"
	"os"
	"sync"
	"testing"

	"mealbook/internal/recipe"
	"mealbook/internal/storage"
)

func TestStorePersistence(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "grocery_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	st, err := storage.NewStore(tempDir)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	store, err := NewStore(st)
	if err != nil {
		t.Fatalf("Failed to create grocery store: %v", err)
	}

	if err := store.AddManualItem("Rice", "2", "cups", CategoryPantry); err != nil {
		t.Fatalf("Failed to add item: %v", err)
	}
	if err := store.ImportFromRecipe("Pancakes", []recipe.Ingredient{{Name: "milk", Amount: 2, Unit: "cups"}}); err != nil {
		t.Fatalf("Failed to import recipe: %v", err)
	}

	// A fresh store over the same directory sees every mutation: each
	// one was written through synchronously.
	reopened, err := NewStore(st)
	if err != nil {
		t.Fatalf("Failed to reopen grocery store: %v", err)
	}
	if len(reopened.Items()) != 2 {
		t.Fatalf("Expected 2 persisted items, got %d", len(reopened.Items()))
	}

	if err := reopened.ClearAll(); err != nil {
		t.Fatalf("Failed to clear list: %v", err)
	}
	again, err := NewStore(st)
	if err != nil {
		t.Fatalf("Failed to reopen grocery store: %v", err)
	}
	if len(again.Items()) != 0 {
		t.Errorf("Expected empty list after ClearAll, got %d items", len(again.Items()))
	}
}

func TestStoreConcurrentAddAndRead(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "grocery_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	st, err := storage.NewStore(tempDir)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	store, err := NewStore(st)
	if err != nil {
		t.Fatalf("Failed to create grocery store: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			if err := store.AddManualItem(fmt.Sprintf("item %d", i), "", "", CategoryOther); err != nil {
				t.Errorf("AddManualItem failed: %v", err)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			for _, group := range store.Grouped() {
				_ = len(group.Items)
			}
		}
	}()
	wg.Wait()

	if got := len(store.Items()); got != 50 {
		t.Errorf("Expected 50 items, got %d", got)
	}
}
