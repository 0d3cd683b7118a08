package store

import (
	"context"
	"errors"
	"os"
	"testing"

	"mealbook/internal/client"
	"mealbook/internal/recipe"
	"mealbook/internal/server"
	"mealbook/internal/storage"
	"mealbook/internal/user"
)

// fakeClient implements client.Client with overridable function fields
// and records every call it receives.
type fakeClient struct {
	calls []string

	registerFn   func(ctx context.Context, name, email, password string) (*client.AuthResult, error)
	loginFn      func(ctx context.Context, email, password string) (*client.AuthResult, error)
	usersFn      func(ctx context.Context, token string) ([]user.User, error)
	followDataFn func(ctx context.Context, token, id string) ([]user.User, error)
	followFn     func(ctx context.Context, token, targetID string) error
	unfollowFn   func(ctx context.Context, token, targetID string) error
	recipeByIDFn func(ctx context.Context, id string) (*recipe.Recipe, error)
}

func (f *fakeClient) Register(ctx context.Context, name, email, password string) (*client.AuthResult, error) {
	f.calls = append(f.calls, "Register")
	if f.registerFn != nil {
		return f.registerFn(ctx, name, email, password)
	}
	return nil, errors.New("not implemented")
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (*client.AuthResult, error) {
	f.calls = append(f.calls, "Login")
	if f.loginFn != nil {
		return f.loginFn(ctx, email, password)
	}
	return nil, errors.New("not implemented")
}

func (f *fakeClient) UpdateMe(ctx context.Context, token, name, email string) (*user.User, error) {
	f.calls = append(f.calls, "UpdateMe")
	return &user.User{ID: "self", Name: name, Email: email}, nil
}

func (f *fakeClient) Users(ctx context.Context, token string) ([]user.User, error) {
	f.calls = append(f.calls, "Users")
	if f.usersFn != nil {
		return f.usersFn(ctx, token)
	}
	return nil, nil
}

func (f *fakeClient) UserByID(ctx context.Context, token, id string) (*user.User, error) {
	f.calls = append(f.calls, "UserByID")
	return &user.User{ID: id}, nil
}

func (f *fakeClient) FollowData(ctx context.Context, token, id string) ([]user.User, error) {
	f.calls = append(f.calls, "FollowData")
	if f.followDataFn != nil {
		return f.followDataFn(ctx, token, id)
	}
	return nil, nil
}

func (f *fakeClient) Follow(ctx context.Context, token, targetID string) error {
	f.calls = append(f.calls, "Follow")
	if f.followFn != nil {
		return f.followFn(ctx, token, targetID)
	}
	return nil
}

func (f *fakeClient) Unfollow(ctx context.Context, token, targetID string) error {
	f.calls = append(f.calls, "Unfollow")
	if f.unfollowFn != nil {
		return f.unfollowFn(ctx, token, targetID)
	}
	return nil
}

func (f *fakeClient) CreateRecipe(ctx context.Context, rec recipe.Recipe) (*recipe.Recipe, error) {
	f.calls = append(f.calls, "CreateRecipe")
	rec.ID = "created"
	return &rec, nil
}

func (f *fakeClient) Recipes(ctx context.Context) ([]recipe.Recipe, error) {
	f.calls = append(f.calls, "Recipes")
	return []recipe.Recipe{{ID: "1", Title: "Pasta"}}, nil
}

func (f *fakeClient) RecipeByID(ctx context.Context, id string) (*recipe.Recipe, error) {
	f.calls = append(f.calls, "RecipeByID")
	if f.recipeByIDFn != nil {
		return f.recipeByIDFn(ctx, id)
	}
	return &recipe.Recipe{ID: id, Title: "Pasta"}, nil
}

func (f *fakeClient) ClipRecipe(ctx context.Context, token, url string) (*recipe.Recipe, error) {
	f.calls = append(f.calls, "ClipRecipe")
	return &recipe.Recipe{ID: "clipped"}, nil
}

func (f *fakeClient) AdminMetrics(ctx context.Context, token string) (*server.AdminMetrics, error) {
	f.calls = append(f.calls, "AdminMetrics")
	return &server.AdminMetrics{}, nil
}

func newTestStorage(t *testing.T) *storage.Store {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "store_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	st, err := storage.NewStore(tempDir)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	return st
}
