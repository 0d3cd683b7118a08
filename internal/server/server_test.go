package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"mealbook/internal/clipper"
	"mealbook/internal/database"
	"mealbook/internal/metrics"
	"mealbook/internal/recipe"
	"mealbook/internal/user"
)

func newTestServer(t *testing.T) *httptest.Server {
	srv, _ := newTestServerWithConfig(t)
	return srv
}

func newTestServerWithConfig(t *testing.T) (*httptest.Server, *APIConfig) {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "server_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	db, err := database.NewDB(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := &APIConfig{
		Users:     user.NewRepository(db.SQL),
		Follows:   user.NewFollowRepository(db.SQL),
		Recipes:   recipe.NewRepository(db.SQL),
		Metrics:   metrics.NewStore(db.SQL),
		Clipper:   clipper.NewClipper(),
		JWTSecret: "test-secret",
		DataDir:   tempDir,
	}

	srv := httptest.NewServer(SetupMux(cfg))
	t.Cleanup(srv.Close)
	return srv, cfg
}

func postJSON(t *testing.T, url, token string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal body: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	return resp
}

func getJSON(t *testing.T, url, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return v
}

// registerUser creates an account and returns the user and a valid token.
func registerUser(t *testing.T, srv *httptest.Server, name, email string) (*user.User, string) {
	t.Helper()
	resp := postJSON(t, srv.URL+"/api/auth/register", "", map[string]string{
		"name": name, "email": email, "password": "password123",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected 201 from register, got %d", resp.StatusCode)
	}

	result := decodeBody[authResponse](t, resp)
	if result.User == nil || result.Token == "" {
		t.Fatal("Expected user and token in the register response")
	}
	return result.User, result.Token
}

func TestRegister(t *testing.T) {
	srv := newTestServer(t)

	t.Run("Success", func(t *testing.T) {
		u, token := registerUser(t, srv, "Alice", "alice@example.com")
		if u.Name != "Alice" || u.Email != "alice@example.com" {
			t.Errorf("Unexpected user %+v", u)
		}
		if token == "" {
			t.Error("Expected a token")
		}
	})

	t.Run("ShortPassword", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/api/auth/register", "", map[string]string{
			"name": "Bob", "email": "bob@example.com", "password": "1234567",
		})
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("Expected 400 for a 7-char password, got %d", resp.StatusCode)
		}
		body := decodeBody[map[string]string](t, resp)
		if body["message"] != "Password must be at least 8 characters" {
			t.Errorf("Unexpected message %q", body["message"])
		}
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/api/auth/register", "", map[string]string{
			"name": "Alice Again", "email": "alice@example.com", "password": "password123",
		})
		if resp.StatusCode != http.StatusConflict {
			t.Errorf("Expected 409 for a duplicate email, got %d", resp.StatusCode)
		}
		resp.Body.Close()
	})

	t.Run("MissingFields", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/api/auth/register", "", map[string]string{
			"email": "nobody@example.com", "password": "password123",
		})
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("Expected 400 for a missing name, got %d", resp.StatusCode)
		}
		resp.Body.Close()
	})
}

func TestLogin(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "Alice", "alice@example.com")

	t.Run("Success", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/api/auth/login", "", map[string]string{
			"email": "alice@example.com", "password": "password123",
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200, got %d", resp.StatusCode)
		}
		result := decodeBody[authResponse](t, resp)
		if result.Token == "" || result.User == nil {
			t.Error("Expected user and token in the login response")
		}
	})

	t.Run("WrongPassword", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/api/auth/login", "", map[string]string{
			"email": "alice@example.com", "password": "wrong-password",
		})
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", resp.StatusCode)
		}
		resp.Body.Close()
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/api/auth/login", "", map[string]string{
			"email": "ghost@example.com", "password": "password123",
		})
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", resp.StatusCode)
		}
		resp.Body.Close()
	})
}

func TestUsersEndpoints(t *testing.T) {
	srv := newTestServer(t)
	alice, aliceToken := registerUser(t, srv, "Alice", "alice@example.com")
	bob, _ := registerUser(t, srv, "Bob", "bob@example.com")

	t.Run("RequiresAuth", func(t *testing.T) {
		resp := getJSON(t, srv.URL+"/api/users", "")
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("Expected 401 without a token, got %d", resp.StatusCode)
		}
		resp.Body.Close()
	})

	t.Run("ListAll", func(t *testing.T) {
		resp := getJSON(t, srv.URL+"/api/users", aliceToken)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200, got %d", resp.StatusCode)
		}

		body := decodeBody[struct {
			Success bool        `json:"success"`
			Count   int         `json:"count"`
			Data    []user.User `json:"data"`
		}](t, resp)
		if !body.Success || body.Count != 2 || len(body.Data) != 2 {
			t.Errorf("Expected both users in the envelope, got %+v", body)
		}
	})

	t.Run("GetByID", func(t *testing.T) {
		resp := getJSON(t, srv.URL+"/api/users/"+bob.ID, aliceToken)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200, got %d", resp.StatusCode)
		}
		body := decodeBody[struct {
			Data user.User `json:"data"`
		}](t, resp)
		if body.Data.Name != "Bob" {
			t.Errorf("Expected Bob, got %+v", body.Data)
		}
	})

	t.Run("GetMissing", func(t *testing.T) {
		resp := getJSON(t, srv.URL+"/api/users/no-such-id", aliceToken)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", resp.StatusCode)
		}
		resp.Body.Close()
	})

	t.Run("UpdateMe", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/users/me",
			bytes.NewReader([]byte(`{"name":"Alice Smith"}`)))
		if err != nil {
			t.Fatalf("Failed to create request: %v", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+aliceToken)

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200, got %d", resp.StatusCode)
		}
		body := decodeBody[struct {
			Data user.User `json:"data"`
		}](t, resp)
		if body.Data.Name != "Alice Smith" {
			t.Errorf("Expected updated name, got %q", body.Data.Name)
		}
		if body.Data.Email != alice.Email {
			t.Errorf("Expected email untouched, got %q", body.Data.Email)
		}
	})
}

func TestFollowEndpoints(t *testing.T) {
	srv := newTestServer(t)
	alice, aliceToken := registerUser(t, srv, "Alice", "alice@example.com")
	bob, _ := registerUser(t, srv, "Bob", "bob@example.com")

	type followEnvelope struct {
		Data struct {
			Following []user.User `json:"following"`
		} `json:"data"`
	}

	t.Run("FollowThenList", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/api/users/follow", aliceToken, map[string]string{"userId": bob.ID})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200, got %d", resp.StatusCode)
		}
		resp.Body.Close()

		resp = getJSON(t, srv.URL+"/api/users/"+alice.ID+"/follow-data", aliceToken)
		body := decodeBody[followEnvelope](t, resp)
		if len(body.Data.Following) != 1 || body.Data.Following[0].ID != bob.ID {
			t.Errorf("Expected Bob in the following list, got %+v", body.Data.Following)
		}
	})

	t.Run("FollowTwiceIsIdempotent", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/api/users/follow", aliceToken, map[string]string{"userId": bob.ID})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200 on repeat follow, got %d", resp.StatusCode)
		}
		resp.Body.Close()

		resp = getJSON(t, srv.URL+"/api/users/"+alice.ID+"/follow-data", aliceToken)
		body := decodeBody[followEnvelope](t, resp)
		if len(body.Data.Following) != 1 {
			t.Errorf("Expected a single follow entry, got %d", len(body.Data.Following))
		}
	})

	t.Run("Unfollow", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/api/users/unfollow", aliceToken, map[string]string{"userId": bob.ID})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200, got %d", resp.StatusCode)
		}
		resp.Body.Close()

		resp = getJSON(t, srv.URL+"/api/users/"+alice.ID+"/follow-data", aliceToken)
		body := decodeBody[followEnvelope](t, resp)
		if len(body.Data.Following) != 0 {
			t.Errorf("Expected empty following list, got %+v", body.Data.Following)
		}
	})

	t.Run("UnknownTarget", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/api/users/follow", aliceToken, map[string]string{"userId": "no-such-id"})
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("Expected 404 for an unknown target, got %d", resp.StatusCode)
		}
		resp.Body.Close()
	})
}

func TestRecipeEndpoints(t *testing.T) {
	srv := newTestServer(t)

	t.Run("CreateAndGet", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/api/createrecipes", "", recipe.Recipe{
			Title:    "Tomato Soup",
			Category: "dinner",
			Ingredients: []recipe.Ingredient{
				{Name: "tomato", Amount: 4},
			},
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("Expected 201, got %d", resp.StatusCode)
		}
		created := decodeBody[recipe.Recipe](t, resp)
		if created.ID == "" {
			t.Fatal("Expected a generated recipe ID")
		}

		resp = getJSON(t, srv.URL+"/api/recipes/"+created.ID, "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200, got %d", resp.StatusCode)
		}
		fetched := decodeBody[recipe.Recipe](t, resp)
		if fetched.Title != "Tomato Soup" {
			t.Errorf("Expected the stored recipe, got %+v", fetched)
		}

		resp = getJSON(t, srv.URL+"/api/recipes", "")
		list := decodeBody[[]recipe.Recipe](t, resp)
		if len(list) != 1 {
			t.Errorf("Expected 1 recipe listed, got %d", len(list))
		}
	})

	t.Run("InvalidRecipe", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/api/createrecipes", "", recipe.Recipe{Category: "dinner"})
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("Expected 400 for a recipe without a title, got %d", resp.StatusCode)
		}
		resp.Body.Close()
	})

	t.Run("GetMissing", func(t *testing.T) {
		resp := getJSON(t, srv.URL+"/api/recipes/no-such-id", "")
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", resp.StatusCode)
		}
		resp.Body.Close()
	})
}

func TestAdminMetrics(t *testing.T) {
	srv, cfg := newTestServerWithConfig(t)
	_, token := registerUser(t, srv, "Alice", "alice@example.com")

	if err := cfg.Metrics.Record(metrics.RequestMetric{
		Method: "GET", Path: "/api/recipes", StatusCode: 200, LatencyMS: 3,
	}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	resp := getJSON(t, srv.URL+"/api/admin/metrics", token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	m := decodeBody[AdminMetrics](t, resp)
	total := 0
	for _, day := range m.Usage {
		total += day.Requests
	}
	if total == 0 {
		t.Error("Expected at least one recorded request")
	}
}
