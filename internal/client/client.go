// Package client is a typed HTTP client for the mealbook REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mealbook/internal/recipe"
	"mealbook/internal/server"
	"mealbook/internal/user"
)

// AuthResult is the payload of a successful register or login call.
type AuthResult struct {
	User  *user.User `json:"user"`
	Token string     `json:"token"`
}

// Client is the interface the state stores talk to.
type Client interface {
	Register(ctx context.Context, name, email, password string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	UpdateMe(ctx context.Context, token, name, email string) (*user.User, error)
	Users(ctx context.Context, token string) ([]user.User, error)
	UserByID(ctx context.Context, token, id string) (*user.User, error)
	FollowData(ctx context.Context, token, id string) ([]user.User, error)
	Follow(ctx context.Context, token, targetID string) error
	Unfollow(ctx context.Context, token, targetID string) error
	CreateRecipe(ctx context.Context, rec recipe.Recipe) (*recipe.Recipe, error)
	Recipes(ctx context.Context) ([]recipe.Recipe, error)
	RecipeByID(ctx context.Context, id string) (*recipe.Recipe, error)
	ClipRecipe(ctx context.Context, token, url string) (*recipe.Recipe, error)
	AdminMetrics(ctx context.Context, token string) (*server.AdminMetrics, error)
}

// apiClient is the concrete implementation of Client.
type apiClient struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client for the given base URL.
func New(baseURL string) Client {
	return &apiClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// dataEnvelope is the {success, data} wrapper the user endpoints return.
type dataEnvelope[T any] struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
	Data    T    `json:"data"`
}

func (c *apiClient) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var result AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", "", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *apiClient) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	var result AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", "", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *apiClient) UpdateMe(ctx context.Context, token, name, email string) (*user.User, error) {
	body := map[string]string{}
	if name != "" {
		body["name"] = name
	}
	if email != "" {
		body["email"] = email
	}

	var envelope dataEnvelope[user.User]
	if err := c.do(ctx, http.MethodPut, "/api/users/me", token, body, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

func (c *apiClient) Users(ctx context.Context, token string) ([]user.User, error) {
	var envelope dataEnvelope[[]user.User]
	if err := c.do(ctx, http.MethodGet, "/api/users", token, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

func (c *apiClient) UserByID(ctx context.Context, token, id string) (*user.User, error) {
	var envelope dataEnvelope[user.User]
	if err := c.do(ctx, http.MethodGet, "/api/users/"+id, token, nil, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

func (c *apiClient) FollowData(ctx context.Context, token, id string) ([]user.User, error) {
	type followData struct {
		Following []user.User `json:"following"`
	}
	var envelope dataEnvelope[followData]
	if err := c.do(ctx, http.MethodGet, "/api/users/"+id+"/follow-data", token, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data.Following, nil
}

func (c *apiClient) Follow(ctx context.Context, token, targetID string) error {
	body := map[string]string{"userId": targetID}
	return c.do(ctx, http.MethodPost, "/api/users/follow", token, body, nil)
}

func (c *apiClient) Unfollow(ctx context.Context, token, targetID string) error {
	body := map[string]string{"userId": targetID}
	return c.do(ctx, http.MethodPost, "/api/users/unfollow", token, body, nil)
}

func (c *apiClient) CreateRecipe(ctx context.Context, rec recipe.Recipe) (*recipe.Recipe, error) {
	var created recipe.Recipe
	if err := c.do(ctx, http.MethodPost, "/api/createrecipes", "", rec, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *apiClient) Recipes(ctx context.Context) ([]recipe.Recipe, error) {
	var recipes []recipe.Recipe
	if err := c.do(ctx, http.MethodGet, "/api/recipes", "", nil, &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

func (c *apiClient) RecipeByID(ctx context.Context, id string) (*recipe.Recipe, error) {
	var rec recipe.Recipe
	if err := c.do(ctx, http.MethodGet, "/api/recipes/"+id, "", nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *apiClient) ClipRecipe(ctx context.Context, token, url string) (*recipe.Recipe, error) {
	body := map[string]string{"url": url}
	var rec recipe.Recipe
	if err := c.do(ctx, http.MethodPost, "/api/cliprecipe", token, body, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *apiClient) AdminMetrics(ctx context.Context, token string) (*server.AdminMetrics, error) {
	var m server.AdminMetrics
	if err := c.do(ctx, http.MethodGet, "/api/admin/metrics", token, nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// do executes one request. A non-2xx response becomes an error carrying
// the server's message.
func (c *apiClient) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: %s", method, path, errorMessage(resp))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func errorMessage(resp *http.Response) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return resp.Status
}
