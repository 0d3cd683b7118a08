// Package clipper fetches a recipe web page and extracts its structured
// recipe data from schema.org JSON-LD markup.
package clipper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"mealbook/internal/recipe"
)

// Clipper handles fetching and extracting recipes from URLs.
type Clipper struct {
	httpClient *http.Client
}

// NewClipper creates a new Clipper instance.
func NewClipper() *Clipper {
	return &Clipper{
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// jsonldRecipe mirrors the subset of the schema.org Recipe type we read.
// Several fields are loosely typed in the wild, so they come in as raw
// JSON and are coerced afterwards.
type jsonldRecipe struct {
	Type         json.RawMessage `json:"@type"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Image        json.RawMessage `json:"image"`
	PrepTime     string          `json:"prepTime"`
	TotalTime    string          `json:"totalTime"`
	Ingredients  []string        `json:"recipeIngredient"`
	Instructions json.RawMessage `json:"recipeInstructions"`
}

// Clip fetches the URL and returns a recipe draft built from the page's
// JSON-LD. The caller owns filling in user ID and category.
func (c *Clipper) Clip(ctx context.Context, url string) (*recipe.Recipe, error) {
	doc, err := c.fetchDocument(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch content: %w", err)
	}

	var found *jsonldRecipe
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if r := findRecipeNode(json.RawMessage(s.Text())); r != nil {
			found = r
			return false
		}
		return true
	})

	if found == nil {
		return nil, fmt.Errorf("no schema.org recipe data found at %s", url)
	}
	if found.Name == "" {
		return nil, fmt.Errorf("recipe data at %s has no name", url)
	}

	rec := &recipe.Recipe{
		Title:        found.Name,
		Description:  found.Description,
		Image:        decodeImage(found.Image),
		PrepTime:     durationMinutes(firstNonEmpty(found.PrepTime, found.TotalTime)),
		Instructions: decodeInstructions(found.Instructions),
		Notes:        fmt.Sprintf("Imported from %s", url),
	}

	for _, line := range found.Ingredients {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		rec.Ingredients = append(rec.Ingredients, recipe.Ingredient{Name: line})
	}

	return rec, nil
}

func (c *Clipper) fetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	return goquery.NewDocumentFromReader(resp.Body)
}

// findRecipeNode digs through a JSON-LD document for a Recipe node: the
// top level may be the recipe itself, an array, or a @graph container.
func findRecipeNode(raw json.RawMessage) *jsonldRecipe {
	raw = json.RawMessage(strings.TrimSpace(string(raw)))
	if len(raw) == 0 {
		return nil
	}

	if raw[0] == '[' {
		var nodes []json.RawMessage
		if err := json.Unmarshal(raw, &nodes); err != nil {
			return nil
		}
		for _, node := range nodes {
			if r := findRecipeNode(node); r != nil {
				return r
			}
		}
		return nil
	}

	var rec jsonldRecipe
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil
	}
	if isRecipeType(rec.Type) {
		return &rec
	}

	var graph struct {
		Graph []json.RawMessage `json:"@graph"`
	}
	if err := json.Unmarshal(raw, &graph); err == nil {
		for _, node := range graph.Graph {
			if r := findRecipeNode(node); r != nil {
				return r
			}
		}
	}
	return nil
}

// isRecipeType handles @type as either "Recipe" or ["Recipe", ...].
func isRecipeType(raw json.RawMessage) bool {
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return single == "Recipe"
	}

	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		for _, t := range many {
			if t == "Recipe" {
				return true
			}
		}
	}
	return false
}

// decodeImage handles image as a URL string, an array of URLs, or an
// ImageObject.
func decodeImage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return single
	}

	var many []string
	if err := json.Unmarshal(raw, &many); err == nil && len(many) > 0 {
		return many[0]
	}

	var obj struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.URL
	}
	return ""
}

// decodeInstructions handles recipeInstructions as plain strings or as
// HowToStep objects.
func decodeInstructions(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var plain []string
	if err := json.Unmarshal(raw, &plain); err == nil {
		return plain
	}

	var steps []struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &steps); err == nil {
		var out []string
		for _, s := range steps {
			if s.Text != "" {
				out = append(out, s.Text)
			}
		}
		return out
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil && single != "" {
		return []string{single}
	}
	return nil
}

var durationRe = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?`)

// durationMinutes converts an ISO-8601 duration like "PT1H30M" to minutes.
func durationMinutes(iso string) int {
	m := durationRe.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(iso)))
	if m == nil {
		return 0
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	return hours*60 + minutes
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
