//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseURL = getenv("E2E_BASE_URL", "http://localhost:8082")

type product struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	PriceInr      string   `json:"priceInr"`
	PriceBhd      string   `json:"priceBhd"`
	StockQuantity int      `json:"stockQuantity"`
	ImageURLs     []string `json:"imageUrls"`
	IsFeatured    bool     `json:"isFeatured"`
	IsNewArrival  bool     `json:"isNewArrival"`
}

func TestSystem_ProductLifecycle(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	waitReady(t, ctx, baseURL+"/readyz")

	var all []product
	doJSON(t, http.MethodGet, baseURL+"/api/products", nil, &all, http.StatusOK)
	require.NotEmpty(t, all)

	name := fmt.Sprintf("E2E Anklet %d", time.Now().UnixNano())
	var created product
	doJSON(t, http.MethodPost, baseURL+"/api/products", map[string]any{
		"name":          name,
		"description":   "integration fixture",
		"category":      "silver",
		"priceInr":      "7000",
		"priceBhd":      "35",
		"stockQuantity": 4,
		"imageUrls":     []string{"https://example.com/anklet.jpg"},
	}, &created, http.StatusCreated)
	require.NotEmpty(t, created.ID)
	t.Cleanup(func() {
		doJSON(t, http.MethodDelete, baseURL+"/api/products/"+created.ID, nil, nil, 0)
	})

	var patched product
	doJSON(t, http.MethodPatch, baseURL+"/api/products/"+created.ID, map[string]any{
		"isFeatured": true,
	}, &patched, http.StatusOK)
	assert.True(t, patched.IsFeatured)
	assert.Equal(t, name, patched.Name)

	var found []product
	doJSON(t, http.MethodGet, baseURL+"/api/products/search?q="+url.QueryEscape(name), nil, &found, http.StatusOK)
	require.Len(t, found, 1)
	assert.Equal(t, created.ID, found[0].ID)

	doJSON(t, http.MethodPost, baseURL+"/api/products", map[string]any{"name": "incomplete"}, nil, http.StatusBadRequest)

	if os.Getenv("E2E_RESTART_CATALOG") == "1" {
		restartService(t, ctx, getenv("E2E_CATALOG_SERVICE", "catalog"))
		waitReady(t, ctx, baseURL+"/readyz")

		var got product
		doJSON(t, http.MethodGet, baseURL+"/api/products/"+created.ID, nil, &got, http.StatusOK)
		assert.True(t, got.IsFeatured, "update survives a restart")
	}

	doJSON(t, http.MethodDelete, baseURL+"/api/products/"+created.ID, nil, nil, http.StatusNoContent)
	doJSON(t, http.MethodGet, baseURL+"/api/products/"+created.ID, nil, nil, http.StatusNotFound)
}

func waitReady(t *testing.T, ctx context.Context, url string) {
	t.Helper()
	client := &http.Client{Timeout: 2 * time.Second}

	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		resp, err := client.Do(req)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("service not ready: %s", url)
}

// doJSON sends body as JSON and decodes the reply into out. want == 0 skips
// the status check.
func doJSON(t *testing.T, method, url string, body any, out any, want int) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if want != 0 {
		require.Equal(t, want, resp.StatusCode, "%s %s", method, url)
	}
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
