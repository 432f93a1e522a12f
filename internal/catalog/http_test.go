package catalog_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"Palaniappa/internal/catalog"
	"Palaniappa/internal/schema"
	"Palaniappa/pkg/kit"
)

func newCatalogTS(t *testing.T, s *catalog.Server, reg *prometheus.Registry) *httptest.Server {
	t.Helper()

	h := catalog.NewHandler(s, catalog.HTTPDeps{
		Log:            zap.NewNop(),
		Service:        "catalog",
		Registry:       reg,
		MetricsEnabled: reg != nil,
		MetricsToken:   "metrics-token",
	})

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body any, headers map[string]string) (*http.Response, []byte) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func decodeProducts(t *testing.T, raw []byte) []schema.Product {
	t.Helper()
	var ps []schema.Product
	require.NoError(t, json.Unmarshal(raw, &ps), string(raw))
	return ps
}

func newProductBody() map[string]any {
	return map[string]any{
		"name":          "Temple Gold Haram",
		"description":   "Long temple necklace in 22K gold",
		"category":      "gold",
		"priceInr":      "210000",
		"priceBhd":      "1050",
		"weight":        "60g",
		"stockQuantity": 2,
		"imageUrls":     []string{"https://example.com/haram.jpg"},
		"isNewArrival":  false,
		"isFeatured":    true,
	}
}

func TestCatalog_ReadRoutes(t *testing.T) {
	ts := newCatalogTS(t, &catalog.Server{Store: catalog.NewStore()}, nil)

	resp, raw := doJSON(t, http.MethodGet, ts.URL+"/api/products", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	all := decodeProducts(t, raw)
	require.Len(t, all, 40)

	resp, raw = doJSON(t, http.MethodGet, ts.URL+"/api/products/"+all[0].ID, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var one schema.Product
	require.NoError(t, json.Unmarshal(raw, &one))
	assert.Equal(t, all[0], one)

	resp, raw = doJSON(t, http.MethodGet, ts.URL+"/api/products/category/silver", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	silver := decodeProducts(t, raw)
	assert.Len(t, silver, 10)
	for _, p := range silver {
		assert.Equal(t, "silver", p.Category)
	}

	resp, raw = doJSON(t, http.MethodGet, ts.URL+"/api/products/category/platinum", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(raw))

	resp, raw = doJSON(t, http.MethodGet, ts.URL+"/api/products/featured/all", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeProducts(t, raw), 16)

	resp, raw = doJSON(t, http.MethodGet, ts.URL+"/api/products/new-arrivals/all", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeProducts(t, raw), 10)

	resp, raw = doJSON(t, http.MethodGet, ts.URL+"/api/products/search?q=necklace", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeProducts(t, raw), 4)
}

func TestCatalog_WireNames(t *testing.T) {
	ts := newCatalogTS(t, &catalog.Server{Store: catalog.NewStore()}, nil)

	_, raw := doJSON(t, http.MethodGet, ts.URL+"/api/products/featured/all", nil, nil)

	var ps []map[string]any
	require.NoError(t, json.Unmarshal(raw, &ps))
	require.NotEmpty(t, ps)
	for _, k := range []string{"id", "name", "description", "category", "priceInr", "priceBhd", "weight", "stockQuantity", "imageUrls", "isNewArrival", "isFeatured"} {
		assert.Contains(t, ps[0], k)
	}
	assert.IsType(t, "", ps[0]["priceInr"], "prices travel as text")
}

func TestCatalog_ListOptions(t *testing.T) {
	ts := newCatalogTS(t, &catalog.Server{Store: catalog.NewStore()}, nil)

	resp, raw := doJSON(t, http.MethodGet, ts.URL+"/api/products/category/diamonds?sort=price-low&price=high", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ps := decodeProducts(t, raw)
	require.NotEmpty(t, ps)
	assert.Equal(t, "Classic Diamond Earrings", ps[0].Name)
	assert.Equal(t, "Diamond Tiara", ps[len(ps)-1].Name)

	resp, raw = doJSON(t, http.MethodGet, ts.URL+"/api/products?q=bangle&price=medium", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ps = decodeProducts(t, raw)
	require.Len(t, ps, 1)
	assert.Equal(t, "Gold Bangles Pair", ps[0].Name)

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/api/products?sort=random", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCatalog_NotFound(t *testing.T) {
	ts := newCatalogTS(t, &catalog.Server{Store: catalog.NewStore()}, nil)

	resp, raw := doJSON(t, http.MethodGet, ts.URL+"/api/products/does-not-exist", nil, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var er kit.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &er))
	assert.Equal(t, "not found", er.Error)
	assert.NotEmpty(t, er.RequestID)

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/api/products/search", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCatalog_CreateUpdateDelete(t *testing.T) {
	ts := newCatalogTS(t, &catalog.Server{Store: catalog.NewMemStore(nil)}, nil)

	resp, raw := doJSON(t, http.MethodPost, ts.URL+"/api/products", newProductBody(), nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	var created schema.Product
	require.NoError(t, json.Unmarshal(raw, &created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "Temple Gold Haram", created.Name)
	require.NotNil(t, created.Weight)
	assert.Equal(t, "60g", *created.Weight)

	resp, raw = doJSON(t, http.MethodGet, ts.URL+"/api/products/"+created.ID, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got schema.Product
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, created, got)

	resp, raw = doJSON(t, http.MethodPatch, ts.URL+"/api/products/"+created.ID, map[string]any{"stockQuantity": 0, "isFeatured": false}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, 0, got.StockQuantity)
	assert.False(t, got.IsFeatured)
	assert.Equal(t, created.Name, got.Name)

	resp, _ = doJSON(t, http.MethodPatch, ts.URL+"/api/products/missing", map[string]any{"stockQuantity": 1}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/api/products/"+created.ID, nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/api/products/"+created.ID, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/api/products/"+created.ID, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCatalog_CreateValidation(t *testing.T) {
	ts := newCatalogTS(t, &catalog.Server{Store: catalog.NewMemStore(nil)}, nil)

	body := newProductBody()
	body["imageUrls"] = []string{}
	body["category"] = "platinum"

	resp, raw := doJSON(t, http.MethodPost, ts.URL+"/api/products", body, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var er struct {
		Error   string              `json:"error"`
		Details []schema.FieldError `json:"details"`
	}
	require.NoError(t, json.Unmarshal(raw, &er))
	assert.Equal(t, "invalid product", er.Error)

	fields := map[string]bool{}
	for _, fe := range er.Details {
		fields[fe.Field] = true
	}
	assert.True(t, fields["imageUrls"])
	assert.True(t, fields["category"])

	body = newProductBody()
	body["priceInr"] = "1e15"
	resp, raw = doJSON(t, http.MethodPost, ts.URL+"/api/products", body, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(raw), `"field":"priceInr"`)

	body = newProductBody()
	body["sku"] = "unknown-field"
	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/api/products", body, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPatch, ts.URL+"/api/products/anything", map[string]any{}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCatalog_WriteRateLimit(t *testing.T) {
	s := &catalog.Server{
		Store:        catalog.NewMemStore(nil),
		WriteLimiter: kit.NewIPRateLimiter(1, time.Minute),
	}
	ts := newCatalogTS(t, s, nil)

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/products", newProductBody(), nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/api/products", newProductBody(), nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/api/products", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "reads are not limited")
}

func TestCatalog_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	ts := newCatalogTS(t, &catalog.Server{Store: catalog.NewMemStore(nil)}, reg)

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/products", newProductBody(), nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/metrics", nil, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, raw := doJSON(t, http.MethodGet, ts.URL+"/metrics", nil, map[string]string{"Authorization": "Bearer metrics-token"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := string(raw)
	assert.True(t, strings.Contains(body, `catalog_product_mutations_total{op="create"} 1`), body)
	assert.Contains(t, body, "http_requests_total")
}

func TestCatalog_Probes(t *testing.T) {
	ts := newCatalogTS(t, &catalog.Server{Store: catalog.NewMemStore(nil)}, nil)

	resp, _ := doJSON(t, http.MethodGet, ts.URL+"/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/readyz", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
