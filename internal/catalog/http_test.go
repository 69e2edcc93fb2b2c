package catalog_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"DemoShop/internal/catalog"
)

func newCatalogTS(t *testing.T) (*httptest.Server, *catalog.MemStore) {
	t.Helper()

	store := catalog.NewMemStore()
	if err := catalog.Seed(context.Background(), store); err != nil {
		t.Fatalf("seed: %v", err)
	}

	h := catalog.NewHandler(&catalog.Server{Store: store, Log: zap.NewNop()}, catalog.HTTPDeps{
		Log:     zap.NewNop(),
		Service: "catalog",
	})

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts, store
}

func do(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, raw
}

func TestCatalogHTTP_ListAndGet(t *testing.T) {
	ts, _ := newCatalogTS(t)

	resp, raw := do(t, http.MethodGet, ts.URL+"/api/products", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status=%d body=%s", resp.StatusCode, raw)
	}

	var products []catalog.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		t.Fatalf("decode: %v body=%s", err, raw)
	}
	if len(products) != 8 {
		t.Fatalf("len=%d", len(products))
	}

	resp, raw = do(t, http.MethodGet, ts.URL+"/api/products/"+products[0].ID, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status=%d body=%s", resp.StatusCode, raw)
	}

	resp, _ = do(t, http.MethodGet, ts.URL+"/api/products/nope", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing status=%d", resp.StatusCode)
	}
}

func TestCatalogHTTP_CategoriesAndSearch(t *testing.T) {
	ts, _ := newCatalogTS(t)

	resp, raw := do(t, http.MethodGet, ts.URL+"/api/products/categories", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("categories status=%d", resp.StatusCode)
	}
	var cats []string
	if err := json.Unmarshal(raw, &cats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if strings.Join(cats, ",") != "Books,Clothing,Electronics" {
		t.Fatalf("categories=%v", cats)
	}

	resp, raw = do(t, http.MethodGet, ts.URL+"/api/products/search?keyword=LAPTOP", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("search status=%d", resp.StatusCode)
	}
	var found []catalog.Product
	if err := json.Unmarshal(raw, &found); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(found) != 1 || found[0].Name != "Laptop Pro 15" {
		t.Fatalf("search=%+v", found)
	}

	resp, _ = do(t, http.MethodGet, ts.URL+"/api/products/search", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("search without keyword status=%d", resp.StatusCode)
	}

	resp, raw = do(t, http.MethodGet, ts.URL+"/api/products/category/clothing", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("category status=%d", resp.StatusCode)
	}
	var clothing []catalog.Product
	if err := json.Unmarshal(raw, &clothing); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(clothing) != 2 {
		t.Fatalf("clothing=%d", len(clothing))
	}
}

func TestCatalogHTTP_CreateUpdateDelete(t *testing.T) {
	ts, _ := newCatalogTS(t)

	resp, raw := do(t, http.MethodPost, ts.URL+"/api/products", `{
		"name": "Desk Lamp",
		"description": "LED lamp",
		"price": "19.95",
		"category": "Home",
		"stockQuantity": 3
	}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", resp.StatusCode, raw)
	}
	var created catalog.Product
	if err := json.Unmarshal(raw, &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == "" || !created.Active || created.Price.String() != "19.95" {
		t.Fatalf("created=%+v", created)
	}

	resp, raw = do(t, http.MethodPut, ts.URL+"/api/products/"+created.ID, `{
		"name": "Desk Lamp XL",
		"price": 24.5,
		"category": "Home",
		"stockQuantity": 4
	}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status=%d body=%s", resp.StatusCode, raw)
	}

	resp, raw = do(t, http.MethodPut, ts.URL+"/api/products/"+created.ID+"/stock", `{"quantity": 10}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stock status=%d body=%s", resp.StatusCode, raw)
	}

	resp, raw = do(t, http.MethodPut, ts.URL+"/api/products/"+created.ID+"/stock", `{"quantity": -1}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("negative stock status=%d body=%s", resp.StatusCode, raw)
	}

	resp, _ = do(t, http.MethodPut, ts.URL+"/api/products/"+created.ID+"/stock", `{}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing quantity status=%d", resp.StatusCode)
	}

	resp, raw = do(t, http.MethodGet, ts.URL+"/api/products/"+created.ID, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status=%d", resp.StatusCode)
	}
	var got catalog.Product
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Name != "Desk Lamp XL" || got.StockQuantity != 10 || got.Price.String() != "24.5" {
		t.Fatalf("got=%+v", got)
	}

	for i := 0; i < 2; i++ {
		resp, raw = do(t, http.MethodDelete, ts.URL+"/api/products/"+created.ID, "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("delete #%d status=%d body=%s", i, resp.StatusCode, raw)
		}
	}

	resp, _ = do(t, http.MethodGet, ts.URL+"/api/products/"+created.ID, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get after delete status=%d", resp.StatusCode)
	}

	resp, _ = do(t, http.MethodDelete, ts.URL+"/api/products/nope", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("delete missing status=%d", resp.StatusCode)
	}
}

func TestCatalogHTTP_CreateValidation(t *testing.T) {
	ts, _ := newCatalogTS(t)

	cases := []struct {
		name string
		body string
		want int
	}{
		{"missing name", `{"price": 1, "category": "x", "stockQuantity": 1}`, http.StatusBadRequest},
		{"missing price", `{"name": "a", "category": "x", "stockQuantity": 1}`, http.StatusBadRequest},
		{"negative price", `{"name": "a", "price": -1, "category": "x", "stockQuantity": 1}`, http.StatusBadRequest},
		{"negative stock", `{"name": "a", "price": 1, "category": "x", "stockQuantity": -1}`, http.StatusBadRequest},
		{"unknown field", `{"name": "a", "price": 1, "category": "x", "stockQuantity": 1, "bogus": true}`, http.StatusBadRequest},
		{"bad image url", `{"name": "a", "price": 1, "category": "x", "stockQuantity": 1, "imageUrl": "not a url"}`, http.StatusBadRequest},
		{"zero stock ok", `{"name": "a", "price": "0", "category": "x", "stockQuantity": 0}`, http.StatusCreated},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, raw := do(t, http.MethodPost, ts.URL+"/api/products", tc.body)
			if resp.StatusCode != tc.want {
				t.Fatalf("status=%d want=%d body=%s", resp.StatusCode, tc.want, raw)
			}
		})
	}
}

func TestCatalogHTTP_CORSPreflight(t *testing.T) {
	ts, _ := newCatalogTS(t)

	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/api/products", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow-origin=%q", got)
	}
}

func TestCatalogHTTP_Metrics(t *testing.T) {
	store := catalog.NewMemStore()
	if err := catalog.Seed(context.Background(), store); err != nil {
		t.Fatalf("seed: %v", err)
	}

	reg := prometheus.NewRegistry()
	h := catalog.NewHandler(&catalog.Server{Store: store}, catalog.HTTPDeps{
		Log:            zap.NewNop(),
		Service:        "catalog",
		Registry:       reg,
		MetricsEnabled: true,
		MetricsToken:   "tok",
	})
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	resp, _ := do(t, http.MethodGet, ts.URL+"/metrics", "")
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("unauthenticated metrics status=%d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/metrics", nil)
	req.Header.Set("Authorization", "Bearer tok")
	mresp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer mresp.Body.Close()

	body, _ := io.ReadAll(mresp.Body)
	if mresp.StatusCode != http.StatusOK {
		t.Fatalf("metrics status=%d", mresp.StatusCode)
	}
	if !bytes.Contains(body, []byte("catalog_products_active 8")) {
		t.Fatalf("missing gauge in:\n%s", body)
	}
}

func TestCatalogHTTP_PriceIsJSONNumber(t *testing.T) {
	ts, _ := newCatalogTS(t)

	resp, raw := do(t, http.MethodPost, ts.URL+"/api/products", `{
		"name": "Notebook",
		"price": 3.5,
		"category": "Office",
		"stockQuantity": 10
	}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", resp.StatusCode, raw)
	}
	if !bytes.Contains(raw, []byte(`"price":3.5`)) {
		t.Fatalf("price not a number in %s", raw)
	}
}

func TestCatalogHTTP_UpdateAcceptsFetchedProduct(t *testing.T) {
	ts, store := newCatalogTS(t)

	list, err := store.List(context.Background())
	if err != nil || len(list) == 0 {
		t.Fatalf("list: %v len=%d", err, len(list))
	}
	id := list[0].ID

	resp, raw := do(t, http.MethodGet, ts.URL+"/api/products/"+id, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status=%d", resp.StatusCode)
	}

	resp, body := do(t, http.MethodPut, ts.URL+"/api/products/"+id, string(raw))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("echo update status=%d body=%s", resp.StatusCode, body)
	}

	var fetched map[string]any
	if err := json.Unmarshal(raw, &fetched); err != nil {
		t.Fatalf("decode: %v", err)
	}
	fetched["name"] = "Renamed"
	fetched["active"] = false
	fetched["id"] = "someone-else"
	edited, _ := json.Marshal(fetched)

	resp, body = do(t, http.MethodPut, ts.URL+"/api/products/"+id, string(edited))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("edited update status=%d body=%s", resp.StatusCode, body)
	}

	resp, raw = do(t, http.MethodGet, ts.URL+"/api/products/"+id, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("product hidden after update with active=false, status=%d", resp.StatusCode)
	}
	var got catalog.Product
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != id || got.Name != "Renamed" || !got.Active {
		t.Fatalf("got=%+v", got)
	}

	resp, _ = do(t, http.MethodPost, ts.URL+"/api/products", string(edited))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("create must still reject read-only fields, status=%d", resp.StatusCode)
	}
}
