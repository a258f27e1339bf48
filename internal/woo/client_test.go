package woo_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woosuite/woosync/internal/catalog"
	"github.com/woosuite/woosync/internal/config"
	"github.com/woosuite/woosync/internal/woo"
	"github.com/woosuite/woosync/pkg/errors"
)

const apiBase = "/wp-json/wc/v3"

func testSettings(url string, pageSize int) *config.Settings {
	return &config.Settings{
		Credentials: config.Credentials{
			StoreURL:       url,
			ConsumerKey:    "ck_test",
			ConsumerSecret: "cs_test",
		},
		PageSize:     pageSize,
		HTTPTimeout:  5 * time.Second,
		CostMetaKeys: config.DefaultCostMetaKeys,
	}
}

func newTestClient(t *testing.T, handler http.Handler, pageSize int) *woo.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := woo.New(testSettings(server.URL, pageSize))
	require.NoError(t, err)
	return client
}

// pageOf slices a product list the way the server would for one page request.
func pageOf(products []map[string]any, page, perPage int) []map[string]any {
	start := (page - 1) * perPage
	if start >= len(products) {
		return []map[string]any{}
	}
	end := start + perPage
	if end > len(products) {
		end = len(products)
	}
	return products[start:end]
}

func simpleProduct(id int, sku string) map[string]any {
	return map[string]any{
		"id": id, "sku": sku, "name": "Product " + sku, "type": "simple",
		"regular_price": "10.00", "stock_quantity": 5,
	}
}

func TestNewRequiresCredentials(t *testing.T) {
	settings := testSettings("https://shop.example", 100)
	settings.ConsumerSecret = "  "

	_, err := woo.New(settings)
	require.Error(t, err)
	assert.True(t, errors.IsCredentialsError(err))
	assert.Contains(t, err.Error(), "WC_SECRET")
}

func TestFetchProductsPagination(t *testing.T) {
	const perPage = 2
	products := []map[string]any{
		simpleProduct(1, "A1"), simpleProduct(2, "A2"), simpleProduct(3, "A3"),
		simpleProduct(4, "A4"), simpleProduct(5, "A5"),
	}

	calls := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, apiBase+"/products", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "ck_test", user)
		assert.Equal(t, "cs_test", pass)
		assert.Equal(t, strconv.Itoa(perPage), r.URL.Query().Get("per_page"))

		calls++
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		require.NoError(t, json.NewEncoder(w).Encode(pageOf(products, page, perPage)))
	})

	client := newTestClient(t, handler, perPage)
	records, err := client.FetchProducts(context.Background(), woo.FetchOptions{})
	require.NoError(t, err)

	// 2*per_page+1 records: exactly 3 fetch calls, every record once, in order.
	assert.Equal(t, 3, calls)
	require.Len(t, records, 5)
	for i, rec := range records {
		assert.Equal(t, fmt.Sprintf("A%d", i+1), rec.SKU)
		assert.Equal(t, catalog.KindSimple, rec.Kind)
	}
}

func TestFetchProductsFlattensVariations(t *testing.T) {
	parent := map[string]any{
		"id": 10, "sku": "P1", "name": "Shirt", "type": "variable",
		"categories": []map[string]any{{"id": 1, "name": "Clothing"}},
	}
	variation := map[string]any{
		"id": 11, "sku": "P1-M", "type": "variation", "regular_price": "20.00",
		"stock_quantity": 2,
		"attributes":     []map[string]any{{"name": "Size", "option": "M"}, {"name": "Color", "option": "Red"}},
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case apiBase + "/products":
			page := r.URL.Query().Get("page")
			if page == "1" {
				require.NoError(t, json.NewEncoder(w).Encode([]map[string]any{parent}))
			} else {
				require.NoError(t, json.NewEncoder(w).Encode([]map[string]any{}))
			}
		case apiBase + "/products/10/variations":
			page := r.URL.Query().Get("page")
			if page == "1" {
				require.NoError(t, json.NewEncoder(w).Encode([]map[string]any{variation}))
			} else {
				require.NoError(t, json.NewEncoder(w).Encode([]map[string]any{}))
			}
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	})

	client := newTestClient(t, handler, 1)
	records, err := client.FetchProducts(context.Background(), woo.FetchOptions{IncludeVariations: true})
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, catalog.KindVariable, records[0].Kind)

	v := records[1]
	assert.Equal(t, catalog.KindVariation, v.Kind)
	require.NotNil(t, v.ParentID)
	assert.Equal(t, int64(10), *v.ParentID)
	assert.Equal(t, "Shirt (Size: M | Color: Red)", v.Name)
	assert.Equal(t, "Clothing", v.Category)
}

func TestFetchProductsWithoutVariationsSkipsSubEndpoint(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, apiBase+"/products", r.URL.Path)
		require.NoError(t, json.NewEncoder(w).Encode([]map[string]any{
			{"id": 10, "sku": "P1", "name": "Shirt", "type": "variable"},
		}))
	})

	client := newTestClient(t, handler, 100)
	records, err := client.FetchProducts(context.Background(), woo.FetchOptions{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, catalog.KindVariable, records[0].Kind)
}

func TestPurchaseCostPriority(t *testing.T) {
	product := map[string]any{
		"id": 1, "sku": "A1", "name": "Widget", "type": "simple",
		"meta_data": []map[string]any{
			{"key": "_purchase_price", "value": "0"},   // not positive, skipped
			{"key": "_wc_cog_cost", "value": "4.25"},   // first positive wins
			{"key": "purchase_price", "value": "9.99"}, // lower priority
		},
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode([]map[string]any{product}))
	})

	client := newTestClient(t, handler, 100)
	records, err := client.FetchProducts(context.Background(), woo.FetchOptions{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "4.25", records[0].Cost.String())
}

func TestUpdateProductMinimalPayload(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		gotPath = r.URL.Path
		gotBody = nil
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		fmt.Fprint(w, `{"id": 7}`)
	})

	client := newTestClient(t, handler, 100)

	t.Run("stock only", func(t *testing.T) {
		stock := 8
		require.NoError(t, client.UpdateProduct(context.Background(), 7, &stock, nil))
		assert.Equal(t, apiBase+"/products/7", gotPath)
		assert.Equal(t, map[string]any{"manage_stock": true, "stock_quantity": float64(8)}, gotBody)
	})

	t.Run("price only rounds half-up on the wire", func(t *testing.T) {
		price := decimal.RequireFromString("1.7391")
		require.NoError(t, client.UpdateProduct(context.Background(), 7, nil, &price))
		assert.Equal(t, map[string]any{"regular_price": "1.74"}, gotBody)
	})
}

func TestUpdateVariationPath(t *testing.T) {
	var gotPath string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, `{"id": 11}`)
	})

	client := newTestClient(t, handler, 100)
	stock := 3
	require.NoError(t, client.UpdateVariation(context.Background(), 10, 11, &stock, nil))
	assert.Equal(t, apiBase+"/products/10/variations/11", gotPath)
}

func TestUpdateWithoutFieldsIsNoop(t *testing.T) {
	calls := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		fmt.Fprint(w, `{}`)
	})

	client := newTestClient(t, handler, 100)
	require.NoError(t, client.UpdateProduct(context.Background(), 7, nil, nil))
	require.NoError(t, client.UpdateVariation(context.Background(), 10, 11, nil, nil))
	assert.Zero(t, calls)
}

func TestTransportErrorCarriesStoreMessage(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"code":"woocommerce_rest_product_invalid_id","message":"Invalid ID."}`)
	})

	client := newTestClient(t, handler, 100)
	stock := 1
	err := client.UpdateProduct(context.Background(), 999, &stock, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid ID.")
	assert.Contains(t, err.Error(), "404")
}

func TestTransportErrorTruncatesRawBody(t *testing.T) {
	long := make([]byte, 1000)
	for i := range long {
		long[i] = 'x'
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write(long)
	})

	client := newTestClient(t, handler, 100)
	_, err := client.FetchProducts(context.Background(), woo.FetchOptions{})
	require.Error(t, err)
	assert.Less(t, len(err.Error()), 500)
	assert.True(t, errors.IsStoreUnavailable(err))
}

func TestFetchProductsStockFilter(t *testing.T) {
	products := []map[string]any{
		{"id": 1, "sku": "IN", "type": "simple", "stock_quantity": 5},
		{"id": 2, "sku": "OUT", "type": "simple", "stock_quantity": 0},
	}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(products))
	})

	client := newTestClient(t, handler, 100)
	records, err := client.FetchProducts(context.Background(), woo.FetchOptions{Stock: woo.StockOut})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "OUT", records[0].SKU)
}

func TestCanceledContextSurfacesAsCanceled(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	client := newTestClient(t, handler, 100)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchProducts(ctx, woo.FetchOptions{})
	require.Error(t, err)
	assert.True(t, errors.IsCanceled(err))
}
