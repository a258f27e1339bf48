// Package woo is the client for the remote store's REST catalog API.
// It pages through listing endpoints, flattens variable products into
// their variations, and sends minimal per-record update payloads.
package woo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/woosuite/woosync/internal/catalog"
	"github.com/woosuite/woosync/internal/config"
	"github.com/woosuite/woosync/pkg/errors"
	"github.com/woosuite/woosync/pkg/logging"
	"github.com/woosuite/woosync/pkg/money"
)

// apiPrefix is the REST namespace under the store URL.
const apiPrefix = "/wp-json/wc/v3"

// maxErrorBody bounds how much of an unstructured error response is kept.
const maxErrorBody = 300

// StockFilter narrows a product listing by current stock level.
type StockFilter string

// Stock filters for product listings.
const (
	StockAll StockFilter = "all"
	StockIn  StockFilter = "in-stock"
	StockOut StockFilter = "out-of-stock"
)

// FetchOptions controls a catalog listing pass.
type FetchOptions struct {
	// IncludeVariations flattens variable products into their variations.
	IncludeVariations bool

	// Stock filters the listing after fetch; zero value keeps everything.
	Stock StockFilter
}

// Client talks to one store. It is safe for sequential reuse across
// fetch, apply, and ping calls; all methods honor context cancellation.
type Client struct {
	http     *http.Client
	baseURL  string
	key      string
	secret   string
	pageSize int
	costKeys []string
}

// New creates a store client from settings. Missing or blank credentials
// fail here, before any request is attempted.
func New(s *config.Settings) (*Client, error) {
	if err := s.Credentials.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		http:     &http.Client{Timeout: s.HTTPTimeout},
		baseURL:  strings.TrimRight(strings.TrimSpace(s.StoreURL), "/") + apiPrefix,
		key:      s.ConsumerKey,
		secret:   s.ConsumerSecret,
		pageSize: s.PageSize,
		costKeys: s.CostMetaKeys,
	}, nil
}

// do performs one request against the store and returns the response body.
// Non-2xx responses become TransportErrors with the store's message when
// the body is structured, or the raw body truncated otherwise.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, errors.WrapTransport(method, path, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, errors.WrapTransport(method, path, err)
	}
	req.SetBasicAuth(c.key, c.secret)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.ErrCanceled
		}
		return nil, errors.WrapTransport(method, path, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logging.Warn().Err(cerr).Msg("failed to close response body")
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapTransport(method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.NewTransportError(method, path, resp.StatusCode, errorMessage(raw))
	}
	return raw, nil
}

// errorMessage extracts the human-readable message from an error body.
func errorMessage(raw []byte) string {
	var e apiError
	if err := json.Unmarshal(raw, &e); err == nil && e.Message != "" {
		return e.Message
	}
	msg := strings.TrimSpace(string(raw))
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody]
	}
	return msg
}

// page fetches one listing page and decodes it into target.
func (c *Client) page(ctx context.Context, path string, params url.Values, pageNum int, target any) error {
	query := url.Values{}
	for k, vs := range params {
		for _, v := range vs {
			query.Add(k, v)
		}
	}
	query.Set("per_page", strconv.Itoa(c.pageSize))
	query.Set("page", strconv.Itoa(pageNum))

	raw, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return errors.WrapTransport(http.MethodGet, path, err)
	}
	return nil
}

// listProducts pages through a product-shaped listing endpoint until a
// page returns fewer records than the page size.
func (c *Client) listProducts(ctx context.Context, path string, params url.Values) ([]Product, error) {
	var all []Product
	for pageNum := 1; ; pageNum++ {
		var batch []Product
		if err := c.page(ctx, path, params, pageNum, &batch); err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < c.pageSize {
			return all, nil
		}
	}
}

// Ping verifies credentials and connectivity with a cheap status request.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/system_status", nil, nil)
	return err
}

// FetchProducts retrieves the full product catalog. With IncludeVariations
// set, every variable product is followed by its variations, flattened in
// server order, each stamped with the parent identifier and a synthesized
// display name when the variation has none of its own.
func (c *Client) FetchProducts(ctx context.Context, opts FetchOptions) ([]catalog.Record, error) {
	products, err := c.listProducts(ctx, "/products", nil)
	if err != nil {
		return nil, err
	}
	products = filterByStock(products, opts.Stock)

	records := make([]catalog.Record, 0, len(products))
	for _, p := range products {
		records = append(records, toRecord(p, c.costKeys))

		if !opts.IncludeVariations || catalog.ParseKind(p.Type) != catalog.KindVariable || p.ID == 0 {
			continue
		}
		variations, err := c.listProducts(ctx, variationsPath(p.ID), nil)
		if err != nil {
			return nil, err
		}
		for _, v := range variations {
			records = append(records, toVariationRecord(v, p, c.costKeys))
		}
	}
	logging.Debug().Int("records", len(records)).Msg("catalog fetch complete")
	return records, nil
}

// FetchVariations retrieves the variations of one variable product, in
// server order, as variation records carrying the parent identifier.
func (c *Client) FetchVariations(ctx context.Context, parentID int64) ([]catalog.Record, error) {
	variations, err := c.listProducts(ctx, variationsPath(parentID), nil)
	if err != nil {
		return nil, err
	}
	records := make([]catalog.Record, 0, len(variations))
	for _, v := range variations {
		rec := toRecord(v, c.costKeys)
		pid := parentID
		rec.ParentID = &pid
		rec.Kind = catalog.KindVariation
		rec.RawKind = "variation"
		records = append(records, rec)
	}
	return records, nil
}

// FetchOrders retrieves orders, optionally bounded by inclusive dates in
// YYYY-MM-DD form. Same pagination contract as products.
func (c *Client) FetchOrders(ctx context.Context, from, to string) ([]Order, error) {
	params := url.Values{}
	if from != "" {
		params.Set("after", from+"T00:00:00")
	}
	if to != "" {
		params.Set("before", to+"T23:59:59")
	}

	var all []Order
	for pageNum := 1; ; pageNum++ {
		var batch []Order
		if err := c.page(ctx, "/orders", params, pageNum, &batch); err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < c.pageSize {
			return all, nil
		}
	}
}

// UpdateProduct sends the changed fields of a simple product. Supplying
// neither stock nor price is a no-op success without a request, so retries
// with the same explicit fields stay idempotent.
func (c *Client) UpdateProduct(ctx context.Context, id int64, stock *int, price *decimal.Decimal) error {
	payload := updatePayload(stock, price)
	if len(payload) == 0 {
		return nil
	}
	_, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/products/%d", id), nil, payload)
	return err
}

// UpdateVariation sends the changed fields of one variation, addressed by
// its parent and its own identifier.
func (c *Client) UpdateVariation(ctx context.Context, parentID, id int64, stock *int, price *decimal.Decimal) error {
	payload := updatePayload(stock, price)
	if len(payload) == 0 {
		return nil
	}
	_, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/products/%d/variations/%d", parentID, id), nil, payload)
	return err
}

// updatePayload builds the minimal update body: only the fields explicitly
// being changed are included. Price goes out as a two-decimal half-up
// string to avoid floating point drift on the wire.
func updatePayload(stock *int, price *decimal.Decimal) map[string]any {
	payload := map[string]any{}
	if stock != nil {
		payload["manage_stock"] = true
		payload["stock_quantity"] = *stock
	}
	if price != nil {
		payload["regular_price"] = money.Wire(*price)
	}
	return payload
}

// variationsPath is the per-parent variations listing endpoint.
func variationsPath(parentID int64) string {
	return fmt.Sprintf("/products/%d/variations", parentID)
}

// filterByStock narrows a listing by current stock level.
func filterByStock(products []Product, filter StockFilter) []Product {
	if filter == "" || filter == StockAll {
		return products
	}
	filtered := make([]Product, 0, len(products))
	for _, p := range products {
		stock := stockCount(p.StockQuantity)
		switch {
		case filter == StockIn && stock > 0:
			filtered = append(filtered, p)
		case filter == StockOut && stock <= 0:
			filtered = append(filtered, p)
		}
	}
	return filtered
}
