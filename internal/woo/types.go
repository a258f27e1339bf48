package woo

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/woosuite/woosync/internal/catalog"
	"github.com/woosuite/woosync/pkg/money"
)

// Wire types for the store's REST API. Only the fields the sync engine
// reads are mapped; everything else in the payload is ignored.

// Category is a product category reference.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Attribute is a variation attribute assignment.
type Attribute struct {
	Name   string `json:"name"`
	Option string `json:"option"`
}

// Meta is one entry of a product's metadata list. Values arrive as
// strings or numbers depending on the plugin that wrote them.
type Meta struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// Product is a product or variation object as returned by the listing
// endpoints. Variations share the shape minus a few fields.
type Product struct {
	ID            int64       `json:"id"`
	ParentID      int64       `json:"parent_id"`
	Name          string      `json:"name"`
	SKU           string      `json:"sku"`
	Type          string      `json:"type"`
	Price         string      `json:"price"`
	RegularPrice  string      `json:"regular_price"`
	StockQuantity *float64    `json:"stock_quantity"`
	Categories    []Category  `json:"categories"`
	Attributes    []Attribute `json:"attributes"`
	MetaData      []Meta      `json:"meta_data"`
}

// Order is an order object from the orders endpoint, mapped to the fields
// the sales summary needs.
type Order struct {
	ID          int64  `json:"id"`
	Status      string `json:"status"`
	Total       string `json:"total"`
	Currency    string `json:"currency"`
	DateCreated string `json:"date_created"`
}

// apiError is the structured error body the store returns on failures.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// categoryLabel joins category names the way the store displays them.
func categoryLabel(cats []Category) string {
	names := make([]string, 0, len(cats))
	for _, c := range cats {
		if c.Name != "" {
			names = append(names, c.Name)
		}
	}
	return strings.Join(names, ", ")
}

// attributeLabel renders variation attributes as "Size: M | Color: Red".
func attributeLabel(attrs []Attribute) string {
	parts := make([]string, 0, len(attrs))
	for _, a := range attrs {
		if a.Name != "" && a.Option != "" {
			parts = append(parts, a.Name+": "+a.Option)
		}
	}
	return strings.Join(parts, " | ")
}

// metaValue returns the string form of the first metadata entry with the
// given key, or "" when absent.
func metaValue(meta []Meta, key string) string {
	for _, m := range meta {
		if m.Key != key || m.Value == nil {
			continue
		}
		switch v := m.Value.(type) {
		case string:
			return v
		case float64:
			return decimal.NewFromFloat(v).String()
		default:
			return ""
		}
	}
	return ""
}

// purchaseCost resolves the purchase cost from product metadata using the
// configured key priority: the first key holding a positive value wins.
func purchaseCost(meta []Meta, costKeys []string) decimal.Decimal {
	for _, key := range costKeys {
		raw := metaValue(meta, key)
		if raw == "" {
			continue
		}
		d, ok := money.Parse(raw)
		if ok && d != nil && d.IsPositive() {
			return *d
		}
	}
	return decimal.Zero
}

// lenientDecimal parses a wire price string, treating blanks and garbage
// as zero. Listing payloads routinely carry "" for unpriced products.
func lenientDecimal(s string) decimal.Decimal {
	d, ok := money.Parse(s)
	if !ok || d == nil {
		return decimal.Zero
	}
	return *d
}

// stockCount converts the nullable wire stock quantity to an int.
func stockCount(q *float64) int {
	if q == nil {
		return 0
	}
	return int(*q)
}

// toRecord converts a wire product to a catalog record.
func toRecord(p Product, costKeys []string) catalog.Record {
	price := p.RegularPrice
	if strings.TrimSpace(price) == "" {
		price = p.Price
	}
	return catalog.Record{
		ID:       p.ID,
		SKU:      strings.TrimSpace(p.SKU),
		Name:     p.Name,
		Category: categoryLabel(p.Categories),
		Stock:    stockCount(p.StockQuantity),
		Price:    lenientDecimal(price),
		Cost:     purchaseCost(p.MetaData, costKeys),
		Kind:     catalog.ParseKind(p.Type),
		RawKind:  p.Type,
	}
}

// toVariationRecord converts a wire variation to a catalog record carrying
// the parent's identifier and category. When the variation has no name of
// its own, one is synthesized from the parent name and the attribute set.
func toVariationRecord(v Product, parent Product, costKeys []string) catalog.Record {
	rec := toRecord(v, costKeys)
	parentID := parent.ID
	rec.ParentID = &parentID
	rec.Kind = catalog.KindVariation
	rec.RawKind = "variation"
	rec.Category = categoryLabel(parent.Categories)
	if rec.Name == "" {
		if detail := attributeLabel(v.Attributes); detail != "" {
			rec.Name = parent.Name + " (" + detail + ")"
		} else {
			rec.Name = parent.Name
		}
	}
	return rec
}
