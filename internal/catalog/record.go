// Package catalog defines the domain types for the remote product catalog:
// records fetched from the store, update requests parsed from a source
// file, and the reconciled records produced by joining the two.
package catalog

import (
	"github.com/shopspring/decimal"
)

// Kind classifies a catalog record. It is a closed set: anything the store
// reports outside the known kinds maps to KindOther and stays visible with
// its raw label, rather than being silently dropped.
type Kind string

// Record kinds.
const (
	KindSimple    Kind = "simple"
	KindVariable  Kind = "variable"
	KindVariation Kind = "variation"
	KindOther     Kind = "other"
)

// ParseKind maps a wire-level product type to a Kind. Unknown labels map
// to KindOther; callers keep the raw label for status annotations.
func ParseKind(s string) Kind {
	switch s {
	case "simple":
		return KindSimple
	case "variable":
		return KindVariable
	case "variation":
		return KindVariation
	default:
		return KindOther
	}
}

// String implements fmt.Stringer.
func (k Kind) String() string { return string(k) }

// Record is one remote product or one variation of a variable product.
// Records are rebuilt from scratch on every ingestion pass and never
// persisted.
type Record struct {
	ID       int64
	ParentID *int64 // set only for variations
	SKU      string
	Name     string
	Category string
	Stock    int
	Price    decimal.Decimal // current sale price
	Cost     decimal.Decimal // purchase cost resolved from store metadata
	Kind     Kind
	RawKind  string // wire label, kept for unknown-kind annotations
}

// Update is one row parsed from the source file, keyed by SKU. A nil field
// means "leave unchanged" and must never be coerced to zero downstream;
// only an explicitly present value may overwrite the record's field.
type Update struct {
	Stock *int
	Price *decimal.Decimal
}

// Empty reports whether the update carries no changes at all.
func (u Update) Empty() bool {
	return u.Stock == nil && u.Price == nil
}
