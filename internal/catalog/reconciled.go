package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/woosuite/woosync/pkg/errors"
)

// Status is the state of a reconciled record. Records start as pending or
// no-change after reconciliation and reach exactly one terminal status
// during apply.
type Status string

// Reconciliation states and apply outcomes.
const (
	StatusPending  Status = "pending"
	StatusNoChange Status = "no change"

	StatusApplied        Status = "applied"
	StatusFailed         Status = "failed"
	StatusFailedNoID     Status = "failed: no id"
	StatusFailedNoParent Status = "failed: no parent id"
	StatusNotEditable    Status = "skipped: not directly editable"
)

// Terminal reports whether the status is an apply outcome rather than a
// reconciliation state.
func (s Status) Terminal() bool {
	switch s {
	case StatusApplied, StatusFailed, StatusFailedNoID, StatusFailedNoParent, StatusNotEditable:
		return true
	}
	return false
}

// ReconciledRecord is a catalog Record joined with its matching Update, if
// any. The whole set is replaced on the next ingestion pass.
type ReconciledRecord struct {
	Record

	NewStock *int
	NewPrice *decimal.Decimal

	Status Status

	// StatusDetail carries extra context for display: the truncated apply
	// failure reason, or the raw kind label for unexpected kinds.
	StatusDetail string
}

// HasChanges reports whether at least one proposed change is present.
func (r *ReconciledRecord) HasChanges() bool {
	return r.NewStock != nil || r.NewPrice != nil
}

// RefreshStatus recomputes the pending/no-change state from the proposed
// changes. Terminal apply outcomes are left alone; re-reconciling a record
// requires a fresh ingestion pass.
func (r *ReconciledRecord) RefreshStatus() {
	if r.Status.Terminal() {
		return
	}
	if r.HasChanges() {
		r.Status = StatusPending
		return
	}
	r.Status = StatusNoChange
}

// SetNewStock sets or clears the proposed stock quantity. This is the only
// mutation the presentation layer may perform on stock. Negative values
// are rejected.
func (r *ReconciledRecord) SetNewStock(v *int) error {
	if v != nil && *v < 0 {
		return errors.NewValidationError("new_stock", *v, "stock quantity cannot be negative")
	}
	r.NewStock = v
	r.RefreshStatus()
	return nil
}

// SetNewPrice sets or clears the proposed sale price. Negative values are
// rejected.
func (r *ReconciledRecord) SetNewPrice(v *decimal.Decimal) error {
	if v != nil && v.IsNegative() {
		return errors.NewValidationError("new_price", v.String(), "sale price cannot be negative")
	}
	r.NewPrice = v
	r.RefreshStatus()
	return nil
}

// StatusLabel renders the status for tables and export, including the
// detail suffix when present.
func (r *ReconciledRecord) StatusLabel() string {
	if r.StatusDetail == "" {
		return string(r.Status)
	}
	if r.Status == StatusFailed {
		return fmt.Sprintf("%s: %s", r.Status, r.StatusDetail)
	}
	if !r.Status.Terminal() {
		// unknown-kind annotation takes over until an apply outcome lands
		return r.StatusDetail
	}
	return string(r.Status)
}
