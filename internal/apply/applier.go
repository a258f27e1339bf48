// Package apply walks the pending reconciled records and pushes their
// changes to the remote store one record at a time. Failures are isolated:
// every record gets exactly one terminal status and no record's failure
// stops its siblings.
package apply

import (
	"context"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/woosuite/woosync/internal/catalog"
	"github.com/woosuite/woosync/internal/reconcile"
	"github.com/woosuite/woosync/pkg/errors"
	"github.com/woosuite/woosync/pkg/logging"
	"github.com/woosuite/woosync/pkg/progress"
)

// maxReasonLen bounds the failure reason attached to a record.
const maxReasonLen = 60

// Updater sends single-record updates to the store. *woo.Client satisfies it.
type Updater interface {
	UpdateProduct(ctx context.Context, id int64, stock *int, price *decimal.Decimal) error
	UpdateVariation(ctx context.Context, parentID, id int64, stock *int, price *decimal.Decimal) error
}

// Summary reports the outcome counts of one apply pass.
type Summary struct {
	Applied int
	Failed  int
	Skipped int
}

// Applier applies pending reconciled records to the store.
type Applier struct {
	updater Updater
	sink    progress.Sink
}

// Option configures an Applier.
type Option func(*Applier)

// WithProgress sets the sink apply reports to.
func WithProgress(sink progress.Sink) Option {
	return func(a *Applier) {
		if sink != nil {
			a.sink = sink
		}
	}
}

// New creates an Applier around a record updater.
func New(updater Updater, opts ...Option) *Applier {
	a := &Applier{
		updater: updater,
		sink:    progress.Nop,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Apply mutates the status of every pending record in place. The work list
// holds only pending records, simple products first, in list order; no-change
// rows never enter it, so re-running apply on an already-applied set performs
// zero requests. Cancellation is checked between records and never leaves a
// record half-classified.
func (a *Applier) Apply(ctx context.Context, result *reconcile.Result) (Summary, error) {
	var summary Summary

	var work []*catalog.ReconciledRecord
	for _, rec := range result.Records() {
		if rec.Status == catalog.StatusPending {
			work = append(work, rec)
		}
	}

	total := len(work)
	if total == 0 {
		logging.Info().Msg("nothing to apply")
		return summary, nil
	}

	for i, rec := range work {
		if ctx.Err() != nil {
			return summary, errors.ErrCanceled
		}

		if err := a.applyOne(ctx, rec); err != nil {
			// A canceled request is the operation being torn down, not a
			// record-level failure.
			if errors.IsCanceled(err) {
				return summary, errors.ErrCanceled
			}
			rec.Status = catalog.StatusFailed
			rec.StatusDetail = truncate(err.Error(), maxReasonLen)
			logging.Warn().
				Str("sku", rec.SKU).
				Int64("id", rec.ID).
				Err(err).
				Msg("record update failed")
		}

		switch rec.Status {
		case catalog.StatusApplied:
			summary.Applied++
		case catalog.StatusFailed, catalog.StatusFailedNoID, catalog.StatusFailedNoParent:
			summary.Failed++
		default:
			summary.Skipped++
		}

		a.sink.Report(percent(i+1, total), fmt.Sprintf("applying change %d of %d", i+1, total))
	}

	logging.Info().
		Int("applied", summary.Applied).
		Int("failed", summary.Failed).
		Int("skipped", summary.Skipped).
		Msg("apply pass complete")
	return summary, nil
}

// applyOne classifies and updates a single record. It sets a terminal
// status for every path except a transport failure, which the caller
// records so the reason can be truncated consistently.
func (a *Applier) applyOne(ctx context.Context, rec *catalog.ReconciledRecord) error {
	if rec.ID == 0 {
		rec.Status = catalog.StatusFailedNoID
		return nil
	}

	switch rec.Kind {
	case catalog.KindVariation:
		if rec.ParentID == nil {
			rec.Status = catalog.StatusFailedNoParent
			return nil
		}
		if err := a.updater.UpdateVariation(ctx, *rec.ParentID, rec.ID, rec.NewStock, rec.NewPrice); err != nil {
			return err
		}
		rec.Status = catalog.StatusApplied
		return nil

	case catalog.KindSimple:
		if err := a.updater.UpdateProduct(ctx, rec.ID, rec.NewStock, rec.NewPrice); err != nil {
			return err
		}
		rec.Status = catalog.StatusApplied
		return nil

	case catalog.KindVariable, catalog.KindOther:
		rec.Status = catalog.StatusNotEditable
		rec.StatusDetail = fmt.Sprintf("not directly editable (%s)", rec.RawKind)
		return nil
	}

	rec.Status = catalog.StatusNotEditable
	rec.StatusDetail = fmt.Sprintf("not directly editable (%s)", rec.RawKind)
	return nil
}

// truncate shortens a reason to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// percent computes round(100 * i / total).
func percent(i, total int) int {
	if total < 1 {
		total = 1
	}
	return int(math.Round(100 * float64(i) / float64(total)))
}
