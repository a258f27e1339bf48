// Package reconcile joins the remote catalog against a parsed update map
// by SKU and computes the per-record change state. It produces the two
// record collections the apply and export steps work from.
package reconcile

import (
	"context"
	"fmt"
	"math"

	"github.com/woosuite/woosync/internal/catalog"
	"github.com/woosuite/woosync/internal/woo"
	"github.com/woosuite/woosync/pkg/errors"
	"github.com/woosuite/woosync/pkg/logging"
	"github.com/woosuite/woosync/pkg/progress"
)

// Fetcher retrieves the flattened remote catalog. *woo.Client satisfies it.
type Fetcher interface {
	FetchProducts(ctx context.Context, opts woo.FetchOptions) ([]catalog.Record, error)
}

// Result holds the two reconciled collections: simple products, and
// everything else (variable parents, variations, unexpected kinds).
// Record order follows the server's listing order, so re-running the same
// reconciliation is reproducible down to the export.
type Result struct {
	Simple []*catalog.ReconciledRecord
	Other  []*catalog.ReconciledRecord
}

// Records returns both collections as one list, simple first.
func (r *Result) Records() []*catalog.ReconciledRecord {
	all := make([]*catalog.ReconciledRecord, 0, len(r.Simple)+len(r.Other))
	all = append(all, r.Simple...)
	all = append(all, r.Other...)
	return all
}

// Pending counts records with at least one proposed change.
func (r *Result) Pending() int {
	n := 0
	for _, rec := range r.Records() {
		if rec.Status == catalog.StatusPending {
			n++
		}
	}
	return n
}

// Engine reconciles the remote catalog with a source update map.
type Engine struct {
	fetcher Fetcher
	sink    progress.Sink
}

// Option configures an Engine.
type Option func(*Engine)

// WithProgress sets the sink reconciliation reports to.
func WithProgress(sink progress.Sink) Option {
	return func(e *Engine) {
		if sink != nil {
			e.sink = sink
		}
	}
}

// New creates an Engine around a catalog fetcher.
func New(fetcher Fetcher, opts ...Option) *Engine {
	e := &Engine{
		fetcher: fetcher,
		sink:    progress.Nop,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Reconcile fetches the full flattened catalog and joins every record
// against the update map by trimmed, case-sensitive SKU. A record with at
// least one matched change becomes pending; records of unexpected kinds
// are kept visible in the "other" collection with an annotation instead of
// being dropped. Progress is reported once per record; cancellation is
// checked between records and surfaces as ErrCanceled.
func (e *Engine) Reconcile(ctx context.Context, updates map[string]catalog.Update) (*Result, error) {
	e.sink.Report(0, "fetching catalog from store")

	records, err := e.fetcher.FetchProducts(ctx, woo.FetchOptions{IncludeVariations: true})
	if err != nil {
		return nil, err
	}

	result := &Result{}
	total := len(records)
	for i, rec := range records {
		if ctx.Err() != nil {
			return nil, errors.ErrCanceled
		}

		reconciled := &catalog.ReconciledRecord{Record: rec}

		if rec.SKU != "" {
			if update, ok := updates[rec.SKU]; ok {
				reconciled.NewStock = update.Stock
				reconciled.NewPrice = update.Price
			}
		}
		if rec.Kind == catalog.KindOther {
			reconciled.StatusDetail = fmt.Sprintf("unexpected kind: %s", rec.RawKind)
		}
		reconciled.RefreshStatus()

		if rec.Kind == catalog.KindSimple {
			result.Simple = append(result.Simple, reconciled)
		} else {
			result.Other = append(result.Other, reconciled)
		}

		e.sink.Report(percent(i+1, total), fmt.Sprintf("processing record %d of %d", i+1, total))
	}

	logging.Info().
		Int("simple", len(result.Simple)).
		Int("other", len(result.Other)).
		Int("pending", result.Pending()).
		Msg("reconciliation complete")
	return result, nil
}

// percent computes round(100 * i / total).
func percent(i, total int) int {
	if total < 1 {
		total = 1
	}
	return int(math.Round(100 * float64(i) / float64(total)))
}
