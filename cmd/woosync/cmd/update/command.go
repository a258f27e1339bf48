// Package update implements the bulk stock/price update flow: parse the
// source file, reconcile against the remote catalog, optionally apply the
// pending changes, and export the two-group report.
package update

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/woosuite/woosync/cmd/woosync/cmd/cmdutil"
	"github.com/woosuite/woosync/internal/apply"
	"github.com/woosuite/woosync/internal/reconcile"
	"github.com/woosuite/woosync/internal/report"
	"github.com/woosuite/woosync/internal/session"
	"github.com/woosuite/woosync/internal/source"
)

// NewCommand creates the update command.
func NewCommand() *cobra.Command {
	var (
		file       string
		applyFlag  bool
		reportPath string
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Reconcile a source file against the catalog and apply changes",
		Example: `  woosync update --file updates.xlsx
  woosync update --file updates.csv --apply --report result.xlsx`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, file, applyFlag && !dryRun, reportPath)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "source file with updates (.csv or .xlsx)")
	cmd.Flags().BoolVar(&applyFlag, "apply", false, "push pending changes to the store")
	cmd.Flags().StringVar(&reportPath, "report", "", "write the two-sheet report to this path")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "reconcile only, never touch the store")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func run(cmd *cobra.Command, file string, doApply bool, reportPath string) error {
	client, _, err := cmdutil.Client()
	if err != nil {
		return err
	}

	updates, err := source.New().Parse(file)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Source file: %d update rows\n", len(updates))

	sess := session.New()
	sink := cmdutil.ProgressSink()

	engine := reconcile.New(client, reconcile.WithProgress(sink))
	outcome := sess.RunSync(cmd.Context(), "reconcile", func(ctx context.Context) error {
		result, err := engine.Reconcile(ctx, updates)
		if err != nil {
			return err
		}
		sess.SetResult(result)
		return nil
	})
	if outcome.Canceled {
		return context.Canceled
	}
	if outcome.Err != nil {
		return outcome.Err
	}

	result := sess.Result()
	fmt.Fprintf(cmd.OutOrStdout(), "Reconciled: %d simple, %d variant/other, %d pending\n",
		len(result.Simple), len(result.Other), result.Pending())

	if doApply {
		applier := apply.New(client, apply.WithProgress(sink))
		var summary apply.Summary
		outcome = sess.RunSync(cmd.Context(), "apply", func(ctx context.Context) error {
			var err error
			summary, err = applier.Apply(ctx, result)
			return err
		})
		if outcome.Canceled {
			return context.Canceled
		}
		if outcome.Err != nil {
			return outcome.Err
		}
		// Per-record failures are part of the result, not a command failure.
		fmt.Fprintf(cmd.OutOrStdout(), "Applied: %d ok, %d failed, %d skipped\n",
			summary.Applied, summary.Failed, summary.Skipped)
	}

	if reportPath != "" {
		if err := report.New().Export(reportPath, result.Simple, result.Other); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", reportPath)
	}

	return nil
}
