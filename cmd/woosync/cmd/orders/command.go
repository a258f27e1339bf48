// Package orders implements a minimal sales summary over the store's
// orders endpoint.
package orders

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/woosuite/woosync/cmd/woosync/cmd/cmdutil"
	"github.com/woosuite/woosync/pkg/money"
)

// NewCommand creates the orders command.
func NewCommand() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:     "orders",
		Short:   "Summarize orders in a date range",
		Example: `  woosync orders --from 2026-08-01 --to 2026-08-31`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _, err := cmdutil.Client()
			if err != nil {
				return err
			}

			list, err := client.FetchOrders(cmd.Context(), from, to)
			if err != nil {
				return err
			}

			total := decimal.Zero
			byStatus := map[string]int{}
			for _, o := range list {
				byStatus[o.Status]++
				if d, ok := money.Parse(o.Total); ok && d != nil {
					total = total.Add(*d)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Orders: %d, total %s\n", len(list), money.Display(total))
			for status, n := range byStatus {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s: %d\n", status, n)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "start date, inclusive (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "end date, inclusive (YYYY-MM-DD)")

	return cmd
}
