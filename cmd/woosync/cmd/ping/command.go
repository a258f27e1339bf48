// Package ping implements the connectivity check command.
package ping

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/woosuite/woosync/cmd/woosync/cmd/cmdutil"
)

// NewCommand creates the ping command.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Verify store credentials and connectivity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, settings, err := cmdutil.Client()
			if err != nil {
				return err
			}
			if err := client.Ping(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Store %s is reachable\n", settings.StoreURL)
			return nil
		},
	}
}
