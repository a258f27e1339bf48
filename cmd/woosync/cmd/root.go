// Package cmd assembles the woosync command tree.
package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/woosuite/woosync/cmd/woosync/cmd/fetch"
	"github.com/woosuite/woosync/cmd/woosync/cmd/orders"
	"github.com/woosuite/woosync/cmd/woosync/cmd/ping"
	"github.com/woosuite/woosync/cmd/woosync/cmd/update"
	"github.com/woosuite/woosync/cmd/woosync/cmd/version"
	"github.com/woosuite/woosync/internal/config"
	"github.com/woosuite/woosync/pkg/errors"
	"github.com/woosuite/woosync/pkg/logging"
)

// NewRootCommand creates the root command with all subcommands attached.
func NewRootCommand(ver, commit, date string) *cobra.Command {
	var envFile string
	var verbose bool
	var logFormat string

	root := &cobra.Command{
		Use:   "woosync",
		Short: "Bulk stock and price synchronization for a WooCommerce catalog",
		Long: `woosync reconciles a spreadsheet of stock and price updates against a
remote WooCommerce catalog, applies the changed fields back to the store
one record at a time, and exports a reviewable report.

Credentials come from flags, the WC_URL / WC_KEY / WC_SECRET environment
variables, or a .env file in the working directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadEnvFile(envFile); err != nil {
				return err
			}
			switch logFormat {
			case "":
			case "json":
				logging.SetDefault(logging.NewJSON(os.Stderr))
			case "console":
				logging.SetDefault(logging.NewConsole())
			default:
				return errors.NewConfigError("log-format", "must be console or json", nil)
			}
			if verbose {
				logging.SetLevel(zerolog.DebugLevel)
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.String("store-url", "", "store base URL (env WC_URL)")
	flags.String("key", "", "consumer key (env WC_KEY)")
	flags.String("secret", "", "consumer secret (env WC_SECRET)")
	flags.Int("page-size", 100, "page size for catalog listing requests")
	flags.StringVar(&envFile, "env-file", "", "path to a .env file (default .env)")
	flags.StringVar(&logFormat, "log-format", "", "log output format: console or json")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	config.SetDefaults(viper.GetViper())
	_ = viper.BindPFlag(config.KeyStoreURL, flags.Lookup("store-url"))
	_ = viper.BindPFlag(config.KeyConsumerKey, flags.Lookup("key"))
	_ = viper.BindPFlag(config.KeyConsumerSecret, flags.Lookup("secret"))
	_ = viper.BindPFlag(config.KeyPageSize, flags.Lookup("page-size"))

	root.AddCommand(
		update.NewCommand(),
		fetch.NewCommand(),
		orders.NewCommand(),
		ping.NewCommand(),
		version.NewCommand(ver, commit, date),
	)

	return root
}
