// Package main provides the entry point for the woosync CLI tool.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/woosuite/woosync/cmd/woosync/cmd"
	"github.com/woosuite/woosync/pkg/errors"
	"github.com/woosuite/woosync/pkg/logging"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	root := cmd.NewRootCommand(version, commit, date)
	if err := root.ExecuteContext(ctx); err != nil {
		if errors.IsCanceled(err) {
			// Cancellation is silent: no error output, conventional exit code.
			os.Exit(130)
		}
		logging.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
