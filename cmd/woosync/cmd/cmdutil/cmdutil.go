// Package cmdutil holds the small helpers shared by the woosync commands.
package cmdutil

import (
	"github.com/spf13/viper"

	"github.com/woosuite/woosync/internal/config"
	"github.com/woosuite/woosync/internal/woo"
	"github.com/woosuite/woosync/pkg/logging"
	"github.com/woosuite/woosync/pkg/progress"
)

// Settings materializes runtime settings from the global Viper instance.
func Settings() (*config.Settings, error) {
	return config.Load(viper.GetViper())
}

// Client builds a store client from the current settings. Credential
// problems surface here, before any network call.
func Client() (*woo.Client, *config.Settings, error) {
	settings, err := Settings()
	if err != nil {
		return nil, nil, err
	}
	client, err := woo.New(settings)
	if err != nil {
		return nil, nil, err
	}
	return client, settings, nil
}

// ProgressSink returns the sink CLI operations report progress to.
func ProgressSink() progress.Sink {
	return &progress.LogSink{Logger: logging.Default()}
}
