package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sagarc03/sheetbridge/config"
)

// loadConfig resolves defaults, config files, environment and the flags set
// on cmd into a validated Config.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	files, err := cmd.Flags().GetStringSlice("config")
	if err != nil {
		return nil, fmt.Errorf("read --config: %w", err)
	}

	cfg, err := config.Load(files, cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
