package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/sheetbridge/config"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "sheetbridge",
	Short:   "Serve Google Sheets ranges as JSON",
	Long: `Sheetbridge reads fixed ranges of a Google spreadsheet with a
service account and serves each range as a small JSON API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		setupLogging(cfg.Log)
		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringSlice("config", nil, "config file path, repeatable (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("sheet-id", "", "spreadsheet id (env: SHEET_ID)")
	rootCmd.PersistentFlags().String("credentials", "", "service account key file (env: SHEETBRIDGE_CREDENTIALS_FILE)")
	rootCmd.PersistentFlags().Bool("journal", false, "record fetches in the journal database")
	rootCmd.PersistentFlags().String("db-type", "", "journal database type: sqlite, postgres (default: sqlite)")
	rootCmd.PersistentFlags().String("db-dsn", "", "journal connection string (default: sheetbridge.db)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (default: info)")
	rootCmd.PersistentFlags().String("log-format", "", "log format: text, json (default: text)")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
