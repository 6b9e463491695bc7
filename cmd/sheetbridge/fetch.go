package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sagarc03/sheetbridge"
	"github.com/sagarc03/sheetbridge/config"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <endpoint>",
	Short: "Fetch one endpoint and print its JSON",
	Long: `Read the endpoint's range from the spreadsheet and print the same JSON
body the server would return for it.`,
	Example: `  sheetbridge fetch questions
  sheetbridge fetch codes --pretty`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().Bool("pretty", false, "indent the JSON output")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}

	ep, err := cfg.Endpoint(args[0])
	if err != nil {
		return err
	}

	service, cleanup, err := newService(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	var body any
	if ep.ShapeOrDefault() == sheetbridge.ShapeValues {
		values, fetchErr := service.Values(ctx, ep)
		if fetchErr != nil {
			return fmt.Errorf("%s: %w", ep.FailureMessage(), fetchErr)
		}
		body = map[string][]*string{ep.EnvelopeKey(): values}
	} else {
		records, fetchErr := service.Fetch(ctx, ep)
		if fetchErr != nil {
			return fmt.Errorf("%s: %w", ep.FailureMessage(), fetchErr)
		}
		body = map[string]sheetbridge.RecordSet{ep.EnvelopeKey(): records}
	}

	pretty, _ := cmd.Flags().GetBool("pretty")

	enc := json.NewEncoder(cmd.OutOrStdout())
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(body)
}
