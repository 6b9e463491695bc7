package main

import (
	"os"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <endpoint>",
	Short: "Fetch an endpoint",
	Long: `Fetch an endpoint and print its items.

A bare name is looked up under /api/, so "get questions" reads
/api/questions. Pass a path starting with "/" for anything else.

Examples:
  sheetbridge-cli get codes
  sheetbridge-cli get /api/questions --json`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return fail(err)
	}

	result, err := client.Get(cmd.Context(), args[0])
	if err != nil {
		return fail(err)
	}

	return getFormatter().FormatGet(os.Stdout, result)
}
