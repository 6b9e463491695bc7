package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/sheetbridge/clientcli"
)

var (
	journalEndpoint string
	journalLimit    int
	journalAll      bool
	journalCursor   string
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "List fetches the server recorded",
	Long: `List fetches the server made against the spreadsheet, newest first.

NOTE: The server only exposes this when its journal is enabled.
      Otherwise this returns a 404 error.

Examples:
  sheetbridge-cli journal
  sheetbridge-cli journal --endpoint questions --limit 10
  sheetbridge-cli journal --all`,
	Args: cobra.NoArgs,
	RunE: runJournal,
}

func init() {
	journalCmd.Flags().StringVar(&journalEndpoint, "endpoint", "", "only fetches of this endpoint")
	journalCmd.Flags().IntVarP(&journalLimit, "limit", "l", 50, "max results per page (max: 500)")
	journalCmd.Flags().BoolVar(&journalAll, "all", false, "fetch all pages")
	journalCmd.Flags().StringVar(&journalCursor, "cursor", "", "pagination cursor")
}

func runJournal(cmd *cobra.Command, _ []string) error {
	client, err := getClient()
	if err != nil {
		return fail(err)
	}

	result, err := client.Journal(cmd.Context(), clientcli.JournalOptions{
		Endpoint: journalEndpoint,
		Limit:    journalLimit,
		Cursor:   journalCursor,
		All:      journalAll,
	})
	if err != nil {
		return fail(err)
	}

	return getFormatter().FormatJournal(os.Stdout, result)
}
