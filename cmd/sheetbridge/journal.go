package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sagarc03/sheetbridge"
	"github.com/sagarc03/sheetbridge/config"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Manage the fetch journal",
}

var journalMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the journal table",
	Long:  `Create the journal table and indexes if they do not exist, then check the schema.`,
	Args:  cobra.NoArgs,
	RunE:  runJournalMigrate,
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded fetches, newest first",
	Example: `  sheetbridge journal list --endpoint questions --limit 20
  sheetbridge journal list --cursor <next_cursor>`,
	Args: cobra.NoArgs,
	RunE: runJournalList,
}

func init() {
	journalListCmd.Flags().String("endpoint", "", "only fetches of this endpoint")
	journalListCmd.Flags().Int("limit", 20, "maximum entries to return")
	journalListCmd.Flags().String("cursor", "", "continue from a previous page")
	journalListCmd.Flags().Bool("json", false, "output as JSON")

	journalCmd.AddCommand(journalMigrateCmd, journalListCmd)
	rootCmd.AddCommand(journalCmd)
}

func runJournalMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}

	db, err := openJournal(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	slog.Info("journal migration complete", "type", cfg.Journal.Type, "table", cfg.Journal.Tables.Fetches)
	return nil
}

func runJournalList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}

	db, err := openJournal(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	endpoint, _ := cmd.Flags().GetString("endpoint")
	limit, _ := cmd.Flags().GetInt("limit")
	cursor, _ := cmd.Flags().GetString("cursor")

	page, err := db.GetJournal().List(ctx, sheetbridge.JournalQuery{
		Endpoint: endpoint,
		Limit:    limit,
		Cursor:   cursor,
	})
	if err != nil {
		return fmt.Errorf("list journal: %w", err)
	}

	out := cmd.OutOrStdout()

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return json.NewEncoder(out).Encode(page)
	}

	if len(page.Items) == 0 {
		_, _ = fmt.Fprintln(out, "No fetches recorded")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "TIME\tENDPOINT\tOUTCOME\tROWS\tDURATION\tERROR")
	for _, e := range page.Items {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%dms\t%s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			e.Endpoint,
			e.Outcome,
			e.Rows,
			e.DurationMS,
			e.Error,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if page.NextCursor != "" {
		_, _ = fmt.Fprintf(out, "\nNext page: use --cursor %q\n", page.NextCursor)
	}
	return nil
}
