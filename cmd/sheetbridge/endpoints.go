package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sagarc03/sheetbridge/config"
)

var endpointsCmd = &cobra.Command{
	Use:   "endpoints",
	Short: "List configured endpoints",
	Long:  `Print the endpoints the server would register. Does not contact Google.`,
	RunE:  runEndpoints,
}

func init() {
	endpointsCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(endpointsCmd)
}

func runEndpoints(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg.Endpoints)
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "NAME\tPATH\tRANGE\tSHAPE\tFIELDS")
	for _, ep := range cfg.Endpoints {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", ep.Name, ep.Path, ep.Range, ep.Shape, strings.Join(ep.Fields, ","))
	}
	return tw.Flush()
}
