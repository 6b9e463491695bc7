package main

import (
	"os"

	"github.com/spf13/cobra"
)

var wakeupCmd = &cobra.Command{
	Use:   "wakeup",
	Short: "Check that the server is up",
	Long: `Call /wakeup. Useful for waking a server on a host that idles
instances down.`,
	Args: cobra.NoArgs,
	RunE: runWakeup,
}

func runWakeup(cmd *cobra.Command, _ []string) error {
	client, err := getClient()
	if err != nil {
		return fail(err)
	}

	result, err := client.Wakeup(cmd.Context())
	if err != nil {
		return fail(err)
	}

	return getFormatter().FormatWakeup(os.Stdout, result)
}
