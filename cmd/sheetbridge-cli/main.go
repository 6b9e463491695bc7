package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sagarc03/sheetbridge/clientcli"
)

var (
	version = "dev"

	cfgFile    string
	profile    string
	server     string
	timeout    time.Duration
	jsonOutput bool
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:     "sheetbridge-cli",
	Version: version,
	Short:   "Client for Sheetbridge servers",
	Long: `Sheetbridge CLI - read endpoints from a Sheetbridge server.

The server is chosen from, in increasing precedence:
  - the default profile in ~/.sheetbridge/config.yaml
  - the profile named by --profile or SHEETBRIDGE_PROFILE
  - SHEETBRIDGE_ENDPOINT
  - --server`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.sheetbridge/config.yaml, env: SHEETBRIDGE_CLI_CONFIG)")
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", "profile name (env: SHEETBRIDGE_PROFILE)")
	rootCmd.PersistentFlags().StringVarP(&server, "server", "s", "", "server URL (default: http://localhost:3000, env: SHEETBRIDGE_ENDPOINT)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "request timeout (default: 30s)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")

	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(wakeupCmd)
	rootCmd.AddCommand(journalCmd)
	rootCmd.AddCommand(configureCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// getConfigPath returns the profile file path from flag, env, or default.
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if p := clientcli.ConfigPathFromEnv(); p != "" {
		return p
	}
	return clientcli.DefaultConfigPath()
}

// buildConfig merges the profile, env vars and flags (flags take precedence).
func buildConfig() (*clientcli.Config, error) {
	var configs []*clientcli.Config

	profileName := profile
	if profileName == "" {
		profileName = clientcli.ProfileFromEnv()
	}

	if path := getConfigPath(); path != "" {
		file, err := clientcli.LoadConfigFile(path)
		switch {
		case err == nil:
			p, profileErr := file.GetProfile(profileName)
			if profileErr != nil && (profileName != "" || !errors.Is(profileErr, clientcli.ErrNoProfiles)) {
				return nil, profileErr
			}
			configs = append(configs, clientcli.ConfigFromProfile(p))
		case profileName != "" || cfgFile != "":
			// Only error if the user asked for something the file should have had.
			return nil, err
		}
	} else if profileName != "" {
		return nil, fmt.Errorf("%w: %s", clientcli.ErrProfileNotFound, profileName)
	}

	configs = append(configs,
		clientcli.ConfigFromEnv(),
		&clientcli.Config{Endpoint: server, Timeout: timeout},
	)

	return clientcli.MergeConfig(configs...), nil
}

// getFormatter returns the appropriate formatter based on flags.
func getFormatter() clientcli.Formatter {
	return clientcli.NewFormatter(jsonOutput, quiet)
}

// getClient creates and returns a configured client.
func getClient() (*clientcli.Client, error) {
	cfg, err := buildConfig()
	if err != nil {
		return nil, err
	}
	return clientcli.New(cfg)
}

// fail prints err with the active formatter and returns it for cobra.
func fail(err error) error {
	_ = getFormatter().FormatError(os.Stderr, err)
	return err
}
