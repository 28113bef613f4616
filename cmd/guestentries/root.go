package main

import (
	"fmt"
	"os"

	"github.com/goliatone/go-guestentries/internal/runtimeconfig"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "guestentries",
	Short: "Accept CMS entries from public forms",
	Long: `guestentries serves the public create, update and delete form endpoints
and offers maintenance commands over the same storage.`,
	SilenceUsage: true,
}

// Execute runs the root command. Called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func loadConfig() (runtimeconfig.Config, error) {
	cfg := runtimeconfig.DefaultConfig()
	if configPath != "" {
		loaded, err := runtimeconfig.LoadFile(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}
