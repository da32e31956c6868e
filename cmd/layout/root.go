package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/layout/internal/config"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "layout",
		Short: "Layout resolves, inspects and serves layout state snapshots",
		Long: `Layout builds layout instances from a configuration file, inspects their
resolved options and manages the persisted state snapshots behind them.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringP("config", "c", "", "Path to a YAML configuration file")
	root.PersistentFlags().Bool("debug", false, "Enable debug logging")

	root.AddCommand(
		newVersionCmd(),
		newInspectCmd(),
		newSnapshotCmd(),
		newServeCmd(),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the --config file, or the defaults when none is given.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	if path == "" {
		defaults := config.Defaults()
		cfg = &defaults
	} else {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Debug = true
	}
	return cfg, nil
}
