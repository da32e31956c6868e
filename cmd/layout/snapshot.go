package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/layout/internal/cli"
	"github.com/aretw0/layout/pkg/codec"
	"github.com/aretw0/layout/pkg/domain"
	"github.com/aretw0/layout/pkg/snapshot"
	"github.com/spf13/cobra"
)

func newSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "snapshot",
		Aliases: []string{"snap"},
		Short:   "Manage persisted state snapshots",
	}
	cmd.AddCommand(
		newSnapshotListCmd(),
		newSnapshotShowCmd(),
		newSnapshotSaveCmd(),
		newSnapshotDeleteCmd(),
	)
	return cmd
}

// withSnapshots opens the configured store for the duration of fn.
func withSnapshots(cmd *cobra.Command, fn func(snapshots *snapshot.Manager) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	backend, err := cli.OpenStore(cfg.Store, nil)
	if err != nil {
		return err
	}
	defer backend.Close()
	return fn(backend.Snapshots(cfg.Store, cli.CreateLogger(cfg)))
}

func newSnapshotListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored snapshot keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSnapshots(cmd, func(snapshots *snapshot.Manager) error {
				keys, err := snapshots.List(cmd.Context())
				if err != nil {
					return err
				}
				for _, key := range keys {
					fmt.Fprintln(cmd.OutOrStdout(), key)
				}
				return nil
			})
		},
	}
}

func newSnapshotShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show KEY",
		Short: "Print a stored snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("output")
			c, err := codec.ByName(format)
			if err != nil {
				return err
			}
			return withSnapshots(cmd, func(snapshots *snapshot.Manager) error {
				state, err := snapshots.Load(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				data, err := c.Marshal(state)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			})
		},
	}
	cmd.Flags().StringP("output", "o", "yaml", "Output format (json, yaml, cbor)")
	return cmd
}

func newSnapshotSaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save KEY FILE",
		Short: "Store the state read from FILE under KEY",
		Long: `Reads a state document and stores it under KEY. The format follows the file
extension (.json, .yaml, .yml, .cbor). Use "-" to read YAML from stdin.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, path := args[0], args[1]

			var (
				data []byte
				err  error
				c    codec.Codec
			)
			if path == "-" {
				c, _ = codec.ByName("yaml")
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				c, err = codec.ByName(strings.TrimPrefix(filepath.Ext(path), "."))
				if err != nil {
					return err
				}
				data, err = os.ReadFile(path)
			}
			if err != nil {
				return fmt.Errorf("failed to read state: %w", err)
			}

			var state domain.State
			if err := c.Unmarshal(data, &state); err != nil {
				return fmt.Errorf("failed to decode state: %w", err)
			}

			return withSnapshots(cmd, func(snapshots *snapshot.Manager) error {
				return snapshots.Save(cmd.Context(), key, state)
			})
		},
	}
}

func newSnapshotDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete KEY",
		Aliases: []string{"rm"},
		Short:   "Delete a stored snapshot",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSnapshots(cmd, func(snapshots *snapshot.Manager) error {
				return snapshots.Delete(cmd.Context(), args[0])
			})
		},
	}
}
