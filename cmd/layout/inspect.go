package main

import (
	"github.com/aretw0/layout"
	"github.com/aretw0/layout/internal/cli"
	"github.com/aretw0/layout/pkg/domain"
	"github.com/aretw0/layout/pkg/host"
	"github.com/aretw0/layout/pkg/scheduler"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type inspectView struct {
	ID           string              `yaml:"id"`
	InitialState domain.State        `yaml:"initial_state"`
	Options      domain.Options[any] `yaml:"options"`
	Key          string              `yaml:"key,omitempty"`
}

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the resolved options of the configured layout",
		Long: `Builds the layout described by the configuration's layout section and prints
its resolved options and initial state as YAML. With --key the state snapshot
stored under that key is restored first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := cli.CreateLogger(cfg)
			key, _ := cmd.Flags().GetString("key")

			setters := []host.Option[any]{
				host.WithLayoutOptions(
					layout.WithID[any](cfg.Layout.ID),
					layout.WithLogger[any](logger),
					layout.WithScheduler[any](scheduler.NewManual()),
				),
			}

			var closeStore func() error
			if key != "" {
				backend, err := cli.OpenStore(cfg.Store, nil)
				if err != nil {
					return err
				}
				closeStore = backend.Close
				setters = append(setters, host.WithPersistence[any](backend.Store, key))
			}

			binding, err := host.Use(cfg.Layout.Options(), setters...)
			if err != nil {
				return err
			}
			defer binding.Close()
			if closeStore != nil {
				defer closeStore()
			}

			// Persistence runs on the manual scheduler, so restoring never
			// writes the snapshot back.
			view := inspectView{Key: key}
			if err := binding.Restore(cmd.Context()); err != nil {
				return err
			}

			l := binding.Layout()
			view.ID = l.ID()
			view.InitialState = l.InitialState()
			view.Options = l.Options()

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(view); err != nil {
				return err
			}
			return enc.Close()
		},
	}
	cmd.Flags().StringP("key", "k", "", "Restore the snapshot stored under this key before printing")
	return cmd
}
