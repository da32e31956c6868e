package main

import (
	"fmt"

	"github.com/aretw0/layout"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of layout",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "layout version %s\n", layout.Version)
		},
	}
}
