package main

import (
	"github.com/couchcryptid/water-project-quality/internal/domain"
	"github.com/spf13/cobra"
)

func newGazetteerCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "gazetteer",
		Short: "Print the municipality table in match order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeOutput(cmd.OutOrStdout(), g.format, domain.Gazetteer())
		},
	}
}
