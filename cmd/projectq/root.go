package main

import (
	"github.com/spf13/cobra"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	format  string
	workers int
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "projectq",
		Short: "Data-quality assessment for water-infrastructure project records",
		Long: "projectq scores project records for completeness, resolves their location\n" +
			"against the municipal gazetteer and reports composite quality tiers.",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}

	f := root.PersistentFlags()
	f.StringVarP(&g.format, "format", "f", formatJSON, "output format: json or yaml")
	f.IntVarP(&g.workers, "workers", "w", 8, "concurrent assessments")

	root.AddCommand(
		newAssessCmd(g),
		newSummaryCmd(g),
		newGazetteerCmd(g),
		newCheckCmd(g),
		newFixtureCmd(),
	)
	return root
}
