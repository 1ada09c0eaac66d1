package main

import (
	"fmt"

	"github.com/couchcryptid/water-project-quality/internal/domain"
	"github.com/couchcryptid/water-project-quality/internal/pipeline"
	"github.com/spf13/cobra"
)

func newAssessCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "assess [file|-]",
		Short: "Assess every project record in a JSON array or NDJSON stream",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(g.format); err != nil {
				return err
			}
			assessments, err := assessInput(cmd, args, g.workers)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), g.format, assessments)
		},
	}
}

type summaryFlags struct {
	minScore         int
	excludeTemplates bool
}

// summaryReport is the output of the summary command. Summary covers every
// input record; Included counts the records that pass the filter.
type summaryReport struct {
	Summary  domain.Summary      `json:"summary"`
	Included int                 `json:"included"`
	Filtered []domain.Assessment `json:"filtered,omitempty"`
}

func newSummaryCmd(g *globalFlags) *cobra.Command {
	var flags summaryFlags
	var list bool

	cmd := &cobra.Command{
		Use:   "summary [file|-]",
		Short: "Aggregate assessments by tier, location source and upstream source",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(g.format); err != nil {
				return err
			}
			if flags.minScore < 0 || flags.minScore > 100 {
				return fmt.Errorf("invalid --min-score %d: must be 0-100", flags.minScore)
			}
			assessments, err := assessInput(cmd, args, g.workers)
			if err != nil {
				return err
			}

			kept := domain.Filter(assessments, flags.minScore, flags.excludeTemplates)
			report := summaryReport{
				Summary:  domain.Summarize(assessments),
				Included: len(kept),
			}
			if list {
				report.Filtered = kept
			}
			return writeOutput(cmd.OutOrStdout(), g.format, report)
		},
	}

	f := cmd.Flags()
	f.IntVar(&flags.minScore, "min-score", 0, "only include records scoring at least this much (0-100)")
	f.BoolVar(&flags.excludeTemplates, "exclude-templates", false, "drop records detected as template data")
	f.BoolVar(&list, "list", false, "include the filtered assessments in the report")
	return cmd
}

func assessInput(cmd *cobra.Command, args []string, workers int) ([]domain.Assessment, error) {
	if workers < 1 {
		return nil, fmt.Errorf("invalid --workers %d: must be at least 1", workers)
	}
	in, err := openInput(cmd, args)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	records, err := readRecords(in)
	if err != nil {
		return nil, err
	}
	return pipeline.AssessAll(cmd.Context(), records, workers)
}
