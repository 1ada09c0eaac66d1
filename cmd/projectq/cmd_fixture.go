package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/couchcryptid/water-project-quality/internal/domain"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
)

// fixtureClock stamps AssessedAt in generated fixtures so they are reproducible.
var fixtureClock = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

type fixtureFlags struct {
	in  string
	out string
}

func newFixtureCmd() *cobra.Command {
	var flags fixtureFlags

	cmd := &cobra.Command{
		Use:   "fixture",
		Short: "Regenerate the assessed-project fixture from raw mock records",
		Long: "fixture assesses raw mock project records under a fixed clock and writes\n" +
			"the results as a JSON fixture for downstream test suites.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if flags.in == "" || flags.out == "" {
				return errors.New("missing required flags: --in, --out")
			}

			f, err := os.Open(flags.in)
			if err != nil {
				return fmt.Errorf("open input: %w", err)
			}
			defer f.Close()

			records, err := readRecords(f)
			if err != nil {
				return fmt.Errorf("processing %s: %w", flags.in, err)
			}

			domain.SetClock(clockwork.NewFakeClockAt(fixtureClock))
			defer domain.SetClock(nil)

			assessments := make([]domain.Assessment, len(records))
			for i, r := range records {
				assessments[i] = domain.Assess(r)
			}

			if err := writeJSON(flags.out, assessments); err != nil {
				return fmt.Errorf("writing fixture: %w", err)
			}

			s := domain.Summarize(assessments)
			w := cmd.ErrOrStderr()
			fmt.Fprintf(w, "wrote %d assessments to %s\n", len(assessments), flags.out)
			for _, tier := range []domain.QualityTier{
				domain.TierExcellent, domain.TierGood, domain.TierFair, domain.TierPoor, domain.TierVeryPoor,
			} {
				fmt.Fprintf(w, "  %-9s %d\n", tier, s.ByTier[tier])
			}
			fmt.Fprintf(w, "  templates %d\n", s.TemplateData)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.in, "in", "", "raw project records (JSON array or NDJSON)")
	f.StringVar(&flags.out, "out", "", "output path for the assessed fixture")
	return cmd
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}
