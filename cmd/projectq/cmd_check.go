package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"time"

	"github.com/couchcryptid/water-project-quality/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
)

// checkClock pins AssessedAt so repeated assessments compare equal.
var checkClock = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

var errCheckFailed = errors.New("integrity check failed")

var knownFields = []string{
	domain.FieldName,
	domain.FieldDescription,
	domain.FieldStartDate,
	domain.FieldEndDate,
	domain.FieldAddress,
	domain.FieldLocation,
	domain.FieldBudgetAllocated,
	domain.FieldMunicipality,
}

// phase tracks pass/fail for one group of checks.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func newCheckCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check [file|-]",
		Short: "Verify scoring invariants over a set of project records",
		Long: "check assesses every record and verifies the engine's invariants: score\n" +
			"ranges, tier consistency, the missing-field partition, the location\n" +
			"fallback contract and determinism. It exits non-zero on any failure.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := openInput(cmd, args)
			if err != nil {
				return err
			}
			defer in.Close()

			records, err := readRecords(in)
			if err != nil {
				return err
			}
			return runCheck(cmd.OutOrStdout(), records)
		},
	}
}

func runCheck(w io.Writer, records []domain.ProjectRecord) error {
	domain.SetClock(clockwork.NewFakeClockAt(checkClock))
	defer domain.SetClock(nil)

	assessments := make([]domain.Assessment, len(records))
	for i, r := range records {
		assessments[i] = domain.Assess(r)
	}

	phases := []*phase{
		checkCompleteness(assessments),
		checkQuality(assessments),
		checkLocation(assessments),
		checkDeterminism(records, assessments),
	}

	fmt.Fprintf(w, "=== Project Quality Integrity Check (%d records) ===\n\n", len(records))
	allPassed := true
	for _, p := range phases {
		if p.passed() {
			fmt.Fprintf(w, "PASS  %s\n", p.name)
			continue
		}
		allPassed = false
		fmt.Fprintf(w, "FAIL  %s (%d errors)\n", p.name, len(p.errors))
		for _, e := range p.errors {
			fmt.Fprintf(w, "      - %s\n", e)
		}
	}
	fmt.Fprintln(w)

	if !allPassed {
		fmt.Fprintln(w, "RESULT: FAIL")
		return errCheckFailed
	}
	fmt.Fprintln(w, "RESULT: PASS")
	return nil
}

func checkCompleteness(assessments []domain.Assessment) *phase {
	p := &phase{name: "Completeness"}
	for i, a := range assessments {
		v := a.Validation
		if v.Completeness < 0 || v.Completeness > 100 || math.IsNaN(v.Completeness) {
			p.errorf("record %d: completeness %.1f out of range", i, v.Completeness)
		}
		if v.IsComplete != (v.Completeness >= 80) {
			p.errorf("record %d: is_complete=%t at completeness %.1f", i, v.IsComplete, v.Completeness)
		}
		if want := expectedCompletenessTier(v.Completeness); v.QualityTier != want {
			p.errorf("record %d: completeness tier %s, want %s", i, v.QualityTier, want)
		}
		seen := make(map[string]bool, len(v.MissingFields))
		for _, f := range v.MissingFields {
			if !slices.Contains(knownFields, f) {
				p.errorf("record %d: unknown missing field %q", i, f)
			}
			if seen[f] {
				p.errorf("record %d: missing field %q listed twice", i, f)
			}
			seen[f] = true
		}
		if len(v.MissingFields) == 0 && v.Completeness != 100 {
			p.errorf("record %d: no missing fields but completeness %.1f", i, v.Completeness)
		}
		if len(v.MissingFields) == len(knownFields) && v.Completeness != 0 {
			p.errorf("record %d: all fields missing but completeness %.1f", i, v.Completeness)
		}
	}
	return p
}

func checkQuality(assessments []domain.Assessment) *phase {
	p := &phase{name: "Quality score"}
	for i, a := range assessments {
		q := a.Quality
		if q.Score < 0 || q.Score > 100 {
			p.errorf("record %d: score %d out of range", i, q.Score)
		}
		if total := q.Components.Total(); total != q.Score {
			p.errorf("record %d: components sum to %d, score %d", i, total, q.Score)
		}
		if want := expectedQualityTier(q.Score); q.Tier != want {
			p.errorf("record %d: tier %s, want %s for score %d", i, q.Tier, want, q.Score)
		}
		if q.Score >= 80 && len(a.Recommendations) > 0 {
			p.errorf("record %d: score %d carries recommendations", i, q.Score)
		}
	}
	return p
}

func checkLocation(assessments []domain.Assessment) *phase {
	p := &phase{name: "Location resolution"}
	for i, a := range assessments {
		loc := a.Location
		if loc.IsFallback != (loc.Source == domain.SourceFallback) {
			p.errorf("record %d: is_fallback=%t with source %s", i, loc.IsFallback, loc.Source)
		}
		if loc.IsFallback != (loc.Confidence == domain.ConfidenceNone) {
			p.errorf("record %d: is_fallback=%t with confidence %s", i, loc.IsFallback, loc.Confidence)
		}
		if loc.HasCoordinates != (loc.Source == domain.SourceCoordinates) {
			p.errorf("record %d: has_coordinates=%t with source %s", i, loc.HasCoordinates, loc.Source)
		}
		if loc.Source != domain.SourceAddress && (loc.Latitude == nil || loc.Longitude == nil) {
			p.errorf("record %d: source %s without a position", i, loc.Source)
		}
	}
	return p
}

func checkDeterminism(records []domain.ProjectRecord, first []domain.Assessment) *phase {
	p := &phase{name: "Determinism"}
	for i, r := range records {
		if diff := cmp.Diff(first[i], domain.Assess(r)); diff != "" {
			p.errorf("record %d: repeated assessment differs (-first +second):\n%s", i, diff)
		}
	}
	return p
}

func expectedCompletenessTier(c float64) domain.CompletenessTier {
	switch {
	case c >= 90:
		return domain.CompletenessHigh
	case c >= 70:
		return domain.CompletenessMedium
	default:
		return domain.CompletenessLow
	}
}

func expectedQualityTier(score int) domain.QualityTier {
	switch {
	case score >= 90:
		return domain.TierExcellent
	case score >= 80:
		return domain.TierGood
	case score >= 60:
		return domain.TierFair
	case score >= 40:
		return domain.TierPoor
	default:
		return domain.TierVeryPoor
	}
}
