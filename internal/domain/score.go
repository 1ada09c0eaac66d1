package domain

import (
	"regexp"
	"unicode/utf8"
)

// QualityTier is the 5-level label for a composite quality score. It is a
// separate scale from CompletenessTier and the two are not interchangeable:
// completeness answers "is this record usable", the score answers "how good
// is this record".
type QualityTier string

const (
	TierExcellent QualityTier = "excellent"
	TierGood      QualityTier = "good"
	TierFair      QualityTier = "fair"
	TierPoor      QualityTier = "poor"
	TierVeryPoor  QualityTier = "very_poor"
)

// Project statuses accepted by the status component.
const (
	StatusPlanned    = "planned"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusDelayed    = "delayed"
	StatusCancelled  = "cancelled"
)

const maxQualityScore = 100

// genericNameRes flags placeholder names that carry no information about the project.
var genericNameRes = []*regexp.Regexp{
	regexp.MustCompile(`^\s*$`),
	regexp.MustCompile(`^\d+$`),
	regexp.MustCompile(`(?i)^project(\s+\d+)?$`),
	regexp.MustCompile(`(?i)^test project`),
	regexp.MustCompile(`(?i)^sample project`),
	regexp.MustCompile(`(?i)^placeholder`),
	regexp.MustCompile(`(?i)^default project`),
	regexp.MustCompile(`(?i)^unnamed project`),
	regexp.MustCompile(`(?i)^water infrastructure project \d+ - `),
	regexp.MustCompile(`(?i)^district municipality project`),
}

// ComponentScores is the per-component breakdown of a QualityScore.
type ComponentScores struct {
	Name        int `json:"name"`
	Location    int `json:"location"`
	Financial   int `json:"financial"`
	Temporal    int `json:"temporal"`
	Descriptive int `json:"descriptive"`
	Status      int `json:"status"`
}

// Total sums the components, capped at 100.
func (c ComponentScores) Total() int {
	total := c.Name + c.Location + c.Financial + c.Temporal + c.Descriptive + c.Status
	return min(total, maxQualityScore)
}

// QualityScore is the composite 0-100 quality score of a record.
type QualityScore struct {
	Score      int             `json:"score"`
	Tier       QualityTier     `json:"tier"`
	Components ComponentScores `json:"components"`
}

// Score computes the composite quality score from six weighted components:
// name (20), location (25), financial (20), temporal (15), descriptive (10)
// and status (10).
func Score(r ProjectRecord) QualityScore {
	return scoreWith(r, ResolveLocation(r))
}

func scoreWith(r ProjectRecord, loc LocationResolution) QualityScore {
	c := ComponentScores{
		Name:        nameScore(r.Name),
		Location:    locationScore(r, loc),
		Financial:   financialScore(r),
		Temporal:    temporalScore(r),
		Descriptive: descriptiveScore(r),
		Status:      statusScore(r.Status),
	}
	total := c.Total()
	return QualityScore{Score: total, Tier: qualityTier(total), Components: c}
}

// IsGenericName reports whether name is blank or a placeholder.
func IsGenericName(name string) bool {
	for _, re := range genericNameRes {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// IsValidStatus reports whether status is one of the known project statuses.
func IsValidStatus(status string) bool {
	switch status {
	case StatusPlanned, StatusInProgress, StatusCompleted, StatusDelayed, StatusCancelled:
		return true
	default:
		return false
	}
}

func nameScore(name string) int {
	if IsGenericName(name) {
		return 0
	}
	if utf8.RuneCountInString(name) > 10 {
		return 20
	}
	return 10
}

// locationScore only rewards the record's own coordinates; a municipality
// centroid is inferred and earns nothing.
func locationScore(r ProjectRecord, loc LocationResolution) int {
	switch {
	case loc.HasCoordinates:
		return 25
	case r.Address != "":
		return 10
	default:
		return 0
	}
}

func financialScore(r ProjectRecord) int {
	score := 0
	if r.BudgetAllocated != nil && *r.BudgetAllocated > 0 {
		score += 12
	}
	if r.BudgetSpent != nil && *r.BudgetSpent >= 0 {
		score += 8
	}
	return score
}

func temporalScore(r ProjectRecord) int {
	switch hasStart, hasEnd := r.StartDate != "", r.EndDate != ""; {
	case hasStart && hasEnd:
		return 15
	case hasStart || hasEnd:
		return 8
	default:
		return 0
	}
}

func descriptiveScore(r ProjectRecord) int {
	score := 0
	if utf8.RuneCountInString(r.Description) > 20 {
		score += 6
	}
	if r.Contractor != "" {
		score += 4
	}
	return score
}

func statusScore(status string) int {
	if IsValidStatus(status) {
		return 10
	}
	return 0
}

func qualityTier(score int) QualityTier {
	switch {
	case score >= 90:
		return TierExcellent
	case score >= 80:
		return TierGood
	case score >= 60:
		return TierFair
	case score >= 40:
		return TierPoor
	default:
		return TierVeryPoor
	}
}
