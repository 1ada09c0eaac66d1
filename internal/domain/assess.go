package domain

import "time"

// recommendationThreshold is the composite score below which an assessment
// carries improvement recommendations.
const recommendationThreshold = 80

// Assessment bundles every derived quality signal for one record.
type Assessment struct {
	ProjectID       string             `json:"project_id,omitempty"`
	ProjectName     string             `json:"project_name,omitempty"`
	Source          string             `json:"source,omitempty"`
	Validation      ValidationResult   `json:"validation"`
	Location        LocationResolution `json:"location"`
	Quality         QualityScore       `json:"quality"`
	IsTemplateData  bool               `json:"is_template_data"`
	Issues          []Issue            `json:"issues"`
	Recommendations []string           `json:"recommendations,omitempty"`
	AssessedAt      time.Time          `json:"assessed_at"`
}

// Assess runs the completeness validator, location resolver and composite
// scorer over a record and collects issues and recommendations.
func Assess(r ProjectRecord) Assessment {
	loc := ResolveLocation(r)
	quality := scoreWith(r, loc)
	issues := FindIssues(r, loc)

	a := Assessment{
		ProjectID:      r.ID,
		ProjectName:    r.Name,
		Source:         r.Source,
		Validation:     Validate(r),
		Location:       loc,
		Quality:        quality,
		IsTemplateData: IsTemplateData(r),
		Issues:         issues,
		AssessedAt:     clock.Now().UTC(),
	}
	if quality.Score < recommendationThreshold {
		a.Recommendations = Recommend(issues)
	}
	return a
}
