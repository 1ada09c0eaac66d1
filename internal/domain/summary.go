package domain

// SourceStats aggregates assessments that share an upstream source.
type SourceStats struct {
	Count        int     `json:"count"`
	AverageScore float64 `json:"average_score"`
}

// Summary aggregates a set of assessments for reporting.
type Summary struct {
	Total               int                      `json:"total"`
	Complete            int                      `json:"complete"`
	TemplateData        int                      `json:"template_data"`
	AverageScore        float64                  `json:"average_score"`
	AverageCompleteness float64                  `json:"average_completeness"`
	ByTier              map[QualityTier]int      `json:"by_tier"`
	ByCompletenessTier  map[CompletenessTier]int `json:"by_completeness_tier"`
	ByLocationSource    map[LocationSource]int   `json:"by_location_source"`
	BySource            map[string]SourceStats   `json:"by_source"`
	CommonIssues        map[IssueCode]int        `json:"common_issues"`
}

// Summarize counts assessments by tier, location source and upstream source.
// Every quality tier is present in ByTier, even at zero.
func Summarize(assessments []Assessment) Summary {
	s := Summary{
		Total: len(assessments),
		ByTier: map[QualityTier]int{
			TierExcellent: 0, TierGood: 0, TierFair: 0, TierPoor: 0, TierVeryPoor: 0,
		},
		ByCompletenessTier: make(map[CompletenessTier]int),
		ByLocationSource:   make(map[LocationSource]int),
		BySource:           make(map[string]SourceStats),
		CommonIssues:       make(map[IssueCode]int),
	}
	if len(assessments) == 0 {
		return s
	}

	var totalScore, totalCompleteness float64
	sourceTotals := make(map[string]float64)
	for i := range assessments {
		a := &assessments[i]
		s.ByTier[a.Quality.Tier]++
		s.ByCompletenessTier[a.Validation.QualityTier]++
		s.ByLocationSource[a.Location.Source]++
		if a.Validation.IsComplete {
			s.Complete++
		}
		if a.IsTemplateData {
			s.TemplateData++
		}
		for _, is := range a.Issues {
			s.CommonIssues[is.Code]++
		}
		totalScore += float64(a.Quality.Score)
		totalCompleteness += a.Validation.Completeness

		stats := s.BySource[a.Source]
		stats.Count++
		sourceTotals[a.Source] += float64(a.Quality.Score)
		stats.AverageScore = sourceTotals[a.Source] / float64(stats.Count)
		s.BySource[a.Source] = stats
	}
	s.AverageScore = totalScore / float64(len(assessments))
	s.AverageCompleteness = totalCompleteness / float64(len(assessments))
	return s
}

// Filter keeps assessments scoring at least minScore, optionally dropping
// template data. Order is preserved.
func Filter(assessments []Assessment, minScore int, excludeTemplates bool) []Assessment {
	out := make([]Assessment, 0, len(assessments))
	for _, a := range assessments {
		if a.Quality.Score < minScore {
			continue
		}
		if excludeTemplates && a.IsTemplateData {
			continue
		}
		out = append(out, a)
	}
	return out
}
