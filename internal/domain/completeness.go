package domain

// CompletenessTier is the coarse 3-level label derived from completeness.
type CompletenessTier string

const (
	CompletenessHigh   CompletenessTier = "high"
	CompletenessMedium CompletenessTier = "medium"
	CompletenessLow    CompletenessTier = "low"
)

// Required field names, as reported in ValidationResult.MissingFields.
const (
	FieldName            = "name"
	FieldDescription     = "description"
	FieldStartDate       = "start_date"
	FieldEndDate         = "end_date"
	FieldAddress         = "address"
	FieldLocation        = "location"
	FieldBudgetAllocated = "budget_allocated"
	FieldMunicipality    = "municipality_name"
)

// completeThreshold is the inclusive completeness percentage at which a
// record counts as complete.
const completeThreshold = 80.0

type requiredField struct {
	name    string
	weight  float64
	present func(ProjectRecord) bool
}

// requiredFields is in declaration order; MissingFields follows it.
var requiredFields = []requiredField{
	{FieldName, 1.0, func(r ProjectRecord) bool { return r.Name != "" }},
	{FieldDescription, 0.8, func(r ProjectRecord) bool { return r.Description != "" }},
	{FieldStartDate, 1.0, func(r ProjectRecord) bool { return r.StartDate != "" }},
	{FieldEndDate, 1.0, func(r ProjectRecord) bool { return r.EndDate != "" }},
	{FieldAddress, 0.9, func(r ProjectRecord) bool { return r.Address != "" }},
	{FieldLocation, 0.9, func(r ProjectRecord) bool { return r.Location != "" }},
	{FieldBudgetAllocated, 0.7, func(r ProjectRecord) bool { return amountSet(r.BudgetAllocated) }},
	{FieldMunicipality, 1.0, func(r ProjectRecord) bool { return r.Municipality != "" }},
}

var totalRequiredWeight = func() float64 {
	var total float64
	for _, f := range requiredFields {
		total += f.weight
	}
	return total
}()

// ValidationResult reports how completely a record populates the required fields.
type ValidationResult struct {
	IsComplete    bool             `json:"is_complete"`
	Completeness  float64          `json:"completeness"`
	MissingFields []string         `json:"missing_fields"`
	QualityTier   CompletenessTier `json:"quality_tier"`
}

// Validate scores a record against the weighted required-field set.
//
// A zero amount counts as missing: upstream feeds use 0 for "no budget data",
// so it cannot be told apart from an unset value.
func Validate(r ProjectRecord) ValidationResult {
	var present float64
	missing := make([]string, 0, len(requiredFields))
	for _, f := range requiredFields {
		if f.present(r) {
			present += f.weight
			continue
		}
		missing = append(missing, f.name)
	}

	completeness := present / totalRequiredWeight * 100
	return ValidationResult{
		IsComplete:    completeness >= completeThreshold,
		Completeness:  completeness,
		MissingFields: missing,
		QualityTier:   completenessTier(completeness),
	}
}

func completenessTier(completeness float64) CompletenessTier {
	switch {
	case completeness >= 90:
		return CompletenessHigh
	case completeness >= 70:
		return CompletenessMedium
	default:
		return CompletenessLow
	}
}

func amountSet(v *float64) bool {
	return v != nil && *v != 0
}
