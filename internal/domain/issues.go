package domain

import (
	"fmt"
	"time"
)

// South Africa's approximate bounding box.
const (
	saMinLat = -35.0
	saMaxLat = -22.0
	saMinLng = 16.0
	saMaxLng = 33.0
)

// lowBudgetThreshold is the allocation (ZAR) below which a budget is
// implausible for infrastructure work.
const lowBudgetThreshold = 100_000

// IssueCode identifies a data-quality finding.
type IssueCode string

const (
	IssueNameMissing        IssueCode = "name_missing"
	IssueNameGeneric        IssueCode = "name_generic"
	IssueNameTemplate       IssueCode = "name_template"
	IssueCoordinatesMissing IssueCode = "coordinates_missing"
	IssueCoordinatesInvalid IssueCode = "coordinates_invalid"
	IssueCoordinatesOutside IssueCode = "coordinates_outside_bounds"
	IssueAddressMissing     IssueCode = "address_missing"
	IssueBudgetMissing      IssueCode = "budget_missing"
	IssueBudgetLow          IssueCode = "budget_low"
	IssueSpendingMissing    IssueCode = "spending_missing"
	IssueSpendingOverBudget IssueCode = "spending_over_budget"
	IssueStartDateMissing   IssueCode = "start_date_missing"
	IssueEndDateMissing     IssueCode = "end_date_missing"
	IssueTimelineInverted   IssueCode = "timeline_inverted"
	IssueDescriptionMissing IssueCode = "description_missing"
	IssueContractorMissing  IssueCode = "contractor_missing"
	IssueStatusInvalid      IssueCode = "status_invalid"
)

// Issue is a single data-quality finding on a record.
type Issue struct {
	Code    IssueCode `json:"code"`
	Message string    `json:"message"`
}

var recommendations = map[IssueCode]string{
	IssueNameMissing:        "Replace generic name with descriptive project title including location and type",
	IssueNameGeneric:        "Replace generic name with descriptive project title including location and type",
	IssueNameTemplate:       "Replace generic name with descriptive project title including location and type",
	IssueCoordinatesMissing: "Use GPS device or mapping service to obtain precise coordinates",
	IssueCoordinatesInvalid: "Use GPS device or mapping service to obtain precise coordinates",
	IssueAddressMissing:     "Add detailed address or location description for better mapping",
	IssueBudgetMissing:      "Add budget information from project documentation or municipal records",
	IssueStartDateMissing:   "Add complete project timeline information",
	IssueEndDateMissing:     "Add complete project timeline information",
	IssueDescriptionMissing: "Add project description explaining scope, objectives, and expected outcomes",
	IssueContractorMissing:  "Add contractor or implementing agency information",
}

var dateLayouts = []string{time.DateOnly, time.RFC3339, time.DateTime, "2006/01/02"}

// FindIssues lists the data-quality findings for a record, grouped by
// name, location, financial, temporal, descriptive and status checks.
func FindIssues(r ProjectRecord, loc LocationResolution) []Issue {
	var issues []Issue
	add := func(code IssueCode, format string, args ...any) {
		issues = append(issues, Issue{Code: code, Message: fmt.Sprintf(format, args...)})
	}

	switch {
	case r.Name == "":
		add(IssueNameMissing, "Project name is missing")
	case IsGenericName(r.Name):
		add(IssueNameGeneric, "Generic project name detected: %q", r.Name)
	}
	if marker, ok := templateNameMarker(r.Name); ok {
		add(IssueNameTemplate, "Template name indicator found: %q", marker)
	}

	switch {
	case loc.HasCoordinates:
		if !withinSouthAfrica(*loc.Latitude, *loc.Longitude) {
			add(IssueCoordinatesOutside, "Coordinates appear to be outside South Africa")
		}
	case r.Location != "":
		add(IssueCoordinatesInvalid, "Invalid POINT format in location field")
	default:
		add(IssueCoordinatesMissing, "No geographic coordinates available")
	}
	if r.Address == "" {
		add(IssueAddressMissing, "No address information available")
	}

	hasBudget := r.BudgetAllocated != nil && *r.BudgetAllocated > 0
	hasSpent := r.BudgetSpent != nil && *r.BudgetSpent >= 0
	switch {
	case !hasBudget:
		add(IssueBudgetMissing, "No budget allocation information")
	case *r.BudgetAllocated < lowBudgetThreshold:
		add(IssueBudgetLow, "Budget seems unusually low for infrastructure project")
	}
	switch {
	case !hasSpent:
		add(IssueSpendingMissing, "No spending/expenditure information")
	case hasBudget && *r.BudgetSpent > *r.BudgetAllocated:
		add(IssueSpendingOverBudget, "Spending exceeds allocated budget")
	}

	if r.StartDate == "" {
		add(IssueStartDateMissing, "No project start date")
	}
	if r.EndDate == "" {
		add(IssueEndDateMissing, "No project end date")
	}
	start, okStart := parseDate(r.StartDate)
	end, okEnd := parseDate(r.EndDate)
	if okStart && okEnd && end.Before(start) {
		add(IssueTimelineInverted, "End date is before start date")
	}

	if r.Description == "" {
		add(IssueDescriptionMissing, "No project description available")
	}
	if r.Contractor == "" {
		add(IssueContractorMissing, "No contractor information available")
	}

	if !IsValidStatus(r.Status) {
		add(IssueStatusInvalid, "Invalid status: %q", r.Status)
	}

	return issues
}

// Recommend maps issues to improvement suggestions, without duplicates.
func Recommend(issues []Issue) []string {
	var out []string
	seen := make(map[string]bool)
	for _, is := range issues {
		rec, ok := recommendations[is.Code]
		if !ok || seen[rec] {
			continue
		}
		seen[rec] = true
		out = append(out, rec)
	}
	return out
}

func withinSouthAfrica(lat, lng float64) bool {
	return lat >= saMinLat && lat <= saMaxLat && lng >= saMinLng && lng <= saMaxLng
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
