package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// numberPrefixRe matches the longest leading decimal number of a string, the
// same prefix a lenient float parser would consume ("1.234.56" -> "1.234").
var numberPrefixRe = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)

// ProjectRecord is a project as synced from an upstream source, coerced into
// typed fields. Absent text fields are empty strings; absent amounts are nil.
type ProjectRecord struct {
	ID              string   `json:"id,omitempty"`
	Source          string   `json:"source,omitempty"`
	Name            string   `json:"name,omitempty"`
	Description     string   `json:"description,omitempty"`
	StartDate       string   `json:"start_date,omitempty"`
	EndDate         string   `json:"end_date,omitempty"`
	Address         string   `json:"address,omitempty"`
	Location        string   `json:"location,omitempty"`
	BudgetAllocated *float64 `json:"budget_allocated,omitempty"`
	BudgetSpent     *float64 `json:"budget_spent,omitempty"`
	Municipality    string   `json:"municipality_name,omitempty"`
	Contractor      string   `json:"contractor,omitempty"`
	Status          string   `json:"status,omitempty"`
}

// ParseProjectRecord decodes an arbitrary JSON project object. Field values
// never cause an error; only a payload that is not a JSON object does.
//
// Numbers are kept as json.Number so out-of-range values only blank their own
// field and integer IDs keep every digit.
func ParseProjectRecord(data []byte) (ProjectRecord, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return ProjectRecord{}, fmt.Errorf("parse project record: %w", err)
	}
	if fields == nil {
		return ProjectRecord{}, errors.New("parse project record: payload is not a JSON object")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return ProjectRecord{}, errors.New("parse project record: trailing data after JSON object")
	}
	return ProjectRecordFromMap(fields), nil
}

// ProjectRecordFromMap coerces a decoded JSON object into a ProjectRecord.
func ProjectRecordFromMap(fields map[string]any) ProjectRecord {
	return ProjectRecord{
		ID:              firstText(fields, "id", "external_id"),
		Source:          coerceText(fields["source"]),
		Name:            coerceText(fields["name"]),
		Description:     coerceText(fields["description"]),
		StartDate:       coerceText(fields["start_date"]),
		EndDate:         coerceText(fields["end_date"]),
		Address:         coerceText(fields["address"]),
		Location:        coerceText(fields["location"]),
		BudgetAllocated: coerceAmount(fields["budget_allocated"]),
		BudgetSpent:     coerceAmount(fields["budget_spent"]),
		Municipality:    municipalityName(fields),
		Contractor:      coerceText(fields["contractor"]),
		Status:          coerceText(fields["status"]),
	}
}

// UnmarshalJSON applies the same best-effort coercion as ParseProjectRecord,
// so a ProjectRecord can be embedded in larger payloads.
func (r *ProjectRecord) UnmarshalJSON(data []byte) error {
	rec, err := ParseProjectRecord(data)
	if err != nil {
		return err
	}
	*r = rec
	return nil
}

// ParseAmount parses a monetary value leniently. Commas are treated as
// decimal separators and the longest numeric prefix is used, so "1.234,56"
// yields 1.234 and "1,234" yields 1.234 rather than 1234. Unparseable input
// yields 0.
func ParseAmount(s string) float64 {
	v, _ := parseAmount(s)
	return v
}

func parseAmount(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	prefix := numberPrefixRe.FindString(s)
	if prefix == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(prefix, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// coerceText normalizes a scalar JSON value to trimmed text. The literals
// "null" and "undefined" are upstream serialization artifacts and count as absent.
func coerceText(v any) string {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return ""
		}
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		s = numberText(t)
	case bool:
		s = strconv.FormatBool(t)
	default:
		return ""
	}
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "null") || strings.EqualFold(s, "undefined") {
		return ""
	}
	return s
}

// numberText renders a JSON number as text. Integer literals keep their exact
// digits; other numbers are normalized like float64 values. Numbers outside
// the float64 range are absent.
func numberText(n json.Number) string {
	f, err := strconv.ParseFloat(n.String(), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	if !strings.ContainsAny(n.String(), ".eE") {
		return n.String()
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func coerceAmount(v any) *float64 {
	var (
		f  float64
		ok bool
	)
	switch t := v.(type) {
	case float64:
		f, ok = t, !math.IsNaN(t) && !math.IsInf(t, 0)
	case json.Number:
		f, ok = parseAmount(t.String())
	case string:
		if s := coerceText(t); s != "" {
			f, ok = parseAmount(s)
		}
	}
	if !ok {
		return nil
	}
	return &f
}

func firstText(fields map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := coerceText(fields[k]); s != "" {
			return s
		}
	}
	return ""
}

// municipalityName prefers municipality_name and falls back to municipality,
// which some sources send as a nested {"name": ...} object.
func municipalityName(fields map[string]any) string {
	if s := coerceText(fields["municipality_name"]); s != "" {
		return s
	}
	switch m := fields["municipality"].(type) {
	case map[string]any:
		return coerceText(m["name"])
	default:
		return coerceText(m)
	}
}
