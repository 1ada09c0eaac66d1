package domain

import (
	"regexp"
	"strings"
)

// templateNameRes match names left behind by demo seeding and sample feeds.
// Names are lowercased before matching.
var templateNameRes = []*regexp.Regexp{
	regexp.MustCompile(`^water infrastructure project \d+`),
	regexp.MustCompile(`^project \d+$`),
	regexp.MustCompile(`^test project`),
	regexp.MustCompile(`^sample project`),
	regexp.MustCompile(`^demo project`),
	regexp.MustCompile(`^placeholder`),
	regexp.MustCompile(`^template`),
	regexp.MustCompile(`all!abcdefghijklmnopqrstuvwxyz`),
}

var templateDescriptionMarkers = []string{"template", "placeholder", "demo", "test project"}

// templateNameMarkers appear inside otherwise plausible names.
var templateNameMarkers = []string{
	"water infrastructure project",
	"template project",
	"example project",
	"demo project",
	"all!abcdefghijklmnopqrstuvwxyz",
}

// IsTemplateData reports whether a record looks like demo or placeholder
// data rather than a real project. A record without a name is treated as
// template data.
func IsTemplateData(r ProjectRecord) bool {
	if r.Name == "" {
		return true
	}
	name := strings.ToLower(r.Name)
	for _, re := range templateNameRes {
		if re.MatchString(name) {
			return true
		}
	}
	desc := strings.ToLower(r.Description)
	for _, marker := range templateDescriptionMarkers {
		if strings.Contains(desc, marker) {
			return true
		}
	}
	return false
}

// templateNameMarker returns the first template marker found in name, if any.
func templateNameMarker(name string) (string, bool) {
	lower := strings.ToLower(name)
	for _, marker := range templateNameMarkers {
		if strings.Contains(lower, marker) {
			return marker, true
		}
	}
	return "", false
}
