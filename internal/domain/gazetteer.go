package domain

import (
	"strings"

	"golang.org/x/text/cases"
)

// Country centre of South Africa, used when nothing else resolves.
const (
	CountryCenterLat  = -29.0
	CountryCenterLng  = 24.0
	CountryCenterZoom = 6
)

// GazetteerEntry is a municipality with its representative centroid.
type GazetteerEntry struct {
	Name        string  `json:"name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DefaultZoom int     `json:"default_zoom"`
}

// gazetteer is iterated in declaration order; fuzzy matching returns the
// first hit, so reordering entries changes results. Metros come first.
var gazetteer = []GazetteerEntry{
	{"City of Cape Town", -33.9249, 18.4241, 10},
	{"City of Johannesburg", -26.2041, 28.0473, 10},
	{"City of Tshwane", -25.7479, 28.2293, 10},
	{"eThekwini Metropolitan Municipality", -29.8587, 31.0218, 10},
	{"Ekurhuleni Metropolitan Municipality", -26.1777, 28.3462, 10},
	{"Nelson Mandela Bay Metropolitan Municipality", -33.9608, 25.6022, 10},
	{"Buffalo City Metropolitan Municipality", -32.9833, 27.8667, 10},
	{"Mangaung Metropolitan Municipality", -29.1217, 26.2041, 10},
	{"Amathole District Municipality", -32.5833, 27.3667, 8},
	{"Cape Winelands District Municipality", -33.6500, 19.4500, 8},
	{"Stellenbosch Local Municipality", -33.9321, 18.8602, 11},
	{"Drakenstein Municipality", -33.8067, 19.0116, 11},
	{"George Local Municipality", -33.9630, 22.4617, 11},
	{"Msunduzi Local Municipality", -29.6006, 30.3794, 11},
	{"uMhlathuze Local Municipality", -28.7807, 32.0383, 11},
	{"Emfuleni Local Municipality", -26.6731, 27.9261, 11},
	{"Rustenburg Local Municipality", -25.6676, 27.2421, 11},
	{"City of Mbombela", -25.4753, 30.9694, 11},
	{"Polokwane Local Municipality", -23.9045, 29.4689, 11},
	{"Greater Giyani Local Municipality", -23.3025, 30.7187, 11},
	{"Sol Plaatje Local Municipality", -28.7282, 24.7499, 11},
	{"Matjhabeng Local Municipality", -27.9773, 26.7351, 11},
}

var (
	gazetteerIndex  = buildGazetteerIndex()
	gazetteerFolded = buildGazetteerFolded()
)

func buildGazetteerIndex() map[string]int {
	idx := make(map[string]int, len(gazetteer))
	for i, e := range gazetteer {
		if _, dup := idx[e.Name]; !dup {
			idx[e.Name] = i
		}
	}
	return idx
}

func buildGazetteerFolded() []string {
	folded := make([]string, len(gazetteer))
	for i, e := range gazetteer {
		folded[i] = foldName(e.Name)
	}
	return folded
}

// Gazetteer returns a copy of the municipality table in match order.
func Gazetteer() []GazetteerEntry {
	out := make([]GazetteerEntry, len(gazetteer))
	copy(out, gazetteer)
	return out
}

// LookupMunicipality finds the exact, case-sensitive gazetteer entry for name.
func LookupMunicipality(name string) (GazetteerEntry, bool) {
	i, ok := gazetteerIndex[name]
	if !ok {
		return GazetteerEntry{}, false
	}
	return gazetteer[i], true
}

// MatchMunicipality finds the first gazetteer entry, in table order, whose
// case-folded name contains the case-folded input or is contained by it.
func MatchMunicipality(name string) (GazetteerEntry, bool) {
	needle := foldName(name)
	if needle == "" {
		return GazetteerEntry{}, false
	}
	for i, key := range gazetteerFolded {
		if strings.Contains(key, needle) || strings.Contains(needle, key) {
			return gazetteer[i], true
		}
	}
	return GazetteerEntry{}, false
}

// foldName case-folds the trimmed name. A cases.Caser is stateful, so each
// call builds its own.
func foldName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}
