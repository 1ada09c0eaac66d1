// Package domain assesses the data quality of water-infrastructure project
// records and resolves a best-effort map position for each of them.
//
// # Data Source
//
// Records come from the Department of Water and Sanitation project monitoring
// dashboard and National Treasury municipal finance data. An upstream sync job
// flattens each project to JSON and publishes it to the Kafka source topic.
// Field population varies widely between sources and over time.
//
// # Upstream Data Conventions
//
// Absent values:
//
//	Missing keys, JSON null, empty strings and the literal strings "null" and
//	"undefined" (a serialization artifact of one feed) all mean "absent".
//
// Location format:
//
//	"POINT(<lng> <lat>)"  →  e.g. "POINT(18.4241 -33.9249)"
//	Longitude comes first. Anything else is treated as no coordinates.
//
// Amounts:
//
//	Budgets may arrive as numbers or as strings. Strings are read with a comma
//	as the decimal separator and the longest numeric prefix is used:
//	"1.234,56" → 1.234 and "1,234" → 1.234. This misreads thousands
//	separators; it is kept for compatibility with existing stored scores until
//	the feed's locale is confirmed. Unparseable strings are treated as absent.
//
// Status:
//
//	planned, in_progress, completed, delayed, cancelled. Other values are kept
//	on the record but score as invalid.
//
// # Quality Signals
//
// Three independent signals are derived for every record:
//
//	Validate         weighted completeness (0–100) and a 3-tier label
//	                 (high ≥ 90, medium ≥ 70, low); complete at ≥ 80.
//	ResolveLocation  coordinates → address → exact gazetteer → fuzzy
//	                 gazetteer → country centre, with a confidence level.
//	Score            composite 0–100 score and a 5-tier label
//	                 (excellent ≥ 90, good ≥ 80, fair ≥ 60, poor ≥ 40, very_poor).
//
// The completeness tier and the composite tier are different scales built for
// different questions. They are reported side by side and must not be merged
// or compared directly.
//
// # Gazetteer
//
// Municipality centroids ship as an ordered table compiled into the binary.
// Fuzzy matching scans it in order and returns the first hit, so results are
// reproducible. See [Gazetteer].
//
// All functions in this package are pure apart from the assessment timestamp
// and are safe for concurrent use.
package domain
