// Command projectq assesses the data quality of municipal water-infrastructure
// project records from a file or stdin.
//
// Usage:
//
//	projectq assess data/mock/projects.json --format yaml
//	cat projects.ndjson | projectq summary --min-score 60 --exclude-templates
//	projectq gazetteer
//	projectq check data/mock/projects.json
//	projectq fixture --in data/mock/projects.json --out data/mock/projects_assessed.json
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
