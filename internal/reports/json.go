package reports

import (
	"encoding/json"
)

// FormatJSON formats a year report as indented JSON.
func FormatJSON(report *YearReport) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}
