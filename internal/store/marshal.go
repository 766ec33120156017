package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/zeta/internal/report"
)

// marshalReport converts a report to JSON TEXT for storage.
// HTML escaping is disabled so labels are stored as written.
func marshalReport(r *report.Report) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// unmarshalReport parses JSON TEXT from storage.
func unmarshalReport(data string) (report.Report, error) {
	var r report.Report
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return report.Report{}, fmt.Errorf("unmarshal report: %w", err)
	}
	return r, nil
}
