package output

import (
	"encoding/json"
	"io"

	"jenkins2ci/internal/report"
)

// JSONRenderer emits structured conversion data.
type JSONRenderer struct {
	out io.Writer
}

// NewJSON creates a JSON renderer writing to out.
func NewJSON(out io.Writer) *JSONRenderer {
	return &JSONRenderer{out: out}
}

// Report captures the JSON output schema.
type Report struct {
	Status     string             `json:"status"`
	Conversion *report.Conversion `json:"summary,omitempty"`
	Results    []report.Result    `json:"results,omitempty"`
	Summary    *report.Summary    `json:"totals,omitempty"`
	Warnings   []string           `json:"warnings,omitempty"`
}

// Render encodes the report as JSON.
func (j *JSONRenderer) Render(report Report) error {
	enc := json.NewEncoder(j.out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
