package output

import (
	"fmt"
	"io"
	"strings"

	"jenkins2ci/internal/report"
)

// PrettyRenderer renders conversion results in a human-friendly format.
type PrettyRenderer struct {
	out io.Writer
}

// NewPretty creates a PrettyRenderer writing to the provided writer.
func NewPretty(out io.Writer) *PrettyRenderer {
	return &PrettyRenderer{out: out}
}

// RenderConversion shows a single conversion summary.
func (p *PrettyRenderer) RenderConversion(conv report.Conversion) error {
	if conv.Jenkinsfile != "" {
		if _, err := fmt.Fprintf(p.out, "Converted %s\n", conv.Jenkinsfile); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(p.out, "  Target    %s (%s strategy)\n", conv.Target, conv.Strategy); err != nil {
		return err
	}
	stack := conv.Stack
	if conv.Confidence > 0 {
		stack = fmt.Sprintf("%s (confidence %.2f)", stack, conv.Confidence)
	}
	if _, err := fmt.Fprintf(p.out, "  Toolchain %s\n", stack); err != nil {
		return err
	}
	if len(conv.Evidence) > 0 {
		if _, err := fmt.Fprintf(p.out, "  Evidence  %s\n", strings.Join(conv.Evidence, ", ")); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(p.out, "  Stages    %d\n", conv.StageCount); err != nil {
		return err
	}
	if len(conv.EnvironmentKeys) > 0 {
		if _, err := fmt.Fprintf(p.out, "  Env       %s\n", strings.Join(conv.EnvironmentKeys, ", ")); err != nil {
			return err
		}
	}
	if conv.OutYAML != "" {
		if _, err := fmt.Fprintf(p.out, "  Wrote     %s\n", conv.OutYAML); err != nil {
			return err
		}
	}
	return nil
}

// RenderResults shows per-item batch outcomes with a summary line.
func (p *PrettyRenderer) RenderResults(results []report.Result, summary report.Summary) error {
	for _, res := range results {
		label := res.Jenkinsfile
		if label == "" {
			label = res.Source
		}
		if _, err := fmt.Fprintf(p.out, "%s %s", statusGlyph(res.Status), label); err != nil {
			return err
		}
		if res.Message != "" {
			if _, err := fmt.Fprintf(p.out, ": %s", res.Message); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(p.out); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(p.out, "\n%d processed: %d succeeded, %d failed, %d skipped\n",
		summary.Processed, summary.Successful, summary.Failed, summary.Skipped)
	return err
}

func statusGlyph(status string) string {
	switch status {
	case report.StatusSuccess:
		return "✓"
	case report.StatusSkipped:
		return "-"
	default:
		return "✗"
	}
}
