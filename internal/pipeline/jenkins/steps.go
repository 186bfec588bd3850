package jenkins

import (
	"regexp"
	"strings"

	"jenkins2ci/internal/pipeline"
)

// stepPattern pairs an anchored line pattern with the step it constructs.
// The table is ordered; the first match wins and Unhandled is the implicit
// catch-all, so new step kinds are added by appending a row.
type stepPattern struct {
	re    *regexp.Regexp
	build func(match []string) pipeline.Step
}

var stepTable = []stepPattern{
	{
		re: regexp.MustCompile(`^sh\s+['"]([^'"]+)['"]`),
		build: func(match []string) pipeline.Step {
			return pipeline.Step{Kind: pipeline.StepShell, Command: match[1]}
		},
	},
	{
		re: regexp.MustCompile(`^echo\s+['"]([^'"]+)['"]`),
		build: func(match []string) pipeline.Step {
			return pipeline.Step{Kind: pipeline.StepEcho, Message: match[1]}
		},
	},
}

// ClassifyStep maps one source line to a step. Blank lines produce no step
// (ok is false). Every other unrecognized line becomes an Unhandled step
// carrying the trimmed line verbatim; nothing is ever dropped.
func ClassifyStep(line string) (pipeline.Step, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return pipeline.Step{}, false
	}
	for _, p := range stepTable {
		if match := p.re.FindStringSubmatch(trimmed); match != nil {
			return p.build(match), true
		}
	}
	return pipeline.Step{Kind: pipeline.StepUnhandled, Original: trimmed}, true
}
