// Package convert ties the classifier, parser and renderers into a single
// conversion call. Each call is a pure function over the supplied text: no
// file or network I/O, no state shared between calls, so independent
// conversions may run concurrently without coordination.
package convert

import (
	"fmt"

	"jenkins2ci/internal/pipeline"
	"jenkins2ci/internal/pipeline/jenkins"
	"jenkins2ci/internal/render"
	"jenkins2ci/internal/render/azure"
	"jenkins2ci/internal/render/github"
	"jenkins2ci/internal/report"
)

// Target selects the output document shape.
type Target string

const (
	TargetGitHub Target = "github"
	TargetAzure  Target = "azure"
)

// Strategy selects how the document is derived from the source.
type Strategy string

const (
	// StrategyStages renders one target job/stage per parsed stage.
	StrategyStages Strategy = "stages"
	// StrategyFixed renders the canonical toolchain-driven step sequence
	// and disregards the parsed stage structure.
	StrategyFixed Strategy = "fixed"
)

// Options configure one conversion.
type Options struct {
	Target   Target
	Strategy Strategy
	Priority jenkins.Priority
}

// Result bundles the rendered document with the artifacts that produced it.
type Result struct {
	Document  []byte
	Model     pipeline.Model
	Signature pipeline.ToolchainSignature
}

// Convert translates one Jenkinsfile text into a target document. The only
// propagated failure is the parser's structure error for text without a
// declarative wrapper block; rendering never fails on a valid model.
func Convert(text string, opts Options) (Result, error) {
	opts = opts.withDefaults()

	sig := jenkins.Classify(text, opts.Priority)
	model, err := jenkins.Parse(text)
	if err != nil {
		return Result{}, fmt.Errorf("parse pipeline: %w", err)
	}

	var doc []byte
	switch opts.Strategy {
	case StrategyFixed:
		gates := render.GatesFrom(text)
		switch opts.Target {
		case TargetAzure:
			doc, err = azure.RenderFixed(sig, gates)
		default:
			doc, err = github.RenderFixed(sig, gates)
		}
	default:
		switch opts.Target {
		case TargetAzure:
			doc, err = azure.RenderStages(model)
		default:
			doc, err = github.RenderStages(model)
		}
	}
	if err != nil {
		return Result{}, err
	}

	return Result{Document: doc, Model: model, Signature: sig}, nil
}

func (o Options) withDefaults() Options {
	if o.Target == "" {
		o.Target = TargetGitHub
	}
	if o.Strategy == "" {
		o.Strategy = StrategyStages
	}
	if o.Priority == "" {
		o.Priority = jenkins.DefaultPriority
	}
	return o
}

// Summary builds the record downstream publishing consumes. The engine
// exposes these fields but performs no action with them.
func (r Result) Summary(opts Options) report.Conversion {
	opts = opts.withDefaults()
	return report.Conversion{
		Target:          string(opts.Target),
		Strategy:        string(opts.Strategy),
		Stack:           string(r.Signature.Kind),
		Confidence:      r.Signature.Confidence,
		Evidence:        r.Signature.Evidence,
		Reasons:         r.Signature.Reasons,
		Agent:           r.Model.Agent,
		EnvironmentKeys: r.Model.EnvironmentKeys(),
		StageCount:      len(r.Model.Stages),
	}
}
