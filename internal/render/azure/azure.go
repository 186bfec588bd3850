// Package azure renders the pipeline model as an Azure-DevOps-shaped
// pipeline document.
package azure

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"jenkins2ci/internal/pipeline"
	"jenkins2ci/internal/render"
)

type document struct {
	Variables []variable `yaml:"variables,omitempty"`
	Stages    []stage    `yaml:"stages,omitempty"`
	// Steps is the flat fallback shape used when no stages exist.
	Steps []step `yaml:"steps,omitempty"`
}

type variable struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

type stage struct {
	Stage string `yaml:"stage"`
	Jobs  []job  `yaml:"jobs"`
}

type job struct {
	Job   string `yaml:"job"`
	Pool  pool   `yaml:"pool"`
	Steps []step `yaml:"steps"`
}

type pool struct {
	VMImage string `yaml:"vmImage"`
}

type step struct {
	Script      string `yaml:"script"`
	DisplayName string `yaml:"displayName"`
}

// RenderStages emits the generic structural document: one stage per parsed
// stage with a single job, pool image selected from the agent, one script
// step per classified step. Stage names pass through verbatim, duplicates
// included. Empty stages keep exactly one fallback step; a model with no
// stages at all collapses to the flat steps fallback document.
func RenderStages(model pipeline.Model) ([]byte, error) {
	doc := document{}
	for _, v := range model.Environment {
		doc.Variables = append(doc.Variables, variable{Name: v.Name, Value: v.Value})
	}

	poolImage := pool{VMImage: render.RunnerImage(model.Agent)}
	for _, st := range model.Stages {
		steps := make([]step, 0, len(st.Steps))
		for _, s := range st.Steps {
			script := s.Script()
			steps = append(steps, step{Script: script, DisplayName: render.DisplayName(script)})
		}
		if len(steps) == 0 {
			steps = append(steps, step{Script: render.FallbackScript, DisplayName: "Fallback"})
		}
		doc.Stages = append(doc.Stages, stage{
			Stage: st.Name,
			Jobs:  []job{{Job: "job", Pool: poolImage, Steps: steps}},
		})
	}

	if len(doc.Stages) == 0 {
		doc.Steps = []step{{Script: render.NoStagesScript, DisplayName: "Fallback"}}
	}

	return marshal(doc)
}

// RenderFixed emits the canonical flat steps document driven entirely by
// the toolchain signature. Checkout is implicit in Azure Pipelines, so the
// sequence starts with the toolchain probe whenever the kind is known.
func RenderFixed(sig pipeline.ToolchainSignature, gates render.Gates) ([]byte, error) {
	var steps []step
	switch sig.Kind {
	case pipeline.ToolchainMaven:
		steps = append(steps, step{Script: "mvn --version", DisplayName: "Show Maven version"})
	case pipeline.ToolchainDotNet:
		steps = append(steps, step{Script: "dotnet --info", DisplayName: "Show .NET info"})
	}
	for _, cmd := range render.FixedCommands(sig.Kind, gates) {
		steps = append(steps, step{Script: cmd.Run, DisplayName: render.DisplayName(cmd.Name)})
	}
	if len(steps) == 0 {
		steps = append(steps, step{Script: render.FallbackScript, DisplayName: "Fallback"})
	}
	return marshal(document{Steps: steps})
}

func marshal(doc document) ([]byte, error) {
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode pipeline: %w", err)
	}
	return out, nil
}
