// Package github renders the pipeline model as a GitHub-Actions-shaped
// workflow document.
package github

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"jenkins2ci/internal/pipeline"
	"jenkins2ci/internal/render"
)

// RenderStages emits the generic structural document: one job per stage in
// source order, one step per classified step, runner selected from the
// agent. Stages without renderable steps get exactly one fallback step; a
// model without stages gets a single fallback job so the workflow stays
// valid.
func RenderStages(model pipeline.Model) ([]byte, error) {
	doc := newWorkflow()

	if len(model.Environment) > 0 {
		env := mapping()
		for _, v := range model.Environment {
			appendPair(env, str(v.Name), str(v.Value))
		}
		appendPair(doc, str("env"), env)
	}

	runner := render.RunnerImage(model.Agent)
	jobs := mapping()
	if len(model.Stages) == 0 {
		appendPair(jobs, str("ci"), jobNode("ci", runner, []*yaml.Node{
			stepRun("Fallback", render.NoStagesScript),
		}))
	}
	ids := newIDAllocator()
	for _, stage := range model.Stages {
		steps := make([]*yaml.Node, 0, len(stage.Steps))
		for _, step := range stage.Steps {
			script := step.Script()
			steps = append(steps, stepRun(render.DisplayName(script), script))
		}
		if len(steps) == 0 {
			steps = append(steps, stepRun("Fallback", render.FallbackScript))
		}
		appendPair(jobs, str(ids.allocate(stage.Name)), jobNode(stage.Name, runner, steps))
	}
	appendPair(doc, str("jobs"), jobs)

	return marshal(doc)
}

// RenderFixed emits the canonical single-job document. Stage structure in
// the model is disregarded; every command comes from the toolchain
// signature, gated on the evidence recorded in gates. Toolchain setup is
// inserted first whenever the kind is known, never otherwise.
func RenderFixed(sig pipeline.ToolchainSignature, gates render.Gates) ([]byte, error) {
	var steps []*yaml.Node

	switch sig.Kind {
	case pipeline.ToolchainMaven:
		steps = append(steps, stepUses("Set up JDK 11", "actions/setup-java@v4",
			"distribution", "temurin", "java-version", "11"))
	case pipeline.ToolchainDotNet:
		steps = append(steps, stepUses("Set up .NET", "actions/setup-dotnet@v4",
			"dotnet-version", "8.0.x"))
	}

	if gates.Checkout {
		steps = append(steps, stepUses("Checkout code", "actions/checkout@v4"))
	}
	for _, cmd := range render.FixedCommands(sig.Kind, gates) {
		steps = append(steps, stepRun(cmd.Name, cmd.Run))
	}
	if len(steps) == 0 {
		steps = append(steps, stepRun("Fallback", render.FallbackScript))
	}

	doc := newWorkflow()
	jobs := mapping()
	appendPair(jobs, str("ci"), jobNode("ci", render.RunnerLinux, steps))
	appendPair(doc, str("jobs"), jobs)

	return marshal(doc)
}

func newWorkflow() *yaml.Node {
	doc := mapping()
	appendPair(doc, str("name"), str("CI Workflow"))
	appendPair(doc, str("on"),
		mapping2(str("push"), mapping2(str("branches"), seq(str("main")))))
	return doc
}

func jobNode(name, runner string, steps []*yaml.Node) *yaml.Node {
	job := mapping()
	appendPair(job, str("name"), str(name))
	appendPair(job, str("runs-on"), str(runner))
	appendPair(job, str("steps"), seq(steps...))
	return job
}

func stepRun(name, run string) *yaml.Node {
	step := mapping()
	appendPair(step, str("name"), str(name))
	appendPair(step, str("run"), str(run))
	return step
}

func stepUses(name, uses string, with ...string) *yaml.Node {
	step := mapping()
	appendPair(step, str("name"), str(name))
	appendPair(step, str("uses"), str(uses))
	if len(with) > 0 {
		withNode := mapping()
		for i := 0; i+1 < len(with); i += 2 {
			appendPair(withNode, str(with[i]), str(with[i+1]))
		}
		appendPair(step, str("with"), withNode)
	}
	return step
}

// Jobs render as explicit yaml.Node mappings because yaml.v3 sorts plain
// map keys, which would reorder stages. Node construction keeps source
// order and still gets the library's scalar quoting.
func str(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func mapping() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode}
}

func mapping2(key, value *yaml.Node) *yaml.Node {
	m := mapping()
	appendPair(m, key, value)
	return m
}

func seq(items ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Content: items}
}

func appendPair(m *yaml.Node, key, value *yaml.Node) {
	m.Content = append(m.Content, key, value)
}

func marshal(doc *yaml.Node) ([]byte, error) {
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode workflow: %w", err)
	}
	return out, nil
}

// idAllocator derives unique job identifiers from stage names. Duplicate
// stage names are legal in the model, so collisions get a numeric suffix.
type idAllocator struct {
	used map[string]int
}

func newIDAllocator() *idAllocator {
	return &idAllocator{used: make(map[string]int)}
}

func (a *idAllocator) allocate(stageName string) string {
	id := sanitizeID(stageName)
	n := a.used[id]
	a.used[id] = n + 1
	if n == 0 {
		return id
	}
	return fmt.Sprintf("%s-%d", id, n+1)
}

func sanitizeID(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			out = append(out, r)
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		default:
			out = append(out, '-')
		}
	}
	id := string(out)
	for len(id) > 0 && (id[0] == '-' || (id[0] >= '0' && id[0] <= '9')) {
		id = id[1:]
	}
	if id == "" {
		return "stage"
	}
	return id
}
