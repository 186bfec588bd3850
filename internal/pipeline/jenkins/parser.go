package jenkins

import (
	"errors"
	"regexp"
	"strings"

	"jenkins2ci/internal/pipeline"
)

// ErrNoPipelineBlock reports that the text contains no top-level
// `pipeline { ... }` wrapper. Only declarative pipelines are accepted;
// free-form scripted pipelines are rejected, not guessed at. This is the
// only error Parse returns; every lesser irregularity degrades to a
// documented fallback instead.
var ErrNoPipelineBlock = errors.New("no declarative pipeline block found")

var (
	labelRe = regexp.MustCompile(`label\s+['"]([^'"]+)['"]`)
	imageRe = regexp.MustCompile(`image\s+['"]([^'"]+)['"]`)
	envRe   = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_]*)\s*=\s*['"]([^'"]+)['"]`)
	stageRe = regexp.MustCompile(`stage\s*\(\s*['"]([^'"]+)['"]\s*\)\s*\{`)
)

// Parse builds the pipeline model from raw Jenkinsfile text. The original
// text is never mutated; comment stripping happens on a copy. The agent,
// environment and stages sections are each optional and default to Any
// agent, empty environment and no stages when absent.
func Parse(text string) (pipeline.Model, error) {
	stripped := stripComments(text)

	body, ok := ExtractBlock(stripped, "pipeline")
	if !ok {
		return pipeline.Model{}, ErrNoPipelineBlock
	}

	model := pipeline.Model{Agent: pipeline.Agent{Kind: pipeline.AgentAny}}

	if agentBlock, ok := ExtractBlock(body, "agent"); ok {
		model.Agent = parseAgent(agentBlock)
	}
	if envBlock, ok := ExtractBlock(body, "environment"); ok {
		model.Environment = parseEnvironment(envBlock)
	}
	if stagesBlock, ok := ExtractBlock(body, "stages"); ok {
		model.Stages = parseStages(stagesBlock)
	}

	return model, nil
}

// parseAgent resolves the agent block by priority-ordered textual match:
// any, then label, then image. Unrecognized syntax silently falls back to
// the any agent.
func parseAgent(block string) pipeline.Agent {
	text := strings.TrimSpace(block)
	if strings.HasPrefix(text, "any") {
		return pipeline.Agent{Kind: pipeline.AgentAny}
	}
	if match := labelRe.FindStringSubmatch(text); match != nil {
		return pipeline.Agent{Kind: pipeline.AgentLabel, Label: match[1]}
	}
	if match := imageRe.FindStringSubmatch(text); match != nil {
		return pipeline.Agent{Kind: pipeline.AgentDocker, Image: match[1]}
	}
	return pipeline.Agent{Kind: pipeline.AgentAny}
}

// parseEnvironment flattens the block to a single line and collects
// IDENTIFIER = 'value' assignments. Order of first appearance is kept; a
// later assignment to the same identifier overwrites the value in place.
func parseEnvironment(block string) []pipeline.EnvVar {
	flat := strings.Join(strings.Split(block, "\n"), " ")
	var vars []pipeline.EnvVar
	index := make(map[string]int)
	for _, match := range envRe.FindAllStringSubmatch(flat, -1) {
		name, value := match[1], match[2]
		if at, seen := index[name]; seen {
			vars[at].Value = value
			continue
		}
		index[name] = len(vars)
		vars = append(vars, pipeline.EnvVar{Name: name, Value: value})
	}
	return vars
}

// parseStages finds every stage('Name') { ... } occurrence at any depth,
// extracts the inner steps block and classifies its lines. A stage whose
// braces never balance contributes an empty stage rather than an error; a
// stage without a steps block keeps an empty step list.
func parseStages(block string) []pipeline.Stage {
	masked := maskStrings(block)
	var stages []pipeline.Stage
	for _, loc := range stageRe.FindAllStringSubmatchIndex(block, -1) {
		name := block[loc[2]:loc[3]]
		stage := pipeline.Stage{Name: name}

		end := matchBrace(masked, loc[1])
		if end >= 0 {
			content := block[loc[1]:end]
			if stepsBlock, ok := ExtractBlock(content, "steps"); ok {
				stage.Steps = parseSteps(stepsBlock)
			}
		}
		stages = append(stages, stage)
	}
	return stages
}

func parseSteps(block string) []pipeline.Step {
	var steps []pipeline.Step
	for _, line := range strings.Split(block, "\n") {
		if step, ok := ClassifyStep(line); ok {
			steps = append(steps, step)
		}
	}
	return steps
}
