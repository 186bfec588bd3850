package jenkins

import (
	"errors"
	"testing"

	"jenkins2ci/internal/pipeline"
)

const samplePipeline = `pipeline {
    agent { label 'linux-large' }
    environment {
        FOO = 'bar'
        BAR = "baz"
    }
    stages {
        stage('Build') {
            steps {
                sh 'make build'
                echo 'built'
            }
        }
        stage('Test') {
            steps {
                sh "make test"
                junit 'reports/*.xml'
            }
        }
    }
}`

func TestParseFullPipeline(t *testing.T) {
	model, err := Parse(samplePipeline)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if model.Agent.Kind != pipeline.AgentLabel || model.Agent.Label != "linux-large" {
		t.Fatalf("unexpected agent: %+v", model.Agent)
	}

	if len(model.Environment) != 2 {
		t.Fatalf("expected 2 environment entries, got %v", model.Environment)
	}
	if model.Environment[0].Name != "FOO" || model.Environment[0].Value != "bar" {
		t.Fatalf("unexpected first env entry: %+v", model.Environment[0])
	}
	if model.Environment[1].Name != "BAR" || model.Environment[1].Value != "baz" {
		t.Fatalf("unexpected second env entry: %+v", model.Environment[1])
	}

	if len(model.Stages) != 2 {
		t.Fatalf("expected 2 stages, got %d", len(model.Stages))
	}
	build := model.Stages[0]
	if build.Name != "Build" {
		t.Fatalf("expected stage name Build, got %q", build.Name)
	}
	if len(build.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %v", build.Steps)
	}
	if build.Steps[0].Kind != pipeline.StepShell || build.Steps[0].Command != "make build" {
		t.Fatalf("unexpected first step: %+v", build.Steps[0])
	}
	if build.Steps[1].Kind != pipeline.StepEcho || build.Steps[1].Message != "built" {
		t.Fatalf("unexpected second step: %+v", build.Steps[1])
	}

	test := model.Stages[1]
	if test.Steps[1].Kind != pipeline.StepUnhandled {
		t.Fatalf("expected junit line unhandled, got %+v", test.Steps[1])
	}
	if test.Steps[1].Original != "junit 'reports/*.xml'" {
		t.Fatalf("expected original line preserved verbatim, got %q", test.Steps[1].Original)
	}
}

func TestParseNoWrapperBlock(t *testing.T) {
	_, err := Parse("node { sh 'make' }")
	if !errors.Is(err, ErrNoPipelineBlock) {
		t.Fatalf("expected ErrNoPipelineBlock, got %v", err)
	}
}

func TestParseMissingSectionsDefault(t *testing.T) {
	model, err := Parse("pipeline { }")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if model.Agent.Kind != pipeline.AgentAny {
		t.Fatalf("expected any agent default, got %+v", model.Agent)
	}
	if len(model.Environment) != 0 || len(model.Stages) != 0 {
		t.Fatalf("expected empty defaults, got %+v", model)
	}
}

func TestParseAgentVariants(t *testing.T) {
	cases := []struct {
		name  string
		block string
		want  pipeline.Agent
	}{
		{"any", "any", pipeline.Agent{Kind: pipeline.AgentAny}},
		{"label", "label 'windows-agent'", pipeline.Agent{Kind: pipeline.AgentLabel, Label: "windows-agent"}},
		{"docker", "docker { image 'golang:1.22' }", pipeline.Agent{Kind: pipeline.AgentDocker, Image: "golang:1.22"}},
		{"unrecognized", "kubernetes { yaml '...' }", pipeline.Agent{Kind: pipeline.AgentAny}},
	}
	for _, tc := range cases {
		if got := parseAgent(tc.block); got != tc.want {
			t.Fatalf("%s: expected %+v, got %+v", tc.name, tc.want, got)
		}
	}
}

func TestParseEnvironmentOverwrite(t *testing.T) {
	vars := parseEnvironment("A = 'x'\nB = \"y\"\nA = 'z'")
	if len(vars) != 2 {
		t.Fatalf("expected 2 entries, got %v", vars)
	}
	if vars[0].Name != "A" || vars[0].Value != "z" {
		t.Fatalf("expected later A to overwrite in place, got %+v", vars[0])
	}
	if vars[1].Name != "B" || vars[1].Value != "y" {
		t.Fatalf("unexpected second entry: %+v", vars[1])
	}
}

func TestParseDuplicateStageNames(t *testing.T) {
	text := `pipeline {
  stages {
    stage('Build') { steps { sh 'make one' } }
    stage('Build') { steps { sh 'make two' } }
  }
}`
	model, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(model.Stages) != 2 {
		t.Fatalf("expected 2 stages, got %d", len(model.Stages))
	}
	if model.Stages[0].Name != "Build" || model.Stages[1].Name != "Build" {
		t.Fatalf("expected duplicate names preserved, got %q and %q", model.Stages[0].Name, model.Stages[1].Name)
	}
}

func TestParseStageWithoutSteps(t *testing.T) {
	model, err := Parse("pipeline { stages { stage('Empty') { } } }")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(model.Stages) != 1 {
		t.Fatalf("expected 1 stage, got %d", len(model.Stages))
	}
	if len(model.Stages[0].Steps) != 0 {
		t.Fatalf("expected empty step list, got %v", model.Stages[0].Steps)
	}
}

func TestParseCommentsStripped(t *testing.T) {
	text := `pipeline {
  stages {
    // stage('Disabled') { steps { sh 'nope' } }
    stage('Build') { steps { sh 'make' } }
  }
}`
	model, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(model.Stages) != 1 || model.Stages[0].Name != "Build" {
		t.Fatalf("expected only the live stage, got %+v", model.Stages)
	}
}
