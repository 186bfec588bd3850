package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testPipeline = `pipeline {
  agent any
  environment {
    FOO = 'bar'
  }
  stages {
    stage('Build') {
      steps {
        sh 'mvn clean compile'
      }
    }
    stage('Test') {
      steps {
        sh 'mvn test'
      }
    }
  }
}`

// chdir changes the working directory for the duration of the test,
// mirroring testing.T.Chdir, which requires Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore chdir %s: %v", prev, err)
		}
	})
}

func runCommand(t *testing.T, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("command %v failed: %v\n%s", args, err, buf.String())
	}
	return buf.String()
}

func TestConvertCommand(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	if err := os.WriteFile(filepath.Join(dir, "Jenkinsfile"), []byte(testPipeline), 0o644); err != nil {
		t.Fatalf("write Jenkinsfile: %v", err)
	}

	out := runCommand(t, "convert", "--target", "azure")

	if !strings.Contains(out, "Toolchain maven") {
		t.Fatalf("expected maven toolchain in output:\n%s", out)
	}
	if !strings.Contains(out, "Stages    2") {
		t.Fatalf("expected 2 stages in output:\n%s", out)
	}

	doc, err := os.ReadFile(filepath.Join(dir, "out", "azure-pipelines.yml"))
	if err != nil {
		t.Fatalf("read generated document: %v", err)
	}
	if !strings.Contains(string(doc), "mvn clean compile") {
		t.Fatalf("expected build step in document:\n%s", doc)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "out", "summary.json"))
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	var summary map[string]any
	if err := json.Unmarshal(raw, &summary); err != nil {
		t.Fatalf("summary is not valid JSON: %v", err)
	}
	if summary["stack"] != "maven" || summary["stages_count"] != float64(2) {
		t.Fatalf("unexpected summary: %v", summary)
	}
}

func TestConvertCommandJSONFormat(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	if err := os.WriteFile(filepath.Join(dir, "Jenkinsfile"), []byte(testPipeline), 0o644); err != nil {
		t.Fatalf("write Jenkinsfile: %v", err)
	}

	out := runCommand(t, "convert", "--format", "json")

	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}
	if decoded["status"] != "success" {
		t.Fatalf("unexpected status: %v", decoded)
	}
	conv := decoded["summary"].(map[string]any)
	if conv["target"] != "github" {
		t.Fatalf("expected default github target, got %v", conv)
	}

	if _, err := os.Stat(filepath.Join(dir, "out", "ci-workflow.yml")); err != nil {
		t.Fatalf("expected github document written: %v", err)
	}
}

func TestConvertCommandExplicitPath(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	nested := filepath.Join(dir, "repo", "ci")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(nested, "Jenkinsfile"), []byte(testPipeline), 0o644); err != nil {
		t.Fatalf("write Jenkinsfile: %v", err)
	}

	out := runCommand(t, "convert", filepath.Join(dir, "repo"))
	if !strings.Contains(out, filepath.Join("ci", "Jenkinsfile")) {
		t.Fatalf("expected discovered path in output:\n%s", out)
	}
}

func TestConvertCommandRejectsBadTarget(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	cmd := newRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"convert", "--target", "circleci"})
	if err := cmd.Execute(); err == nil || !strings.Contains(err.Error(), "unsupported target") {
		t.Fatalf("expected target validation error, got %v", err)
	}
}

func TestConvertCommandNoPipeline(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	if err := os.WriteFile(filepath.Join(dir, "Jenkinsfile"), []byte("node { sh 'make' }"), 0o644); err != nil {
		t.Fatalf("write Jenkinsfile: %v", err)
	}

	cmd := newRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"convert"})
	if err := cmd.Execute(); err == nil || !strings.Contains(err.Error(), "pipeline") {
		t.Fatalf("expected structure error, got %v", err)
	}
}
