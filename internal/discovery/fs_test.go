package discovery

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		full := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", name, err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func TestJenkinsfileRootCandidate(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"Jenkinsfile":        "pipeline {}",
		"nested/Jenkinsfile": "pipeline {}",
	})

	path, err := Jenkinsfile(root)
	if err != nil {
		t.Fatalf("Jenkinsfile returned error: %v", err)
	}
	if path != filepath.Join(root, "Jenkinsfile") {
		t.Fatalf("expected root candidate preferred, got %q", path)
	}
}

func TestJenkinsfileCIDirectory(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"ci/Jenkinsfile": "pipeline {}"})

	path, err := Jenkinsfile(root)
	if err != nil {
		t.Fatalf("Jenkinsfile returned error: %v", err)
	}
	if path != filepath.Join(root, "ci", "Jenkinsfile") {
		t.Fatalf("unexpected path %q", path)
	}
}

func TestJenkinsfileWalkFallback(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"services/api/Jenkinsfile": "pipeline {}"})

	path, err := Jenkinsfile(root)
	if err != nil {
		t.Fatalf("Jenkinsfile returned error: %v", err)
	}
	if path != filepath.Join(root, "services", "api", "Jenkinsfile") {
		t.Fatalf("unexpected path %q", path)
	}
}

func TestJenkinsfileSkipsDotDirectories(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{".git/Jenkinsfile": "not real"})

	if _, err := Jenkinsfile(root); !errors.Is(err, ErrNoJenkinsfile) {
		t.Fatalf("expected ErrNoJenkinsfile, got %v", err)
	}
}

func TestJenkinsfileNotFound(t *testing.T) {
	if _, err := Jenkinsfile(t.TempDir()); !errors.Is(err, ErrNoJenkinsfile) {
		t.Fatalf("expected ErrNoJenkinsfile, got %v", err)
	}
}

func TestOutputs(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"out/ado-yaml-billing/azure-pipelines.yml": "steps: []",
		"out/ado-yaml-billing/summary.json":        "{}",
		"out/orders/azure-pipelines.yml":           "steps: []",
	})

	outputs, err := Outputs(root, "azure-pipelines.yml")
	if err != nil {
		t.Fatalf("Outputs returned error: %v", err)
	}
	if len(outputs) != 2 {
		t.Fatalf("expected 2 outputs, got %d", len(outputs))
	}

	bySlug := map[string]Output{}
	for _, out := range outputs {
		bySlug[out.Slug] = out
	}

	billing, ok := bySlug["billing"]
	if !ok {
		t.Fatalf("expected slug billing with ado-yaml- prefix stripped, got %v", bySlug)
	}
	if billing.SummaryPath == "" {
		t.Fatalf("expected summary sidecar for billing")
	}

	orders, ok := bySlug["orders"]
	if !ok {
		t.Fatalf("expected slug orders, got %v", bySlug)
	}
	if orders.SummaryPath != "" {
		t.Fatalf("expected no summary for orders, got %q", orders.SummaryPath)
	}
}
