package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "manifest.json", `[
  {"jenkinsfile": "a/Jenkinsfile", "ado_org": "org", "ado_project": "proj", "ado_repo": "repo"},
  {"jenkinsfile": "b/Jenkinsfile", "out": "b.yml"}
]`)
	items, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Org != "org" || items[0].Repo != "repo" {
		t.Fatalf("unexpected first item: %+v", items[0])
	}
	if items[1].Out != "b.yml" {
		t.Fatalf("unexpected second item: %+v", items[1])
	}
}

func TestLoadCSV(t *testing.T) {
	path := writeFile(t, "manifest.csv", strings.Join([]string{
		"jenkinsfile,ado_org,ado_project,ado_repo,ado_branch,yaml_path",
		"a/Jenkinsfile, org , proj,repo,migrate,/pipelines/ci.yml",
		"b/Jenkinsfile,,,,,",
	}, "\n"))
	items, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Org != "org" {
		t.Fatalf("expected whitespace trimmed, got %q", items[0].Org)
	}
	if items[0].Branch != "migrate" || items[0].YAMLPath != "/pipelines/ci.yml" {
		t.Fatalf("unexpected first item: %+v", items[0])
	}
	if items[1].Org != "" {
		t.Fatalf("expected empty optional fields, got %+v", items[1])
	}
}

func TestLoadUnknownExtension(t *testing.T) {
	if _, err := Load("manifest.txt"); err == nil {
		t.Fatalf("expected error for unknown manifest extension")
	}
}

func TestLoadJSONNotArray(t *testing.T) {
	path := writeFile(t, "manifest.json", `{"jenkinsfile": "a"}`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for non-array JSON manifest")
	}
}

func TestValidate(t *testing.T) {
	item := Item{Jenkinsfile: "Jenkinsfile"}
	if err := item.Validate(false); err != nil {
		t.Fatalf("conversion-only item should validate: %v", err)
	}
	if err := item.Validate(true); err == nil {
		t.Fatalf("expected missing push fields to fail validation")
	}
	err := (Item{}).Validate(true)
	if err == nil || !strings.Contains(err.Error(), "jenkinsfile") {
		t.Fatalf("expected jenkinsfile listed as missing, got %v", err)
	}
}
