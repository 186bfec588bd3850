package jenkins

import (
	"strings"
	"testing"
)

func TestExtractBlockNested(t *testing.T) {
	text := `pipeline {
  stages {
    stage('Build') {
      steps { sh 'make' }
    }
  }
}`
	body, ok := ExtractBlock(text, "pipeline")
	if !ok {
		t.Fatalf("expected pipeline block to be found")
	}
	inner, ok := ExtractBlock(body, "stages")
	if !ok {
		t.Fatalf("expected stages block inside pipeline body")
	}
	if want := "stage('Build')"; !strings.Contains(inner, want) {
		t.Fatalf("expected stages body to contain %q, got %q", want, inner)
	}
}

func TestExtractBlockMissingKeyword(t *testing.T) {
	if _, ok := ExtractBlock("agent { any }", "environment"); ok {
		t.Fatalf("expected absence for missing keyword")
	}
}

func TestExtractBlockUnbalanced(t *testing.T) {
	if _, ok := ExtractBlock("stages { stage('X') {", "stages"); ok {
		t.Fatalf("expected absence when depth never returns to zero")
	}
}

func TestExtractBlockIgnoresBracesInStrings(t *testing.T) {
	text := `steps {
  sh 'echo {not a block}'
  sh 'printf }'
}`
	body, ok := ExtractBlock(text, "steps")
	if !ok {
		t.Fatalf("expected steps block despite braces inside strings")
	}
	if !strings.Contains(body, "printf }") {
		t.Fatalf("expected body to keep the second step, got %q", body)
	}
}

func TestExtractBlockKeywordBoundary(t *testing.T) {
	text := `prestages { x } stages { y }`
	body, ok := ExtractBlock(text, "stages")
	if !ok {
		t.Fatalf("expected stages block")
	}
	if trimmed := strings.TrimSpace(body); trimmed != "y" {
		t.Fatalf("expected the standalone stages block, got %q", trimmed)
	}
}

func TestStripComments(t *testing.T) {
	text := "sh 'make' // build it\n// whole line\necho 'done'"
	stripped := stripComments(text)
	if strings.Contains(stripped, "build it") || strings.Contains(stripped, "whole line") {
		t.Fatalf("expected comments removed, got %q", stripped)
	}
	if !strings.Contains(stripped, "echo 'done'") {
		t.Fatalf("expected code preserved, got %q", stripped)
	}
}

func TestMaskStringsPreservesLength(t *testing.T) {
	text := `sh 'a{b}c' "d}e"`
	masked := maskStrings(text)
	if len(masked) != len(text) {
		t.Fatalf("mask changed length: %d vs %d", len(masked), len(text))
	}
	if strings.Contains(masked, "{") || strings.Contains(masked, "}") {
		t.Fatalf("expected braces masked, got %q", masked)
	}
}
