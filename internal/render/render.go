// Package render maps the pipeline model onto target CI documents. Two
// strategies exist for each target: a generic structural rendering that
// mirrors the parsed stages, and a fixed-stage rendering that emits a
// canonical checkout/setup/build/test/deploy sequence driven by the
// toolchain signature. Rendering never fails on a valid model; every
// absence of data degrades to a documented fallback.
package render

import (
	"regexp"
	"strings"

	"jenkins2ci/internal/pipeline"
)

// displayNameLimit bounds step display names to a prefix of the command.
const displayNameLimit = 60

// DisplayName truncates a command to the bounded display prefix. The cut
// is by rune, never mid-sequence, so the result stays valid UTF-8.
func DisplayName(command string) string {
	runes := []rune(command)
	if len(runes) > displayNameLimit {
		return string(runes[:displayNameLimit])
	}
	return command
}

// Runner images shared by both target formats.
const (
	RunnerLinux   = "ubuntu-latest"
	RunnerWindows = "windows-latest"
	RunnerMacOS   = "macos-latest"
)

// RunnerImage picks the runner for an agent. Only label agents influence
// the choice: labels containing "windows" map to the Windows runner,
// "mac"/"osx" to macOS, everything else (including any and docker agents)
// to the default Linux runner. A docker image reference is retained in the
// model but never translated into a container directive.
func RunnerImage(agent pipeline.Agent) string {
	if agent.Kind == pipeline.AgentLabel {
		label := strings.ToLower(agent.Label)
		if strings.Contains(label, "windows") {
			return RunnerWindows
		}
		if strings.Contains(label, "mac") || strings.Contains(label, "osx") {
			return RunnerMacOS
		}
	}
	return RunnerLinux
}

// FallbackScript is emitted when a stage yields zero renderable steps, so a
// stage never renders with an empty step list.
const FallbackScript = "echo No steps parsed"

// NoStagesScript is the body of the flat fallback document emitted when the
// model has no stages at all.
const NoStagesScript = "echo No stages parsed from Jenkinsfile"

var stageNameRe = map[string]*regexp.Regexp{
	"Checkout": regexp.MustCompile(`stage\s*\(\s*['"]Checkout['"]`),
	"Build":    regexp.MustCompile(`stage\s*\(\s*['"]Build['"]`),
	"Test":     regexp.MustCompile(`stage\s*\(\s*['"]Test['"]`),
	"Deploy":   regexp.MustCompile(`stage\s*\(\s*['"]Deploy['"]`),
}

// Gates records which canonical fixed-strategy steps the source pipeline
// gives evidence for. Each fixed step is emitted only when its gate is open.
type Gates struct {
	Checkout bool
	Restore  bool
	Build    bool
	Test     bool
	Deploy   bool
}

// GatesFrom scans the raw pipeline text for the named stages and command
// markers that open each gate.
func GatesFrom(text string) Gates {
	lower := strings.ToLower(text)
	has := func(marker string) bool { return strings.Contains(lower, marker) }
	stage := func(name string) bool { return stageNameRe[name].MatchString(text) }

	return Gates{
		Checkout: stage("Checkout") || has("checkout scm"),
		Restore:  has("dotnet restore"),
		Build:    stage("Build") || has("mvn clean compile") || has("dotnet build"),
		Test:     stage("Test") || has("mvn test") || has("dotnet test"),
		Deploy:   stage("Deploy") || has("scp") || has("dotnet publish"),
	}
}

// FixedCommand is one canonical step of the fixed-stage strategy.
type FixedCommand struct {
	Name string
	Run  string
}

// FixedCommands resolves the gated command sequence for a toolchain. The
// returned slice excludes checkout and toolchain setup, which are
// target-specific; it is empty for an unknown toolchain because canonical
// commands come entirely from the signature kind.
func FixedCommands(kind pipeline.ToolchainKind, gates Gates) []FixedCommand {
	var out []FixedCommand
	switch kind {
	case pipeline.ToolchainMaven:
		if gates.Build {
			out = append(out, FixedCommand{Name: "Build the project", Run: "mvn clean compile"})
		}
		if gates.Test {
			out = append(out, FixedCommand{Name: "Run tests", Run: "mvn test"})
		}
		if gates.Deploy {
			out = append(out, FixedCommand{Name: "Deploy the project", Run: "mvn deploy"})
		}
	case pipeline.ToolchainDotNet:
		if gates.Restore {
			out = append(out, FixedCommand{Name: "Restore dependencies", Run: "dotnet restore"})
		}
		build := "dotnet build --configuration Release"
		if gates.Restore {
			build += " --no-restore"
		}
		if gates.Build {
			out = append(out, FixedCommand{Name: "Build the project", Run: build})
		}
		if gates.Test {
			out = append(out, FixedCommand{Name: "Run tests", Run: "dotnet test --configuration Release"})
		}
		if gates.Deploy {
			out = append(out, FixedCommand{Name: "Publish the project", Run: "dotnet publish --configuration Release"})
		}
	}
	return out
}
