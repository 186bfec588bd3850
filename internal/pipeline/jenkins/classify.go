package jenkins

import (
	"fmt"
	"strings"

	"jenkins2ci/internal/pipeline"
)

// Priority selects the classifier tie-break when markers from both build
// families appear in the same pipeline.
type Priority string

const (
	// PriorityDotNetFirst prefers the .NET family on ties. This is the
	// default: the .NET markers are specific multi-word commands while the
	// Maven marker is a bare substring, so specific evidence wins.
	PriorityDotNetFirst Priority = "dotnet-first"
	// PriorityMavenFirst prefers Maven on ties.
	PriorityMavenFirst Priority = "maven-first"
)

// DefaultPriority is the documented tie-break used when callers do not
// choose one.
const DefaultPriority = PriorityDotNetFirst

var dotNetMarkers = []string{
	"dotnet restore",
	"dotnet build",
	"dotnet test",
	"dotnet publish",
	"dotnet --info",
}

const mavenMarker = "mvn"

// Classify scans the full pipeline text for build-tool markers and returns
// the toolchain signature. Matching is case-insensitive substring search.
// Evidence records every marker that matched regardless of which family
// wins; confidence grows with the number of distinct markers matched for
// the winning family.
func Classify(text string, priority Priority) pipeline.ToolchainSignature {
	lower := strings.ToLower(text)

	var dotNetHits []string
	for _, marker := range dotNetMarkers {
		if strings.Contains(lower, marker) {
			dotNetHits = append(dotNetHits, marker)
		}
	}
	var mavenHits []string
	if strings.Contains(lower, mavenMarker) {
		mavenHits = []string{mavenMarker}
	}

	sig := pipeline.ToolchainSignature{Kind: pipeline.ToolchainUnknown}
	sig.Evidence = append(sig.Evidence, dotNetHits...)
	sig.Evidence = append(sig.Evidence, mavenHits...)
	for _, marker := range sig.Evidence {
		sig.Reasons = append(sig.Reasons, fmt.Sprintf("matched %q in pipeline text", marker))
	}

	winning := 0
	switch {
	case len(dotNetHits) > 0 && (priority != PriorityMavenFirst || len(mavenHits) == 0):
		sig.Kind = pipeline.ToolchainDotNet
		winning = len(dotNetHits)
	case len(mavenHits) > 0:
		sig.Kind = pipeline.ToolchainMaven
		winning = len(mavenHits)
	}
	sig.Confidence = confidence(winning)
	return sig
}

// confidence maps a distinct-marker count to [0, 1]. Zero markers mean an
// unknown toolchain; a single broad match never reaches full confidence.
func confidence(markers int) float64 {
	if markers == 0 {
		return 0
	}
	if markers > 5 {
		markers = 5
	}
	return 0.5 + 0.1*float64(markers)
}
