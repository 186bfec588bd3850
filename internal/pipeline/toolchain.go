package pipeline

// ToolchainKind is the build-tool family a pipeline appears to drive.
type ToolchainKind string

const (
	ToolchainMaven   ToolchainKind = "maven"
	ToolchainDotNet  ToolchainKind = "dotnet"
	ToolchainUnknown ToolchainKind = "unknown"
)

// ToolchainSignature is the classifier verdict for one pipeline text.
// Evidence lists every marker string that matched, in marker-table order.
// Confidence and Reasons exist for downstream summary consumers (pull
// request descriptions, reports); the engine itself never acts on them.
type ToolchainSignature struct {
	Kind       ToolchainKind `json:"kind"`
	Evidence   []string      `json:"evidence,omitempty"`
	Confidence float64       `json:"confidence"`
	Reasons    []string      `json:"reasons,omitempty"`
}
