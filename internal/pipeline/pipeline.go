package pipeline

import "strings"

// AgentKind identifies which agent variant a pipeline declared.
type AgentKind string

const (
	// AgentAny matches `agent { any }` and every unrecognized agent form.
	AgentAny AgentKind = "any"
	// AgentLabel matches `agent { label '<name>' }`.
	AgentLabel AgentKind = "label"
	// AgentDocker matches `agent { docker { image '<ref>' } }`.
	AgentDocker AgentKind = "docker"
)

// Agent describes where a pipeline asked to run. Exactly one variant is
// populated: Label carries the node label for AgentLabel, Image carries the
// container reference for AgentDocker, and both are empty for AgentAny.
type Agent struct {
	Kind  AgentKind `json:"type"`
	Label string    `json:"label,omitempty"`
	Image string    `json:"image,omitempty"`
}

// EnvVar is a single environment assignment. Environment order is the order
// of first appearance in the source block.
type EnvVar struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Model is the intermediate representation of one declarative pipeline.
type Model struct {
	Agent       Agent    `json:"agent"`
	Environment []EnvVar `json:"environment,omitempty"`
	Stages      []Stage  `json:"stages"`
}

// EnvironmentKeys returns the environment variable names in insertion order.
func (m Model) EnvironmentKeys() []string {
	if len(m.Environment) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m.Environment))
	for _, v := range m.Environment {
		keys = append(keys, v.Name)
	}
	return keys
}

// Stage is a named ordered group of steps. Duplicate stage names are legal
// and preserved as-is.
type Stage struct {
	Name  string `json:"name"`
	Steps []Step `json:"steps"`
}

// StepKind identifies how a step line was classified.
type StepKind string

const (
	// StepShell is a `sh '...'` step; Command holds the shell command.
	StepShell StepKind = "shell"
	// StepEcho is an `echo '...'` step; Message holds the echoed text.
	StepEcho StepKind = "echo"
	// StepUnhandled is any other non-blank line, preserved verbatim so the
	// rendered document keeps a visible placeholder instead of dropping it.
	StepUnhandled StepKind = "unhandled"
)

// Step is one classified line from a steps block.
type Step struct {
	Kind StepKind `json:"kind"`
	// Command is the shell command for StepShell.
	Command string `json:"command,omitempty"`
	// Message is the echoed text for StepEcho.
	Message string `json:"message,omitempty"`
	// Original is the untouched source line for StepUnhandled.
	Original string `json:"original,omitempty"`
}

// Script returns the shell command a renderer should emit for the step.
// Unhandled lines become an echo placeholder with the original line embedded
// in single quotes, quote-escaped so the command stays well formed.
func (s Step) Script() string {
	switch s.Kind {
	case StepShell:
		return s.Command
	case StepEcho:
		return "echo " + s.Message
	default:
		return "echo 'UNHANDLED: " + EscapeSingleQuotes(s.Original) + "'"
	}
}

// EscapeSingleQuotes makes text safe for embedding inside a single-quoted
// shell string using the quote-closing idiom: ' becomes '"'"'.
func EscapeSingleQuotes(text string) string {
	return strings.ReplaceAll(text, "'", `'"'"'`)
}
