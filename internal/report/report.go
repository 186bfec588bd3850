package report

import "jenkins2ci/internal/pipeline"

// Conversion is the summary record written next to each generated document.
// Downstream publishing reads stack/confidence/reasons for pull request
// descriptions; the engine only fills the fields in.
type Conversion struct {
	Jenkinsfile     string         `json:"jenkinsfile,omitempty"`
	Source          string         `json:"source,omitempty"`
	Target          string         `json:"target"`
	Strategy        string         `json:"strategy"`
	Stack           string         `json:"stack"`
	Confidence      float64        `json:"confidence"`
	Evidence        []string       `json:"evidence,omitempty"`
	Reasons         []string       `json:"reasons,omitempty"`
	Agent           pipeline.Agent `json:"agent"`
	EnvironmentKeys []string       `json:"environment_keys,omitempty"`
	StageCount      int            `json:"stages_count"`
	OutYAML         string         `json:"out_yaml,omitempty"`
}

// Item statuses used in batch and publish results.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusSkipped = "skipped"
)

// Result captures the outcome of one batch or publish item.
type Result struct {
	Jenkinsfile string `json:"jenkinsfile,omitempty"`
	Source      string `json:"source,omitempty"`
	Status      string `json:"status"`
	Message     string `json:"message,omitempty"`
	Org         string `json:"ado_org,omitempty"`
	Project     string `json:"ado_project,omitempty"`
	Repo        string `json:"ado_repo,omitempty"`
	Branch      string `json:"ado_branch,omitempty"`
	YAMLPath    string `json:"yaml_path,omitempty"`
	OutLocal    string `json:"out_local,omitempty"`
}

// Summary aggregates batch results.
type Summary struct {
	Processed  int `json:"processed"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
	Skipped    int `json:"skipped"`
	ExitCode   int `json:"exit_code"`
}

// Summarize counts result statuses into a summary.
func Summarize(results []Result) Summary {
	s := Summary{Processed: len(results)}
	for _, r := range results {
		switch r.Status {
		case StatusSuccess:
			s.Successful++
		case StatusSkipped:
			s.Skipped++
		default:
			s.Failed++
		}
	}
	if s.Failed > 0 {
		s.ExitCode = 1
	}
	return s
}
