package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"jenkins2ci/internal/ado"
	"jenkins2ci/internal/config"
	"jenkins2ci/internal/discovery"
	"jenkins2ci/internal/output"
	"jenkins2ci/internal/report"
)

func newPublishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Push generated pipeline documents to Azure DevOps and open pull requests",
		RunE:  runPublish,
	}
	cmd.Flags().String("in-root", "", "folder containing generated documents and summary.json sidecars")
	cmd.Flags().String("targets", "", "optional CSV with per-source target overrides")
	cmd.Flags().Bool("create-if-missing", false, "create the repository when it does not exist")
	cmd.Flags().Bool("autodiscover-projects", false, "scan every project in the organization for the repository")
	_ = cmd.MarkFlagRequired("in-root")
	return cmd
}

func runPublish(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Org == "" || cfg.Project == "" {
		return fmt.Errorf("publish requires --ado-org and --ado-project (or config values)")
	}
	pat := os.Getenv(cfg.PATEnv)
	if pat == "" {
		return fmt.Errorf("environment variable %q not set", cfg.PATEnv)
	}

	inRoot, err := cmd.Flags().GetString("in-root")
	if err != nil {
		return fmt.Errorf("parse --in-root: %w", err)
	}
	targetsPath, err := cmd.Flags().GetString("targets")
	if err != nil {
		return fmt.Errorf("parse --targets: %w", err)
	}
	createMissing, err := cmd.Flags().GetBool("create-if-missing")
	if err != nil {
		return fmt.Errorf("parse --create-if-missing: %w", err)
	}
	autodiscover, err := cmd.Flags().GetBool("autodiscover-projects")
	if err != nil {
		return fmt.Errorf("parse --autodiscover-projects: %w", err)
	}

	outputs, err := discovery.Outputs(inRoot, documentName(cfg.Target))
	if err != nil {
		return err
	}
	if len(outputs) == 0 {
		return fmt.Errorf("no generated documents found under %q", inRoot)
	}

	overrides, err := loadTargets(targetsPath)
	if err != nil {
		return err
	}

	client := ado.New(cfg.Org, pat)
	ctx := cmd.Context()

	var projects []string
	if autodiscover {
		projects, err = client.Projects(ctx)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		}
	}

	pub := publisher{
		cfg:           cfg,
		client:        client,
		overrides:     overrides,
		projects:      projects,
		createMissing: createMissing,
	}

	results := make([]report.Result, 0, len(outputs))
	for _, out := range outputs {
		results = append(results, pub.publish(ctx, out))
	}
	summary := report.Summarize(results)

	switch strings.ToLower(cfg.Format) {
	case config.FormatPretty:
		if err := output.NewPretty(cmd.OutOrStdout()).RenderResults(results, summary); err != nil {
			return err
		}
	case config.FormatJSON:
		if err := (output.NewJSON(cmd.OutOrStdout()).Render(output.Report{
			Status:  "complete",
			Results: results,
			Summary: &summary,
		})); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format %q", cfg.Format)
	}

	if summary.ExitCode != 0 {
		return fmt.Errorf("one or more documents failed to publish")
	}
	return nil
}

// targetOverride is one row of the optional targets CSV, keyed by source
// URL or repository name.
type targetOverride struct {
	Org        string
	Project    string
	Repo       string
	YAMLPath   string
	BaseBranch string
	NewBranch  string
}

func loadTargets(path string) (map[string]targetOverride, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open targets %q: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse targets %q: %w", path, err)
	}
	if len(records) < 2 {
		return nil, nil
	}

	column := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		column[strings.TrimSpace(name)] = i
	}
	field := func(row []string, name string) string {
		i, ok := column[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	out := make(map[string]targetOverride)
	for _, row := range records[1:] {
		key := field(row, "source")
		if key == "" {
			continue
		}
		out[key] = targetOverride{
			Org:        field(row, "ado_org"),
			Project:    field(row, "ado_project"),
			Repo:       field(row, "ado_repo"),
			YAMLPath:   field(row, "yaml_path"),
			BaseBranch: field(row, "base_branch"),
			NewBranch:  field(row, "new_branch"),
		}
	}
	return out, nil
}

type publisher struct {
	cfg           config.Config
	client        *ado.Client
	overrides     map[string]targetOverride
	projects      []string
	createMissing bool
}

func (p publisher) publish(ctx context.Context, out discovery.Output) report.Result {
	result := report.Result{Source: out.Slug}
	fail := func(format string, a ...any) report.Result {
		result.Status = report.StatusError
		result.Message = fmt.Sprintf(format, a...)
		return result
	}
	skip := func(format string, a ...any) report.Result {
		result.Status = report.StatusSkipped
		result.Message = fmt.Sprintf(format, a...)
		return result
	}

	summary := readSummary(out.SummaryPath)
	source := summary.Source
	if source == "" {
		source = out.Slug
	}
	result.Source = source

	repoName := repoNameFromSource(source)
	if repoName == "" {
		return skip("could not infer repository name from source %q", source)
	}

	override, ok := p.overrides[source]
	if !ok {
		override = p.overrides[repoName]
	}

	org := firstNonEmpty(override.Org, p.cfg.Org)
	project := firstNonEmpty(override.Project, p.cfg.Project)
	repoName = firstNonEmpty(override.Repo, repoName)
	yamlPath := firstNonEmpty(override.YAMLPath, p.cfg.YAMLPath)
	baseBranch := firstNonEmpty(override.BaseBranch, "main")
	newBranch := override.NewBranch
	if newBranch == "" {
		newBranch = fmt.Sprintf("%s-%d", p.cfg.BranchPrefix, time.Now().Unix())
	}
	result.Org = org
	result.Project = project
	result.Repo = repoName
	result.Branch = newBranch
	result.YAMLPath = yamlPath

	content, err := os.ReadFile(out.DocumentPath)
	if err != nil {
		return fail("read document: %v", err)
	}

	repoID, project, err := p.resolveRepo(ctx, project, repoName)
	if err != nil {
		return fail("%v", err)
	}
	if repoID == "" {
		return skip("repository %q not found; provide a targets override or enable --create-if-missing", repoName)
	}
	result.Project = project

	pushed, err := p.client.PushFile(ctx, project, repoID, yamlPath, string(content), baseBranch, newBranch,
		"Add CI pipeline YAML migrated from Jenkinsfile")
	if err != nil {
		return fail("%v", err)
	}
	if pushed.Mode == ado.PushModeInitialized {
		result.Status = report.StatusSuccess
		result.Message = fmt.Sprintf("initialized empty repository on %q; pull request skipped", pushed.BaseBranch)
		return result
	}

	prID, err := p.client.OpenPullRequest(ctx, project, repoID, newBranch, pushed.BaseBranch,
		"Add CI pipeline YAML (migrated from Jenkins)", prDescription(summary))
	if err != nil {
		return fail("%v", err)
	}

	result.Status = report.StatusSuccess
	result.Message = fmt.Sprintf("pull request #%d created", prID)
	return result
}

// resolveRepo finds the repository id, optionally scanning every project
// and creating the repository as a last resort. The effective project is
// returned alongside the id; an empty id with nil error means not found.
func (p publisher) resolveRepo(ctx context.Context, project, repoName string) (string, string, error) {
	repos, err := p.client.Repositories(ctx, project)
	if err != nil {
		return "", project, err
	}
	if id, ok := repos[repoName]; ok {
		return id, project, nil
	}

	for _, candidate := range p.projects {
		if candidate == project {
			continue
		}
		repos, err := p.client.Repositories(ctx, candidate)
		if err != nil {
			continue
		}
		if id, ok := repos[repoName]; ok {
			return id, candidate, nil
		}
	}

	if p.createMissing {
		id, err := p.client.CreateRepository(ctx, project, repoName)
		if err != nil {
			return "", project, err
		}
		return id, project, nil
	}
	return "", project, nil
}

func readSummary(path string) report.Conversion {
	var summary report.Conversion
	if path == "" {
		return summary
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return summary
	}
	// A malformed sidecar degrades to an empty summary rather than failing
	// the publish.
	_ = json.Unmarshal(data, &summary)
	return summary
}

func prDescription(summary report.Conversion) string {
	lines := []string{"Automated migration.", ""}
	if summary.Stack != "" && summary.Stack != "unknown" {
		line := fmt.Sprintf("Detected stack: %s", summary.Stack)
		if summary.Confidence > 0 {
			line += fmt.Sprintf(" (confidence %.2f)", summary.Confidence)
		}
		lines = append(lines, line)
	}
	if len(summary.Reasons) > 0 {
		lines = append(lines, "Reasons: "+strings.Join(summary.Reasons, ", "))
	}
	return strings.Join(lines, "\n") + "\n"
}

// repoNameFromSource extracts the repository name (without .git) from a
// URL, SSH shorthand or path.
func repoNameFromSource(source string) string {
	s := strings.TrimSpace(source)
	if s == "" {
		return ""
	}
	if strings.HasPrefix(s, "git@") {
		if idx := strings.Index(s, ":"); idx >= 0 {
			s = s[idx+1:]
		}
	} else if idx := strings.Index(s, "://"); idx >= 0 {
		s = s[idx+3:]
	}
	s = strings.TrimRight(s, "/")
	if idx := strings.LastIndex(s, "/"); idx >= 0 {
		s = s[idx+1:]
	}
	return strings.TrimSuffix(s, ".git")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
