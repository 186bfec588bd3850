package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"jenkins2ci/internal/ado"
	"jenkins2ci/internal/config"
	"jenkins2ci/internal/convert"
	"jenkins2ci/internal/manifest"
	"jenkins2ci/internal/output"
	"jenkins2ci/internal/report"
)

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Convert every Jenkinsfile in a manifest, pushing to Azure DevOps when targets are given",
		RunE:  runBatch,
	}
	cmd.Flags().String("manifest", "", "path to manifest.json or manifest.csv")
	_ = cmd.MarkFlagRequired("manifest")
	return cmd
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	manifestPath, err := cmd.Flags().GetString("manifest")
	if err != nil {
		return fmt.Errorf("parse --manifest: %w", err)
	}
	items, err := manifest.Load(manifestPath)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No manifest items")
		return nil
	}

	results := make([]report.Result, 0, len(items))
	for i, item := range items {
		if cfg.Verbose {
			fmt.Fprintf(cmd.ErrOrStderr(), "processing [%d/%d]: %s\n", i+1, len(items), item.Jenkinsfile)
		}
		results = append(results, processItem(cmd.Context(), cfg, item))
	}

	summary := report.Summarize(results)

	switch strings.ToLower(cfg.Format) {
	case config.FormatPretty:
		if err := output.NewPretty(cmd.OutOrStdout()).RenderResults(results, summary); err != nil {
			return err
		}
	case config.FormatJSON:
		status := "complete"
		if err := (output.NewJSON(cmd.OutOrStdout()).Render(output.Report{
			Status:  status,
			Results: results,
			Summary: &summary,
		})); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format %q", cfg.Format)
	}

	if summary.ExitCode != 0 {
		return fmt.Errorf("one or more items failed")
	}
	return nil
}

// itemSlug names the per-item output directory after the Jenkinsfile's
// parent directory, falling back to the file name for bare paths.
func itemSlug(jenkinsfile string) string {
	dir := filepath.Base(filepath.Dir(jenkinsfile))
	if dir != "." && dir != string(filepath.Separator) {
		return dir
	}
	return strings.TrimSuffix(filepath.Base(jenkinsfile), filepath.Ext(jenkinsfile))
}

// processItem converts a single manifest item and, when Azure DevOps
// coordinates are present, pushes the generated document. A failure is
// recorded in the result and never aborts the remaining items.
func processItem(ctx context.Context, cfg config.Config, item manifest.Item) report.Result {
	result := report.Result{
		Jenkinsfile: item.Jenkinsfile,
		Org:         item.Org,
		Project:     item.Project,
		Repo:        item.Repo,
	}
	fail := func(format string, a ...any) report.Result {
		result.Status = report.StatusError
		result.Message = fmt.Sprintf(format, a...)
		return result
	}

	push := item.Org != "" || item.Project != "" || item.Repo != ""
	if err := item.Validate(push); err != nil {
		return fail("%v", err)
	}

	text, err := os.ReadFile(item.Jenkinsfile)
	if err != nil {
		return fail("read Jenkinsfile: %v", err)
	}

	opts := convertOptions(cfg)
	converted, err := convert.Convert(string(text), opts)
	if err != nil {
		return fail("conversion failed: %v", err)
	}

	// Without an explicit destination each item gets its own directory
	// under the output root, same layout as the convert command.
	outLocal := item.Out
	if outLocal == "" {
		dir := filepath.Join(cfg.OutDir, itemSlug(item.Jenkinsfile))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fail("create output directory %q: %v", dir, err)
		}
		outLocal = filepath.Join(dir, documentName(cfg.Target))
	}
	if err := os.WriteFile(outLocal, converted.Document, 0o644); err != nil {
		return fail("write document: %v", err)
	}
	result.OutLocal = outLocal

	if !push {
		result.Status = report.StatusSuccess
		result.Message = "converted"
		return result
	}

	pat := os.Getenv(cfg.PATEnv)
	if pat == "" {
		return fail("environment variable %q not set", cfg.PATEnv)
	}

	branch := item.Branch
	if branch == "" {
		branch = cfg.BranchPrefix
	}
	yamlPath := item.YAMLPath
	if yamlPath == "" {
		yamlPath = cfg.YAMLPath
	}
	result.Branch = branch
	result.YAMLPath = yamlPath

	client := ado.New(item.Org, pat)
	repos, err := client.Repositories(ctx, item.Project)
	if err != nil {
		return fail("%v", err)
	}
	repoID, ok := repos[item.Repo]
	if !ok {
		return fail("repository %q not found in project %q", item.Repo, item.Project)
	}

	pushed, err := client.PushFile(ctx, item.Project, repoID, yamlPath, string(converted.Document),
		"main", branch, "Add CI pipeline YAML migrated from Jenkinsfile")
	if err != nil {
		return fail("%v", err)
	}

	result.Status = report.StatusSuccess
	if pushed.Mode == ado.PushModeInitialized {
		result.Message = fmt.Sprintf("initialized empty repository on %q", pushed.BaseBranch)
	} else {
		result.Message = fmt.Sprintf("pushed %q to branch %q", yamlPath, branch)
	}
	return result
}
