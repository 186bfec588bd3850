package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"jenkins2ci/internal/config"
	"jenkins2ci/internal/convert"
	"jenkins2ci/internal/pipeline/jenkins"
	"jenkins2ci/internal/report"
)

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	root, err := os.Getwd()
	if err != nil {
		return config.Config{}, fmt.Errorf("determine working directory: %w", err)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return config.Config{}, err
	}

	flags, err := gatherFlags(cmd)
	if err != nil {
		return config.Config{}, err
	}
	config.ApplyFlags(&cfg, flags)

	if err := config.Validate(cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func convertOptions(cfg config.Config) convert.Options {
	return convert.Options{
		Target:   convert.Target(cfg.Target),
		Strategy: convert.Strategy(cfg.Strategy),
		Priority: jenkins.Priority(cfg.Priority),
	}
}

// documentName is the file name the generated document is written under.
func documentName(target string) string {
	if target == config.TargetAzure {
		return "azure-pipelines.yml"
	}
	return "ci-workflow.yml"
}

// writeOutputs persists the rendered document and its summary sidecar,
// returning the document path.
func writeOutputs(outDir string, cfg config.Config, doc []byte, summary report.Conversion) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory %q: %w", outDir, err)
	}

	docPath := filepath.Join(outDir, documentName(cfg.Target))
	if err := os.WriteFile(docPath, doc, 0o644); err != nil {
		return "", fmt.Errorf("write document %q: %w", docPath, err)
	}

	summary.OutYAML = docPath
	encoded, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode summary: %w", err)
	}
	summaryPath := filepath.Join(outDir, "summary.json")
	if err := os.WriteFile(summaryPath, append(encoded, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write summary %q: %w", summaryPath, err)
	}
	return docPath, nil
}
