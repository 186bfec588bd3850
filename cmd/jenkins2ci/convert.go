package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"jenkins2ci/internal/config"
	"jenkins2ci/internal/convert"
	"jenkins2ci/internal/discovery"
	"jenkins2ci/internal/output"
	"jenkins2ci/internal/report"
)

func newConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert [path]",
		Short: "Convert one Jenkinsfile (or the one found under a repository path)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runConvert,
	}
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	path := "."
	if len(args) == 1 {
		path = args[0]
	}
	jenkinsfile, err := resolveJenkinsfile(path)
	if err != nil {
		return err
	}

	text, err := os.ReadFile(jenkinsfile)
	if err != nil {
		return fmt.Errorf("read %q: %w", jenkinsfile, err)
	}

	opts := convertOptions(cfg)
	result, err := convert.Convert(string(text), opts)
	if err != nil {
		return fmt.Errorf("convert %q: %w", jenkinsfile, err)
	}

	summary := result.Summary(opts)
	summary.Jenkinsfile = jenkinsfile

	outDir := cfg.OutDir
	docPath, err := writeOutputs(outDir, cfg, result.Document, summary)
	if err != nil {
		return err
	}
	summary.OutYAML = docPath

	switch strings.ToLower(cfg.Format) {
	case config.FormatPretty:
		return output.NewPretty(cmd.OutOrStdout()).RenderConversion(summary)
	case config.FormatJSON:
		return output.NewJSON(cmd.OutOrStdout()).Render(output.Report{
			Status:     report.StatusSuccess,
			Conversion: &summary,
		})
	default:
		return fmt.Errorf("unsupported format %q", cfg.Format)
	}
}

// resolveJenkinsfile accepts either a Jenkinsfile path or a repository root
// to search.
func resolveJenkinsfile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %q: %w", path, err)
	}
	if !info.IsDir() {
		return path, nil
	}
	found, err := discovery.Jenkinsfile(path)
	if err != nil {
		return "", fmt.Errorf("locate Jenkinsfile under %q: %w", path, err)
	}
	return found, nil
}
