package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config captures CLI options sourced from config files or flags.
type Config struct {
	Target   string `yaml:"target"`
	Strategy string `yaml:"strategy"`
	Priority string `yaml:"priority"`
	Format   string `yaml:"format"`

	OutDir       string `yaml:"out_dir"`
	YAMLPath     string `yaml:"yaml_path"`
	BranchPrefix string `yaml:"branch_prefix"`

	Org     string `yaml:"ado_org"`
	Project string `yaml:"ado_project"`
	PATEnv  string `yaml:"pat_env"`

	Verbose bool `yaml:"verbose"`
}

const (
	// TargetGitHub emits a GitHub-Actions-shaped workflow.
	TargetGitHub = "github"
	// TargetAzure emits an Azure-DevOps-shaped pipeline.
	TargetAzure = "azure"

	// StrategyStages renders one target stage per source stage.
	StrategyStages = "stages"
	// StrategyFixed renders the canonical toolchain-driven sequence.
	StrategyFixed = "fixed"

	// FormatPretty renders human readable output.
	FormatPretty = "pretty"
	// FormatJSON renders machine readable output.
	FormatJSON = "json"
)

// Default returns the baseline configuration used when no flags or config
// file specify values.
func Default() Config {
	return Config{
		Target:       TargetGitHub,
		Strategy:     StrategyStages,
		Priority:     "dotnet-first",
		Format:       FormatPretty,
		OutDir:       "out",
		YAMLPath:     "/azure-pipelines.yml",
		BranchPrefix: "jenkins-migration",
		PATEnv:       "ADO_PAT",
	}
}

// Load reads .jenkins2ci.yml from the working root when present. Missing
// files are ignored.
func Load(root string) (Config, error) {
	cfg := Default()
	path := filepath.Join(root, ".jenkins2ci.yml")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}

	cfg = merge(cfg, fileCfg)
	return cfg, nil
}

func merge(base, override Config) Config {
	out := base

	if override.Target != "" {
		out.Target = override.Target
	}
	if override.Strategy != "" {
		out.Strategy = override.Strategy
	}
	if override.Priority != "" {
		out.Priority = override.Priority
	}
	if override.Format != "" {
		out.Format = override.Format
	}
	if override.OutDir != "" {
		out.OutDir = override.OutDir
	}
	if override.YAMLPath != "" {
		out.YAMLPath = override.YAMLPath
	}
	if override.BranchPrefix != "" {
		out.BranchPrefix = override.BranchPrefix
	}
	if override.Org != "" {
		out.Org = override.Org
	}
	if override.Project != "" {
		out.Project = override.Project
	}
	if override.PATEnv != "" {
		out.PATEnv = override.PATEnv
	}
	if override.Verbose {
		out.Verbose = true
	}

	return out
}

// Validate rejects option values outside the known sets.
func Validate(cfg Config) error {
	switch cfg.Target {
	case TargetGitHub, TargetAzure:
	default:
		return fmt.Errorf("unsupported target %q", cfg.Target)
	}
	switch cfg.Strategy {
	case StrategyStages, StrategyFixed:
	default:
		return fmt.Errorf("unsupported strategy %q", cfg.Strategy)
	}
	switch cfg.Priority {
	case "dotnet-first", "maven-first":
	default:
		return fmt.Errorf("unsupported priority %q", cfg.Priority)
	}
	switch cfg.Format {
	case FormatPretty, FormatJSON:
	default:
		return fmt.Errorf("unsupported format %q", cfg.Format)
	}
	return nil
}

// ApplyFlags mutates cfg by applying values from CLI flags when they are
// present.
func ApplyFlags(cfg *Config, flags FlagValues) {
	if flags.Target.Set {
		cfg.Target = flags.Target.Value
	}
	if flags.Strategy.Set {
		cfg.Strategy = flags.Strategy.Value
	}
	if flags.Priority.Set {
		cfg.Priority = flags.Priority.Value
	}
	if flags.Format.Set {
		cfg.Format = flags.Format.Value
	}
	if flags.OutDir.Set {
		cfg.OutDir = flags.OutDir.Value
	}
	if flags.Org.Set {
		cfg.Org = flags.Org.Value
	}
	if flags.Project.Set {
		cfg.Project = flags.Project.Value
	}
	if flags.Verbose.Set {
		cfg.Verbose = flags.Verbose.Value
	}
}

// FlagValues captures CLI flag state with knowledge of whether each flag
// was set explicitly.
type FlagValues struct {
	Target   StringFlag
	Strategy StringFlag
	Priority StringFlag
	Format   StringFlag
	OutDir   StringFlag
	Org      StringFlag
	Project  StringFlag
	Verbose  BoolFlag
}

// StringFlag represents a string flag and whether it was set.
type StringFlag struct {
	Value string
	Set   bool
}

// BoolFlag represents a bool flag and whether it was set.
type BoolFlag struct {
	Value bool
	Set   bool
}
