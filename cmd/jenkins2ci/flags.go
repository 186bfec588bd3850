package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"jenkins2ci/internal/config"
)

func gatherFlags(cmd *cobra.Command) (config.FlagValues, error) {
	flags := cmd.Flags()
	var values config.FlagValues

	stringFlag := func(name string, dest *config.StringFlag) error {
		if !flags.Changed(name) {
			return nil
		}
		v, err := flags.GetString(name)
		if err != nil {
			return fmt.Errorf("parse --%s: %w", name, err)
		}
		*dest = config.StringFlag{Value: v, Set: true}
		return nil
	}

	if err := stringFlag("target", &values.Target); err != nil {
		return values, err
	}
	if err := stringFlag("strategy", &values.Strategy); err != nil {
		return values, err
	}
	if err := stringFlag("priority", &values.Priority); err != nil {
		return values, err
	}
	if err := stringFlag("format", &values.Format); err != nil {
		return values, err
	}
	if err := stringFlag("out", &values.OutDir); err != nil {
		return values, err
	}
	if err := stringFlag("ado-org", &values.Org); err != nil {
		return values, err
	}
	if err := stringFlag("ado-project", &values.Project); err != nil {
		return values, err
	}

	if flags.Changed("verbose") {
		v, err := flags.GetBool("verbose")
		if err != nil {
			return values, fmt.Errorf("parse --verbose: %w", err)
		}
		values.Verbose = config.BoolFlag{Value: v, Set: true}
	}

	return values, nil
}
