package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "jenkins2ci",
		Short:         "Jenkins2ci translates Jenkins declarative pipelines into GitHub Actions or Azure DevOps YAML",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	persistent := cmd.PersistentFlags()
	persistent.String("target", "", "target format (github|azure)")
	persistent.String("strategy", "", "rendering strategy (stages|fixed)")
	persistent.String("priority", "", "classifier tie-break (dotnet-first|maven-first)")
	persistent.String("format", "pretty", "output format (pretty|json)")
	persistent.String("out", "", "output directory for generated documents")
	persistent.String("ado-org", "", "Azure DevOps organization")
	persistent.String("ado-project", "", "Azure DevOps project")
	persistent.BoolP("verbose", "v", false, "print extra diagnostics to stderr")

	cmd.AddCommand(newConvertCmd())
	cmd.AddCommand(newBatchCmd())
	cmd.AddCommand(newPublishCmd())

	return cmd
}
