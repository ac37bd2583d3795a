package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cmmoran/buildergen/pkg/action/plan"
)

func init() {
	var planCmd = NewPlanCommand()
	rootCmd.AddCommand(planCmd)
}

func NewPlanCommand() *cobra.Command {
	// planCmd represents the buildergen plan command
	var planCmd = &cobra.Command{
		Use:          "plan [flags] file...",
		Short:        "show builder fields",
		Long:         "Print, as yaml, the targets and builder fields generate would produce for each file",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(c *cobra.Command, args []string) error {
			cfg, err := builderConfig(c)
			if err != nil {
				return err
			}
			return plan.Plan(c.Context(), args, cfg, c.OutOrStdout(), slog.Default())
		},
	}
	addBuilderFlags(planCmd)

	return planCmd
}
