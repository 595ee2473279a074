package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/bootstrap/pkg/ui"
)

// newEnvCmd creates the env subcommand
func newEnvCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Show the effective configuration",
		Long:  `Print every variable from the config cascade with the file that set it. Secrets are masked.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := g.open(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", ui.DimStyle.Render("# config directory:"), s.cfg.BaseDir)
			ui.RenderSettings(out, s.cfg.Settings())
			return nil
		},
	}
}
