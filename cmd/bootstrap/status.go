package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/bootstrap/pkg/doctor"
	"github.com/jaspreet-dot-casa/bootstrap/pkg/ui"
)

// newStatusCmd creates the status subcommand
func newStatusCmd(g *globalOptions) *cobra.Command {
	var specFile, osName string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show which baseline packages are installed",
		Long:  `Probe every package without installing anything. Exits 1 when a package is missing.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := g.open(cmd)
			if err != nil {
				return err
			}
			family, err := s.family(osName)
			if err != nil {
				return err
			}
			sys, exec, err := s.system(cmd, family)
			if err != nil {
				return err
			}
			all, err := s.loadSpecs(specFile)
			if err != nil {
				return err
			}

			groups, err := doctor.NewCheckerWithResolver(exec, sys).CheckAllAsync(all, family)
			if err != nil {
				return err
			}
			ui.RenderChecks(cmd.OutOrStdout(), groups, false)

			if doctor.HasIssues(groups) {
				summary := doctor.GetSummary(groups)
				return fmt.Errorf("%d of %d packages missing; run install-basics", summary.Missing+summary.Errors, summary.Total)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&specFile, "spec", "f", "", "Package spec file (YAML or TOML)")
	cmd.Flags().StringVar(&osName, "os", "", "Target OS family (linux or macos)")

	return cmd
}
