package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/bootstrap/pkg/doctor"
	"github.com/jaspreet-dot-casa/bootstrap/pkg/installer"
	"github.com/jaspreet-dot-casa/bootstrap/pkg/ui"
	"github.com/jaspreet-dot-casa/bootstrap/pkg/update"
)

type installOptions struct {
	dryRun bool
	spec   string
	os     string
}

// newInstallBasicsCmd creates the install-basics subcommand
func newInstallBasicsCmd(g *globalOptions) *cobra.Command {
	opts := &installOptions{}

	cmd := &cobra.Command{
		Use:   "install-basics",
		Short: "Install the baseline packages for this OS",
		Long: `Probe every package in the common and OS-specific specs and install the
ones whose command is missing. Stops at the first failed install.

With --dry-run nothing is installed; the commands that would run are shown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInstallBasics(cmd, g, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.dryRun, "dry-run", "n", false, "Show what would be installed without installing")
	cmd.Flags().StringVarP(&opts.spec, "spec", "f", "", "Package spec file (YAML or TOML)")
	cmd.Flags().StringVar(&opts.os, "os", "", "Target OS family (linux or macos)")

	return cmd
}

func runInstallBasics(cmd *cobra.Command, g *globalOptions, opts *installOptions) error {
	s, err := g.open(cmd)
	if err != nil {
		return err
	}

	family, err := s.family(opts.os)
	if err != nil {
		return err
	}
	sys, exec, err := s.system(cmd, family)
	if err != nil {
		return err
	}
	all, err := s.loadSpecs(opts.spec)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if opts.dryRun {
		groups, err := doctor.NewCheckerWithResolver(exec, sys).CheckAll(all, family)
		if err != nil {
			return err
		}
		ui.RenderChecks(out, groups, true)
		if cmds := doctor.FixCommands(groups); len(cmds) == 0 {
			fmt.Fprintln(out, ui.SuccessStyle.Render("Nothing to install."))
		} else {
			fmt.Fprintf(out, "%d package(s) would be installed.\n", len(cmds))
		}
		return nil
	}

	inst := installer.New(sys.Prober(), sys, installer.WithLogger(s.logger))
	report, err := inst.Ensure(cmd.Context(), all, family)
	ui.RenderReport(out, report)
	if err != nil {
		return err
	}

	if s.cfg.UpdateCheck && !update.IsDev(version) {
		newUpdateChecker(s.cfg.ReleaseRepo).WarnIfOutdated(cmd.Context(), version, cmd.ErrOrStderr())
	}
	return nil
}
