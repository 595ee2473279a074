package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/bootstrap/pkg/ui"
	"github.com/jaspreet-dot-casa/bootstrap/pkg/update"
)

// newCheckUpdateCmd creates the check-update subcommand
func newCheckUpdateCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check-update",
		Short: "Check GitHub for a newer release",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := g.open(cmd)
			if err != nil {
				return err
			}

			result, err := newUpdateChecker(s.cfg.ReleaseRepo).Check(cmd.Context(), version)
			if err != nil {
				if update.IsRateLimitError(err) {
					s.logger.Warn().Err(err).Msg("update check skipped")
					return nil
				}
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case result.CurrentIsDev:
				fmt.Fprintf(out, "Development build; latest release is %s\n", result.Latest)
			case result.Outdated:
				fmt.Fprintln(out, ui.WarningStyle.Render(fmt.Sprintf("bootstrap %s is available (you have %s)", result.Latest, result.Current)))
			default:
				fmt.Fprintln(out, ui.SuccessStyle.Render(fmt.Sprintf("bootstrap %s is up to date", result.Current)))
			}
			return nil
		},
	}
}
