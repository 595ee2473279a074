package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/bootstrap/pkg/config"
	"github.com/jaspreet-dot-casa/bootstrap/pkg/ui"
	"github.com/jaspreet-dot-casa/bootstrap/pkg/validation"
)

// newValidateCmd creates the validate subcommand
func newValidateCmd(g *globalOptions) *cobra.Command {
	var specFile string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and spec files",
		Long: `Check .variables, .local_variables and .secrets for syntax errors and
unknown settings, then load the package spec. Exits 1 on any error.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := config.ResolveBaseDir(g.dir, getenv)
			if err != nil {
				return err
			}

			v := validation.NewValidator(dir)
			v.SpecFile = specFile
			result := v.ValidateAll()

			out := cmd.OutOrStdout()
			for _, issue := range result.Issues {
				location := issue.File
				if issue.Field != "" {
					location += " (" + issue.Field + ")"
				}
				style := ui.WarningStyle
				if issue.Severity == validation.SeverityError {
					style = ui.ErrorStyle
				}
				fmt.Fprintf(out, "%s %s: %s\n", style.Render(string(issue.Severity)), location, issue.Message)
			}

			if result.HasErrors() {
				return fmt.Errorf("validation failed with %d error(s)", result.ErrorCount())
			}
			fmt.Fprintln(out, ui.SuccessStyle.Render(fmt.Sprintf("Configuration OK (%d warning(s))", result.WarningCount())))
			return nil
		},
	}

	cmd.Flags().StringVarP(&specFile, "spec", "f", "", "Package spec file (YAML or TOML)")

	return cmd
}
