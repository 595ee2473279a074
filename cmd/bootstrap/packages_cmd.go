package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/bootstrap/pkg/specs"
	"github.com/jaspreet-dot-casa/bootstrap/pkg/ui"
)

// newPackagesCmd creates the packages subcommand
func newPackagesCmd(g *globalOptions) *cobra.Command {
	var specFile, osName string
	var all bool

	cmd := &cobra.Command{
		Use:   "packages [spec...]",
		Short: "List the packages in the specs",
		Long: `List the specs that apply to this OS and their packages, in install order.

Name one or more specs to list only those, in the order given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.open(cmd)
			if err != nil {
				return err
			}

			if len(args) > 0 {
				loaded, err := s.loadSpecs(specFile)
				if err != nil {
					return err
				}
				named := make([]specs.PackageSpec, 0, len(args))
				for _, name := range args {
					spec, ok := specs.Find(loaded, name)
					if !ok {
						return fmt.Errorf("no spec named %q", name)
					}
					named = append(named, spec)
				}
				ui.RenderSpecs(cmd.OutOrStdout(), named)
				return nil
			}

			if all {
				loaded, err := s.loadSpecs(specFile)
				if err != nil {
					return err
				}
				ui.RenderSpecs(cmd.OutOrStdout(), loaded)
				return nil
			}

			family, err := s.family(osName)
			if err != nil {
				return err
			}
			loaded, err := s.loadSpecs(specFile)
			if err != nil {
				return err
			}
			ui.RenderSpecs(cmd.OutOrStdout(), specs.Select(loaded, family))
			return nil
		},
	}

	cmd.Flags().StringVarP(&specFile, "spec", "f", "", "Package spec file (YAML or TOML)")
	cmd.Flags().StringVar(&osName, "os", "", "Target OS family (linux or macos)")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "List specs for every OS")

	return cmd
}
