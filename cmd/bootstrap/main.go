// Package main provides the bootstrap CLI, which brings a fresh machine to a
// declared baseline of packages and is safe to run again at any time.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// version is set via -ldflags during build
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCmd()

	// Cobra handles error printing
	rootCmd.SilenceUsage = true

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// newRootCmd creates the root command for bootstrap
func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Idempotent machine bootstrapper",
		Long: `bootstrap installs a declared baseline of packages on Linux and macOS.

Each package is probed first and only installed when its command is missing,
so running it again is always safe. Configuration is read from .variables,
.local_variables and .secrets in the config directory, then BOOTSTRAP_*
environment variables.`,
		Version: version,
	}

	rootCmd.PersistentFlags().StringVar(&opts.dir, "dir", "", "Config directory (defaults to $BOOTSTRAP_HOME or ~/.config/bootstrap)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newInstallBasicsCmd(opts),
		newStatusCmd(opts),
		newPackagesCmd(opts),
		newEnvCmd(opts),
		newCheckUpdateCmd(opts),
		newValidateCmd(opts),
	)

	return rootCmd
}
