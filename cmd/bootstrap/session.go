package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/bootstrap/pkg/config"
	"github.com/jaspreet-dot-casa/bootstrap/pkg/logging"
	"github.com/jaspreet-dot-casa/bootstrap/pkg/pkgmgr"
	"github.com/jaspreet-dot-casa/bootstrap/pkg/platform"
	"github.com/jaspreet-dot-casa/bootstrap/pkg/specs"
	"github.com/jaspreet-dot-casa/bootstrap/pkg/update"
)

// Seams for tests.
var (
	detectPlatform = platform.Detect
	newExecutor    = func(cmd *cobra.Command) pkgmgr.Executor {
		return &pkgmgr.RealExecutor{
			Stdin:  cmd.InOrStdin(),
			Stdout: cmd.OutOrStdout(),
			Stderr: cmd.ErrOrStderr(),
		}
	}
	newUpdateChecker = update.NewChecker
	getenv           = os.Getenv
)

// globalOptions holds the persistent flags.
type globalOptions struct {
	dir      string
	logLevel string
}

// session is the configuration and logger for one command invocation.
type session struct {
	cfg    *config.Config
	logger zerolog.Logger
}

func (o *globalOptions) open(cmd *cobra.Command) (*session, error) {
	dir, err := config.ResolveBaseDir(o.dir, getenv)
	if err != nil {
		return nil, fmt.Errorf("could not resolve config directory: %w", err)
	}
	cfg, err := config.NewReader(dir).ReadAll()
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if o.logLevel != "" {
		level = o.logLevel
	}
	logger, err := logging.New(cmd.ErrOrStderr(), logging.Options{Level: level, Format: cfg.LogFormat})
	if err != nil {
		return nil, err
	}

	logger.Debug().Str("dir", cfg.BaseDir).Str("version", version).Msg("configuration loaded")
	return &session{cfg: cfg, logger: logger}, nil
}

// family resolves the target OS: flag, then BOOTSTRAP_OS, then detection.
func (s *session) family(flagOS string) (platform.Family, error) {
	if flagOS != "" {
		return platform.ParseFamily(flagOS)
	}
	info := detectPlatform()
	family, err := s.cfg.ResolveFamily(info.Family)
	if err != nil {
		return platform.Unsupported, err
	}
	s.logger.Debug().
		Str("family", family.String()).
		Str("goos", info.GOOS).
		Str("distro", info.DistroID).
		Msg("platform resolved")
	if family == platform.Linux && info.DistroID != "" && !info.IsDebianLike() {
		s.logger.Warn().
			Str("distro", info.DistroID).
			Msg("not a Debian-based distribution; apt installs may fail")
	}
	return family, nil
}

// loadSpecs loads the spec file from the flag or config, or the embedded defaults.
func (s *session) loadSpecs(flagSpec string) ([]specs.PackageSpec, error) {
	path := s.cfg.SpecFile
	if flagSpec != "" {
		path = flagSpec
	}
	all, err := specs.LoadOrDefault(path)
	if err != nil {
		return nil, fmt.Errorf("could not load package specs: %w", err)
	}
	return all, nil
}

// system builds the package managers for family.
func (s *session) system(cmd *cobra.Command, family platform.Family) (*pkgmgr.System, pkgmgr.Executor, error) {
	exec := newExecutor(cmd)
	sys, err := pkgmgr.ForFamily(family, pkgmgr.Options{
		Executor: exec,
		UseSudo:  s.cfg.UseSudo,
		Timeout:  s.cfg.InstallTimeout,
		Logger:   s.logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return sys, exec, nil
}
