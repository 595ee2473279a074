package pkgmgr

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jaspreet-dot-casa/bootstrap/pkg/installer"
	"github.com/jaspreet-dot-casa/bootstrap/pkg/platform"
	"github.com/jaspreet-dot-casa/bootstrap/pkg/specs"
)

// Options configures a System.
type Options struct {
	Executor Executor
	// UseSudo prefixes root-only managers with sudo unless already root.
	UseSudo bool
	// Timeout bounds each package manager invocation; 0 means no limit.
	Timeout time.Duration
	Logger  zerolog.Logger
	// IsRoot defaults to checking the effective uid.
	IsRoot func() bool
}

// System is the package manager set for one OS family. It implements
// installer.PackageManager.
type System struct {
	family   platform.Family
	exec     Executor
	managers map[string]Manager
	primary  string
	sudo     bool
	timeout  time.Duration
	logger   zerolog.Logger

	aptUpdated bool
}

// ForFamily returns the package managers for family:
// apt-get (default) and snap on Linux, brew (default) and casks on macOS.
func ForFamily(family platform.Family, opts Options) (*System, error) {
	s := &System{
		family:  family,
		exec:    opts.Executor,
		timeout: opts.Timeout,
		logger:  opts.Logger,
	}
	if s.exec == nil {
		s.exec = NewRealExecutor()
	}

	isRoot := opts.IsRoot
	if isRoot == nil {
		isRoot = func() bool { return os.Geteuid() == 0 }
	}

	switch family {
	case platform.Linux:
		s.managers = map[string]Manager{specs.ManagerApt: Apt{}, specs.ManagerSnap: Snap{}}
		s.primary = specs.ManagerApt
		s.sudo = opts.UseSudo && !isRoot()
	case platform.MacOS:
		s.managers = map[string]Manager{specs.ManagerBrew: Brew{}, specs.ManagerCask: Cask{}}
		s.primary = specs.ManagerBrew
	case platform.Unsupported:
		return nil, fmt.Errorf("%w: no package manager for %s", installer.ErrUnsupportedPlatform, family)
	default:
		return nil, fmt.Errorf("%w: %s", installer.ErrUnsupportedPlatform, family)
	}
	return s, nil
}

// Family returns the OS family the System was built for.
func (s *System) Family() platform.Family {
	return s.family
}

// Prober returns a PATH prober sharing the System's executor.
func (s *System) Prober() PathProber {
	return PathProber{Exec: s.exec}
}

// ManagerFor returns the manager an entry uses.
func (s *System) ManagerFor(entry specs.Entry) (Manager, error) {
	name := entry.Manager
	if name == "" {
		name = s.primary
	}
	m, ok := s.managers[name]
	if !ok {
		return nil, fmt.Errorf("package %s: manager %q is not available on %s", entry.Package, name, s.family)
	}
	return m, nil
}

// CommandFor returns the full argv that installs entry, including sudo.
func (s *System) CommandFor(entry specs.Entry) ([]string, error) {
	m, err := s.ManagerFor(entry)
	if err != nil {
		return nil, err
	}
	return s.argv(m, m.InstallArgs(entry)), nil
}

// CommandString is CommandFor joined for display.
func (s *System) CommandString(entry specs.Entry) string {
	argv, err := s.CommandFor(entry)
	if err != nil {
		return ""
	}
	return strings.Join(argv, " ")
}

// Install runs the package manager for entry and returns its exit status.
func (s *System) Install(ctx context.Context, entry specs.Entry) (int, error) {
	m, err := s.ManagerFor(entry)
	if err != nil {
		return -1, err
	}

	if apt, ok := m.(Apt); ok && !s.aptUpdated {
		code, err := s.run(ctx, s.argv(m, apt.UpdateArgs()))
		if err != nil || code != 0 {
			if err == nil {
				err = fmt.Errorf("apt-get update exited with status %d", code)
			}
			return code, err
		}
		s.aptUpdated = true
	}

	return s.run(ctx, s.argv(m, m.InstallArgs(entry)))
}

func (s *System) argv(m Manager, args []string) []string {
	argv := make([]string, 0, len(args)+2)
	if m.NeedsRoot() && s.sudo {
		argv = append(argv, "sudo")
	}
	argv = append(argv, m.Binary())
	return append(argv, args...)
}

func (s *System) run(ctx context.Context, argv []string) (int, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	s.logger.Debug().Strs("argv", argv).Msg("running package manager")
	return s.exec.Run(ctx, argv[0], argv[1:]...)
}
