// Package installer ensures declared packages are present: probe each entry,
// install only what is missing, and stop at the first failed install.
package installer

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jaspreet-dot-casa/bootstrap/pkg/platform"
	"github.com/jaspreet-dot-casa/bootstrap/pkg/specs"
)

// Prober checks whether a command is already available. It must not have side effects.
type Prober interface {
	IsResolvable(command string) bool
}

// PackageManager installs one entry and returns the package manager's exit status.
// A non-nil error means the command could not be run to completion.
type PackageManager interface {
	Install(ctx context.Context, entry specs.Entry) (int, error)
}

// ProberFunc adapts a function to Prober.
type ProberFunc func(command string) bool

// IsResolvable calls f.
func (f ProberFunc) IsResolvable(command string) bool {
	return f(command)
}

// InstallFunc adapts a function to PackageManager.
type InstallFunc func(ctx context.Context, entry specs.Entry) (int, error)

// Install calls f.
func (f InstallFunc) Install(ctx context.Context, entry specs.Entry) (int, error) {
	return f(ctx, entry)
}

// Installer runs the probe-then-install pass.
type Installer struct {
	prober  Prober
	manager PackageManager
	logger  zerolog.Logger
	now     func() time.Time
}

// Option configures an Installer.
type Option func(*Installer)

// WithLogger sets the logger used for progress and failures.
func WithLogger(logger zerolog.Logger) Option {
	return func(i *Installer) {
		i.logger = logger
	}
}

// WithClock replaces time.Now for outcome durations.
func WithClock(now func() time.Time) Option {
	return func(i *Installer) {
		i.now = now
	}
}

// New creates an Installer. Either capability may be nil; Ensure then
// fails with ErrProbeCapabilityMissing.
func New(prober Prober, manager PackageManager, opts ...Option) *Installer {
	i := &Installer{
		prober:  prober,
		manager: manager,
		logger:  zerolog.Nop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Ensure makes every entry of the specs applicable to family present.
//
// Entries are handled in order. A resolvable probe is recorded as already
// present and nothing runs. Otherwise the package manager is invoked; a
// non-zero exit halts the run and returns the partial report together with an
// *InstallFailedError. Precondition failures return a nil report.
func (i *Installer) Ensure(ctx context.Context, all []specs.PackageSpec, family platform.Family) (*Report, error) {
	applicable, err := i.preflight(all, family)
	if err != nil {
		return nil, err
	}

	report := &Report{Family: family}
	for _, spec := range applicable {
		log := i.logger.With().Str("spec", spec.Name).Logger()

		for _, entry := range spec.Entries {
			outcome := i.ensureEntry(ctx, log, spec.Name, entry)
			report.Outcomes = append(report.Outcomes, outcome)

			if outcome.Status == StatusFailed {
				log.Error().
					Str("package", entry.Package).
					Int("exit_code", outcome.ExitCode).
					AnErr("cause", outcome.Err).
					Msg("install failed, halting")
				return report, &InstallFailedError{
					Spec:     spec.Name,
					Package:  entry.Package,
					ExitCode: outcome.ExitCode,
					Err:      outcome.Err,
				}
			}
		}
	}

	counts := report.Counts()
	i.logger.Info().
		Int("already_present", counts.AlreadyPresent).
		Int("installed", counts.Installed).
		Msg("all packages present")
	return report, nil
}

func (i *Installer) preflight(all []specs.PackageSpec, family platform.Family) ([]specs.PackageSpec, error) {
	if err := checkFamily(family); err != nil {
		return nil, err
	}

	if i.prober == nil {
		return nil, fmt.Errorf("%w: no prober", ErrProbeCapabilityMissing)
	}
	if i.manager == nil {
		return nil, fmt.Errorf("%w: no package manager", ErrProbeCapabilityMissing)
	}

	return Applicable(all, family)
}

// Applicable returns the specs Ensure would process for family, common
// first. It fails with ErrUnsupportedPlatform for an unsupported family and
// with ErrMissingSpec when no spec applies or a required one is empty.
func Applicable(all []specs.PackageSpec, family platform.Family) ([]specs.PackageSpec, error) {
	if err := checkFamily(family); err != nil {
		return nil, err
	}

	applicable := specs.Select(all, family)
	if len(applicable) == 0 {
		return nil, fmt.Errorf("%w: no spec applies to %s", ErrMissingSpec, family)
	}
	for _, spec := range applicable {
		if spec.Required && len(spec.Entries) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrMissingSpec, spec.Name)
		}
	}
	return applicable, nil
}

func checkFamily(family platform.Family) error {
	switch family {
	case platform.Linux, platform.MacOS:
		return nil
	case platform.Unsupported:
		return fmt.Errorf("%w: no package manager for this OS", ErrUnsupportedPlatform)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedPlatform, family)
	}
}

func (i *Installer) ensureEntry(ctx context.Context, log zerolog.Logger, specName string, entry specs.Entry) Outcome {
	outcome := Outcome{Spec: specName, Entry: entry}
	probe := entry.ProbeCommand()

	if i.prober.IsResolvable(probe) {
		outcome.Status = StatusAlreadyPresent
		log.Debug().Str("package", entry.Package).Str("probe", probe).Msg("already present")
		return outcome
	}

	log.Info().Str("package", entry.Package).Msg("installing")
	start := i.now()
	code, err := i.manager.Install(ctx, entry)
	outcome.Duration = i.now().Sub(start)
	outcome.ExitCode = code
	outcome.Err = err

	if err != nil || code != 0 {
		outcome.Status = StatusFailed
		return outcome
	}

	outcome.Status = StatusInstalled
	log.Info().Str("package", entry.Package).Dur("took", outcome.Duration).Msg("installed")
	return outcome
}
