package installer

import (
	"errors"
	"fmt"
)

// Precondition failures. They are detected before any probe or install runs.
var (
	// ErrUnsupportedPlatform means the OS family has no package manager.
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	// ErrProbeCapabilityMissing means the probe or install capability was not provided.
	ErrProbeCapabilityMissing = errors.New("probe or install capability missing")

	// ErrMissingSpec means a required spec for the OS is absent or empty.
	ErrMissingSpec = errors.New("required package spec missing or empty")
)

// InstallFailedError reports the package that halted the run.
type InstallFailedError struct {
	Spec     string
	Package  string
	ExitCode int
	Err      error // launch or context error, if any
}

func (e *InstallFailedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("install %s (spec %s) failed: %v", e.Package, e.Spec, e.Err)
	}
	return fmt.Sprintf("install %s (spec %s) failed: exit status %d", e.Package, e.Spec, e.ExitCode)
}

func (e *InstallFailedError) Unwrap() error {
	return e.Err
}

// IsPrecondition reports whether err is one of the precondition failures.
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrUnsupportedPlatform) ||
		errors.Is(err, ErrProbeCapabilityMissing) ||
		errors.Is(err, ErrMissingSpec)
}
