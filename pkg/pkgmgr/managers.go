package pkgmgr

import (
	"github.com/jaspreet-dot-casa/bootstrap/pkg/specs"
)

// Manager builds the command line that installs one entry.
type Manager interface {
	Name() string
	// Binary is the executable the manager needs.
	Binary() string
	InstallArgs(entry specs.Entry) []string
	// NeedsRoot reports whether the command must run via sudo.
	NeedsRoot() bool
}

// Apt installs Debian packages with apt-get.
type Apt struct{}

func (Apt) Name() string    { return specs.ManagerApt }
func (Apt) Binary() string  { return "apt-get" }
func (Apt) NeedsRoot() bool { return true }

func (Apt) InstallArgs(entry specs.Entry) []string {
	args := []string{"install", "-y", "--no-install-recommends"}
	args = append(args, entry.Args...)
	return append(args, entry.Package)
}

// UpdateArgs refreshes the package index.
func (Apt) UpdateArgs() []string {
	return []string{"update"}
}

// Snap installs snaps.
type Snap struct{}

func (Snap) Name() string    { return specs.ManagerSnap }
func (Snap) Binary() string  { return "snap" }
func (Snap) NeedsRoot() bool { return true }

func (Snap) InstallArgs(entry specs.Entry) []string {
	args := []string{"install", entry.Package}
	return append(args, entry.Args...)
}

// Brew installs Homebrew formulae.
type Brew struct{}

func (Brew) Name() string    { return specs.ManagerBrew }
func (Brew) Binary() string  { return "brew" }
func (Brew) NeedsRoot() bool { return false }

func (Brew) InstallArgs(entry specs.Entry) []string {
	args := []string{"install"}
	args = append(args, entry.Args...)
	return append(args, entry.Package)
}

// Cask installs Homebrew casks.
type Cask struct{}

func (Cask) Name() string    { return specs.ManagerCask }
func (Cask) Binary() string  { return "brew" }
func (Cask) NeedsRoot() bool { return false }

func (Cask) InstallArgs(entry specs.Entry) []string {
	args := []string{"install", "--cask"}
	args = append(args, entry.Args...)
	return append(args, entry.Package)
}
