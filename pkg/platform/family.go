// Package platform detects the operating system family the installer targets.
package platform

import (
	"fmt"
	"strings"
)

// Family is the closed set of operating system families the installer knows.
type Family int

const (
	// Unsupported is any OS the installer has no package manager for.
	Unsupported Family = iota
	// Linux covers Debian/Ubuntu style systems with apt and snap.
	Linux
	// MacOS covers Darwin systems with Homebrew.
	MacOS
)

// GOOS values recognized by FromGOOS.
const (
	GOOSLinux  = "linux"
	GOOSDarwin = "darwin"
)

// String returns the lowercase family name.
func (f Family) String() string {
	switch f {
	case Linux:
		return "linux"
	case MacOS:
		return "macos"
	case Unsupported:
		return "unsupported"
	default:
		return "unsupported"
	}
}

// Supported reports whether the installer can run on f.
func (f Family) Supported() bool {
	switch f {
	case Linux, MacOS:
		return true
	case Unsupported:
		return false
	default:
		return false
	}
}

// ParseFamily converts a user-supplied name into a Family.
// It accepts the GOOS spelling ("darwin") as well as "macos"/"mac"/"osx".
func ParseFamily(name string) (Family, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "linux":
		return Linux, nil
	case "macos", "mac", "osx", GOOSDarwin:
		return MacOS, nil
	default:
		return Unsupported, fmt.Errorf("unknown OS family %q (expected linux or macos)", name)
	}
}

// FromGOOS maps a runtime.GOOS value onto a Family.
func FromGOOS(goos string) Family {
	switch goos {
	case GOOSLinux:
		return Linux
	case GOOSDarwin:
		return MacOS
	default:
		return Unsupported
	}
}
