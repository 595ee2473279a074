// Package specs defines the declarative package specs the installer consumes:
// ordered mappings of package identifier to probe command, partitioned by OS.
package specs

import (
	"fmt"
	"strings"

	"github.com/jaspreet-dot-casa/bootstrap/pkg/platform"
)

// Scope says which OS families a spec applies to.
type Scope string

const (
	ScopeCommon Scope = "common"
	ScopeLinux  Scope = "linux"
	ScopeMacOS  Scope = "macos"
)

// Package manager names an Entry may request.
const (
	ManagerApt  = "apt"
	ManagerSnap = "snap"
	ManagerBrew = "brew"
	ManagerCask = "cask"
)

var knownManagers = map[string]bool{
	ManagerApt:  true,
	ManagerSnap: true,
	ManagerBrew: true,
	ManagerCask: true,
}

// AppliesTo reports whether specs in scope s are used on family f.
func (s Scope) AppliesTo(f platform.Family) bool {
	switch f {
	case platform.Linux:
		return s == ScopeCommon || s == ScopeLinux
	case platform.MacOS:
		return s == ScopeCommon || s == ScopeMacOS
	case platform.Unsupported:
		return false
	default:
		return false
	}
}

// ScopeForName derives the scope from a spec name. The name is either the
// scope itself ("linux") or the scope followed by "-" or "." and a suffix
// ("linux-desktop").
func ScopeForName(name string) (Scope, error) {
	base := name
	if i := strings.IndexAny(name, "-."); i > 0 {
		base = name[:i]
	}
	switch Scope(strings.ToLower(base)) {
	case ScopeCommon:
		return ScopeCommon, nil
	case ScopeLinux:
		return ScopeLinux, nil
	case ScopeMacOS:
		return ScopeMacOS, nil
	default:
		return "", fmt.Errorf("spec %q: name must start with common, linux or macos", name)
	}
}

// Entry is one package in a spec.
type Entry struct {
	// Package is the identifier handed to the package manager.
	Package string
	// Probe is the command looked up on PATH; empty means Package.
	Probe string
	// Manager overrides the family's default package manager.
	Manager string
	// Args are extra package manager arguments (e.g. --classic for snap).
	Args []string
}

// ProbeCommand returns the command whose presence means the package is installed.
func (e Entry) ProbeCommand() string {
	if e.Probe != "" {
		return e.Probe
	}
	return e.Package
}

// PackageSpec is a named, ordered set of entries for one scope.
type PackageSpec struct {
	Name     string
	Scope    Scope
	Required bool
	Entries  []Entry
}

// AppliesTo reports whether the spec is used on family f.
func (s PackageSpec) AppliesTo(f platform.Family) bool {
	return s.Scope.AppliesTo(f)
}

// Packages returns the package identifiers in order.
func (s PackageSpec) Packages() []string {
	names := make([]string, len(s.Entries))
	for i, e := range s.Entries {
		names[i] = e.Package
	}
	return names
}

// Validate checks entry identifiers are present and unique and managers known.
func (s PackageSpec) Validate() error {
	seen := make(map[string]bool, len(s.Entries))
	for i, e := range s.Entries {
		if strings.TrimSpace(e.Package) == "" {
			return fmt.Errorf("spec %q: entry %d has no package name", s.Name, i+1)
		}
		if seen[e.Package] {
			return fmt.Errorf("spec %q: duplicate package %q", s.Name, e.Package)
		}
		seen[e.Package] = true
		if e.Manager != "" && !knownManagers[e.Manager] {
			return fmt.Errorf("spec %q: package %q: unknown manager %q", s.Name, e.Package, e.Manager)
		}
	}
	return nil
}

// Select returns the specs that apply to family, common scope first, each
// group in its original order.
func Select(all []PackageSpec, family platform.Family) []PackageSpec {
	var common, specific []PackageSpec
	for _, s := range all {
		if !s.AppliesTo(family) {
			continue
		}
		if s.Scope == ScopeCommon {
			common = append(common, s)
		} else {
			specific = append(specific, s)
		}
	}
	return append(common, specific...)
}

// Find returns the spec with the given name.
func Find(all []PackageSpec, name string) (PackageSpec, bool) {
	for _, s := range all {
		if s.Name == name {
			return s, true
		}
	}
	return PackageSpec{}, false
}
