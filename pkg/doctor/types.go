// Package doctor surveys package specs without installing anything: each
// entry is probed and reported present or missing with the command that
// would install it.
package doctor

// CheckStatus represents the status of a package check.
type CheckStatus int

const (
	// StatusOK indicates the probe command resolved on PATH.
	StatusOK CheckStatus = iota
	// StatusMissing indicates the probe command was not found.
	StatusMissing
	// StatusError indicates the entry cannot be installed on this OS.
	StatusError
)

// String returns the string representation of the status.
func (s CheckStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusMissing:
		return "missing"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Check represents a single package check result.
type Check struct {
	Spec       string      // Spec the entry belongs to
	Package    string      // Package identifier
	Probe      string      // Command looked up on PATH
	Status     CheckStatus // Current status
	Message    string      // Resolved path, or why the entry cannot install
	FixCommand *FixCommand // How to install if missing (nil when present)
}

// FixCommand describes how to install a missing package.
type FixCommand struct {
	Manager string   // Package manager name
	Argv    []string // Full command line, sudo included
	Sudo    bool     // Whether the command runs via sudo
}

// Command returns the argv joined for display.
func (f *FixCommand) Command() string {
	if f == nil {
		return ""
	}
	return joinArgv(f.Argv)
}

// CheckGroup is the set of checks for one spec.
type CheckGroup struct {
	ID       string // Spec name
	Scope    string // common, linux or macos
	Required bool
	Checks   []Check
}
