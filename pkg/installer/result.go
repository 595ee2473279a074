package installer

import (
	"time"

	"github.com/jaspreet-dot-casa/bootstrap/pkg/platform"
	"github.com/jaspreet-dot-casa/bootstrap/pkg/specs"
)

// Status is the per-package outcome of a run.
type Status int

const (
	// StatusAlreadyPresent means the probe resolved; nothing was run.
	StatusAlreadyPresent Status = iota
	// StatusInstalled means the package manager exited 0.
	StatusInstalled
	// StatusFailed means the package manager failed and the run halted.
	StatusFailed
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusAlreadyPresent:
		return "already present"
	case StatusInstalled:
		return "installed"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the result for one entry.
type Outcome struct {
	Spec     string
	Entry    specs.Entry
	Status   Status
	ExitCode int
	Err      error
	Duration time.Duration
}

// Counts tallies outcomes by status.
type Counts struct {
	AlreadyPresent int
	Installed      int
	Failed         int
}

// Total returns the number of outcomes counted.
func (c Counts) Total() int {
	return c.AlreadyPresent + c.Installed + c.Failed
}

// Report aggregates one Ensure run in processing order.
type Report struct {
	Family   platform.Family
	Outcomes []Outcome
}

// Counts tallies the outcomes.
func (r *Report) Counts() Counts {
	var c Counts
	for _, o := range r.Outcomes {
		switch o.Status {
		case StatusAlreadyPresent:
			c.AlreadyPresent++
		case StatusInstalled:
			c.Installed++
		case StatusFailed:
			c.Failed++
		}
	}
	return c
}

// Failed returns the failing outcome, or nil. A run halts on the first
// failure so there is at most one.
func (r *Report) Failed() *Outcome {
	for i := range r.Outcomes {
		if r.Outcomes[i].Status == StatusFailed {
			return &r.Outcomes[i]
		}
	}
	return nil
}

// OK reports whether no outcome failed.
func (r *Report) OK() bool {
	return r.Failed() == nil
}

// ExitCode is 0 when every outcome is non-failed, 1 otherwise.
func (r *Report) ExitCode() int {
	if r.OK() {
		return 0
	}
	return 1
}

// Lookup returns the outcome for a package id, if it was processed.
func (r *Report) Lookup(pkg string) (Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Entry.Package == pkg {
			return o, true
		}
	}
	return Outcome{}, false
}
