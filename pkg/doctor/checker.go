package doctor

import (
	"fmt"
	"sync"

	"github.com/jaspreet-dot-casa/bootstrap/pkg/installer"
	"github.com/jaspreet-dot-casa/bootstrap/pkg/platform"
	"github.com/jaspreet-dot-casa/bootstrap/pkg/specs"
)

// PathResolver is the optional part of a prober that reports where a
// command was found.
type PathResolver interface {
	LookPath(file string) (string, error)
}

// Checker probes package specs.
type Checker struct {
	prober   installer.Prober
	planner  Planner
	resolver PathResolver
}

// NewChecker creates a Checker. planner may be nil, in which case missing
// packages carry no fix command.
func NewChecker(prober installer.Prober, planner Planner) *Checker {
	c := &Checker{prober: prober, planner: planner}
	if r, ok := prober.(PathResolver); ok {
		c.resolver = r
	}
	return c
}

// NewCheckerWithResolver creates a Checker that records resolved paths.
func NewCheckerWithResolver(resolver PathResolver, planner Planner) *Checker {
	return &Checker{
		prober: installer.ProberFunc(func(command string) bool {
			_, err := resolver.LookPath(command)
			return err == nil
		}),
		planner:  planner,
		resolver: resolver,
	}
}

// CheckAll probes every spec that applies to family, in processing order.
// It fails with installer.ErrMissingSpec when a required spec is empty.
func (c *Checker) CheckAll(all []specs.PackageSpec, family platform.Family) ([]CheckGroup, error) {
	selected, err := c.selectSpecs(all, family)
	if err != nil {
		return nil, err
	}
	result := make([]CheckGroup, 0, len(selected))
	for _, spec := range selected {
		result = append(result, c.CheckSpec(spec))
	}
	return result, nil
}

// CheckAllAsync is CheckAll with each spec probed concurrently. Probes have
// no side effects so group order is the only thing to preserve.
func (c *Checker) CheckAllAsync(all []specs.PackageSpec, family platform.Family) ([]CheckGroup, error) {
	selected, err := c.selectSpecs(all, family)
	if err != nil {
		return nil, err
	}
	result := make([]CheckGroup, len(selected))
	var wg sync.WaitGroup

	for i, spec := range selected {
		wg.Add(1)
		go func(idx int, s specs.PackageSpec) {
			defer wg.Done()
			result[idx] = c.CheckSpec(s)
		}(i, spec)
	}

	wg.Wait()
	return result, nil
}

// selectSpecs applies the same preconditions as an install run, so a survey
// never reports success where installing would fail.
func (c *Checker) selectSpecs(all []specs.PackageSpec, family platform.Family) ([]specs.PackageSpec, error) {
	if !family.Supported() {
		return nil, fmt.Errorf("%w: %s", installer.ErrUnsupportedPlatform, family)
	}
	if c.prober == nil {
		return nil, installer.ErrProbeCapabilityMissing
	}
	return installer.Applicable(all, family)
}

// CheckSpec runs the checks for one spec.
func (c *Checker) CheckSpec(spec specs.PackageSpec) CheckGroup {
	group := CheckGroup{
		ID:       spec.Name,
		Scope:    string(spec.Scope),
		Required: spec.Required,
	}
	for _, entry := range spec.Entries {
		group.Checks = append(group.Checks, c.check(spec.Name, entry))
	}
	return group
}

func (c *Checker) check(specName string, entry specs.Entry) Check {
	check := Check{
		Spec:    specName,
		Package: entry.Package,
		Probe:   entry.ProbeCommand(),
	}

	if c.prober.IsResolvable(check.Probe) {
		check.Status = StatusOK
		check.Message = "installed"
		if c.resolver != nil {
			if path, err := c.resolver.LookPath(check.Probe); err == nil {
				check.Message = path
			}
		}
		return check
	}

	check.Status = StatusMissing
	check.Message = "not installed"
	if c.planner == nil {
		return check
	}

	fix, err := fixFor(c.planner, entry)
	if err != nil {
		check.Status = StatusError
		check.Message = err.Error()
		return check
	}
	check.FixCommand = fix
	return check
}

// Summary represents an overall health summary.
type Summary struct {
	Total   int
	OK      int
	Missing int
	Errors  int
}

// GetSummary returns a summary of check results.
func GetSummary(groups []CheckGroup) Summary {
	var summary Summary

	for _, group := range groups {
		for _, check := range group.Checks {
			summary.Total++
			switch check.Status {
			case StatusOK:
				summary.OK++
			case StatusMissing:
				summary.Missing++
			case StatusError:
				summary.Errors++
			}
		}
	}

	return summary
}

// HasIssues returns true if any package is missing or uninstallable.
func HasIssues(groups []CheckGroup) bool {
	summary := GetSummary(groups)
	return summary.Missing > 0 || summary.Errors > 0
}
