package ui

import (
	"fmt"
	"io"

	"github.com/jaspreet-dot-casa/bootstrap/pkg/config"
	"github.com/jaspreet-dot-casa/bootstrap/pkg/doctor"
	"github.com/jaspreet-dot-casa/bootstrap/pkg/installer"
	"github.com/jaspreet-dot-casa/bootstrap/pkg/specs"
)

// RenderReport writes one line per outcome followed by the totals.
func RenderReport(w io.Writer, report *installer.Report) {
	if report == nil {
		return
	}

	width := packageWidth(report)
	spec := ""
	for _, o := range report.Outcomes {
		if o.Spec != spec {
			spec = o.Spec
			fmt.Fprintln(w, HeaderStyle.Render(spec))
		}
		line := fmt.Sprintf("  %-*s %s", width, o.Entry.Package, RenderStatus(o.Status.String()))
		if o.Status == installer.StatusFailed {
			line += " " + ErrorStyle.Render(failureDetail(o))
		}
		fmt.Fprintln(w, line)
	}

	c := report.Counts()
	summary := fmt.Sprintf("%d already present, %d installed, %d failed", c.AlreadyPresent, c.Installed, c.Failed)
	if c.Failed > 0 {
		fmt.Fprintln(w, ErrorStyle.Render(summary))
	} else {
		fmt.Fprintln(w, SuccessStyle.Render(summary))
	}
}

func failureDetail(o installer.Outcome) string {
	if o.Err != nil {
		return "(" + o.Err.Error() + ")"
	}
	return fmt.Sprintf("(exit status %d)", o.ExitCode)
}

func packageWidth(report *installer.Report) int {
	width := 0
	for _, o := range report.Outcomes {
		width = max(width, len(o.Entry.Package))
	}
	return width
}

// RenderChecks writes a survey grouped by spec. When plan is true, the
// install command is shown for each missing package.
func RenderChecks(w io.Writer, groups []doctor.CheckGroup, plan bool) {
	width := 0
	for _, g := range groups {
		for _, c := range g.Checks {
			width = max(width, len(c.Package))
		}
	}

	for _, g := range groups {
		header := HeaderStyle.Render(g.ID)
		if g.Required {
			header += DimStyle.Render(" (required)")
		}
		fmt.Fprintln(w, header)
		if len(g.Checks) == 0 {
			fmt.Fprintln(w, DimStyle.Render("  (no packages)"))
		}

		for _, c := range g.Checks {
			line := fmt.Sprintf("  %-*s %s", width, c.Package, RenderStatus(c.Status.String()))
			switch {
			case c.Status == doctor.StatusOK:
				line += " " + DimStyle.Render(c.Message)
			case c.Status == doctor.StatusError:
				line += " " + ErrorStyle.Render(c.Message)
			case plan && c.FixCommand != nil:
				line += " " + AccentStyle.Render("→ "+c.FixCommand.Command())
			}
			fmt.Fprintln(w, line)
		}
	}

	s := doctor.GetSummary(groups)
	summary := fmt.Sprintf("%d/%d present, %d missing", s.OK, s.Total, s.Missing)
	if s.Errors > 0 {
		summary += fmt.Sprintf(", %d not installable", s.Errors)
	}
	if doctor.HasIssues(groups) {
		fmt.Fprintln(w, WarningStyle.Render(summary))
	} else {
		fmt.Fprintln(w, SuccessStyle.Render(summary))
	}
}

// RenderSpecs lists every spec and its entries.
func RenderSpecs(w io.Writer, all []specs.PackageSpec) {
	for _, s := range all {
		fmt.Fprintf(w, "%s %s\n", HeaderStyle.Render(s.Name), DimStyle.Render("["+string(s.Scope)+"]"))
		for _, e := range s.Entries {
			line := "  " + e.Package
			if probe := e.ProbeCommand(); probe != e.Package {
				line += DimStyle.Render(" (probe " + probe + ")")
			}
			if e.Manager != "" {
				line += DimStyle.Render(" via " + e.Manager)
			}
			fmt.Fprintln(w, line)
		}
	}
}

// RenderSettings writes KEY=value lines with their source file.
func RenderSettings(w io.Writer, settings []config.Setting) {
	if len(settings) == 0 {
		fmt.Fprintln(w, DimStyle.Render("no variables set"))
		return
	}
	for _, s := range settings {
		fmt.Fprintf(w, "%s=%s %s\n", BoldStyle.Render(s.Key), s.Value, DimStyle.Render("# "+s.Source))
	}
}
