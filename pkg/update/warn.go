package update

import (
	"context"
	"io"

	"github.com/fatih/color"
)

// WarnIfOutdated prints a yellow notice to w when a newer release exists.
// It is best effort and never returns an error; rate limits stay quiet.
func (c *Checker) WarnIfOutdated(ctx context.Context, currentVersion string, w io.Writer) {
	if w == nil {
		w = io.Discard
	}

	warn := color.New(color.FgYellow)
	result, err := c.Check(ctx, currentVersion)
	switch {
	case IsRateLimitError(err):
		return
	case err != nil:
		_, _ = warn.Fprintf(w, "warning: update check failed: %v\n", err)
	case result.CurrentIsDev:
		_, _ = warn.Fprintf(w, "warning: running a development build; latest release is %s\n", result.Latest)
	case result.Outdated:
		_, _ = warn.Fprintf(w, "warning: bootstrap %s is available (you have %s)\n", result.Latest, result.Current)
	}
}
