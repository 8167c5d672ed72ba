// Package probe locates a usable Python interpreter on the host and gates it
// against the project's minimum version.
package probe

import (
	"context"
	"fmt"

	"github.com/cueup-dev/cueup/internal/execx"
	"github.com/cueup-dev/cueup/internal/logger"
	"github.com/cueup-dev/cueup/internal/platform"
	"github.com/cueup-dev/cueup/internal/pyversion"
	errs "github.com/cueup-dev/cueup/pkg/errors"
)

// versionQuery prints the interpreter's version triple on a single line.
// Asking the interpreter itself avoids parsing the "Python X.Y.Z" banner,
// which some wrappers decorate.
const versionQuery = `import sys; print("%d.%d.%d" % sys.version_info[:3])`

// Runtime describes the interpreter selected for this invocation. Immutable
// after Find returns.
type Runtime struct {
	// Command is the executable name or path that responded.
	Command string

	// BaseArgs precede any caller arguments (the "py -3" selector form).
	BaseArgs []string

	// Version is the interpreter's reported version triple.
	Version pyversion.Version

	// MeetsMinimum records the gate outcome. Find only returns runtimes
	// with this set; it exists so callers can log the gating decision.
	MeetsMinimum bool
}

// Args builds a full argument vector for invoking the runtime with extra
// arguments appended after the base selector.
func (r Runtime) Args(extra ...string) []string {
	out := make([]string, 0, len(r.BaseArgs)+len(extra))
	out = append(out, r.BaseArgs...)
	out = append(out, extra...)
	return out
}

// Display renders the runtime invocation the way a user would type it.
func (r Runtime) Display() string {
	out := r.Command
	for _, a := range r.BaseArgs {
		out += " " + a
	}
	return out
}

// Find probes the adapter's candidate invocations in order and returns the
// first one that responds to a version query and satisfies min. When
// candidates respond but all fall short of min, the newest one is reported
// in the RuntimeTooOld failure so the message names what was actually found.
func Find(ctx context.Context, ad platform.Adapter, min pyversion.Version, log *logger.Logger) (Runtime, error) {
	tried := make([]string, 0, len(ad.Candidates))

	var best Runtime
	var bestFound bool

	for _, cand := range ad.Candidates {
		tried = append(tried, cand.Display())

		res, err := execx.Capture(ctx, cand.Name, append(cand.Args, "-c", versionQuery)...)
		if err != nil {
			log.WithFields(map[string]any{"candidate": cand.Display()}).Debug("candidate did not respond")
			continue
		}

		version, err := pyversion.Parse(res.Stdout)
		if err != nil {
			log.WithFields(map[string]any{"candidate": cand.Display(), "output": res.Stdout}).Debug("unparseable version output")
			continue
		}

		rt := Runtime{Command: cand.Name, BaseArgs: cand.Args, Version: version}
		if version.AtLeast(min) {
			rt.MeetsMinimum = true
			log.WithFields(map[string]any{
				"interpreter": rt.Display(),
				"version":     version.String(),
			}).Debug(fmt.Sprintf("selected interpreter (minimum %s)", min.Release()))
			return rt, nil
		}

		if !bestFound || version.Compare(best.Version) > 0 {
			best = rt
			bestFound = true
		}
	}

	if bestFound {
		return Runtime{}, errs.NewRuntimeTooOldError(best.Display(), best.Version.String(), min.Release())
	}
	return Runtime{}, errs.NewRuntimeNotFoundError(tried)
}
