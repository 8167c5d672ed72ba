// Package capability probes the environment for optional libraries that
// unlock extra features. Detection is advisory: a missing capability is
// reported, never fatal.
package capability

import (
	"context"

	"github.com/cueup-dev/cueup/internal/execx"
	"github.com/cueup-dev/cueup/internal/logger"
	"github.com/cueup-dev/cueup/internal/venv"
)

// Capability names an optional library and the feature it unlocks.
type Capability struct {
	// Name identifies the feature (e.g. "tunneling").
	Name string
	// Module is the Python module whose importability signals availability.
	Module string
	// Hint tells the user how to enable the feature when it is absent.
	Hint string
}

// Flags maps capability names to availability.
type Flags map[string]bool

// Available reports whether the named capability was detected.
func (f Flags) Available(name string) bool {
	return f[name]
}

// Detect probes each capability's backing module inside the environment. The
// probe is a bare import with no configuration or network access, so absence
// is the only failure mode and the pipeline never stops here.
func Detect(ctx context.Context, env venv.Handle, caps []Capability, log *logger.Logger) Flags {
	flags := make(Flags, len(caps))

	for _, cap := range caps {
		_, err := execx.Capture(ctx, env.Interpreter, "-c", "import "+cap.Module)
		available := err == nil
		flags[cap.Name] = available

		fields := log.WithFields(map[string]any{"capability": cap.Name})
		if available {
			fields.Info("optional capability available")
		} else {
			fields.WithFields(map[string]any{"hint": cap.Hint}).Info("optional capability not available")
		}
	}

	return flags
}
