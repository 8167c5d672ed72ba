// Package bootstrap composes the launch pipeline: probe a runtime, ensure
// the isolated environment, reconcile dependencies, detect optional
// capabilities, then hand off to the application.
//
// The flow is strictly sequential and one-shot. Every stage re-derives its
// preconditions from the host; a failure surfaces once and ends the
// invocation, and re-running the launcher is the retry mechanism.
package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/cueup-dev/cueup/internal/capability"
	"github.com/cueup-dev/cueup/internal/config"
	"github.com/cueup-dev/cueup/internal/deps"
	"github.com/cueup-dev/cueup/internal/launch"
	"github.com/cueup-dev/cueup/internal/logger"
	"github.com/cueup-dev/cueup/internal/platform"
	"github.com/cueup-dev/cueup/internal/probe"
	"github.com/cueup-dev/cueup/internal/pyversion"
	"github.com/cueup-dev/cueup/internal/ui"
	"github.com/cueup-dev/cueup/internal/venv"
	errs "github.com/cueup-dev/cueup/pkg/errors"
)

// Pipeline runs one bootstrap-then-launch sequence.
type Pipeline struct {
	cfg     *config.Config
	repo    string
	adapter platform.Adapter
	log     *logger.Logger
	printer *ui.Printer
}

// New constructs a Pipeline anchored at the repository root repo.
func New(cfg *config.Config, repo string, adapter platform.Adapter, log *logger.Logger, printer *ui.Printer) *Pipeline {
	if printer == nil {
		printer = ui.NewPrinter(nil)
	}
	return &Pipeline{cfg: cfg, repo: repo, adapter: adapter, log: log, printer: printer}
}

// Run executes the pipeline and returns the child's exit code. On a stage
// failure the typed error is returned unrendered; the command layer is the
// single place that prints it.
func (p *Pipeline) Run(ctx context.Context, args []string) (int, error) {
	min, err := pyversion.Parse(p.cfg.Runtime.MinimumVersion)
	if err != nil {
		return 0, errs.NewValidationError("runtime.minimum_version", err.Error(), err)
	}

	rt, err := probe.Find(ctx, p.adapter, min, p.log)
	if err != nil {
		return 0, err
	}
	p.printer.OK("runtime probe", fmt.Sprintf("Python %s (%s)", rt.Version, rt.Display()))

	envRoot := p.resolve(p.cfg.Environment.Root)
	env, err := venv.NewManager(p.adapter, p.log).Ensure(ctx, envRoot, rt)
	if err != nil {
		return 0, err
	}
	p.printer.OK("environment", envRoot)

	spec := deps.Spec{
		ManifestPath: p.resolve(p.cfg.Dependencies.Manifest),
		LockPath:     p.resolve(p.cfg.Dependencies.Lock),
		Tool:         p.cfg.Dependencies.Tool,
		ToolVersion:  p.cfg.Dependencies.ToolVersion,
		AppModule:    p.cfg.Dependencies.Module,
	}
	if err := deps.NewReconciler(env, p.log).Reconcile(ctx, spec); err != nil {
		return 0, err
	}
	p.printer.OK("dependencies", "up to date")

	caps := make([]capability.Capability, 0, len(p.cfg.Capabilities))
	for _, c := range p.cfg.Capabilities {
		caps = append(caps, capability.Capability{Name: c.Name, Module: c.Module, Hint: c.Hint})
	}
	flags := capability.Detect(ctx, env, caps, p.log)
	for _, c := range caps {
		p.printer.Advisory(c.Name, flags.Available(c.Name), c.Hint)
	}

	return launch.NewRunner(p.log).Run(ctx, env, launch.Request{
		Entry: p.cfg.Entry.Module,
		Args:  args,
		Dir:   p.repo,
	})
}

// resolve anchors a manifest-relative path at the repository root.
func (p *Pipeline) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.repo, path)
}
