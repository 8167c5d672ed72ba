// Package deps reconciles the isolated environment's installed packages with
// the project's declared manifest. The package-manager tool itself is pinned
// to one exact version so two machines bootstrapping the same commit resolve
// dependencies identically.
package deps

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/cueup-dev/cueup/internal/execx"
	"github.com/cueup-dev/cueup/internal/logger"
	"github.com/cueup-dev/cueup/internal/venv"
	errs "github.com/cueup-dev/cueup/pkg/errors"
)

// Spec declares what a reconciled environment looks like.
type Spec struct {
	// ManifestPath is the declared dependency file (pyproject.toml).
	ManifestPath string
	// LockPath is the resolved pin file (poetry.lock).
	LockPath string
	// Tool is the package-manager module name, importable inside the
	// environment and runnable via `python -m`.
	Tool string
	// ToolVersion is the exact tool version to install when absent.
	ToolVersion string
	// AppModule is the application's top-level module. Importing it
	// successfully is the "already satisfied" signal.
	AppModule string
}

// Reconciler drives an environment toward its declared dependency set.
type Reconciler struct {
	env venv.Handle
	log *logger.Logger
}

// NewReconciler constructs a Reconciler bound to an environment handle.
func NewReconciler(env venv.Handle, log *logger.Logger) *Reconciler {
	return &Reconciler{env: env, log: log}
}

// Reconcile ensures the pinned tool is available and the declared
// dependencies are installed. It is idempotent: with an unchanged manifest a
// second call performs no install side effects.
//
// The satisfied check is optimistic: a successful import of the app module
// short-circuits everything, so a manifest edit that leaves the installed
// package importable is not picked up until the environment is rebuilt. The
// fast repeat launch is worth that documented tradeoff.
func (r *Reconciler) Reconcile(ctx context.Context, spec Spec) error {
	if err := r.ensureTool(ctx, spec); err != nil {
		return err
	}

	if r.moduleImports(ctx, spec.AppModule) {
		r.log.WithFields(map[string]any{"module": spec.AppModule}).Debug("dependencies already satisfied")
		return nil
	}

	if err := r.refreshLock(ctx, spec); err != nil {
		return err
	}
	return r.install(ctx, spec)
}

// ensureTool makes the pinned package manager importable inside the
// environment, installing the exact pinned version when it is not.
func (r *Reconciler) ensureTool(ctx context.Context, spec Spec) error {
	if r.moduleImports(ctx, spec.Tool) {
		return nil
	}

	r.log.WithFields(map[string]any{"tool": spec.Tool, "version": spec.ToolVersion}).Info("installing package manager")

	pin := fmt.Sprintf("%s==%s", spec.Tool, spec.ToolVersion)
	cmd := exec.CommandContext(ctx, r.env.Interpreter, "-m", "pip", "install", "--quiet", pin)
	res, err := execx.Stream(cmd)
	if err != nil {
		return errs.NewToolUnavailableError(spec.Tool, spec.ToolVersion, res.Combined(), err)
	}
	if !r.moduleImports(ctx, spec.Tool) {
		return errs.NewToolUnavailableError(spec.Tool, spec.ToolVersion, res.Combined(), fmt.Errorf("tool not importable after install"))
	}
	return nil
}

// refreshLock regenerates the lock file when the manifest is newer than it,
// preferring a non-destructive refresh that keeps existing pins.
func (r *Reconciler) refreshLock(ctx context.Context, spec Spec) error {
	manifest, err := os.Stat(spec.ManifestPath)
	if err != nil {
		return errs.NewInstallError(spec.ManifestPath, "", fmt.Errorf("dependency manifest missing: %w", err))
	}

	lock, err := os.Stat(spec.LockPath)
	if err == nil && !manifest.ModTime().After(lock.ModTime()) {
		return nil
	}

	r.log.WithFields(map[string]any{"manifest": spec.ManifestPath}).Info("manifest changed, regenerating lock file")

	res, lockErr := execx.Stream(r.toolCommand(ctx, spec, "lock", "--no-update"))
	if lockErr == nil {
		return nil
	}

	// A pinned set that no longer satisfies the edited manifest makes the
	// non-destructive refresh fail; rebuilding the lock from scratch is
	// the documented fallback.
	r.log.Warn("lock refresh failed, rebuilding lock file from scratch")
	res, lockErr = execx.Stream(r.toolCommand(ctx, spec, "lock"))
	if lockErr != nil {
		return errs.NewInstallError(spec.ManifestPath, res.Combined(), fmt.Errorf("regenerate lock file: %w", lockErr))
	}
	return nil
}

// install syncs the environment to the manifest. The tool's own environment
// management is disabled: isolation is already provided by the venv, and a
// nested environment would defeat every check earlier in the pipeline.
func (r *Reconciler) install(ctx context.Context, spec Spec) error {
	r.log.WithFields(map[string]any{"manifest": spec.ManifestPath}).Info("installing dependencies")

	res, err := execx.Stream(r.toolCommand(ctx, spec, "install", "--no-interaction"))
	if err != nil {
		return errs.NewInstallError(spec.ManifestPath, res.Combined(), err)
	}
	return nil
}

func (r *Reconciler) toolCommand(ctx context.Context, spec Spec, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, r.env.Interpreter, append([]string{"-m", spec.Tool}, args...)...)
	cmd.Env = append(os.Environ(),
		"POETRY_VIRTUALENVS_CREATE=false",
		"POETRY_NO_INTERACTION=1",
	)
	return cmd
}

// moduleImports probes whether a module loads inside the environment.
func (r *Reconciler) moduleImports(ctx context.Context, module string) bool {
	_, err := execx.Capture(ctx, r.env.Interpreter, "-c", "import "+module)
	return err == nil
}
