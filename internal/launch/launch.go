// Package launch hands control to the target application inside the isolated
// environment. The child owns the terminal: stdio is inherited, arguments are
// forwarded verbatim, and the child's exit code becomes the launcher's.
package launch

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/cueup-dev/cueup/internal/logger"
	"github.com/cueup-dev/cueup/internal/venv"
	errs "github.com/cueup-dev/cueup/pkg/errors"
)

// Request describes one application launch. Args pass through untouched: the
// launcher recognizes none of the application's flags, including mode
// switches like --fast, and must never consume or reorder them.
type Request struct {
	// Entry is the application's top-level module, run via `python -m`.
	Entry string
	// Args is the caller-supplied argument vector, forwarded in order.
	Args []string
	// Dir is the working directory for the child, the repository root.
	Dir string
}

// Runner spawns the application process.
type Runner struct {
	log *logger.Logger
}

// NewRunner constructs a Runner.
func NewRunner(log *logger.Logger) *Runner {
	return &Runner{log: log}
}

// Run spawns the entry point and blocks until it terminates, returning the
// child's exact exit code. A LaunchError is returned only when the child
// could not be spawned at all; a child that runs and fails is a normal
// outcome whose code the caller propagates.
//
// Interrupt and termination signals received while the child runs are
// forwarded to it rather than killing the launcher first, so the child can
// shut down cleanly and no orphan is left behind.
func (r *Runner) Run(ctx context.Context, env venv.Handle, req Request) (int, error) {
	args := append([]string{"-m", req.Entry}, req.Args...)
	cmd := exec.Command(env.Interpreter, args...)
	cmd.Dir = req.Dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	r.log.WithFields(map[string]any{"entry": req.Entry, "args": req.Args}).Debug("starting application")

	if err := cmd.Start(); err != nil {
		return 0, errs.NewLaunchError(req.Entry, err)
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)

	done := make(chan struct{})
	go func() {
		ctxDone := ctx.Done()
		for {
			select {
			case sig := <-signals:
				_ = cmd.Process.Signal(sig)
			case <-ctxDone:
				_ = cmd.Process.Signal(os.Interrupt)
				ctxDone = nil
			case <-done:
				return
			}
		}
	}()

	err := cmd.Wait()
	close(done)

	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return 0, errs.NewLaunchError(req.Entry, err)
}
