// Package execx wraps subprocess invocation for the bootstrap stages. Two
// modes exist: Capture for silent probes whose output only matters on
// failure, and Stream for long installs whose output the user should watch
// live while it is also retained for error reporting.
package execx

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Result holds the output collected from a finished command.
type Result struct {
	Stdout string
	Stderr string
}

// Combined returns stderr when present, otherwise stdout. Diagnostic text
// from interpreters and package managers usually lands on stderr.
func (r Result) Combined() string {
	if r.Stderr != "" {
		return r.Stderr
	}
	return r.Stdout
}

// Capture runs the command silently and collects its output.
func Capture(ctx context.Context, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = os.Environ()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	return Result{
		Stdout: strings.TrimSpace(stdout.String()),
		Stderr: strings.TrimSpace(stderr.String()),
	}, err
}

// Stream runs a prepared command with its output teed to the parent's
// stdout/stderr while also collecting it for later inspection. Callers may
// preset cmd.Stdout/cmd.Stderr to redirect the live copies.
func Stream(cmd *exec.Cmd) (Result, error) {
	var stdout, stderr bytes.Buffer

	liveOut := cmd.Stdout
	if liveOut == nil {
		liveOut = os.Stdout
	}
	liveErr := cmd.Stderr
	if liveErr == nil {
		liveErr = os.Stderr
	}
	cmd.Stdout = io.MultiWriter(liveOut, &stdout)
	cmd.Stderr = io.MultiWriter(liveErr, &stderr)

	err := cmd.Run()

	return Result{
		Stdout: strings.TrimSpace(stdout.String()),
		Stderr: strings.TrimSpace(stderr.String()),
	}, err
}
