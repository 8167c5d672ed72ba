package launch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cueup-dev/cueup/internal/venv"
	errs "github.com/cueup-dev/cueup/pkg/errors"
)

// fakeEntry installs an interpreter shim that records its working directory
// and argument vector to argvPath, then exits with exitCode.
func fakeEntry(t *testing.T, exitCode int) (env venv.Handle, argvPath string) {
	t.Helper()
	root := filepath.Join(t.TempDir(), ".venv")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "bin"), 0o755))

	argvPath = filepath.Join(t.TempDir(), "argv.txt")
	script := fmt.Sprintf(`#!/bin/sh
pwd > %q
for arg in "$@"; do
  printf '%%s\n' "$arg" >> %q
done
exit %d
`, argvPath, argvPath, exitCode)

	interpreter := filepath.Join(root, "bin", "python")
	require.NoError(t, os.WriteFile(interpreter, []byte(script), 0o755))
	return venv.Handle{Root: root, Interpreter: interpreter}, argvPath
}

func TestRunPropagatesExactExitCode(t *testing.T) {
	env, _ := fakeEntry(t, 7)
	r := NewRunner(nil)

	code, err := r.Run(context.Background(), env, Request{Entry: "pooltool", Dir: env.Root})
	require.NoError(t, err)
	require.Equal(t, 7, code)
}

func TestRunReturnsZeroOnSuccess(t *testing.T) {
	env, _ := fakeEntry(t, 0)
	r := NewRunner(nil)

	code, err := r.Run(context.Background(), env, Request{Entry: "pooltool", Dir: env.Root})
	require.NoError(t, err)
	require.Zero(t, code)
}

func TestRunForwardsArgumentsVerbatim(t *testing.T) {
	env, argvPath := fakeEntry(t, 0)
	r := NewRunner(nil)

	_, err := r.Run(context.Background(), env, Request{
		Entry: "pooltool",
		Args:  []string{"--fast", "room123"},
		Dir:   env.Root,
	})
	require.NoError(t, err)

	recorded, err := os.ReadFile(argvPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(recorded)), "\n")
	// First line is the working directory, then the argument vector.
	require.Equal(t, []string{"-m", "pooltool", "--fast", "room123"}, lines[1:])
}

func TestRunSetsWorkingDirectory(t *testing.T) {
	env, argvPath := fakeEntry(t, 0)
	workDir := t.TempDir()
	r := NewRunner(nil)

	_, err := r.Run(context.Background(), env, Request{Entry: "pooltool", Dir: workDir})
	require.NoError(t, err)

	recorded, err := os.ReadFile(argvPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(recorded)), "\n")
	resolved, err := filepath.EvalSymlinks(workDir)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(lines[0])
	require.NoError(t, err)
	require.Equal(t, resolved, got)
}

func TestRunReportsSpawnFailure(t *testing.T) {
	env := venv.Handle{
		Root:        t.TempDir(),
		Interpreter: filepath.Join(t.TempDir(), "missing-python"),
	}
	r := NewRunner(nil)

	_, err := r.Run(context.Background(), env, Request{Entry: "pooltool", Dir: env.Root})

	var launchErr *errs.LaunchError
	require.ErrorAs(t, err, &launchErr)
}

func TestRunArgumentPassthroughProperty(t *testing.T) {
	argGen := rapid.StringMatching(`[A-Za-z0-9._=-]{1,12}`)

	rapid.Check(t, func(rt *rapid.T) {
		args := rapid.SliceOfN(argGen, 0, 5).Draw(rt, "args")

		env, argvPath := fakeEntry(t, 0)
		r := NewRunner(nil)

		_, err := r.Run(context.Background(), env, Request{Entry: "app", Args: args, Dir: env.Root})
		require.NoError(rt, err)

		recorded, err := os.ReadFile(argvPath)
		require.NoError(rt, err)
		lines := strings.Split(strings.TrimSpace(string(recorded)), "\n")

		want := append([]string{"-m", "app"}, args...)
		require.Equal(rt, want, lines[1:])
	})
}
