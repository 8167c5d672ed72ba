package venv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cueup-dev/cueup/internal/platform"
	"github.com/cueup-dev/cueup/internal/probe"
	"github.com/cueup-dev/cueup/internal/pyversion"
	errs "github.com/cueup-dev/cueup/pkg/errors"
)

func posixAdapter() platform.Adapter {
	return platform.Adapter{
		Candidates:      []platform.Candidate{{Name: "python3"}},
		ScriptsDir:      "bin",
		ActivationEntry: "activate",
	}
}

func runtime311() probe.Runtime {
	return probe.Runtime{
		Command:      "python3",
		Version:      pyversion.Version{Major: 3, Minor: 11, Patch: 4},
		MeetsMinimum: true,
	}
}

// buildEnv lays out the directory structure python -m venv would produce.
func buildEnv(t *testing.T, root, recordedVersion string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "bin"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "bin", "activate"), []byte("# activation script\n"), 0o644))
	cfg := fmt.Sprintf("home = /usr/bin\ninclude-system-site-packages = false\nversion = %s\n", recordedVersion)
	require.NoError(t, os.WriteFile(filepath.Join(root, "pyvenv.cfg"), []byte(cfg), 0o644))
}

// fakeCreator installs a python3 shim that reproduces `-m venv <root>` by
// building the expected layout, and records each invocation.
func fakeCreator(t *testing.T, version string) (logPath string) {
	t.Helper()
	binDir := t.TempDir()
	logPath = filepath.Join(binDir, "calls.log")
	script := fmt.Sprintf(`#!/bin/sh
echo "$@" >> %q
root="$3"
mkdir -p "$root/bin"
echo "# activation script" > "$root/bin/activate"
printf 'home = /usr/bin\nversion = %s\n' > "$root/pyvenv.cfg"
`, logPath, version)
	require.NoError(t, os.WriteFile(filepath.Join(binDir, "python3"), []byte(script), 0o755))
	prependPath(t, binDir)
	return logPath
}

// prependPath puts dir first on PATH so the shim shadows any real python3
// while the shim's own helper commands stay resolvable.
func prependPath(t *testing.T, dir string) {
	t.Helper()
	original := os.Getenv("PATH")
	t.Cleanup(func() { _ = os.Setenv("PATH", original) })
	require.NoError(t, os.Setenv("PATH", dir+string(os.PathListSeparator)+original))
}

func TestClassifyAbsent(t *testing.T) {
	m := NewManager(posixAdapter(), nil)
	state := m.Classify(filepath.Join(t.TempDir(), ".venv"), runtime311())

	require.Equal(t, ClassAbsent, state.Class)
	require.False(t, state.Exists)
}

func TestClassifyCorruptWithoutActivationEntry(t *testing.T) {
	root := filepath.Join(t.TempDir(), ".venv")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "bin"), 0o755))

	m := NewManager(posixAdapter(), nil)
	state := m.Classify(root, runtime311())

	require.Equal(t, ClassCorrupt, state.Class)
	require.True(t, state.Exists)
	require.False(t, state.ActivationPresent)
}

func TestClassifyCorruptWithoutVersionRecord(t *testing.T) {
	root := filepath.Join(t.TempDir(), ".venv")
	buildEnv(t, root, "3.11.4")
	require.NoError(t, os.Remove(filepath.Join(root, "pyvenv.cfg")))

	m := NewManager(posixAdapter(), nil)
	state := m.Classify(root, runtime311())

	require.Equal(t, ClassCorrupt, state.Class)
}

func TestClassifyVersionMismatch(t *testing.T) {
	root := filepath.Join(t.TempDir(), ".venv")
	buildEnv(t, root, "3.9.18")

	m := NewManager(posixAdapter(), nil)
	state := m.Classify(root, runtime311())

	require.Equal(t, ClassVersionMismatch, state.Class)
	require.Equal(t, pyversion.Version{Major: 3, Minor: 9, Patch: 18}, state.Recorded)
}

func TestClassifyValidIgnoresPatchDifference(t *testing.T) {
	root := filepath.Join(t.TempDir(), ".venv")
	buildEnv(t, root, "3.11.1")

	m := NewManager(posixAdapter(), nil)
	state := m.Classify(root, runtime311())

	require.Equal(t, ClassValid, state.Class)
}

func TestEnsureCreatesAbsentEnvironment(t *testing.T) {
	logPath := fakeCreator(t, "3.11.4")
	root := filepath.Join(t.TempDir(), ".venv")

	m := NewManager(posixAdapter(), nil)
	handle, err := m.Ensure(context.Background(), root, runtime311())
	require.NoError(t, err)

	require.Equal(t, root, handle.Root)
	require.Equal(t, filepath.Join(root, "bin", "python"), handle.Interpreter)
	require.FileExists(t, filepath.Join(root, "bin", "activate"))

	calls, err := os.ReadFile(logPath)
	require.NoError(t, err)
	require.Contains(t, string(calls), "-m venv")
}

func TestEnsureReusesValidEnvironment(t *testing.T) {
	logPath := fakeCreator(t, "3.11.4")
	root := filepath.Join(t.TempDir(), ".venv")
	buildEnv(t, root, "3.11.4")

	marker := filepath.Join(root, "bin", "user-installed-tool")
	require.NoError(t, os.WriteFile(marker, []byte("keep me"), 0o644))

	m := NewManager(posixAdapter(), nil)
	_, err := m.Ensure(context.Background(), root, runtime311())
	require.NoError(t, err)

	require.FileExists(t, marker, "a valid environment must not be touched")
	require.NoFileExists(t, logPath, "no creation command may run for a valid environment")
}

func TestEnsureHealsCorruptEnvironment(t *testing.T) {
	fakeCreator(t, "3.11.4")
	root := filepath.Join(t.TempDir(), ".venv")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "lib"), 0o755))
	leftover := filepath.Join(root, "lib", "stale.pyc")
	require.NoError(t, os.WriteFile(leftover, []byte{0x1}, 0o644))

	m := NewManager(posixAdapter(), nil)
	_, err := m.Ensure(context.Background(), root, runtime311())
	require.NoError(t, err)

	require.FileExists(t, filepath.Join(root, "bin", "activate"))
	require.NoFileExists(t, leftover, "corrupt environment must be rebuilt from scratch")
}

func TestEnsureRebuildsOnVersionMismatch(t *testing.T) {
	fakeCreator(t, "3.11.4")
	root := filepath.Join(t.TempDir(), ".venv")
	buildEnv(t, root, "3.9.18")

	m := NewManager(posixAdapter(), nil)
	_, err := m.Ensure(context.Background(), root, runtime311())
	require.NoError(t, err)

	state := m.Classify(root, runtime311())
	require.Equal(t, ClassValid, state.Class)
	require.Equal(t, "3.11", state.Recorded.Release())
}

func TestEnsureFailsWhenCreationLeavesNoActivationEntry(t *testing.T) {
	binDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(binDir, "python3"), []byte("#!/bin/sh\nmkdir -p \"$3\"\n"), 0o755))
	prependPath(t, binDir)

	m := NewManager(posixAdapter(), nil)
	_, err := m.Ensure(context.Background(), filepath.Join(t.TempDir(), ".venv"), runtime311())

	var createErr *errs.EnvironmentCreateError
	require.ErrorAs(t, err, &createErr)
}

func TestEnsureSurfacesCreationDiagnostics(t *testing.T) {
	binDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(binDir, "python3"), []byte("#!/bin/sh\necho 'Error: no space left' >&2\nexit 1\n"), 0o755))
	prependPath(t, binDir)

	m := NewManager(posixAdapter(), nil)
	_, err := m.Ensure(context.Background(), filepath.Join(t.TempDir(), ".venv"), runtime311())

	var createErr *errs.EnvironmentCreateError
	require.ErrorAs(t, err, &createErr)
	require.Contains(t, createErr.Output(), "no space left")
}
