// Package venv owns the project's isolated Python environment: it classifies
// the on-disk state every run, rebuilds when anything is off, and hands a
// validated environment handle to the later stages.
//
// Any detected defect triggers full delete-and-recreate. There is no partial
// repair path: a rebuild costs seconds, while a half-upgraded environment
// produces failures that are much harder to diagnose.
//
// Known limitation: concurrent invocations against the same environment root
// are undefined. The manager assumes it owns the directory for the duration
// of a run and takes no lock.
package venv

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cueup-dev/cueup/internal/execx"
	"github.com/cueup-dev/cueup/internal/logger"
	"github.com/cueup-dev/cueup/internal/platform"
	"github.com/cueup-dev/cueup/internal/probe"
	"github.com/cueup-dev/cueup/internal/pyversion"
	errs "github.com/cueup-dev/cueup/pkg/errors"
)

// Classification is the outcome of inspecting an environment directory.
type Classification string

const (
	// ClassAbsent means the environment directory does not exist.
	ClassAbsent Classification = "absent"
	// ClassValid means the environment is structurally sound and was built
	// with the selected runtime's release.
	ClassValid Classification = "valid"
	// ClassCorrupt means the directory exists but its activation entry
	// point or version record is missing.
	ClassCorrupt Classification = "corrupt"
	// ClassVersionMismatch means the environment was built with a
	// different (major, minor) interpreter release.
	ClassVersionMismatch Classification = "version_mismatch"
)

// State is the recomputed view of the environment directory. It is derived
// fresh on every invocation; nothing from a previous run is trusted.
type State struct {
	Root              string
	Exists            bool
	ActivationPresent bool
	Recorded          pyversion.Version
	HasRecorded       bool
	Class             Classification
	Reason            string
}

// Handle is the validated environment passed to the later stages. Everything
// that needs the environment receives a Handle explicitly; no stage relies on
// ambient activation state.
type Handle struct {
	Root        string
	Interpreter string
}

// Manager classifies and (re)creates isolated environments.
type Manager struct {
	adapter platform.Adapter
	log     *logger.Logger
}

// NewManager constructs a Manager for the given platform adapter.
func NewManager(adapter platform.Adapter, log *logger.Logger) *Manager {
	return &Manager{adapter: adapter, log: log}
}

// Classify inspects the directory at root against the selected runtime.
func (m *Manager) Classify(root string, rt probe.Runtime) State {
	state := State{Root: root}

	info, err := os.Stat(root)
	if err != nil {
		state.Class = ClassAbsent
		state.Reason = "environment directory does not exist"
		return state
	}
	state.Exists = true

	if !info.IsDir() {
		state.Class = ClassCorrupt
		state.Reason = "environment root is not a directory"
		return state
	}

	if _, err := os.Stat(m.adapter.ActivationPath(root)); err != nil {
		state.Class = ClassCorrupt
		state.Reason = "activation entry point is missing"
		return state
	}
	state.ActivationPresent = true

	recorded, ok := readRecordedVersion(root)
	if !ok {
		state.Class = ClassCorrupt
		state.Reason = "environment has no readable version record"
		return state
	}
	state.Recorded = recorded
	state.HasRecorded = true

	if !pyversion.SameRelease(recorded, rt.Version) {
		state.Class = ClassVersionMismatch
		state.Reason = fmt.Sprintf("environment was built with Python %s, interpreter is %s", recorded.Release(), rt.Version.Release())
		return state
	}

	state.Class = ClassValid
	return state
}

// Ensure brings the environment at root to a valid state for the selected
// runtime and returns its handle. A valid environment is reused untouched;
// anything else is deleted and rebuilt.
func (m *Manager) Ensure(ctx context.Context, root string, rt probe.Runtime) (Handle, error) {
	state := m.Classify(root, rt)

	fields := m.log.WithFields(map[string]any{"root": root, "classification": string(state.Class)})
	switch state.Class {
	case ClassValid:
		fields.Debug("reusing existing environment")
		return m.handle(root), nil
	case ClassAbsent:
		fields.Info("creating environment")
	case ClassCorrupt, ClassVersionMismatch:
		fields.WithFields(map[string]any{"reason": state.Reason}).Info("recreating environment")
		if err := os.RemoveAll(root); err != nil {
			return Handle{}, errs.NewEnvironmentCreateError(root, "", fmt.Errorf("remove stale environment: %w", err))
		}
	}

	if err := m.create(ctx, root, rt); err != nil {
		return Handle{}, err
	}
	return m.handle(root), nil
}

func (m *Manager) create(ctx context.Context, root string, rt probe.Runtime) error {
	res, err := execx.Capture(ctx, rt.Command, rt.Args("-m", "venv", root)...)
	if err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return errs.NewEnvironmentCreateError(root, res.Combined(), err)
		}
		return errs.NewEnvironmentCreateError(root, res.Combined(), fmt.Errorf("run %s: %w", rt.Display(), err))
	}

	// The creation command can exit zero and still leave a broken tree
	// (out of disk, antivirus interference); the activation entry is the
	// authoritative signal.
	if _, err := os.Stat(m.adapter.ActivationPath(root)); err != nil {
		return errs.NewEnvironmentCreateError(root, res.Combined(), fmt.Errorf("environment created without activation entry point"))
	}
	return nil
}

func (m *Manager) handle(root string) Handle {
	return Handle{Root: root, Interpreter: m.adapter.InterpreterPath(root)}
}

// readRecordedVersion parses the "version" key out of the environment's
// pyvenv.cfg, the record the venv module writes at creation time.
func readRecordedVersion(root string) (pyversion.Version, bool) {
	f, err := os.Open(filepath.Join(root, "pyvenv.cfg"))
	if err != nil {
		return pyversion.Version{}, false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, found := strings.Cut(scanner.Text(), "=")
		if !found || strings.TrimSpace(key) != "version" {
			continue
		}
		version, err := pyversion.Parse(strings.TrimSpace(value))
		if err != nil {
			return pyversion.Version{}, false
		}
		return version, true
	}
	return pyversion.Version{}, false
}
