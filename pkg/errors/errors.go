// Package errors defines the typed failure taxonomy shared by the bootstrap
// stages. Every stage returns one of these errors instead of printing; the
// command layer is the single place that renders them and picks the process
// exit code.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Kind is a short machine-distinguishable failure category.
type Kind string

const (
	KindRuntimeNotFound   Kind = "runtime_not_found"
	KindRuntimeTooOld     Kind = "runtime_too_old"
	KindEnvironmentCreate Kind = "environment_create_failed"
	KindToolUnavailable   Kind = "tool_unavailable"
	KindInstall           Kind = "install_failed"
	KindLaunch            Kind = "launch_failed"
	KindParse             Kind = "parse_error"
	KindValidation        Kind = "validation_error"
)

// StageFailure is implemented by every stage error. It carries the
// presentation metadata the command layer renders: the failure kind, the
// stage label, a remediation hint, and any captured subprocess output.
type StageFailure interface {
	error
	Kind() Kind
	Stage() string
	Hint() string
	Output() string
}

// RuntimeNotFoundError reports that no candidate interpreter responded to a
// version query.
type RuntimeNotFoundError struct {
	Candidates []string
}

// NewRuntimeNotFoundError constructs a RuntimeNotFoundError.
func NewRuntimeNotFoundError(candidates []string) error {
	return &RuntimeNotFoundError{Candidates: candidates}
}

func (e *RuntimeNotFoundError) Error() string {
	return fmt.Sprintf("no usable Python interpreter found (tried: %s)", strings.Join(e.Candidates, ", "))
}

func (e *RuntimeNotFoundError) Kind() Kind     { return KindRuntimeNotFound }
func (e *RuntimeNotFoundError) Stage() string  { return "runtime probe" }
func (e *RuntimeNotFoundError) Output() string { return "" }

func (e *RuntimeNotFoundError) Hint() string {
	return "install Python from https://www.python.org/downloads/ and make sure it is on PATH"
}

// RuntimeTooOldError reports that an interpreter was found but none satisfied
// the minimum (major, minor) requirement.
type RuntimeTooOldError struct {
	Command string
	Found   string
	Minimum string
}

// NewRuntimeTooOldError constructs a RuntimeTooOldError.
func NewRuntimeTooOldError(command, found, minimum string) error {
	return &RuntimeTooOldError{Command: command, Found: found, Minimum: minimum}
}

func (e *RuntimeTooOldError) Error() string {
	return fmt.Sprintf("interpreter %s reports version %s, but %s or newer is required", e.Command, e.Found, e.Minimum)
}

func (e *RuntimeTooOldError) Kind() Kind     { return KindRuntimeTooOld }
func (e *RuntimeTooOldError) Stage() string  { return "runtime probe" }
func (e *RuntimeTooOldError) Output() string { return "" }

func (e *RuntimeTooOldError) Hint() string {
	return fmt.Sprintf("install Python %s or newer from https://www.python.org/downloads/", e.Minimum)
}

// EnvironmentCreateError reports a failed attempt to build the isolated
// environment, carrying the creation command's captured output.
type EnvironmentCreateError struct {
	Root     string
	Captured string
	Err      error
}

// NewEnvironmentCreateError constructs an EnvironmentCreateError.
func NewEnvironmentCreateError(root, captured string, err error) error {
	return &EnvironmentCreateError{Root: root, Captured: captured, Err: err}
}

func (e *EnvironmentCreateError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to create environment at %s: %v", e.Root, e.Err)
	}
	return fmt.Sprintf("failed to create environment at %s", e.Root)
}

func (e *EnvironmentCreateError) Unwrap() error  { return e.Err }
func (e *EnvironmentCreateError) Kind() Kind     { return KindEnvironmentCreate }
func (e *EnvironmentCreateError) Stage() string  { return "environment" }
func (e *EnvironmentCreateError) Output() string { return e.Captured }

func (e *EnvironmentCreateError) Hint() string {
	return fmt.Sprintf("delete %s and re-run, or check that the venv module is present in your Python installation", e.Root)
}

// ToolUnavailableError reports that the pinned package-manager tool could not
// be made available inside the environment.
type ToolUnavailableError struct {
	Tool     string
	Pin      string
	Captured string
	Err      error
}

// NewToolUnavailableError constructs a ToolUnavailableError.
func NewToolUnavailableError(tool, pin, captured string, err error) error {
	return &ToolUnavailableError{Tool: tool, Pin: pin, Captured: captured, Err: err}
}

func (e *ToolUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to install %s==%s into the environment: %v", e.Tool, e.Pin, e.Err)
	}
	return fmt.Sprintf("failed to install %s==%s into the environment", e.Tool, e.Pin)
}

func (e *ToolUnavailableError) Unwrap() error  { return e.Err }
func (e *ToolUnavailableError) Kind() Kind     { return KindToolUnavailable }
func (e *ToolUnavailableError) Stage() string  { return "dependencies" }
func (e *ToolUnavailableError) Output() string { return e.Captured }

func (e *ToolUnavailableError) Hint() string {
	return "check your network connection; the tool is downloaded from PyPI on first run"
}

// InstallError reports a failed dependency sync. Captured output is surfaced
// verbatim because network failures land here and the tool's own message is
// the useful part.
type InstallError struct {
	Manifest string
	Captured string
	Err      error
}

// NewInstallError constructs an InstallError.
func NewInstallError(manifest, captured string, err error) error {
	return &InstallError{Manifest: manifest, Captured: captured, Err: err}
}

func (e *InstallError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("dependency installation from %s failed: %v", e.Manifest, e.Err)
	}
	return fmt.Sprintf("dependency installation from %s failed", e.Manifest)
}

func (e *InstallError) Unwrap() error  { return e.Err }
func (e *InstallError) Kind() Kind     { return KindInstall }
func (e *InstallError) Stage() string  { return "dependencies" }
func (e *InstallError) Output() string { return e.Captured }

func (e *InstallError) Hint() string {
	return "check your network connection and re-run; the command output usually names the failing package"
}

// LaunchError reports that the application process could not be spawned at
// all. A child that starts and exits non-zero is not a LaunchError; its exit
// code is propagated instead.
type LaunchError struct {
	Entry string
	Err   error
}

// NewLaunchError constructs a LaunchError.
func NewLaunchError(entry string, err error) error {
	return &LaunchError{Entry: entry, Err: err}
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("could not start %s: %v", e.Entry, e.Err)
}

func (e *LaunchError) Unwrap() error  { return e.Err }
func (e *LaunchError) Kind() Kind     { return KindLaunch }
func (e *LaunchError) Stage() string  { return "launch" }
func (e *LaunchError) Output() string { return "" }

func (e *LaunchError) Hint() string {
	return "the environment may be damaged; delete it and re-run to rebuild"
}

// ParseError represents a launcher-manifest parsing failure with optional
// line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error  { return e.Err }
func (e *ParseError) Kind() Kind     { return KindParse }
func (e *ParseError) Stage() string  { return "configuration" }
func (e *ParseError) Output() string { return "" }

func (e *ParseError) Hint() string {
	return "fix the launcher manifest syntax and re-run"
}

// ValidationError captures launcher-manifest validation issues.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Unwrap() error  { return e.Err }
func (e *ValidationError) Kind() Kind     { return KindValidation }
func (e *ValidationError) Stage() string  { return "configuration" }
func (e *ValidationError) Output() string { return "" }

func (e *ValidationError) Hint() string {
	return "fix the launcher manifest and re-run"
}

// AsStageFailure extracts the stage-failure view from err, returning false
// when err does not originate from a bootstrap stage.
func AsStageFailure(err error) (StageFailure, bool) {
	var sf StageFailure
	if stderrors.As(err, &sf) {
		return sf, true
	}
	return nil, false
}

// ExitCodeFor maps a failure kind to the launcher's process exit code. The
// codes are stable so scripts wrapping the launcher can distinguish stages.
func ExitCodeFor(kind Kind) int {
	switch kind {
	case KindParse, KindValidation:
		return 2
	case KindRuntimeNotFound:
		return 3
	case KindRuntimeTooOld:
		return 4
	case KindEnvironmentCreate:
		return 5
	case KindToolUnavailable:
		return 6
	case KindInstall:
		return 7
	case KindLaunch:
		return 8
	default:
		return 1
	}
}
