// Package platform supplies the host-specific facts the bootstrap pipeline
// needs: which interpreter invocations to try, where a virtual environment
// keeps its scripts, and how executables are named. Keeping these behind one
// adapter keeps the rest of the pipeline platform-neutral.
package platform

import (
	"path/filepath"
	"runtime"
)

// Candidate is one interpreter invocation to try, in probe order. Args carry
// the launcher-wrapper selector (the Windows "py -3" form); they precede any
// arguments the caller adds.
type Candidate struct {
	Name string
	Args []string
}

// Display renders the candidate the way a user would type it.
func (c Candidate) Display() string {
	out := c.Name
	for _, a := range c.Args {
		out += " " + a
	}
	return out
}

// Adapter holds the per-OS facts. Construct via Detect or ForGOOS.
type Adapter struct {
	// Candidates is the ordered list of interpreter invocations to probe.
	// The platform launcher wrapper comes first where one exists.
	Candidates []Candidate

	// ScriptsDir is the virtual environment's executable directory,
	// relative to the environment root.
	ScriptsDir string

	// ActivationEntry is the activation script name inside ScriptsDir whose
	// presence signals a structurally valid environment.
	ActivationEntry string

	// ExeSuffix is appended to executable names inside the environment.
	ExeSuffix string
}

// Detect returns the adapter for the running OS.
func Detect() Adapter {
	return ForGOOS(runtime.GOOS)
}

// ForGOOS returns the adapter for an explicit GOOS value. Split out from
// Detect so both variants stay testable from any host.
func ForGOOS(goos string) Adapter {
	if goos == "windows" {
		return Adapter{
			Candidates: []Candidate{
				{Name: "py", Args: []string{"-3"}},
				{Name: "python"},
			},
			ScriptsDir:      "Scripts",
			ActivationEntry: "activate.bat",
			ExeSuffix:       ".exe",
		}
	}

	return Adapter{
		Candidates: []Candidate{
			{Name: "python3"},
			{Name: "python"},
		},
		ScriptsDir:      "bin",
		ActivationEntry: "activate",
	}
}

// ActivationPath returns the absolute path of the activation entry point for
// an environment rooted at root.
func (a Adapter) ActivationPath(root string) string {
	return filepath.Join(root, a.ScriptsDir, a.ActivationEntry)
}

// InterpreterPath returns the path of the interpreter inside an environment
// rooted at root.
func (a Adapter) InterpreterPath(root string) string {
	return filepath.Join(root, a.ScriptsDir, "python"+a.ExeSuffix)
}
