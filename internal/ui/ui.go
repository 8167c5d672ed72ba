// Package ui renders the launcher's console output: stage progress lines,
// advisory notes, and the single failure report. All output goes to stderr so
// the launched application keeps stdout to itself.
package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	stageStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	advisoryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	failureStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	outputStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Printer writes the launcher's human-facing lines.
type Printer struct {
	out io.Writer
}

// NewPrinter constructs a Printer. A nil writer means stderr.
func NewPrinter(out io.Writer) *Printer {
	if out == nil {
		out = os.Stderr
	}
	return &Printer{out: out}
}

// Stage announces that a pipeline stage is running.
func (p *Printer) Stage(name, detail string) {
	if detail != "" {
		fmt.Fprintf(p.out, "%s %s\n", stageStyle.Render("["+name+"]"), detail)
		return
	}
	fmt.Fprintln(p.out, stageStyle.Render("["+name+"]"))
}

// OK reports a completed stage.
func (p *Printer) OK(name, detail string) {
	fmt.Fprintf(p.out, "%s %s %s\n", stageStyle.Render("["+name+"]"), okStyle.Render("ok"), detail)
}

// Advisory reports an optional capability's availability without implying
// failure.
func (p *Printer) Advisory(name string, available bool, hint string) {
	if available {
		fmt.Fprintf(p.out, "%s %s\n", advisoryStyle.Render("capability "+name+":"), okStyle.Render("available"))
		return
	}
	fmt.Fprintf(p.out, "%s unavailable", advisoryStyle.Render("capability "+name+":"))
	if hint != "" {
		fmt.Fprintf(p.out, " (%s)", hint)
	}
	fmt.Fprintln(p.out)
}

// Failure renders a stage failure: the stage label, the message, captured
// subprocess output when present, and the remediation hint. This is the only
// place failures are printed.
func (p *Printer) Failure(stage, message, output, hint string) {
	fmt.Fprintf(p.out, "%s %s\n", failureStyle.Render("["+stage+"] failed:"), message)
	if output != "" {
		fmt.Fprintln(p.out, outputStyle.Render(output))
	}
	if hint != "" {
		fmt.Fprintf(p.out, "%s %s\n", hintStyle.Render("hint:"), hint)
	}
}

// PauseOnExit blocks for an Enter keypress when stdin is an interactive
// terminal, keeping a failure message readable on double-click launches where
// the console window closes with the process. It is presentation only and
// never changes the exit code.
func PauseOnExit(in *os.File, out io.Writer) {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stderr
	}
	if !term.IsTerminal(int(in.Fd())) {
		return
	}

	fmt.Fprint(out, "Press Enter to close...")
	_, _ = bufio.NewReader(in).ReadString('\n')
}
