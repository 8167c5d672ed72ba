package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/cueup-dev/cueup/internal/ui"
	errs "github.com/cueup-dev/cueup/pkg/errors"
)

func main() {
	os.Exit(run())
}

// run executes the root command and maps its outcome to the process exit
// code. Failures are rendered here and nowhere else; on an interactive
// console a non-zero exit pauses so the message survives window close, which
// never changes the code itself.
func run() int {
	err := newRootCmd().Execute()
	if err == nil {
		return 0
	}

	var childExit *childExitError
	if errors.As(err, &childExit) {
		// The application ran and failed on its own terms; it already
		// reported whatever it had to say.
		ui.PauseOnExit(nil, nil)
		return childExit.code
	}

	printer := ui.NewPrinter(nil)
	if failure, ok := errs.AsStageFailure(err); ok {
		printer.Failure(failure.Stage(), failure.Error(), failure.Output(), failure.Hint())
		ui.PauseOnExit(nil, nil)
		return errs.ExitCodeFor(failure.Kind())
	}

	fmt.Fprintln(os.Stderr, err)
	ui.PauseOnExit(nil, nil)
	return 1
}
