package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cueup-dev/cueup/internal/bootstrap"
	"github.com/cueup-dev/cueup/internal/config"
	"github.com/cueup-dev/cueup/internal/logger"
	"github.com/cueup-dev/cueup/internal/platform"
	"github.com/cueup-dev/cueup/internal/repodir"
	"github.com/cueup-dev/cueup/internal/ui"
)

// childExitError carries the application's non-zero exit code out of RunE
// without forcing os.Exit inside the handler.
type childExitError struct {
	code int
}

func (e *childExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cueup [application arguments...]",
		Short: "cueup bootstraps an isolated game environment and launches pooltool",
		Long: `cueup brings the project's isolated Python environment into a known-good
state (interpreter check, environment rebuild when needed, dependency sync),
then starts the application inside it.

All arguments are forwarded to the application untouched; cueup defines no
flags of its own.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		// The launcher must not interpret application flags like --fast,
		// so flag parsing is disabled entirely and args pass through raw.
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLaunch(cmd, args)
		},
	}

	cmd.AddCommand(newVersionCmd())

	return cmd
}

func runLaunch(cmd *cobra.Command, args []string) error {
	// A leading "--" is the conventional separator between launcher and
	// application arguments; everything after it belongs to the child.
	if len(args) > 0 && args[0] == "--" {
		args = args[1:]
	}

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	repo, err := repodir.Locate(cwd)
	if err != nil {
		return err
	}

	cfg, err := config.Load(filepath.Join(repo, config.FileName))
	if err != nil {
		return err
	}

	level := "warn"
	if os.Getenv("CUEUP_DEBUG") != "" {
		level = "debug"
	}
	log, err := logger.New(logger.Options{Level: level, HumanReadable: true})
	if err != nil {
		return err
	}

	pipeline := bootstrap.New(cfg, repo, platform.Detect(), log, ui.NewPrinter(cmd.ErrOrStderr()))

	code, err := pipeline.Run(cmd.Context(), args)
	if err != nil {
		return err
	}
	if code != 0 {
		return &childExitError{code: code}
	}
	return nil
}
