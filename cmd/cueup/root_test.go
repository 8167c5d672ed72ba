package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVersionCommandOutput(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), "cueup")
	require.Contains(t, out.String(), "commit:")
}

func TestRootDisablesFlagParsing(t *testing.T) {
	cmd := newRootCmd()
	require.True(t, cmd.DisableFlagParsing,
		"application flags such as --fast must reach the child unparsed")
}

func TestChildExitErrorMessage(t *testing.T) {
	err := &childExitError{code: 7}
	require.Equal(t, "exit status 7", err.Error())
}
