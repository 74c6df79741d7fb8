// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"bytes"
	"testing"

	"github.com/paratools/taucmdr/internal/testutils"
	"github.com/paratools/taucmdr/pkg/application"
	"github.com/paratools/taucmdr/pkg/constants"
)

func executeRoot(args ...string) (string, error) {
	app = application.New()
	rootCmd := NewRootCmd()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestBareInvocationPrintsHelp(t *testing.T) {
	require := testutils.SetupTest(t)

	out, err := executeRoot()
	require.NoError(err)
	require.Contains(out, "TAU Commander")
	require.Contains(out, "Usage:")
	require.Contains(out, "Available Commands:")

	// Setup never ran, so the invocation had no side effects.
	require.Nil(app.Log)
}

func TestHelpFlagPrintsHelp(t *testing.T) {
	require := testutils.SetupTest(t)

	out, err := executeRoot("--help")
	require.NoError(err)
	require.Contains(out, "QUICK START:")
	require.Nil(app.Log)
}

func TestVersionFlagShortCircuits(t *testing.T) {
	require := testutils.SetupTest(t)

	out, err := executeRoot("--version")
	require.NoError(err)
	require.Contains(out, constants.Version)
	require.Nil(app.Log)
}

func TestUnknownCommandFails(t *testing.T) {
	require := testutils.SetupTest(t)

	_, err := executeRoot("frobnicate")
	require.Error(err)
	require.Contains(err.Error(), "unknown command")
	require.Nil(app.Log)
}

func TestCommandGroupsAreRegistered(t *testing.T) {
	require := testutils.SetupTest(t)

	app = application.New()
	rootCmd := NewRootCmd()
	names := map[string]bool{}
	for _, sub := range rootCmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{
		"build", "install", "clean", "version", "commander",
		"python", "software", "project", "target", "application", "trial", "config",
	} {
		require.True(names[want], "command %q is not registered", want)
	}
}
