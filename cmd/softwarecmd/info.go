// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package softwarecmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/paratools/taucmdr/pkg/ux"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <package>",
		Short: "Show a package's catalog entry and install status",
		Args:  cobra.ExactArgs(1),
		RunE:  runInfo,
	}
}

func runInfo(_ *cobra.Command, args []string) error {
	mgr, err := newManager()
	if err != nil {
		return err
	}
	entry, err := mgr.Catalog().Get(args[0])
	if err != nil {
		return err
	}

	ux.Logger.PrintToUser("%s (%s) version %s", entry.Title, entry.Name, entry.Version)
	if source, err := entry.SourceFor(app.Platform); err == nil {
		ux.Logger.PrintToUser("source for %s: %s", app.Platform, source)
	} else {
		ux.Logger.PrintToUser("%v", err)
	}
	if len(entry.Verify.Commands) > 0 {
		ux.Logger.PrintToUser("commands: %s", strings.Join(entry.Verify.Commands, ", "))
	}
	if len(entry.Verify.Libraries) > 0 {
		ux.Logger.PrintToUser("libraries: %s", strings.Join(entry.Verify.Libraries, ", "))
	}
	if len(entry.Verify.Headers) > 0 {
		ux.Logger.PrintToUser("headers: %s", strings.Join(entry.Verify.Headers, ", "))
	}
	for _, dep := range entry.Dependencies {
		constraint := dep.Constraint
		if constraint == "" {
			constraint = "any version"
		}
		ux.Logger.PrintToUser("depends on: %s (%s)", dep.Name, constraint)
	}

	inst, err := mgr.Installation(args[0], "")
	if err != nil {
		return err
	}
	if inst.Installed() {
		ux.Logger.PrintToUser("installed at: %s", inst.Prefix())
	} else {
		ux.Logger.PrintToUser("not installed (would install to %s)", inst.Prefix())
	}
	return nil
}
