// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package softwarecmd

import (
	"github.com/spf13/cobra"

	"github.com/paratools/taucmdr/pkg/ux"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List known performance-tool packages",
		Args:  cobra.ExactArgs(0),
		RunE:  runList,
	}
}

func runList(_ *cobra.Command, _ []string) error {
	mgr, err := newManager()
	if err != nil {
		return err
	}

	header := []string{"Package", "Version", "Status", "Prefix"}
	var rows [][]string
	for _, name := range mgr.Catalog().Names() {
		entry, err := mgr.Catalog().Get(name)
		if err != nil {
			return err
		}
		inst, err := mgr.Installation(name, "")
		if err != nil {
			// Entries with no source for this platform still get listed.
			rows = append(rows, []string{name, entry.Version, err.Error(), "-"})
			continue
		}
		status := "not installed"
		if inst.Installed() {
			status = "installed"
		}
		rows = append(rows, []string{name, entry.Version, status, inst.Prefix()})
	}
	ux.RenderTable(ux.Logger.Writer(), header, rows)
	return nil
}
