// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package pythoncmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paratools/taucmdr/pkg/ux"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report which Python interpreters are usable",
		Long: `Probe every interpreter candidate and report a verdict for each.

The command exits non-zero when no candidate is usable, with the
remediation in the error message.`,
		Args: cobra.ExactArgs(0),
		RunE: runCheck,
	}
}

func runCheck(cmd *cobra.Command, _ []string) error {
	candidates := newResolver().Probe(cmd.Context())
	if len(candidates) == 0 {
		return fmt.Errorf("no Python interpreter candidates found; run 'taucmdr python download' to install the bundled interpreter")
	}

	header := []string{"Interpreter", "Source", "Version", "Verdict"}
	rows := make([][]string, 0, len(candidates))
	usable := false
	for _, c := range candidates {
		verdict := "usable"
		if c.Err != nil {
			verdict = c.Err.Error()
		} else {
			usable = true
		}
		version := c.Version
		if version == "" {
			version = "-"
		}
		rows = append(rows, []string{c.Command, string(c.Source), version, verdict})
	}
	ux.RenderTable(ux.Logger.Writer(), header, rows)

	if !usable {
		return fmt.Errorf("no usable Python interpreter found; install setuptools or run 'taucmdr python download'")
	}
	ux.Logger.GreenCheckmarkToUser("Python check passed")
	return nil
}
