// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package softwarecmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paratools/taucmdr/pkg/ux"
)

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <package>",
		Short: "Verify an installed performance-tool package",
		Long: `Check that a package installation provides everything it should:
commands executable in bin/, libraries readable in lib/ (or lib64/),
headers readable in include/.`,
		Args: cobra.ExactArgs(1),
		RunE: runVerify,
	}
}

func runVerify(_ *cobra.Command, args []string) error {
	mgr, err := newManager()
	if err != nil {
		return err
	}
	inst, err := mgr.Installation(args[0], "")
	if err != nil {
		return err
	}
	if err := inst.Verify(); err != nil {
		return fmt.Errorf("%s failed verification: %w (run 'taucmdr software install %s' to fix it)",
			inst.Title, err, args[0])
	}
	ux.Logger.GreenCheckmarkToUser("%s verified at %s", inst.Title, inst.Prefix())
	return nil
}
