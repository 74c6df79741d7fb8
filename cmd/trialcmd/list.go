// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package trialcmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/paratools/taucmdr/pkg/constants"
	"github.com/paratools/taucmdr/pkg/models"
	"github.com/paratools/taucmdr/pkg/storage"
	"github.com/paratools/taucmdr/pkg/ux"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recorded trials",
		Args:  cobra.ExactArgs(0),
		RunE:  runList,
	}
}

func runList(_ *cobra.Command, _ []string) error {
	level, err := recordLevel()
	if err != nil {
		return err
	}
	db, err := storage.OpenDatabase(level.RecordsPath())
	if err != nil {
		return err
	}
	defer db.Close()

	names, err := db.List(storage.KindTrial)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		ux.Logger.PrintToUser("No trials (run 'taucmdr trial create -- <command>' to record one)")
		return nil
	}

	header := []string{"Trial", "Command", "Exit", "Duration", "Started"}
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		var trial models.Trial
		if err := db.Get(storage.KindTrial, name, &trial); err != nil {
			return err
		}
		rows = append(rows, []string{
			name,
			strings.Join(trial.Command, " "),
			fmt.Sprintf("%d", trial.ExitCode),
			trial.Duration.Round(time.Millisecond).String(),
			trial.StartedAt.Format(constants.TimeParseLayout),
		})
	}
	ux.RenderTable(ux.Logger.Writer(), header, rows)
	return nil
}
