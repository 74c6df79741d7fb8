// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package trialcmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/paratools/taucmdr/pkg/constants"
	"github.com/paratools/taucmdr/pkg/models"
	"github.com/paratools/taucmdr/pkg/storage"
	"github.com/paratools/taucmdr/pkg/ux"
)

const logTailLines = 20

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [trialNumber]",
		Short: "Show a trial's record and the tail of its log",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}
}

func runShow(_ *cobra.Command, args []string) error {
	var number int
	if _, err := fmt.Sscanf(args[0], "%d", &number); err != nil {
		return fmt.Errorf("%q is not a trial number", args[0])
	}

	level, err := recordLevel()
	if err != nil {
		return err
	}
	db, err := storage.OpenDatabase(level.RecordsPath())
	if err != nil {
		return err
	}
	defer db.Close()

	var trial models.Trial
	if err := db.Get(storage.KindTrial, trialKey(number), &trial); err != nil {
		return err
	}

	ux.Logger.PrintToUser("Trial %s", trialKey(trial.Number))
	ux.Logger.PrintToUser("  command:  %s", strings.Join(trial.Command, " "))
	if trial.Target != "" {
		ux.Logger.PrintToUser("  target:   %s", trial.Target)
	}
	if trial.Application != "" {
		ux.Logger.PrintToUser("  app:      %s", trial.Application)
	}
	ux.Logger.PrintToUser("  started:  %s", trial.StartedAt.Format(constants.TimeParseLayout))
	ux.Logger.PrintToUser("  duration: %s", trial.Duration.Round(time.Millisecond))
	ux.Logger.PrintToUser("  exit:     %d", trial.ExitCode)
	ux.Logger.PrintToUser("  log:      %s", trial.LogFile)

	tail, err := tailLines(trial.LogFile, logTailLines)
	if err != nil {
		ux.Logger.PrintToUser("")
		ux.Logger.PrintToUser("log unavailable: %s", err)
		return nil
	}
	if len(tail) > 0 {
		ux.Logger.PrintLineSeparator()
		for _, line := range tail {
			ux.Logger.PrintToUser("%s", line)
		}
	}
	return nil
}

// tailLines returns the last n lines of path. Trial logs are small so
// reading the whole file is fine.
func tailLines(path string, n int) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil, nil
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines, nil
}
