// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ux

import (
	"fmt"
	"os"

	"github.com/chelnak/ysmrr"
)

// Step is one stage of a sequential operation. Run receives a note
// callback for intermediate detail ("fetching 12 MB", "make -j7").
type Step struct {
	Name string
	Run  func(note func(msg string)) error
}

// RunSteps executes steps in order, aborting on the first failure.
// On a TTY each step gets an animated spinner; otherwise plain lines.
func (ul *UserLog) RunSteps(steps []Step) error {
	if !IsTerminal(ul.writer) || os.Getenv("CI") != "" {
		return ul.runStepsPlain(steps)
	}

	sm := ysmrr.NewSpinnerManager(ysmrr.WithWriter(ul.writer))
	spinners := make([]*ysmrr.Spinner, len(steps))
	for i, step := range steps {
		spinners[i] = sm.AddSpinner(step.Name)
	}
	sm.Start()
	defer sm.Stop()

	for i, step := range steps {
		sp := spinners[i]
		note := func(msg string) {
			sp.UpdateMessage(fmt.Sprintf("%s: %s", step.Name, msg))
		}
		if err := step.Run(note); err != nil {
			sp.UpdateMessage(fmt.Sprintf("%s: %v", step.Name, err))
			sp.Error()
			ul.log.Errorf("%s failed: %v", step.Name, err)
			return err
		}
		sp.UpdateMessage(step.Name)
		sp.Complete()
		ul.log.Infof("%s done", step.Name)
	}
	return nil
}

func (ul *UserLog) runStepsPlain(steps []Step) error {
	for _, step := range steps {
		ul.PrintToUser("%s...", step.Name)
		note := func(msg string) {
			ul.PrintToUser("  %s", msg)
		}
		if err := step.Run(note); err != nil {
			ul.RedXToUser("%s: %v", step.Name, err)
			return err
		}
		ul.GreenCheckmarkToUser("%s", step.Name)
	}
	return nil
}
