// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package models

import "time"

// Project is the top-level container for experiment records. One
// project owns the .tau directory it was initialized in.
type Project struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Target describes the machine performance experiments run on.
type Target struct {
	Name           string         `json:"name"`
	OS             string         `json:"os"`
	Arch           string         `json:"arch"`
	CompilerFamily CompilerFamily `json:"compilerFamily"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// Application describes the program under study and the parallelism
// features that influence measurement configuration.
type Application struct {
	Name      string    `json:"name"`
	OpenMP    bool      `json:"openmp"`
	MPI       bool      `json:"mpi"`
	CreatedAt time.Time `json:"createdAt"`
}

// Trial is one recorded run of the application under a target's
// runtime environment.
type Trial struct {
	Number      int           `json:"number"`
	Target      string        `json:"target"`
	Application string        `json:"application"`
	Command     []string      `json:"command"`
	StartedAt   time.Time     `json:"startedAt"`
	Duration    time.Duration `json:"duration"`
	ExitCode    int           `json:"exitCode"`
	LogFile     string        `json:"logFile"`
}
