// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package models

import "time"

// Receipt records what an install run resolved and produced. It lives
// at the root of the install tree so later runs and support requests
// can see exactly what was installed.
type Receipt struct {
	Version            string    `json:"version"`
	OS                 string    `json:"os"`
	Arch               string    `json:"arch"`
	InstallDir         string    `json:"installDir"`
	Interpreter        string    `json:"interpreter"`
	InterpreterVersion string    `json:"interpreterVersion"`
	InterpreterSource  string    `json:"interpreterSource"`
	InstalledAt        time.Time `json:"installedAt"`
}
