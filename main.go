// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"github.com/paratools/taucmdr/cmd"
)

func main() {
	cmd.Execute()
}
