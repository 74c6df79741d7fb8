// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package models

// CompilerFamily identifies the compiler toolchain a target builds
// performance tools with.
type CompilerFamily string

const (
	GNU   CompilerFamily = "GNU"
	Intel CompilerFamily = "Intel"
)

// CompilerFamilyFromString maps user input to a known family,
// defaulting to GNU.
func CompilerFamilyFromString(s string) CompilerFamily {
	switch s {
	case string(Intel), "intel", "icc":
		return Intel
	default:
		return GNU
	}
}
