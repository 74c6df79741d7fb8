// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package software

import (
	"os"
	"runtime"

	"github.com/paratools/taucmdr/pkg/utils"
)

// libraryPathVar is the dynamic linker search path variable.
func libraryPathVar() string {
	if runtime.GOOS == "darwin" {
		return "DYLD_LIBRARY_PATH"
	}
	return "LD_LIBRARY_PATH"
}

// prependPath puts dir in front of env[key], seeding from the process
// environment when the map has no value yet.
func prependPath(env map[string]string, key string, dir string) {
	current, ok := env[key]
	if !ok {
		current = os.Getenv(key)
	}
	if current == "" {
		env[key] = dir
		return
	}
	env[key] = dir + string(os.PathListSeparator) + current
}

// CompiletimeEnv updates env for compiling other software against this
// package: bin/ goes in front of PATH.
func (inst *Installation) CompiletimeEnv(env map[string]string) {
	if utils.DirExists(inst.binPath()) {
		prependPath(env, "PATH", inst.binPath())
	}
}

// RuntimeEnv updates env for running programs that use this package:
// bin/ in front of PATH and lib/ in front of the linker search path.
func (inst *Installation) RuntimeEnv(env map[string]string) {
	inst.CompiletimeEnv(env)
	if utils.DirExists(inst.libPath()) {
		prependPath(env, libraryPathVar(), inst.libPath())
	}
}
