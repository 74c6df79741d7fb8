// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package software

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompiletimeEnv(t *testing.T) {
	require := require.New(t)
	prefix := filepath.Join(t.TempDir(), "prefix")
	writeTree(require, prefix, []string{"demo_avail"}, nil, nil)

	inst := &Installation{prefix: prefix}
	t.Setenv("PATH", "/usr/bin")

	env := map[string]string{}
	inst.CompiletimeEnv(env)
	require.Equal(filepath.Join(prefix, "bin")+string(os.PathListSeparator)+"/usr/bin", env["PATH"])
}

func TestCompiletimeEnvWithoutBinDir(t *testing.T) {
	require := require.New(t)

	inst := &Installation{prefix: filepath.Join(t.TempDir(), "empty")}
	env := map[string]string{}
	inst.CompiletimeEnv(env)
	require.Empty(env)
}

func TestRuntimeEnv(t *testing.T) {
	require := require.New(t)
	prefix := filepath.Join(t.TempDir(), "prefix")
	writeTree(require, prefix, []string{"demo_avail"}, []string{"libdemo.a"}, nil)

	inst := &Installation{prefix: prefix}
	t.Setenv("PATH", "/usr/bin")
	t.Setenv(libraryPathVar(), "")

	env := map[string]string{}
	inst.RuntimeEnv(env)
	require.Equal(filepath.Join(prefix, "bin")+string(os.PathListSeparator)+"/usr/bin", env["PATH"])
	require.Equal(filepath.Join(prefix, "lib"), env[libraryPathVar()])
}

func TestRuntimeEnvChainsInstallations(t *testing.T) {
	require := require.New(t)

	first := filepath.Join(t.TempDir(), "first")
	second := filepath.Join(t.TempDir(), "second")
	writeTree(require, first, nil, []string{"liba.a"}, nil)
	writeTree(require, second, nil, []string{"libb.a"}, nil)

	t.Setenv(libraryPathVar(), "/opt/lib")

	env := map[string]string{}
	(&Installation{prefix: first}).RuntimeEnv(env)
	(&Installation{prefix: second}).RuntimeEnv(env)

	sep := string(os.PathListSeparator)
	want := filepath.Join(second, "lib") + sep + filepath.Join(first, "lib") + sep + "/opt/lib"
	require.Equal(want, env[libraryPathVar()])
}
