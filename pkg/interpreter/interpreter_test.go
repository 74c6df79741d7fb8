// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package interpreter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/paratools/taucmdr/pkg/platform"
)

// fakeProbe simulates interpreters: version maps a command to its
// reported version, noSetuptools marks commands that cannot import the
// packaging library, absent commands fail to execute.
type fakeProbe struct {
	version      map[string]string
	noSetuptools map[string]bool
}

func (f fakeProbe) run(_ context.Context, name string, args ...string) (string, string, error) {
	version, ok := f.version[name]
	if !ok {
		return "", "", errors.New("exec format error")
	}
	probe := args[len(args)-1]
	if probe == "import setuptools" {
		if f.noSetuptools[name] {
			return "", "ModuleNotFoundError: No module named 'setuptools'", errors.New("exit status 1")
		}
		return "", "", nil
	}
	return version + "\n", "", nil
}

func newTestResolver(configured string, condaPrefix string, probe fakeProbe) *Resolver {
	r := NewResolver(configured, condaPrefix)
	r.run = probe.run
	return r
}

// writeCondaPython plants a fake bundled interpreter under prefix.
func writeCondaPython(t *testing.T, require *require.Assertions, prefix string) string {
	t.Helper()
	bin := filepath.Join(prefix, "bin")
	require.NoError(os.MkdirAll(bin, 0o755))
	python := filepath.Join(bin, "python3")
	require.NoError(os.WriteFile(python, []byte("#!/bin/sh\n"), 0o755))
	return python
}

func TestResolvePrefersConfigured(t *testing.T) {
	require := require.New(t)
	prefix := t.TempDir()
	bundled := writeCondaPython(t, require, prefix)

	r := newTestResolver("/custom/python", prefix, fakeProbe{
		version: map[string]string{
			"/custom/python": "3.12.1",
			bundled:          "3.11.4",
		},
	})

	info, err := r.Resolve(context.Background())
	require.NoError(err)
	require.Equal("/custom/python", info.Command)
	require.Equal("3.12.1", info.Version)
	require.Equal(SourceConfig, info.Source)
}

func TestResolveFallsBackToConda(t *testing.T) {
	require := require.New(t)
	prefix := t.TempDir()
	bundled := writeCondaPython(t, require, prefix)

	// the configured command doesn't execute
	r := newTestResolver("/broken/python", prefix, fakeProbe{
		version: map[string]string{
			bundled: "3.11.4",
		},
	})

	info, err := r.Resolve(context.Background())
	require.NoError(err)
	require.Equal(bundled, info.Command)
	require.Equal(SourceConda, info.Source)
}

func TestResolveRejectsOldVersions(t *testing.T) {
	require := require.New(t)
	prefix := t.TempDir()
	bundled := writeCondaPython(t, require, prefix)

	r := newTestResolver("", prefix, fakeProbe{
		version: map[string]string{
			bundled: "2.7.18",
		},
	})

	probed := r.Probe(context.Background())
	require.NotEmpty(probed)
	require.Error(probed[0].Err)
	require.Contains(probed[0].Err.Error(), "older than the minimum")
}

func TestResolveReportsMissingPackagingLib(t *testing.T) {
	require := require.New(t)

	r := newTestResolver("/custom/python", "", fakeProbe{
		version:      map[string]string{"/custom/python": "3.10.2"},
		noSetuptools: map[string]bool{"/custom/python": true},
	})

	_, err := r.Resolve(context.Background())
	require.ErrorIs(err, ErrPackagingLibMissing)
}

func TestResolveNoUsableInterpreter(t *testing.T) {
	require := require.New(t)

	r := newTestResolver("/broken/python", "", fakeProbe{})

	_, err := r.Resolve(context.Background())
	require.ErrorIs(err, ErrNoUsableInterpreter)
	require.Contains(err.Error(), "/broken/python")
}

func TestCondaPython(t *testing.T) {
	require := require.New(t)
	prefix := t.TempDir()

	require.Equal("", CondaPython(""))
	require.Equal("", CondaPython(prefix))

	bundled := writeCondaPython(t, require, prefix)
	require.Equal(bundled, CondaPython(prefix))
}

func TestCheckUnparseableVersion(t *testing.T) {
	require := require.New(t)

	r := newTestResolver("/custom/python", "", fakeProbe{
		version: map[string]string{"/custom/python": "not-a-version"},
	})

	probed := r.Probe(context.Background())
	require.NotEmpty(probed)
	require.Equal("/custom/python", probed[0].Command)
	require.Error(probed[0].Err)
	require.Contains(probed[0].Err.Error(), "unparseable version")
}

func TestBootstrapRefusesOccupiedPrefix(t *testing.T) {
	require := require.New(t)
	prefix := t.TempDir()
	writeCondaPython(t, require, prefix)

	err := Bootstrap(context.Background(), nil, BootstrapOptions{
		Platform: mustPlatform(t),
		CacheDir: t.TempDir(),
		Prefix:   prefix,
	})
	require.Error(err)
	require.Contains(err.Error(), "--force")
}

func TestBootstrapRunsCachedInstaller(t *testing.T) {
	require := require.New(t)
	cache := t.TempDir()
	root := t.TempDir()
	prefix := filepath.Join(root, "conda")

	plat := mustPlatform(t)
	name, err := plat.CondaInstaller("24.11.1-0")
	require.NoError(err)

	// a cached installer script that records its invocation
	marker := filepath.Join(root, "ran")
	script := fmt.Sprintf("#!/bin/sh\necho \"$@\" > %s\nmkdir -p \"$3/bin\"\n", marker)
	require.NoError(os.WriteFile(filepath.Join(cache, name), []byte(script), 0o755))

	err = Bootstrap(context.Background(), nil, BootstrapOptions{
		Platform: plat,
		Version:  "24.11.1-0",
		CacheDir: cache,
		Prefix:   prefix,
		Out:      nil,
	})
	require.NoError(err)

	recorded, err := os.ReadFile(marker)
	require.NoError(err)
	require.Contains(string(recorded), "-b -p "+prefix)
	require.DirExists(filepath.Join(prefix, "bin"))
}

func mustPlatform(t *testing.T) platform.Platform {
	t.Helper()
	return platform.Platform{OS: platform.Linux, Arch: platform.X8664}
}
