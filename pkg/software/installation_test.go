// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package software

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/paratools/taucmdr/internal/testutils"
	"github.com/paratools/taucmdr/pkg/constants"
	"github.com/paratools/taucmdr/pkg/download"
	"github.com/paratools/taucmdr/pkg/logging"
	"github.com/paratools/taucmdr/pkg/models"
	"github.com/paratools/taucmdr/pkg/platform"
	"github.com/paratools/taucmdr/pkg/storage"
	"github.com/paratools/taucmdr/pkg/utils"
	"github.com/stretchr/testify/require"
)

func testPlatform() platform.Platform {
	return platform.Platform{OS: platform.Linux, Arch: platform.X8664}
}

func newTestHierarchy(t *testing.T) (*storage.Hierarchy, string, string) {
	root := t.TempDir()
	user := filepath.Join(root, "user")
	system := filepath.Join(root, "system")
	h := storage.HierarchyFromLevels(
		storage.Level{Kind: storage.UserLevel, Prefix: user},
		storage.Level{Kind: storage.SystemLevel, Prefix: system},
	)
	return h, user, system
}

func testParams(h *storage.Hierarchy) InstallationParams {
	return InstallationParams{
		Platform:  testPlatform(),
		Family:    models.GNU,
		Hierarchy: h,
		Log:       logging.NewNop(),
	}
}

func demoEntry(source string) Entry {
	return Entry{
		Name:    "demo",
		Title:   "Demo",
		Version: "1.0.0",
		Sources: []SourceSpec{{URL: source}},
		Verify:  VerifySpec{Libraries: []string{"libdemo.a"}},
		Env:     map[string]map[string]string{"GNU": {"CC": "gcc"}},
	}
}

// writeTree lays out a prefix that satisfies verification.
func writeTree(require *require.Assertions, prefix string, commands, libraries, headers []string) {
	for _, cmd := range commands {
		cmdPath := filepath.Join(prefix, "bin", cmd)
		require.NoError(os.MkdirAll(filepath.Dir(cmdPath), 0o755))
		require.NoError(os.WriteFile(cmdPath, []byte("#!/bin/sh\n"), 0o644))
		require.NoError(os.Chmod(cmdPath, 0o755))
	}
	for _, lib := range libraries {
		libPath := filepath.Join(prefix, "lib", lib)
		require.NoError(os.MkdirAll(filepath.Dir(libPath), 0o755))
		require.NoError(os.WriteFile(libPath, []byte("ar"), 0o644))
	}
	for _, header := range headers {
		headerPath := filepath.Join(prefix, "include", header)
		require.NoError(os.MkdirAll(filepath.Dir(headerPath), 0o755))
		require.NoError(os.WriteFile(headerPath, []byte("/* h */"), 0o644))
	}
}

// buildDemoArchive produces demo-1.0.0.tar.gz with a configure script
// in its top-level directory and returns the archive path.
func buildDemoArchive(t *testing.T, require *require.Assertions) string {
	srcRoot := t.TempDir()
	pkgDir := filepath.Join(srcRoot, "demo-1.0.0")
	require.NoError(os.MkdirAll(pkgDir, 0o755))
	configurePath := filepath.Join(pkgDir, "configure")
	require.NoError(os.WriteFile(configurePath, []byte("#!/bin/sh\nexit 0\n"), 0o644))
	require.NoError(os.Chmod(configurePath, 0o755))

	archivePath := filepath.Join(srcRoot, "demo-1.0.0.tar.gz")
	testutils.CreateTarball(require, pkgDir, archivePath, true)
	return archivePath
}

func TestUID(t *testing.T) {
	require := require.New(t)

	// md5 of the bytes, hex encoded
	require.Equal("5d41402abc4b2a76b9719d911017c592", UID("hello"))
	require.Len(UID("http://icl.cs.utk.edu/projects/papi/downloads/papi-5.4.1.tar.gz"), 32)
	require.Equal(UID("same"), UID("same"))
	require.NotEqual(UID("one"), UID("two"))
}

func TestIsGitSource(t *testing.T) {
	require := require.New(t)

	require.True(IsGitSource("https://github.com/UO-OACISS/tau2.git"))
	require.True(IsGitSource("git://example.com/repo"))
	require.False(IsGitSource("http://tau.uoregon.edu/tau.tgz"))
	require.False(IsGitSource("/path/to/archive.tar.gz"))
}

func TestArchiveName(t *testing.T) {
	require := require.New(t)

	inst := &Installation{Source: "http://icl.cs.utk.edu/projects/papi/downloads/papi-5.4.1.tar.gz"}
	require.Equal("papi-5.4.1.tar.gz", inst.archiveName())

	inst = &Installation{Source: "/home/user/stash/pdt.tgz"}
	require.Equal("pdt.tgz", inst.archiveName())
}

func TestVerify(t *testing.T) {
	require := require.New(t)
	prefix := filepath.Join(t.TempDir(), "prefix")

	inst := &Installation{
		Title:           "Demo",
		VerifyCommands:  []string{"demo_avail"},
		VerifyLibraries: []string{"libdemo.a"},
		VerifyHeaders:   []string{"demo.h"},
		prefix:          prefix,
	}

	err := inst.Verify()
	require.Error(err)
	require.Contains(err.Error(), "does not exist")

	writeTree(require, prefix, []string{"demo_avail"}, []string{"libdemo.a"}, []string{"demo.h"})
	require.NoError(inst.Verify())

	// command present but not executable
	require.NoError(os.Chmod(filepath.Join(prefix, "bin", "demo_avail"), 0o644))
	err = inst.Verify()
	require.Error(err)
	require.Contains(err.Error(), "not executable")
	require.NoError(os.Chmod(filepath.Join(prefix, "bin", "demo_avail"), 0o755))

	// library only in lib64 still verifies
	require.NoError(os.Rename(filepath.Join(prefix, "lib"), filepath.Join(prefix, "lib64")))
	require.NoError(inst.Verify())

	// missing header fails
	require.NoError(os.Remove(filepath.Join(prefix, "include", "demo.h")))
	err = inst.Verify()
	require.Error(err)
	require.Contains(err.Error(), "not accessible")
}

func TestNewInstallationAdoptsExistingDir(t *testing.T) {
	require := require.New(t)
	h, _, _ := newTestHierarchy(t)

	existing := filepath.Join(t.TempDir(), "existing")
	writeTree(require, existing, nil, []string{"libdemo.a"}, nil)

	params := testParams(h)
	params.SourceOverride = existing
	inst, err := NewInstallation(demoEntry("http://example.com/never-used.tar.gz"), params)
	require.NoError(err)
	require.True(inst.Installed())
	require.Equal(existing, inst.Prefix())
	require.Empty(inst.Source)

	// installing an adopted directory is a verification pass
	require.NoError(inst.Install(context.Background(), InstallOptions{}))
}

func TestNewInstallationRejectsBrokenDir(t *testing.T) {
	require := require.New(t)
	h, _, _ := newTestHierarchy(t)

	broken := t.TempDir()

	params := testParams(h)
	params.SourceOverride = broken
	_, err := NewInstallation(demoEntry("http://example.com/never-used.tar.gz"), params)
	require.Error(err)
	require.Contains(err.Error(), "invalid Demo installation")
}

func TestLocateFindsSystemInstallFirst(t *testing.T) {
	require := require.New(t)
	h, user, system := newTestHierarchy(t)

	source := "http://example.com/demo-1.0.0.tar.gz"
	uid := UID(source)
	writeTree(require, filepath.Join(user, constants.PackagesDirName, "demo", uid), nil, []string{"libdemo.a"}, nil)
	writeTree(require, filepath.Join(system, constants.PackagesDirName, "demo", uid), nil, []string{"libdemo.a"}, nil)

	inst, err := NewInstallation(demoEntry(source), testParams(h))
	require.NoError(err)
	require.True(inst.Installed())
	require.Equal(filepath.Join(system, constants.PackagesDirName, "demo", uid), inst.Prefix())
}

func TestLocateNewInstallUsesHighestWritable(t *testing.T) {
	require := require.New(t)
	h, user, _ := newTestHierarchy(t)

	source := "http://example.com/demo-1.0.0.tar.gz"
	inst, err := NewInstallation(demoEntry(source), testParams(h))
	require.NoError(err)
	require.False(inst.Installed())
	require.Equal(filepath.Join(user, constants.PackagesDirName, "demo", UID(source)), inst.Prefix())
}

func TestInstallFlow(t *testing.T) {
	require := require.New(t)
	h, user, _ := newTestHierarchy(t)
	archivePath := buildDemoArchive(t, require)

	inst, err := NewInstallation(demoEntry(archivePath), testParams(h))
	require.NoError(err)
	require.False(inst.Installed())

	var cmds [][]string
	inst.run = func(_ context.Context, spec utils.CommandSpec) (string, string, error) {
		cmds = append(cmds, append([]string{spec.Name}, spec.Args...))
		switch spec.Name {
		case "./configure":
			if !utils.FileExists(filepath.Join(spec.Dir, "configure")) {
				return "", "", fmt.Errorf("no configure script in %s", spec.Dir)
			}
			if spec.Env["CC"] != "gcc" {
				return "", "", fmt.Errorf("compiler family env not applied")
			}
		case "make":
			if len(spec.Args) == 1 && spec.Args[0] == "install" {
				libPath := filepath.Join(inst.Prefix(), "lib", "libdemo.a")
				if err := os.MkdirAll(filepath.Dir(libPath), 0o755); err != nil {
					return "", "", err
				}
				if err := os.WriteFile(libPath, []byte("ar"), 0o644); err != nil {
					return "", "", err
				}
			}
		}
		return "", "", nil
	}

	var notes []string
	err = inst.Install(context.Background(), InstallOptions{
		BuildRoot: filepath.Join(t.TempDir(), "build"),
		Note:      func(msg string) { notes = append(notes, msg) },
	})
	require.NoError(err)
	require.True(inst.Installed())
	require.NoError(inst.Verify())

	// configure --prefix, parallel make, make install
	require.Len(cmds, 3)
	require.Equal("./configure", cmds[0][0])
	require.Equal("--prefix="+inst.Prefix(), cmds[0][len(cmds[0])-1])
	require.Equal([]string{"make", "-j"}, cmds[1][:2])
	require.Equal([]string{"make", "install"}, cmds[2])

	require.Contains(notes, "./configure")
	require.Contains(notes, "verifying")

	// the archive is cached at the user level for rebuilds
	require.FileExists(filepath.Join(user, constants.SrcCacheDirName, "demo-1.0.0.tar.gz"))
}

func TestInstallRetriesMakeSerially(t *testing.T) {
	require := require.New(t)
	h, _, _ := newTestHierarchy(t)
	archivePath := buildDemoArchive(t, require)

	inst, err := NewInstallation(demoEntry(archivePath), testParams(h))
	require.NoError(err)

	var cmds [][]string
	inst.run = func(_ context.Context, spec utils.CommandSpec) (string, string, error) {
		cmds = append(cmds, append([]string{spec.Name}, spec.Args...))
		if spec.Name == "make" && len(spec.Args) > 0 && spec.Args[0] == "-j" {
			return "", "gcc: internal compiler error", fmt.Errorf("exit status 2")
		}
		if spec.Name == "make" && len(spec.Args) == 1 && spec.Args[0] == "install" {
			libPath := filepath.Join(inst.Prefix(), "lib", "libdemo.a")
			if err := os.MkdirAll(filepath.Dir(libPath), 0o755); err != nil {
				return "", "", err
			}
			return "", "", os.WriteFile(libPath, []byte("ar"), 0o644)
		}
		return "", "", nil
	}

	require.NoError(inst.Install(context.Background(), InstallOptions{BuildRoot: filepath.Join(t.TempDir(), "build")}))

	require.Len(cmds, 4)
	require.Equal("-j", cmds[1][1])
	require.Equal([]string{"make"}, cmds[2])
	require.Equal([]string{"make", "install"}, cmds[3])
}

func TestInstallSkipsVerifiedWithoutForce(t *testing.T) {
	require := require.New(t)
	h, user, _ := newTestHierarchy(t)

	source := "http://example.com/demo-1.0.0.tar.gz"
	writeTree(require, filepath.Join(user, constants.PackagesDirName, "demo", UID(source)), nil, []string{"libdemo.a"}, nil)

	inst, err := NewInstallation(demoEntry(source), testParams(h))
	require.NoError(err)
	require.True(inst.Installed())

	inst.run = func(context.Context, utils.CommandSpec) (string, string, error) {
		return "", "", fmt.Errorf("no commands expected")
	}
	require.NoError(inst.Install(context.Background(), InstallOptions{}))
}

func TestInstallForceCleansPrefix(t *testing.T) {
	require := require.New(t)
	h, _, _ := newTestHierarchy(t)
	archivePath := buildDemoArchive(t, require)

	inst, err := NewInstallation(demoEntry(archivePath), testParams(h))
	require.NoError(err)

	// a stale tree from a previous failed build
	writeTree(require, inst.Prefix(), nil, []string{"libdemo.a"}, nil)
	stale := filepath.Join(inst.Prefix(), "stale.txt")
	require.NoError(os.WriteFile(stale, []byte("old"), 0o644))

	inst.run = func(_ context.Context, spec utils.CommandSpec) (string, string, error) {
		if spec.Name == "make" && len(spec.Args) == 1 && spec.Args[0] == "install" {
			libPath := filepath.Join(inst.Prefix(), "lib", "libdemo.a")
			if err := os.MkdirAll(filepath.Dir(libPath), 0o755); err != nil {
				return "", "", err
			}
			return "", "", os.WriteFile(libPath, []byte("ar"), 0o644)
		}
		return "", "", nil
	}

	require.NoError(inst.Install(context.Background(), InstallOptions{
		Force:     true,
		BuildRoot: filepath.Join(t.TempDir(), "build"),
	}))
	require.NoFileExists(stale)
	require.NoError(inst.Verify())
}

func TestInstallRedownloadsUnreadableCachedArchive(t *testing.T) {
	require := require.New(t)
	h, user, _ := newTestHierarchy(t)
	archivePath := buildDemoArchive(t, require)

	// poison the cache with bytes that are not an archive
	cached := filepath.Join(user, constants.SrcCacheDirName, "demo-1.0.0.tar.gz")
	require.NoError(os.MkdirAll(filepath.Dir(cached), 0o755))
	require.NoError(os.WriteFile(cached, []byte("not a tarball"), 0o644))

	inst, err := NewInstallation(demoEntry(archivePath), testParams(h))
	require.NoError(err)

	inst.run = func(_ context.Context, spec utils.CommandSpec) (string, string, error) {
		if spec.Name == "make" && len(spec.Args) == 1 && spec.Args[0] == "install" {
			libPath := filepath.Join(inst.Prefix(), "lib", "libdemo.a")
			if err := os.MkdirAll(filepath.Dir(libPath), 0o755); err != nil {
				return "", "", err
			}
			return "", "", os.WriteFile(libPath, []byte("ar"), 0o644)
		}
		return "", "", nil
	}

	require.NoError(inst.Install(context.Background(), InstallOptions{BuildRoot: filepath.Join(t.TempDir(), "build")}))

	// the cache now holds a fresh copy of the real archive
	wantSum, err := download.ChecksumFile(archivePath)
	require.NoError(err)
	gotSum, err := download.ChecksumFile(cached)
	require.NoError(err)
	require.Equal(wantSum, gotSum)
}
