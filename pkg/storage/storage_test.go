// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paratools/taucmdr/pkg/constants"
	"github.com/stretchr/testify/require"
)

func TestFindProjectDir(t *testing.T) {
	require := require.New(t)

	root := t.TempDir()
	projectRoot := filepath.Join(root, "proj")
	deep := filepath.Join(projectRoot, "src", "kernels")
	require.NoError(os.MkdirAll(deep, 0o755))
	tauDir := filepath.Join(projectRoot, constants.ProjectDirName)
	require.NoError(os.MkdirAll(tauDir, 0o755))

	found, ok := FindProjectDir(deep)
	require.True(ok)
	require.Equal(tauDir, found)

	found, ok = FindProjectDir(projectRoot)
	require.True(ok)
	require.Equal(tauDir, found)

	// a .tau file (not a directory) does not count
	otherRoot := filepath.Join(root, "other")
	require.NoError(os.MkdirAll(otherRoot, 0o755))
	require.NoError(os.WriteFile(filepath.Join(otherRoot, constants.ProjectDirName), []byte("x"), 0o644))
	found, ok = FindProjectDir(otherRoot)
	if ok {
		// hosts may carry a .tau somewhere above the temp dir
		require.False(strings.HasPrefix(found, root))
	}
}

func TestLevelPaths(t *testing.T) {
	require := require.New(t)

	level := Level{Kind: UserLevel, Prefix: "/home/user/.taucmdr"}
	require.Equal(filepath.Join("/home/user/.taucmdr", constants.RecordsDBFileName), level.RecordsPath())
	require.Equal(filepath.Join("/home/user/.taucmdr", constants.SrcCacheDirName), level.SrcDir())
	require.Equal(filepath.Join("/home/user/.taucmdr", constants.PackagesDirName), level.PackagesDir())
}

func TestHierarchyOrder(t *testing.T) {
	require := require.New(t)

	h := &Hierarchy{levels: []Level{
		{Kind: ProjectLevel, Prefix: "/work/proj/.tau"},
		{Kind: UserLevel, Prefix: "/home/user/.taucmdr"},
		{Kind: SystemLevel, Prefix: "/opt/taucmdr/system"},
	}}

	levels := h.Levels()
	require.Equal([]LevelKind{ProjectLevel, UserLevel, SystemLevel},
		[]LevelKind{levels[0].Kind, levels[1].Kind, levels[2].Kind})

	search := h.SearchOrder()
	require.Equal([]LevelKind{SystemLevel, UserLevel, ProjectLevel},
		[]LevelKind{search[0].Kind, search[1].Kind, search[2].Kind})

	require.Equal(ProjectLevel, h.RecordLevel().Kind)

	project, ok := h.Project()
	require.True(ok)
	require.Equal("/work/proj/.tau", project.Prefix)
}

func TestRecordLevelWithoutProject(t *testing.T) {
	require := require.New(t)

	h := &Hierarchy{levels: []Level{
		{Kind: UserLevel, Prefix: "/home/user/.taucmdr"},
		{Kind: SystemLevel, Prefix: "/opt/taucmdr/system"},
	}}

	require.Equal(UserLevel, h.RecordLevel().Kind)

	_, ok := h.Project()
	require.False(ok)
}

func TestNewHierarchyDiscoversProject(t *testing.T) {
	require := require.New(t)

	root := t.TempDir()
	projectRoot := filepath.Join(root, "proj")
	tauDir := filepath.Join(projectRoot, constants.ProjectDirName)
	require.NoError(os.MkdirAll(tauDir, 0o755))

	h := NewHierarchy(projectRoot, filepath.Join(root, "user"), filepath.Join(root, "system"))

	project, ok := h.Project()
	require.True(ok)
	require.Equal(tauDir, project.Prefix)
	require.Len(h.Levels(), 3)
}

func TestHighestWritable(t *testing.T) {
	require := require.New(t)

	root := t.TempDir()

	// a prefix below a plain file can never be created
	blocker := filepath.Join(root, "blocker")
	require.NoError(os.WriteFile(blocker, []byte("x"), 0o644))

	h := &Hierarchy{levels: []Level{
		{Kind: ProjectLevel, Prefix: filepath.Join(blocker, ".tau")},
		{Kind: UserLevel, Prefix: filepath.Join(root, "user")},
		{Kind: SystemLevel, Prefix: filepath.Join(root, "system")},
	}}

	level, err := h.HighestWritable()
	require.NoError(err)
	require.Equal(UserLevel, level.Kind)

	h = &Hierarchy{levels: []Level{
		{Kind: UserLevel, Prefix: filepath.Join(blocker, "user")},
		{Kind: SystemLevel, Prefix: filepath.Join(blocker, "system")},
	}}
	_, err = h.HighestWritable()
	require.Error(err)
	require.Contains(err.Error(), "no writable storage level")
}
