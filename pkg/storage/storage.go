// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package storage implements the project/user/system storage hierarchy.
// Every level owns a records database, a source archive cache and a
// packages prefix. Records and installed software are looked up across
// levels in a fixed order.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/paratools/taucmdr/pkg/constants"
)

type LevelKind string

const (
	ProjectLevel LevelKind = "project"
	UserLevel    LevelKind = "user"
	SystemLevel  LevelKind = "system"
)

// Level is one tier of the hierarchy rooted at Prefix.
type Level struct {
	Kind   LevelKind
	Prefix string
}

func (l Level) RecordsPath() string {
	return filepath.Join(l.Prefix, constants.RecordsDBFileName)
}

// SrcDir caches downloaded source archives for this level.
func (l Level) SrcDir() string {
	return filepath.Join(l.Prefix, constants.SrcCacheDirName)
}

// PackagesDir is the prefix performance tools install under at this level.
func (l Level) PackagesDir() string {
	return filepath.Join(l.Prefix, constants.PackagesDirName)
}

// Writable reports whether records and packages can be created at this
// level. The check creates the prefix if needed and probes with a
// throwaway file so permission and read-only-mount failures both count.
func (l Level) Writable() bool {
	if err := os.MkdirAll(l.Prefix, constants.DefaultPerms755); err != nil {
		return false
	}
	probe, err := os.CreateTemp(l.Prefix, ".writable-*")
	if err != nil {
		return false
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)
	return true
}

// Hierarchy holds the levels present for this invocation, ordered
// project, user, system. The project level is absent until a project
// directory is discovered or created.
type Hierarchy struct {
	levels []Level
}

// NewHierarchy assembles the hierarchy. The project level is discovered
// by walking up from startDir; userDir and systemDir come from the
// application's directory layout.
func NewHierarchy(startDir string, userDir string, systemDir string) *Hierarchy {
	levels := make([]Level, 0, 3)
	if projectDir, found := FindProjectDir(startDir); found {
		levels = append(levels, Level{Kind: ProjectLevel, Prefix: projectDir})
	}
	levels = append(levels,
		Level{Kind: UserLevel, Prefix: userDir},
		Level{Kind: SystemLevel, Prefix: systemDir},
	)
	return &Hierarchy{levels: levels}
}

// HierarchyFromLevels assembles a hierarchy from explicit levels. The
// caller supplies them in project, user, system order.
func HierarchyFromLevels(levels ...Level) *Hierarchy {
	return &Hierarchy{levels: append([]Level{}, levels...)}
}

// FindProjectDir walks up from startDir looking for a .tau directory.
func FindProjectDir(startDir string) (string, bool) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false
	}
	for {
		candidate := filepath.Join(dir, constants.ProjectDirName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// Levels returns the hierarchy in project, user, system order.
func (h *Hierarchy) Levels() []Level {
	out := make([]Level, len(h.levels))
	copy(out, h.levels)
	return out
}

// SearchOrder returns the levels system-first. Installation reuse scans
// this way so a system-wide install wins over per-user copies.
func (h *Hierarchy) SearchOrder() []Level {
	out := make([]Level, len(h.levels))
	for i, l := range h.levels {
		out[len(h.levels)-1-i] = l
	}
	return out
}

// HighestWritable returns the first writable level in project, user,
// system order. New installs and records land there.
func (h *Hierarchy) HighestWritable() (Level, error) {
	for _, l := range h.levels {
		if l.Writable() {
			return l, nil
		}
	}
	return Level{}, fmt.Errorf("no writable storage level (checked %d levels)", len(h.levels))
}

// Project returns the project level if one was discovered.
func (h *Hierarchy) Project() (Level, bool) {
	return h.Level(ProjectLevel)
}

func (h *Hierarchy) Level(kind LevelKind) (Level, bool) {
	for _, l := range h.levels {
		if l.Kind == kind {
			return l, true
		}
	}
	return Level{}, false
}

// RecordLevel is where workflow records live: the project level when
// inside a project, the user level otherwise.
func (h *Hierarchy) RecordLevel() Level {
	if project, ok := h.Project(); ok {
		return project
	}
	user, _ := h.Level(UserLevel)
	return user
}
