// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/paratools/taucmdr/pkg/constants"
	"github.com/stretchr/testify/require"
)

func TestInstallLockAcquireRelease(t *testing.T) {
	require := require.New(t)
	prefix := filepath.Join(t.TempDir(), "packages", "papi", "abc123")

	lock := NewInstallLock(prefix)
	require.NoError(lock.Acquire())

	pid, running, err := lock.Owner()
	require.NoError(err)
	require.Equal(os.Getpid(), pid)
	require.True(running)

	require.NoError(lock.Release())
	_, err = os.Stat(filepath.Join(prefix, constants.LockFileName) + ".pid")
	require.Error(err)

	// reacquire after release
	require.NoError(lock.Acquire())
	require.NoError(lock.Release())
}

func TestInstallLockConflict(t *testing.T) {
	require := require.New(t)
	prefix := t.TempDir()

	first := NewInstallLock(prefix)
	require.NoError(first.Acquire())

	second := NewInstallLock(prefix)
	err := second.Acquire()
	require.ErrorIs(err, ErrLocked)
	require.Contains(err.Error(), "held by pid")

	require.NoError(first.Release())
	require.NoError(second.Acquire())
	require.NoError(second.Release())
}

func TestInstallLockStaleOwner(t *testing.T) {
	require := require.New(t)
	prefix := t.TempDir()

	// an owner file without a flock holder and a dead pid is stale
	writeOwnerFile(t, prefix, 999999999)

	lock := NewInstallLock(prefix)
	require.NoError(lock.Acquire())

	pid, running, err := lock.Owner()
	require.NoError(err)
	require.Equal(os.Getpid(), pid)
	require.True(running)

	require.NoError(lock.Release())
}

func TestInstallLockBacksOffLiveOwner(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on pid 1 existing")
	}
	require := require.New(t)
	prefix := t.TempDir()

	// pid 1 is always running but never holds our flock
	writeOwnerFile(t, prefix, 1)

	lock := NewInstallLock(prefix)
	err := lock.Acquire()
	require.ErrorIs(err, ErrLocked)
	require.Contains(err.Error(), "owned by running pid 1")
}

func writeOwnerFile(t *testing.T, prefix string, pid int) {
	t.Helper()
	ownerBytes, err := json.Marshal(lockOwner{Pid: pid})
	require.NoError(t, err)
	ownerPath := filepath.Join(prefix, constants.LockFileName) + ".pid"
	require.NoError(t, os.WriteFile(ownerPath, ownerBytes, 0o644))
}
