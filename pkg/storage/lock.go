// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/shirou/gopsutil/process"

	"github.com/paratools/taucmdr/pkg/constants"
)

// ErrLocked reports an installation prefix held by another process.
var ErrLocked = errors.New("installation is locked")

type lockOwner struct {
	Pid     int       `json:"pid"`
	Started time.Time `json:"started"`
}

// InstallLock serializes builds into one installation prefix across
// processes. The kernel flock provides the mutual exclusion; the owner
// file records who holds it so failures can name the holder and stale
// files left by crashed holders can be detected.
type InstallLock struct {
	prefix    string
	flock     *flock.Flock
	ownerPath string
}

func NewInstallLock(prefix string) *InstallLock {
	lockPath := filepath.Join(prefix, constants.LockFileName)
	return &InstallLock{
		prefix:    prefix,
		flock:     flock.New(lockPath),
		ownerPath: lockPath + ".pid",
	}
}

// Acquire takes the lock without blocking. A held lock returns ErrLocked
// naming the recorded owner. An owner file whose flock is free belongs to
// a previous holder: if that process is gone the file is stale and the
// lock proceeds, if it is still running the acquire backs off.
func (il *InstallLock) Acquire() error {
	if err := os.MkdirAll(il.prefix, constants.DefaultPerms755); err != nil {
		return err
	}
	locked, err := il.flock.TryLock()
	if err != nil {
		return fmt.Errorf("locking %s: %w", il.flock.Path(), err)
	}
	if !locked {
		if owner, err := il.readOwner(); err == nil {
			return fmt.Errorf("%w: %s is held by pid %d", ErrLocked, il.flock.Path(), owner.Pid)
		}
		return fmt.Errorf("%w: %s is held by another process", ErrLocked, il.flock.Path())
	}

	if owner, err := il.readOwner(); err == nil && owner.Pid != os.Getpid() {
		if pidRunning(int32(owner.Pid)) {
			// The recorded owner is alive but no longer holds the kernel
			// lock. Treat the prefix as theirs rather than clobber a
			// build in progress.
			_ = il.flock.Unlock()
			return fmt.Errorf("%w: %s is owned by running pid %d", ErrLocked, il.flock.Path(), owner.Pid)
		}
		// Stale owner file from a crashed holder, replace it below.
	}

	if err := il.writeOwner(); err != nil {
		_ = il.flock.Unlock()
		return err
	}
	return nil
}

// Release drops the lock. Safe to call on an unheld lock.
func (il *InstallLock) Release() error {
	if err := os.Remove(il.ownerPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return il.flock.Unlock()
}

// Owner reports the recorded holder and whether that process is running.
func (il *InstallLock) Owner() (int, bool, error) {
	owner, err := il.readOwner()
	if err != nil {
		return 0, false, err
	}
	return owner.Pid, pidRunning(int32(owner.Pid)), nil
}

func (il *InstallLock) readOwner() (lockOwner, error) {
	ownerBytes, err := os.ReadFile(il.ownerPath)
	if err != nil {
		return lockOwner{}, err
	}
	var owner lockOwner
	err = json.Unmarshal(ownerBytes, &owner)
	return owner, err
}

func (il *InstallLock) writeOwner() error {
	owner := lockOwner{Pid: os.Getpid(), Started: time.Now().UTC()}
	ownerBytes, err := json.Marshal(owner)
	if err != nil {
		return err
	}
	return os.WriteFile(il.ownerPath, ownerBytes, constants.WriteReadReadPerms)
}

func pidRunning(pid int32) bool {
	procs, err := process.Processes()
	if err != nil {
		return false
	}
	for _, p := range procs {
		if p.Pid == pid {
			return true
		}
	}
	return false
}
