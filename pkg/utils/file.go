// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/paratools/taucmdr/pkg/constants"
)

// FileExists checks if a file exists at the given path
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists checks if a directory exists at the given path
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// PathExists reports whether anything exists at the given path
func PathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// NonEmptyDirectory returns true if the directory exists and contains
// at least one entry
func NonEmptyDirectory(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return len(entries) > 0, nil
}

// ExpandHome expands a leading ~ in path to the user's home directory.
// Paths without a leading ~ are returned unchanged.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}

// CopyFile copies the file at src to dst, creating parent directories
// as needed and preserving the source permission bits.
func CopyFile(src string, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), constants.DefaultPerms755); err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	if err := out.Close(); err != nil {
		return err
	}
	// OpenFile perms are subject to the umask, chmod to the real mode
	return os.Chmod(dst, info.Mode().Perm())
}

// MarkExecutable adds the owner execute bits to the file at path.
// Archive formats like .zip don't carry permissions, so extracted
// binaries have to be fixed up manually.
func MarkExecutable(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to read permissions for %s: %w", path, err)
	}
	if err := os.Chmod(path, fi.Mode()|0o700); err != nil {
		return fmt.Errorf("failed to mark %s as executable: %w", path, err)
	}
	return nil
}

// ChmodRecursively widens permissions under root so every user can read
// the tree, traverse its directories, and run anything already
// executable. This mirrors chmod -R a+rX.
func ChmodRecursively(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Mode()&os.ModeSymlink != 0 {
			return nil
		}
		perm := info.Mode().Perm()
		newPerm := perm | 0o444
		if d.IsDir() || perm&0o111 != 0 {
			newPerm |= 0o111
		}
		if newPerm == perm {
			return nil
		}
		return os.Chmod(path, newPerm)
	})
}
