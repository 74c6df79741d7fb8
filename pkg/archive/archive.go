// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package archive extracts the source and installer archive formats
// the software stack ships in.
package archive

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

var errStopWalk = errors.New("stop walking")

// Supported reports whether the file name carries a recognized archive
// extension.
func Supported(name string) bool {
	return detectFormat(name) != formatUnknown
}

type format int

const (
	formatUnknown format = iota
	formatZip
	formatTar
	formatTarGz
	formatTarBz2
	formatTarXz
	formatTarZst
)

func detectFormat(name string) format {
	switch {
	case strings.HasSuffix(name, ".zip"):
		return formatZip
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		return formatTarGz
	case strings.HasSuffix(name, ".tar.bz2"), strings.HasSuffix(name, ".tbz2"):
		return formatTarBz2
	case strings.HasSuffix(name, ".tar.xz"), strings.HasSuffix(name, ".txz"):
		return formatTarXz
	case strings.HasSuffix(name, ".tar.zst"):
		return formatTarZst
	case strings.HasSuffix(name, ".tar"):
		return formatTar
	default:
		return formatUnknown
	}
}

// Extract unpacks the archive at src into dest, stripping the given
// number of leading path components from every entry. Entries that
// would land outside dest are rejected.
func Extract(src string, dest string, strip int) error {
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return err
	}
	switch detectFormat(src) {
	case formatZip:
		return extractZip(src, dest, strip)
	case formatTar, formatTarGz, formatTarBz2, formatTarXz, formatTarZst:
		return extractTarArchive(src, dest, strip)
	default:
		return fmt.Errorf("archive format of %s is not supported", filepath.Base(src))
	}
}

// TopLevelDir returns the single directory every archive entry lives
// under, or the empty string when the archive has no common top-level
// directory. Source tarballs conventionally unpack into name-version/.
func TopLevelDir(src string) (string, error) {
	top := ""
	first := true
	err := walkNames(src, func(name string) error {
		cleaned := path.Clean(strings.TrimPrefix(name, "./"))
		if cleaned == "." || cleaned == "" || cleaned == "/" {
			return nil
		}
		head := strings.SplitN(cleaned, "/", 2)[0]
		if first {
			top = head
			first = false
			return nil
		}
		if top != head {
			top = ""
			return errStopWalk
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStopWalk) {
		return "", err
	}
	return top, nil
}

func walkNames(src string, fn func(name string) error) error {
	if detectFormat(src) == formatZip {
		return walkZipNames(src, fn)
	}
	return walkTarNames(src, fn)
}

// entryTarget resolves an archive entry name to a path under dest,
// after stripping leading components. The second return is false when
// the whole entry is consumed by stripping. Anything that escapes dest
// is an error.
func entryTarget(dest string, name string, strip int) (string, bool, error) {
	cleaned := path.Clean(strings.ReplaceAll(name, `\`, "/"))
	cleaned = strings.TrimPrefix(cleaned, "/")
	parts := strings.Split(cleaned, "/")
	if strip >= len(parts) {
		return "", false, nil
	}
	target := filepath.Join(dest, filepath.Join(parts[strip:]...))
	if target == dest {
		return "", false, nil
	}

	destAbs, err := filepath.Abs(dest)
	if err != nil {
		return "", false, err
	}
	targetAbs, err := filepath.Abs(target)
	if err != nil {
		return "", false, err
	}
	if !strings.HasPrefix(targetAbs, destAbs+string(os.PathSeparator)) {
		return "", false, fmt.Errorf("invalid file path in archive: %s", name)
	}
	return target, true, nil
}

// checkLink validates that a symlink entry stays inside dest once
// resolved lexically.
func checkLink(dest string, target string, linkname string) error {
	if linkname == "" {
		return fmt.Errorf("symlink %s has an empty target", target)
	}
	if path.IsAbs(linkname) || filepath.IsAbs(linkname) {
		return fmt.Errorf("symlink %s points to absolute path %s", target, linkname)
	}
	destAbs, err := filepath.Abs(dest)
	if err != nil {
		return err
	}
	resolved, err := filepath.Abs(filepath.Join(filepath.Dir(target), linkname))
	if err != nil {
		return err
	}
	if !strings.HasPrefix(resolved, destAbs+string(os.PathSeparator)) {
		return fmt.Errorf("symlink %s escapes the extraction root: %s", target, linkname)
	}
	return nil
}
