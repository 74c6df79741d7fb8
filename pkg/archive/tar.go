// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package archive

import (
	"archive/tar"
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// tarStream opens src and layers the right decompressor over it. The
// returned closer releases both the decompressor and the file.
func tarStream(src string) (io.Reader, func() error, error) {
	f, err := os.Open(src)
	if err != nil {
		return nil, nil, err
	}

	switch detectFormat(src) {
	case formatTar:
		return f, f.Close, nil
	case formatTarGz:
		gz, err := gzip.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, nil, err
		}
		return gz, func() error {
			gzErr := gz.Close()
			if err := f.Close(); err != nil {
				return err
			}
			return gzErr
		}, nil
	case formatTarBz2:
		return bzip2.NewReader(f), f.Close, nil
	case formatTarXz:
		xzReader, err := xz.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, nil, err
		}
		return xzReader, f.Close, nil
	case formatTarZst:
		decoder, err := zstd.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, nil, err
		}
		return decoder, func() error {
			decoder.Close()
			return f.Close()
		}, nil
	default:
		_ = f.Close()
		return nil, nil, fmt.Errorf("archive format of %s is not supported", filepath.Base(src))
	}
}

func extractTarArchive(src string, dest string, strip int) error {
	stream, closer, err := tarStream(src)
	if err != nil {
		return err
	}
	defer func() { _ = closer() }()

	reader := tar.NewReader(stream)
	for {
		header, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read archive entry: %w", err)
		}

		target, keep, err := entryTarget(dest, header.Name, strip)
		if err != nil {
			return err
		}
		if !keep {
			continue
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, os.FileMode(header.Mode).Perm()|0o700); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeEntry(target, reader, os.FileMode(header.Mode).Perm()); err != nil {
				return fmt.Errorf("failed to extract %s: %w", header.Name, err)
			}
		case tar.TypeSymlink:
			if err := checkLink(dest, target, header.Linkname); err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			if err := os.RemoveAll(target); err != nil {
				return err
			}
			if err := os.Symlink(header.Linkname, target); err != nil {
				return fmt.Errorf("failed to create symlink %s pointing to %s: %w", target, header.Linkname, err)
			}
		default:
			// hard links, devices and the like don't occur in the
			// source archives we consume
			continue
		}
	}
	return nil
}

func writeEntry(target string, content io.Reader, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, content); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	// OpenFile perms are subject to the umask, chmod to the real mode
	return os.Chmod(target, perm)
}

func walkTarNames(src string, fn func(name string) error) error {
	stream, closer, err := tarStream(src)
	if err != nil {
		return err
	}
	defer func() { _ = closer() }()

	reader := tar.NewReader(stream)
	for {
		header, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read archive entry: %w", err)
		}
		if err := fn(header.Name); err != nil {
			return err
		}
	}
}
