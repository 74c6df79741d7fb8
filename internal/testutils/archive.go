// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package testutils

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"crypto/rand"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"

	"github.com/paratools/taucmdr/pkg/constants"
)

func CreateZip(require *require.Assertions, src string, dest string) {
	zipf, err := os.Create(dest) //nolint:gosec // G304: Test utility for creating archives
	require.NoError(err)
	defer func() { _ = zipf.Close() }()

	zipWriter := zip.NewWriter(zipf)
	defer func() { _ = zipWriter.Close() }()

	err = filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}

		header.Method = zip.Deflate

		// relative path of the file is the header name
		header.Name, err = filepath.Rel(filepath.Dir(src), path)
		if err != nil {
			return err
		}
		if info.IsDir() {
			header.Name += "/"
		}

		headerWriter, err := zipWriter.CreateHeader(header)
		if err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		f, err := os.Open(path) //nolint:gosec // G304: Test utility, path from internal walk
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()

		_, err = io.Copy(headerWriter, f)
		return err
	})

	require.NoError(err)
}

// CreateTarball writes a tarball of src to dest, choosing the
// compression from the dest suffix (.tar, .tar.gz, .tgz, .tar.xz,
// .tar.zst). With includeTopLevel the entries are prefixed with the
// base name of src, the way source release tarballs are laid out.
func CreateTarball(require *require.Assertions, src string, dest string, includeTopLevel bool) {
	out, err := os.Create(dest) //nolint:gosec // G304: Test utility for creating archives
	require.NoError(err)
	defer func() { _ = out.Close() }()

	var compressed io.WriteCloser
	switch {
	case strings.HasSuffix(dest, ".tar.gz") || strings.HasSuffix(dest, ".tgz"):
		compressed = gzip.NewWriter(out)
	case strings.HasSuffix(dest, ".tar.xz"):
		xzWriter, err := xz.NewWriter(out)
		require.NoError(err)
		compressed = xzWriter
	case strings.HasSuffix(dest, ".tar.zst"):
		zstWriter, err := zstd.NewWriter(out)
		require.NoError(err)
		compressed = zstWriter
	case strings.HasSuffix(dest, ".tar"):
		compressed = out
	default:
		require.FailNow("unsupported test tarball suffix", dest)
	}

	tarball := tar.NewWriter(compressed)

	info, err := os.Stat(src)
	require.NoError(err)

	baseDir := ""
	if includeTopLevel && info.IsDir() {
		baseDir = filepath.Base(src)
	}

	err = filepath.Walk(src,
		func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			header, err := tar.FileInfoHeader(info, info.Name())
			if err != nil {
				return err
			}

			if baseDir != "" {
				header.Name = filepath.Join(baseDir, strings.TrimPrefix(path, src))
			} else {
				rel, err := filepath.Rel(src, path)
				if err != nil {
					return err
				}
				if rel == "." {
					return nil
				}
				header.Name = rel
			}

			if strings.TrimSuffix(header.Name, "/") == filepath.Base(src) {
				return nil
			}

			if err := tarball.WriteHeader(header); err != nil {
				return err
			}

			if info.IsDir() {
				return nil
			}

			file, err := os.Open(path) //nolint:gosec // G304: Test utility, path from internal walk
			if err != nil {
				return err
			}
			defer func() { _ = file.Close() }()
			_, err = io.Copy(tarball, file)
			return err
		})
	require.NoError(err)

	require.NoError(tarball.Close())
	if compressed != out {
		require.NoError(compressed.Close())
	}
}

// CreateSourceTree lays out a small autotools-style source tree and
// returns its path plus a check that verifies an extracted copy.
func CreateSourceTree(t *testing.T, require *require.Assertions) (string, func(string)) {
	testDir := t.TempDir()

	srcDir := filepath.Join(testDir, "src")
	docDir := filepath.Join(testDir, "doc")
	err := os.Mkdir(srcDir, constants.DefaultPerms755)
	require.NoError(err)
	err = os.Mkdir(docDir, constants.DefaultPerms755)
	require.NoError(err)

	err = os.WriteFile(filepath.Join(testDir, "configure"), []byte("#!/bin/sh\nexit 0\n"), 0o755)
	require.NoError(err)
	err = os.WriteFile(filepath.Join(testDir, "Makefile.in"), []byte("all:\n"), 0o644)
	require.NoError(err)
	err = os.WriteFile(filepath.Join(srcDir, "main.c"), []byte("int main(void){return 0;}\n"), 0o644)
	require.NoError(err)
	err = os.WriteFile(filepath.Join(docDir, "README"), []byte("docs\n"), 0o644)
	require.NoError(err)

	// also include some binary content
	buf := make([]byte, 32)
	_, err = rand.Read(buf)
	require.NoError(err)
	binFile := filepath.Join(srcDir, "blob.bin")
	err = os.WriteFile(binFile, buf, 0o644)
	require.NoError(err)

	checkFunc := func(controlDir string) {
		require.DirExists(filepath.Join(controlDir, "src"))
		require.DirExists(filepath.Join(controlDir, "doc"))
		require.FileExists(filepath.Join(controlDir, "configure"))
		require.FileExists(filepath.Join(controlDir, "Makefile.in"))
		require.FileExists(filepath.Join(controlDir, "src", "main.c"))
		require.FileExists(filepath.Join(controlDir, "doc", "README"))
		checkBin, err := os.ReadFile(filepath.Join(controlDir, "src", "blob.bin")) //nolint:gosec // G304: Test utility
		require.NoError(err)
		require.Equal(buf, checkBin)
	}

	return testDir, checkFunc
}
