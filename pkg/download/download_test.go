// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package download

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func digestOf(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

func TestNew(t *testing.T) {
	require := require.New(t)

	for _, tool := range []string{"", "auto", "internal"} {
		f, err := New(tool, io.Discard)
		require.NoError(err)
		require.Equal("internal", f.Name())
	}

	_, err := New("scp", io.Discard)
	require.Error(err)

	// curl/wget selection depends on what the host has installed
	for _, tool := range []string{"curl", "wget"} {
		f, err := New(tool, io.Discard)
		if _, lookErr := exec.LookPath(tool); lookErr != nil {
			require.Error(err)
			continue
		}
		require.NoError(err)
		require.Equal(tool, f.Name())
	}
}

func TestLocalPath(t *testing.T) {
	require := require.New(t)

	local, path := LocalPath("file:///tmp/papi.tar.gz")
	require.True(local)
	require.Equal("/tmp/papi.tar.gz", path)

	local, path = LocalPath("/srv/mirror/papi.tar.gz")
	require.True(local)
	require.Equal("/srv/mirror/papi.tar.gz", path)

	local, _ = LocalPath("https://repo.anaconda.com/miniconda/Miniconda3.sh")
	require.False(local)
}

func TestGetLocalCopy(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()

	payload := []byte("papi sources")
	src := filepath.Join(dir, "mirror", "papi.tar.gz")
	require.NoError(os.MkdirAll(filepath.Dir(src), 0o755))
	require.NoError(os.WriteFile(src, payload, 0o644))

	dest := filepath.Join(dir, "cache", "papi.tar.gz")
	require.NoError(Get(context.Background(), nil, "file://"+src, dest, digestOf(payload)))

	got, err := os.ReadFile(dest)
	require.NoError(err)
	require.Equal(payload, got)

	// mismatching digests remove the copied file
	badDest := filepath.Join(dir, "cache", "bad.tar.gz")
	err = Get(context.Background(), nil, src, badDest, digestOf([]byte("other")))
	require.ErrorIs(err, ErrChecksumMismatch)
	require.NoFileExists(badDest)
}

func TestHTTPFetch(t *testing.T) {
	require := require.New(t)
	payload := []byte("Miniconda installer payload")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/miniconda.sh":
			_, _ = w.Write(payload)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	fetcher := &httpFetcher{out: io.Discard, client: srv.Client()}

	dest := filepath.Join(dir, "conda", "miniconda.sh")
	require.NoError(fetcher.Fetch(context.Background(), srv.URL+"/miniconda.sh", dest, digestOf(payload)))
	got, err := os.ReadFile(dest)
	require.NoError(err)
	require.Equal(payload, got)

	// wrong digest leaves nothing behind
	badDest := filepath.Join(dir, "conda", "bad.sh")
	err = fetcher.Fetch(context.Background(), srv.URL+"/miniconda.sh", badDest, digestOf([]byte("other")))
	require.ErrorIs(err, ErrChecksumMismatch)
	require.NoFileExists(badDest)

	// http errors are reported with their status code
	err = fetcher.Fetch(context.Background(), srv.URL+"/missing.sh", dest, "")
	require.Error(err)
	require.Contains(err.Error(), "404")
}

func TestHTTPFetchRejectsOtherSchemes(t *testing.T) {
	require := require.New(t)

	fetcher := &httpFetcher{out: io.Discard}
	err := fetcher.Fetch(context.Background(), "ftp://ftp.example.com/papi.tar.gz", filepath.Join(t.TempDir(), "papi.tar.gz"), "")
	require.Error(err)
	require.Contains(err.Error(), "download.tool")
}

func TestChecksumFile(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()

	path := filepath.Join(dir, "payload")
	require.NoError(os.WriteFile(path, []byte("hello"), 0o644))

	digest, err := ChecksumFile(path)
	require.NoError(err)
	require.Equal("2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", digest)

	_, err = ChecksumFile(filepath.Join(dir, "missing"))
	require.Error(err)
}
