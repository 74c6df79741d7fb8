// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package download fetches source archives and installer payloads.
// It offers a native HTTP fetcher plus curl and wget fallbacks for
// environments where the native client cannot be used.
package download

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/exec"
	"strings"

	"github.com/paratools/taucmdr/pkg/constants"
	"github.com/paratools/taucmdr/pkg/utils"
)

// ErrChecksumMismatch marks a download whose digest did not match the
// expected value. The payload is removed before this is returned.
var ErrChecksumMismatch = errors.New("checksum mismatch")

// Fetcher downloads a remote URL into a local file.
type Fetcher interface {
	// Fetch downloads rawURL to dest. When sha256Hex is non-empty the
	// payload is verified against it and removed on mismatch.
	Fetch(ctx context.Context, rawURL string, dest string, sha256Hex string) error
	// Name identifies the underlying transfer tool.
	Name() string
}

// New builds the fetcher selected by tool, one of auto, internal, curl
// or wget. auto prefers the native client. Explicit curl or wget
// require the binary on PATH.
func New(tool string, out io.Writer) (Fetcher, error) {
	switch tool {
	case "", constants.DownloadToolAuto, constants.DownloadToolInternal:
		return &httpFetcher{out: out}, nil
	case constants.DownloadToolCurl:
		path, err := exec.LookPath("curl")
		if err != nil {
			return nil, fmt.Errorf("download tool %q requested but curl is not on PATH: %w", tool, err)
		}
		return &execFetcher{tool: "curl", path: path, out: out}, nil
	case constants.DownloadToolWget:
		path, err := exec.LookPath("wget")
		if err != nil {
			return nil, fmt.Errorf("download tool %q requested but wget is not on PATH: %w", tool, err)
		}
		return &execFetcher{tool: "wget", path: path, out: out}, nil
	default:
		return nil, fmt.Errorf("unknown download tool %q (expected auto, internal, curl or wget)", tool)
	}
}

// Get retrieves src into dest. src may be an HTTP(S) URL, a file://
// URL, or a plain local path; local sources are copied, not fetched.
func Get(ctx context.Context, fetcher Fetcher, src string, dest string, sha256Hex string) error {
	if local, path := LocalPath(src); local {
		if err := utils.CopyFile(path, dest); err != nil {
			return err
		}
		if sha256Hex == "" {
			return nil
		}
		return verifyAndClean(dest, sha256Hex)
	}
	return fetcher.Fetch(ctx, src, dest, sha256Hex)
}

// LocalPath reports whether src names a local file and returns the
// filesystem path when it does.
func LocalPath(src string) (bool, string) {
	if strings.HasPrefix(src, "file://") {
		return true, strings.TrimPrefix(src, "file://")
	}
	parsed, err := url.Parse(src)
	if err != nil || parsed.Scheme == "" {
		return true, src
	}
	// windows drive letters parse as single-letter schemes
	if len(parsed.Scheme) == 1 {
		return true, src
	}
	return false, ""
}

// ChecksumFile computes the hex-encoded SHA-256 digest of the file.
func ChecksumFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, f); err != nil {
		return "", fmt.Errorf("failed to checksum %s: %w", path, err)
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

func verifyDigest(path string, got string, want string) error {
	if strings.EqualFold(got, want) {
		return nil
	}
	return fmt.Errorf("%w for %s: got %s, want %s", ErrChecksumMismatch, path, got, want)
}

// verifyAndClean checks the file digest and removes the file when it
// does not match.
func verifyAndClean(path string, sha256Hex string) error {
	digest, err := ChecksumFile(path)
	if err != nil {
		return err
	}
	if err := verifyDigest(path, digest, sha256Hex); err != nil {
		_ = os.Remove(path)
		return err
	}
	return nil
}
