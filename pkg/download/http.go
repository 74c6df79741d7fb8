// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package download

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/paratools/taucmdr/pkg/constants"
)

// httpFetcher downloads with the in-process HTTP client. The digest is
// computed while the body streams to disk so large archives are never
// read twice.
type httpFetcher struct {
	out    io.Writer
	client *http.Client
}

func (*httpFetcher) Name() string {
	return "internal"
}

func (f *httpFetcher) Fetch(ctx context.Context, rawURL string, dest string, sha256Hex string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid download URL %q: %w", rawURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("the internal fetcher only handles http and https URLs, not %q (configure %s=curl or wget)",
			rawURL, constants.ConfigDownloadToolKey)
	}

	client := f.client
	if client == nil {
		client = &http.Client{Timeout: constants.DownloadTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to start download of %s: %w", rawURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected http status code downloading %s: %d", rawURL, resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(dest), constants.DefaultPerms755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".download-*")
	if err != nil {
		return err
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	hash := sha256.New()
	bar := newProgressBar(resp.ContentLength, filepath.Base(dest), f.out)
	writer := io.MultiWriter(tmp, hash, bar)
	if _, err := io.Copy(writer, resp.Body); err != nil {
		return fmt.Errorf("failed during download of %s: %w", rawURL, err)
	}
	_ = bar.Finish()
	if err := tmp.Close(); err != nil {
		return err
	}

	if sha256Hex != "" {
		digest := hex.EncodeToString(hash.Sum(nil))
		if err := verifyDigest(dest, digest, sha256Hex); err != nil {
			return err
		}
	}
	return os.Rename(tmp.Name(), dest)
}
