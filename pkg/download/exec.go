// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package download

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/paratools/taucmdr/pkg/constants"
	"github.com/paratools/taucmdr/pkg/utils"
)

// execFetcher shells out to curl or wget. Useful behind proxies with
// TLS interception and for ftp mirrors the native client rejects.
type execFetcher struct {
	tool string
	path string
	out  io.Writer
}

func (f *execFetcher) Name() string {
	return f.tool
}

func (f *execFetcher) Fetch(ctx context.Context, rawURL string, dest string, sha256Hex string) error {
	if err := os.MkdirAll(filepath.Dir(dest), constants.DefaultPerms755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".download-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if err := tmp.Close(); err != nil {
		return err
	}
	defer os.Remove(tmpName)

	interactive := isTerminalWriter(f.out)
	var args []string
	switch f.tool {
	case "curl":
		args = []string{"-f", "-L", "-o", tmpName}
		if interactive {
			args = append(args, "--progress-bar")
		} else {
			args = append(args, "-s", "-S")
		}
		args = append(args, rawURL)
	case "wget":
		args = []string{"-O", tmpName}
		if !interactive {
			args = append(args, "-q")
		}
		args = append(args, rawURL)
	default:
		return fmt.Errorf("unknown exec fetcher %q", f.tool)
	}

	spec := utils.CommandSpec{Name: f.path, Args: args}
	if interactive {
		// both tools draw progress on stderr
		if err := utils.RunCommand(ctx, spec, nil, f.out); err != nil {
			return fmt.Errorf("failed to download %s: %w", rawURL, err)
		}
	} else {
		_, stderr, err := utils.RunCommandCapture(ctx, spec)
		if err != nil {
			detail := strings.TrimSpace(stderr)
			if detail != "" {
				return fmt.Errorf("failed to download %s: %w: %s", rawURL, err, detail)
			}
			return fmt.Errorf("failed to download %s: %w", rawURL, err)
		}
	}

	if sha256Hex != "" {
		if err := verifyAndClean(tmpName, sha256Hex); err != nil {
			return err
		}
	}
	return os.Rename(tmpName, dest)
}
