// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package archive

import (
	"archive/zip"
	"fmt"
	"os"
	"strings"
)

func extractZip(src string, dest string, strip int) error {
	reader, err := zip.OpenReader(src)
	if err != nil {
		return err
	}
	defer reader.Close()

	for _, item := range reader.File {
		if strings.HasSuffix(item.Name, "/") {
			continue
		}
		target, keep, err := entryTarget(dest, item.Name, strip)
		if err != nil {
			return err
		}
		if !keep {
			continue
		}

		entry, err := item.Open()
		if err != nil {
			return fmt.Errorf("failed to open archive entry %s: %w", item.Name, err)
		}
		perm := item.Mode().Perm()
		if perm == 0 {
			// zip entries from some packers carry no permissions
			perm = os.FileMode(0o644)
		}
		if err := writeEntry(target, entry, perm); err != nil {
			_ = entry.Close()
			return fmt.Errorf("failed to extract %s: %w", item.Name, err)
		}
		_ = entry.Close()
	}
	return nil
}

func walkZipNames(src string, fn func(name string) error) error {
	reader, err := zip.OpenReader(src)
	if err != nil {
		return err
	}
	defer reader.Close()

	for _, item := range reader.File {
		if err := fn(item.Name); err != nil {
			return err
		}
	}
	return nil
}
