// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package platform resolves the host operating system and CPU
// architecture into the canonical labels used throughout the
// installation harness, including the Miniconda installer naming
// scheme.
package platform

import (
	"fmt"
	"runtime"
	"strings"
)

const (
	// Canonical OS labels, matching `uname -s` output.
	Linux  = "Linux"
	Darwin = "Darwin"

	// Canonical architecture labels, matching `uname -m` output.
	X8664   = "x86_64"
	Aarch64 = "aarch64"
	I386    = "i386"
	Ppc64le = "ppc64le"
)

// Detector provides host architecture information. It exists so tests
// can substitute fixed values for runtime detection.
type Detector interface {
	GetArch() (string, string)
}

type detectorImpl struct{}

// NewDetector creates a detector backed by the Go runtime.
func NewDetector() Detector {
	return &detectorImpl{}
}

func (detectorImpl) GetArch() (string, string) {
	return runtime.GOARCH, runtime.GOOS
}

// Platform is a resolved operating system and architecture pair.
// Both fields hold canonical labels.
type Platform struct {
	OS   string
	Arch string
}

// Resolve determines the target platform, applying the optional OS and
// architecture overrides. Overrides accept either Go toolchain names
// (linux, amd64) or uname-style labels (Linux, x86_64).
func Resolve(detector Detector, osOverride string, archOverride string) (Platform, error) {
	goArch, goOS := detector.GetArch()
	if osOverride == "" {
		osOverride = goOS
	}
	if archOverride == "" {
		archOverride = goArch
	}
	osName, err := NormalizeOS(osOverride)
	if err != nil {
		return Platform{}, err
	}
	archName, err := NormalizeArch(archOverride)
	if err != nil {
		return Platform{}, err
	}
	return Platform{OS: osName, Arch: archName}, nil
}

// NormalizeOS maps an OS name to its canonical label.
func NormalizeOS(name string) (string, error) {
	switch strings.ToLower(name) {
	case "linux":
		return Linux, nil
	case "darwin", "macos", "macosx", "osx":
		return Darwin, nil
	default:
		return "", fmt.Errorf("unsupported operating system %q", name)
	}
}

// NormalizeArch maps an architecture name to its canonical label.
func NormalizeArch(name string) (string, error) {
	switch strings.ToLower(name) {
	case "amd64", "x86_64":
		return X8664, nil
	case "arm64", "aarch64":
		return Aarch64, nil
	case "386", "i386", "i486", "i586", "i686":
		return I386, nil
	case "ppc64le":
		return Ppc64le, nil
	default:
		return "", fmt.Errorf("unsupported architecture %q", name)
	}
}

func (p Platform) String() string {
	return p.OS + " " + p.Arch
}

// CondaOS returns the operating system label used in Miniconda
// installer file names.
func (p Platform) CondaOS() (string, error) {
	switch p.OS {
	case Linux:
		return "Linux", nil
	case Darwin:
		return "MacOSX", nil
	default:
		return "", fmt.Errorf("no Miniconda distribution for operating system %q", p.OS)
	}
}

// CondaArch returns the architecture label used in Miniconda installer
// file names. Apple silicon installers are named arm64, not aarch64.
func (p Platform) CondaArch() (string, error) {
	switch {
	case p.Arch == X8664:
		return "x86_64", nil
	case p.Arch == Aarch64 && p.OS == Darwin:
		return "arm64", nil
	case p.Arch == Aarch64:
		return "aarch64", nil
	case p.Arch == Ppc64le && p.OS == Linux:
		return "ppc64le", nil
	default:
		return "", fmt.Errorf("no Miniconda distribution for %s", p)
	}
}

// CondaSupported reports whether a Miniconda distribution exists for
// this platform. When it does not, interpreter resolution falls back
// to the system Python.
func (p Platform) CondaSupported() bool {
	if _, err := p.CondaOS(); err != nil {
		return false
	}
	_, err := p.CondaArch()
	return err == nil
}

// CondaInstaller returns the Miniconda installer file name for this
// platform, for example Miniconda3-24.11.1-0-Linux-x86_64.sh.
func (p Platform) CondaInstaller(version string) (string, error) {
	condaOS, err := p.CondaOS()
	if err != nil {
		return "", err
	}
	condaArch, err := p.CondaArch()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Miniconda3-%s-%s-%s.sh", version, condaOS, condaArch), nil
}
