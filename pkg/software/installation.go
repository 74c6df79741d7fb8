// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package software

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	git "github.com/go-git/go-git/v5"

	"github.com/paratools/taucmdr/pkg/archive"
	"github.com/paratools/taucmdr/pkg/constants"
	"github.com/paratools/taucmdr/pkg/download"
	"github.com/paratools/taucmdr/pkg/logging"
	"github.com/paratools/taucmdr/pkg/models"
	"github.com/paratools/taucmdr/pkg/platform"
	"github.com/paratools/taucmdr/pkg/storage"
	"github.com/paratools/taucmdr/pkg/utils"
	"github.com/paratools/taucmdr/pkg/ux"
)

type commandRunner func(ctx context.Context, spec utils.CommandSpec) (string, string, error)

// Installation is one package resolved against a platform, a compiler
// family and the storage hierarchy. The install prefix is fixed at
// construction: an existing verified install anywhere in the hierarchy
// is adopted, otherwise the highest writable level hosts a new one.
type Installation struct {
	Name   string
	Title  string
	Source string // URL or local archive path; empty when wrapping an existing install directory

	Platform platform.Platform
	Family   models.CompilerFamily

	VerifyCommands  []string
	VerifyLibraries []string
	VerifyHeaders   []string

	configureFlags []string
	buildEnv       map[string]string

	prefix    string
	installed bool

	hierarchy *storage.Hierarchy
	fetcher   download.Fetcher
	log       *logging.Logger
	run       commandRunner
}

// InstallationParams carries everything NewInstallation needs beyond
// the catalog entry.
type InstallationParams struct {
	Platform  platform.Platform
	Family    models.CompilerFamily
	Hierarchy *storage.Hierarchy
	Fetcher   download.Fetcher
	Log       *logging.Logger

	// SourceOverride replaces the catalog source: a URL, a local archive
	// path, or the path of an existing installation directory.
	SourceOverride string
}

// UID derives the installation identifier from the source location, so
// the same source always lands at the same prefix.
func UID(source string) string {
	sum := md5.Sum([]byte(source))
	return hex.EncodeToString(sum[:])
}

// IsGitSource reports whether src is fetched by cloning.
func IsGitSource(src string) bool {
	return strings.HasSuffix(src, constants.GitExtension) || strings.HasPrefix(src, "git://")
}

func NewInstallation(entry Entry, params InstallationParams) (*Installation, error) {
	inst := &Installation{
		Name:            entry.Name,
		Title:           entry.Title,
		Platform:        params.Platform,
		Family:          params.Family,
		VerifyCommands:  entry.Verify.Commands,
		VerifyLibraries: entry.Verify.Libraries,
		VerifyHeaders:   entry.Verify.Headers,
		configureFlags:  entry.ConfigureFlags,
		buildEnv:        entry.EnvFor(params.Family),
		hierarchy:       params.Hierarchy,
		fetcher:         params.Fetcher,
		log:             params.Log,
		run:             defaultCommandRunner,
	}
	if inst.log == nil {
		inst.log = logging.NewNop()
	}

	source := params.SourceOverride
	if source == "" || strings.EqualFold(source, "download") {
		catalogSource, err := entry.SourceFor(params.Platform)
		if err != nil {
			return nil, err
		}
		source = catalogSource
	}

	// A directory is an installation that already exists somewhere
	// outside the hierarchy. Adopt it as-is.
	if utils.DirExists(source) {
		inst.prefix = source
		if err := inst.Verify(); err != nil {
			return nil, fmt.Errorf("invalid %s installation at %q: %w", inst.Title, source, err)
		}
		inst.installed = true
		return inst, nil
	}

	inst.Source = source
	inst.locate()
	return inst, nil
}

func defaultCommandRunner(ctx context.Context, spec utils.CommandSpec) (string, string, error) {
	return utils.RunCommandCapture(ctx, spec)
}

// locate searches the hierarchy system-first for a verified install of
// this source; absent one, the highest writable level hosts the prefix.
func (inst *Installation) locate() {
	uid := UID(inst.Source)
	for _, level := range inst.hierarchy.SearchOrder() {
		candidate := filepath.Join(level.PackagesDir(), inst.Name, uid)
		inst.prefix = candidate
		if err := inst.Verify(); err == nil {
			inst.installed = true
			inst.log.Debugf("found %s installation at %s", inst.Name, candidate)
			return
		}
	}
	level, err := inst.hierarchy.HighestWritable()
	if err != nil {
		// Verification of the last search candidate already failed, keep
		// that prefix so Install can report the write failure itself.
		inst.log.Debugf("no writable storage level: %v", err)
		return
	}
	inst.prefix = filepath.Join(level.PackagesDir(), inst.Name, uid)
	inst.installed = false
}

// Prefix is the resolved installation prefix.
func (inst *Installation) Prefix() string {
	return inst.prefix
}

// Installed reports whether the prefix passed verification.
func (inst *Installation) Installed() bool {
	return inst.installed
}

func (inst *Installation) binPath() string     { return filepath.Join(inst.prefix, "bin") }
func (inst *Installation) libPath() string     { return filepath.Join(inst.prefix, "lib") }
func (inst *Installation) includePath() string { return filepath.Join(inst.prefix, "include") }

// Verify checks the installation prefix: every command exists in bin/
// and is executable, every library is readable in lib/ (or lib64/),
// every header is readable in include/.
func (inst *Installation) Verify() error {
	if !utils.DirExists(inst.prefix) {
		return fmt.Errorf("%q does not exist", inst.prefix)
	}
	for _, cmd := range inst.VerifyCommands {
		cmdPath := filepath.Join(inst.binPath(), cmd)
		info, err := os.Stat(cmdPath)
		if err != nil {
			return fmt.Errorf("%q is missing", cmdPath)
		}
		if info.Mode().Perm()&0o111 == 0 {
			return fmt.Errorf("%q exists but is not executable", cmdPath)
		}
	}
	for _, lib := range inst.VerifyLibraries {
		libPath := filepath.Join(inst.libPath(), lib)
		if !fileReadable(libPath) {
			// Some systems append the machine bitwidth to the library dir.
			alt := filepath.Join(inst.libPath()+"64", lib)
			if !fileReadable(alt) {
				return fmt.Errorf("%q is not accessible", libPath)
			}
		}
	}
	for _, header := range inst.VerifyHeaders {
		headerPath := filepath.Join(inst.includePath(), header)
		if !fileReadable(headerPath) {
			return fmt.Errorf("%q is not accessible", headerPath)
		}
	}
	return nil
}

func fileReadable(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}

// archiveName is the file name the source is cached under.
func (inst *Installation) archiveName() string {
	if parsed, err := url.Parse(inst.Source); err == nil && parsed.Path != "" {
		return path.Base(parsed.Path)
	}
	return filepath.Base(inst.Source)
}

// FetchArchive makes sure the source archive is present in a src cache,
// downloading into the highest writable level when no level has it.
// Git sources have nothing to prefetch.
func (inst *Installation) FetchArchive(ctx context.Context) (string, error) {
	if IsGitSource(inst.Source) {
		return "", nil
	}
	name := inst.archiveName()
	for _, level := range inst.hierarchy.SearchOrder() {
		cached := filepath.Join(level.SrcDir(), name)
		if utils.FileExists(cached) {
			inst.log.Infof("using cached %s source archive %s", inst.Title, cached)
			return cached, nil
		}
	}
	return inst.downloadArchive(ctx)
}

func (inst *Installation) downloadArchive(ctx context.Context) (string, error) {
	level, err := inst.hierarchy.HighestWritable()
	if err != nil {
		return "", err
	}
	dest := filepath.Join(level.SrcDir(), inst.archiveName())
	if err := os.MkdirAll(level.SrcDir(), constants.DefaultPerms755); err != nil {
		return "", err
	}
	inst.log.Infof("downloading %s from %s", inst.Title, inst.Source)
	if err := download.Get(ctx, inst.fetcher, inst.Source, dest, ""); err != nil {
		return "", fmt.Errorf("cannot acquire source archive %q: %w", inst.Source, err)
	}
	if info, err := os.Stat(dest); err == nil {
		inst.log.Infof("downloaded %s (%s bytes)", dest, ux.FormatByteCount(info.Size()))
	}
	return dest, nil
}

// prepareSource lays the unpacked source tree under buildPrefix and
// returns its path. Cached archives and already unpacked trees are
// reused when reuse is set; an unreadable cached archive is downloaded
// again once before giving up.
func (inst *Installation) prepareSource(ctx context.Context, buildPrefix string, reuse bool) (string, error) {
	if IsGitSource(inst.Source) {
		return inst.cloneSource(ctx, buildPrefix)
	}

	var archivePath string
	var err error
	if reuse {
		archivePath, err = inst.FetchArchive(ctx)
	} else {
		archivePath, err = inst.downloadArchive(ctx)
	}
	if err != nil {
		return "", err
	}

	topDir, err := archive.TopLevelDir(archivePath)
	if err != nil || topDir == "" {
		if reuse {
			inst.log.Debugf("cannot read archive %s (%v), downloading a fresh copy", archivePath, err)
			_ = os.Remove(archivePath)
			return inst.prepareSource(ctx, buildPrefix, false)
		}
		return "", fmt.Errorf("cannot read %s archive %q: %v", inst.Title, archivePath, err)
	}

	srcPrefix := filepath.Join(buildPrefix, topDir)
	if reuse && utils.DirExists(srcPrefix) {
		inst.log.Infof("reusing %s source files at %s", inst.Title, srcPrefix)
		return srcPrefix, nil
	}
	if err := os.RemoveAll(srcPrefix); err != nil {
		return "", err
	}
	if err := archive.Extract(archivePath, buildPrefix, 0); err != nil {
		return "", fmt.Errorf("cannot extract source archive %q: %w", archivePath, err)
	}
	return srcPrefix, nil
}

func (inst *Installation) cloneSource(ctx context.Context, buildPrefix string) (string, error) {
	dest := filepath.Join(buildPrefix, inst.Name)
	if err := os.RemoveAll(dest); err != nil {
		return "", err
	}
	inst.log.Infof("cloning %s from %s", inst.Title, inst.Source)
	_, err := git.PlainCloneContext(ctx, dest, false, &git.CloneOptions{
		URL:          inst.Source,
		Depth:        1,
		SingleBranch: true,
	})
	if err != nil {
		return "", fmt.Errorf("cannot clone %q: %w", inst.Source, err)
	}
	return dest, nil
}

// buildScratchDir creates the temporary build area, preferring shared
// memory when it is present and writable.
func buildScratchDir(fallback string) (string, error) {
	if runtime.GOOS == "linux" {
		if dir, err := os.MkdirTemp("/dev/shm", "taucmdr-build-"); err == nil {
			return dir, nil
		}
	}
	if err := os.MkdirAll(fallback, constants.DefaultPerms755); err != nil {
		return "", err
	}
	return os.MkdirTemp(fallback, "taucmdr-build-")
}

func parallelMakeFlags() []string {
	nprocs := runtime.NumCPU() - 1
	if nprocs < 1 {
		nprocs = 1
	}
	return []string{"-j", strconv.Itoa(nprocs)}
}

func (inst *Installation) runStep(ctx context.Context, srcDir string, env map[string]string, name string, args ...string) error {
	spec := utils.CommandSpec{
		Name: name,
		Args: args,
		Dir:  srcDir,
		Env:  env,
	}
	stdout, stderr, err := inst.run(ctx, spec)
	inst.log.Debugf("%s %s in %s:\n%s", name, strings.Join(args, " "), srcDir, stdout)
	if err != nil {
		inst.log.Debugf("stderr:\n%s", stderr)
		detail := utils.FirstLine(strings.TrimSpace(stderr))
		if detail != "" {
			return fmt.Errorf("%w: %s", err, detail)
		}
		return err
	}
	return nil
}

func (inst *Installation) configure(ctx context.Context, srcDir string, env map[string]string) error {
	// Zip archives from some packers drop permission bits.
	script := filepath.Join(srcDir, "configure")
	if utils.FileExists(script) {
		if err := utils.MarkExecutable(script); err != nil {
			return err
		}
	}
	flags := make([]string, 0, len(inst.configureFlags)+1)
	for _, flag := range inst.configureFlags {
		flags = append(flags, strings.ReplaceAll(flag, "{prefix}", inst.prefix))
	}
	flags = append(flags, "--prefix="+inst.prefix)
	if err := inst.runStep(ctx, srcDir, env, "./configure", flags...); err != nil {
		return fmt.Errorf("%s configure failed: %w", inst.Title, err)
	}
	return nil
}

func (inst *Installation) make(ctx context.Context, srcDir string, env map[string]string) error {
	args := parallelMakeFlags()
	if err := inst.runStep(ctx, srcDir, env, "make", args...); err == nil {
		return nil
	}
	// Parallel builds of older packages are flaky, retry serially.
	inst.log.Infof("parallel make of %s failed, retrying serially", inst.Name)
	if err := inst.runStep(ctx, srcDir, env, "make"); err != nil {
		return fmt.Errorf("%s compilation failed: %w", inst.Title, err)
	}
	return nil
}

func (inst *Installation) makeInstall(ctx context.Context, srcDir string, env map[string]string) error {
	if err := inst.runStep(ctx, srcDir, env, "make", "install"); err != nil {
		return fmt.Errorf("%s installation failed: %w", inst.Title, err)
	}
	// Some systems install into lib64 instead of lib.
	lib64 := inst.libPath() + "64"
	if utils.DirExists(lib64) && !utils.DirExists(inst.libPath()) {
		if err := os.Symlink(lib64, inst.libPath()); err != nil {
			return err
		}
	}
	return nil
}

// InstallOptions control one Install run.
type InstallOptions struct {
	// Force rebuilds even when the package verifies.
	Force bool
	// BuildRoot hosts scratch build trees when /dev/shm is unavailable.
	BuildRoot string
	// Note receives progress detail for the current phase.
	Note func(msg string)
}

// Install builds and installs the package: lock the prefix, prepare the
// source tree, configure, make (parallel with serial retry), make
// install, then verify. The unpacked source tree is deleted on success,
// the archive is retained in the src cache. One environment map flows
// through all build steps.
func (inst *Installation) Install(ctx context.Context, opts InstallOptions) error {
	note := opts.Note
	if note == nil {
		note = func(string) {}
	}
	if inst.Source == "" {
		if err := inst.Verify(); err != nil {
			return fmt.Errorf(
				"invalid %s installation at %q: %w (specify a source path or URL to reinstall a broken package)",
				inst.Title, inst.prefix, err)
		}
		return nil
	}
	if !opts.Force {
		if err := inst.Verify(); err == nil {
			inst.installed = true
			inst.log.Infof("%s is already installed at %s", inst.Title, inst.prefix)
			return nil
		}
	}

	lock := storage.NewInstallLock(inst.prefix)
	if err := lock.Acquire(); err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	buildPrefix, err := buildScratchDir(opts.BuildRoot)
	if err != nil {
		return err
	}
	defer func() { _ = os.RemoveAll(buildPrefix) }()

	note("preparing sources")
	srcDir, err := inst.prepareSource(ctx, buildPrefix, true)
	if err != nil {
		return err
	}

	// A leftover failed install would satisfy path checks, clear it.
	entries, err := os.ReadDir(inst.prefix)
	if err == nil {
		for _, entry := range entries {
			if entry.Name() == constants.LockFileName || entry.Name() == constants.LockFileName+".pid" {
				continue
			}
			if err := os.RemoveAll(filepath.Join(inst.prefix, entry.Name())); err != nil {
				return err
			}
		}
	}

	env := map[string]string{}
	for key, value := range inst.buildEnv {
		env[key] = value
	}

	steps := []struct {
		name string
		run  func() error
	}{
		{"./configure", func() error { return inst.configure(ctx, srcDir, env) }},
		{"make", func() error { return inst.make(ctx, srcDir, env) }},
		{"make install", func() error { return inst.makeInstall(ctx, srcDir, env) }},
	}
	for _, step := range steps {
		note(step.name)
		inst.log.Infof("%s: %s", inst.Title, step.name)
		if err := step.run(); err != nil {
			return err
		}
	}

	// Drop the unpacked sources, keep the archive for rebuilds.
	_ = os.RemoveAll(srcDir)

	note("verifying")
	if err := inst.Verify(); err != nil {
		return fmt.Errorf("%s failed verification after install: %w", inst.Title, err)
	}
	inst.installed = true
	return nil
}
