// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package software builds performance-tool packages from source and
// manages their installations across the storage hierarchy.
package software

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/paratools/taucmdr/pkg/models"
	"github.com/paratools/taucmdr/pkg/platform"
)

//go:embed catalog.yaml
var builtinCatalog []byte

// SourceSpec is one source URL, optionally restricted to an arch or an
// (arch, os) pair. An entry with neither is the default source.
type SourceSpec struct {
	Arch string `yaml:"arch,omitempty"`
	OS   string `yaml:"os,omitempty"`
	URL  string `yaml:"url"`
}

// VerifySpec lists what a valid installation must provide.
type VerifySpec struct {
	Commands  []string `yaml:"commands,omitempty"`
	Libraries []string `yaml:"libraries,omitempty"`
	Headers   []string `yaml:"headers,omitempty"`
}

// DependencySpec names another catalog entry this one builds on top of.
type DependencySpec struct {
	Name       string `yaml:"name"`
	Constraint string `yaml:"constraint,omitempty"`
}

// Entry is one package definition.
type Entry struct {
	Name           string                       `yaml:"name"`
	Title          string                       `yaml:"title"`
	Version        string                       `yaml:"version"`
	Sources        []SourceSpec                 `yaml:"sources"`
	Verify         VerifySpec                   `yaml:"verify,omitempty"`
	ConfigureFlags []string                     `yaml:"configureFlags,omitempty"`
	Env            map[string]map[string]string `yaml:"env,omitempty"`
	Dependencies   []DependencySpec             `yaml:"dependencies,omitempty"`
}

type catalogFile struct {
	Packages []Entry `yaml:"packages"`
}

// Catalog maps package names to their definitions. Built-in entries are
// embedded in the binary; a user catalog file replaces entries with the
// same name and adds new ones.
type Catalog struct {
	entries map[string]Entry
}

// LoadCatalog parses the built-in catalog and merges the user catalog
// at userPath when that file exists.
func LoadCatalog(userPath string) (*Catalog, error) {
	catalog := &Catalog{entries: map[string]Entry{}}
	if err := catalog.merge(builtinCatalog); err != nil {
		return nil, fmt.Errorf("parsing built-in catalog: %w", err)
	}
	if userPath != "" {
		userBytes, err := os.ReadFile(userPath)
		if err != nil {
			if os.IsNotExist(err) {
				return catalog, nil
			}
			return nil, err
		}
		if err := catalog.merge(userBytes); err != nil {
			return nil, fmt.Errorf("parsing catalog %s: %w", userPath, err)
		}
	}
	return catalog, nil
}

func (c *Catalog) merge(raw []byte) error {
	var parsed catalogFile
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return err
	}
	for _, entry := range parsed.Packages {
		if entry.Name == "" {
			return fmt.Errorf("catalog entry with no name")
		}
		if _, err := semver.NewVersion(entry.Version); err != nil {
			return fmt.Errorf("catalog entry %q: bad version %q: %w", entry.Name, entry.Version, err)
		}
		c.entries[entry.Name] = entry
	}
	return nil
}

func (c *Catalog) Get(name string) (Entry, error) {
	entry, ok := c.entries[name]
	if !ok {
		return Entry{}, fmt.Errorf("unknown package %q (run 'taucmdr software list' for known packages)", name)
	}
	return entry, nil
}

// Names returns all package names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SourceFor picks the source URL for a platform: an exact (arch, os)
// match wins, then an arch-only match, then the default entry.
func (e Entry) SourceFor(p platform.Platform) (string, error) {
	var archMatch, fallback string
	for _, src := range e.Sources {
		switch {
		case src.Arch == p.Arch && src.OS == p.OS:
			return src.URL, nil
		case src.Arch == p.Arch && src.OS == "":
			archMatch = src.URL
		case src.Arch == "" && src.OS == "":
			fallback = src.URL
		}
	}
	if archMatch != "" {
		return archMatch, nil
	}
	if fallback != "" {
		return fallback, nil
	}
	return "", fmt.Errorf("package %q has no source for %s", e.Name, p)
}

// EnvFor returns the build environment overrides for a compiler family.
func (e Entry) EnvFor(family models.CompilerFamily) map[string]string {
	env := map[string]string{}
	for key, value := range e.Env[string(family)] {
		env[key] = value
	}
	return env
}

// ResolveDependencies returns the entries needed to install name, in
// install order (dependencies before dependents, the named entry last).
// Dependency version constraints are checked against the catalog.
func (c *Catalog) ResolveDependencies(name string) ([]Entry, error) {
	var order []Entry
	visited := map[string]bool{}
	visiting := map[string]bool{}

	var visit func(string) error
	visit = func(current string) error {
		if visited[current] {
			return nil
		}
		if visiting[current] {
			return fmt.Errorf("dependency cycle through package %q", current)
		}
		visiting[current] = true

		entry, err := c.Get(current)
		if err != nil {
			return err
		}
		for _, dep := range entry.Dependencies {
			depEntry, err := c.Get(dep.Name)
			if err != nil {
				return fmt.Errorf("package %q depends on %w", current, err)
			}
			if err := checkConstraint(depEntry, dep.Constraint); err != nil {
				return fmt.Errorf("package %q: %w", current, err)
			}
			if err := visit(dep.Name); err != nil {
				return err
			}
		}

		visiting[current] = false
		visited[current] = true
		order = append(order, entry)
		return nil
	}

	if err := visit(name); err != nil {
		return nil, err
	}
	return order, nil
}

func checkConstraint(dep Entry, rawConstraint string) error {
	if rawConstraint == "" {
		rawConstraint = "*"
	}
	con, err := semver.NewConstraint(rawConstraint)
	if err != nil {
		return fmt.Errorf("bad constraint %q on %q: %w", rawConstraint, dep.Name, err)
	}
	version := semver.MustParse(dep.Version)
	if !con.Check(version) {
		return fmt.Errorf("dependency %q at version %s does not satisfy %q", dep.Name, dep.Version, rawConstraint)
	}
	return nil
}
