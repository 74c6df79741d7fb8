// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package software

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/paratools/taucmdr/pkg/ux"
)

// Manager resolves catalog entries into installations and drives
// installs across a dependency chain.
type Manager struct {
	catalog *Catalog
	params  InstallationParams
}

func NewManager(catalog *Catalog, params InstallationParams) *Manager {
	return &Manager{catalog: catalog, params: params}
}

func (m *Manager) Catalog() *Catalog {
	return m.catalog
}

// Installation resolves a single package without its dependencies.
// sourceOverride replaces the catalog source when non-empty.
func (m *Manager) Installation(name string, sourceOverride string) (*Installation, error) {
	entry, err := m.catalog.Get(name)
	if err != nil {
		return nil, err
	}
	params := m.params
	params.SourceOverride = sourceOverride
	return NewInstallation(entry, params)
}

// Plan resolves name and its dependencies into install order. The
// source override applies to the named package only.
func (m *Manager) Plan(name string, sourceOverride string) ([]*Installation, error) {
	entries, err := m.catalog.ResolveDependencies(name)
	if err != nil {
		return nil, err
	}
	installations := make([]*Installation, 0, len(entries))
	for _, entry := range entries {
		params := m.params
		if entry.Name == name {
			params.SourceOverride = sourceOverride
		}
		inst, err := NewInstallation(entry, params)
		if err != nil {
			return nil, err
		}
		installations = append(installations, inst)
	}
	return installations, nil
}

// InstallRequest describes one `software install` run.
type InstallRequest struct {
	Name string
	// Source overrides the catalog source of the named package.
	Source string
	// Force rebuilds the named package even if it verifies. Dependencies
	// that verify are never rebuilt.
	Force bool
	// BuildRoot hosts scratch build trees when /dev/shm is unavailable.
	BuildRoot string
}

// Install builds name and everything it depends on. Source archives of
// all pending packages are fetched concurrently, builds run
// sequentially with dependencies first.
func (m *Manager) Install(ctx context.Context, req InstallRequest) error {
	installations, err := m.Plan(req.Name, req.Source)
	if err != nil {
		return err
	}

	pending := make([]*Installation, 0, len(installations))
	for _, inst := range installations {
		force := req.Force && inst.Name == req.Name
		if inst.Installed() && !force {
			ux.Logger.PrintToUser("%s is already installed at %s", inst.Title, inst.Prefix())
			continue
		}
		pending = append(pending, inst)
	}
	if len(pending) == 0 {
		return nil
	}

	steps := make([]ux.Step, 0, len(pending)+1)
	steps = append(steps, ux.Step{
		Name: "Acquiring source archives",
		Run: func(note func(msg string)) error {
			fetchGroup, fetchCtx := errgroup.WithContext(ctx)
			for _, inst := range pending {
				inst := inst
				fetchGroup.Go(func() error {
					note(inst.archiveName())
					_, err := inst.FetchArchive(fetchCtx)
					return err
				})
			}
			return fetchGroup.Wait()
		},
	})
	for _, inst := range pending {
		inst := inst
		steps = append(steps, ux.Step{
			Name: fmt.Sprintf("Installing %s", inst.Title),
			Run: func(note func(msg string)) error {
				return inst.Install(ctx, InstallOptions{
					Force:     req.Force && inst.Name == req.Name,
					BuildRoot: req.BuildRoot,
					Note:      note,
				})
			},
		})
	}
	return ux.Logger.RunSteps(steps)
}
