// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package software

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/paratools/taucmdr/internal/testutils"
	"github.com/paratools/taucmdr/pkg/constants"
	"github.com/stretchr/testify/require"
)

func managerUnderTest(t *testing.T, userCatalog string) (*Manager, string) {
	require := require.New(t)
	h, user, _ := newTestHierarchy(t)

	catalogPath := ""
	if userCatalog != "" {
		catalogPath = filepath.Join(t.TempDir(), "packages.yaml")
		require.NoError(os.WriteFile(catalogPath, []byte(userCatalog), 0o644))
	}
	catalog, err := LoadCatalog(catalogPath)
	require.NoError(err)

	return NewManager(catalog, testParams(h)), user
}

func TestManagerPlanOrder(t *testing.T) {
	require := testutils.SetupTest(t)
	m, _ := managerUnderTest(t, "")

	plan, err := m.Plan("tau", "")
	require.NoError(err)

	names := make([]string, len(plan))
	for i, inst := range plan {
		names[i] = inst.Name
	}
	require.Equal([]string{"binutils", "papi", "pdt", "tau"}, names)
}

func TestManagerInstallationSourceOverride(t *testing.T) {
	require := testutils.SetupTest(t)
	m, _ := managerUnderTest(t, "")

	inst, err := m.Installation("papi", "http://mirror.example.com/papi.tar.gz")
	require.NoError(err)
	require.Equal("http://mirror.example.com/papi.tar.gz", inst.Source)

	inst, err = m.Installation("papi", "")
	require.NoError(err)
	require.Equal("http://icl.cs.utk.edu/projects/papi/downloads/papi-5.4.1.tar.gz", inst.Source)
}

func TestManagerInstallSkipsVerifiedPackages(t *testing.T) {
	require := testutils.SetupTest(t)
	userCatalog := `
packages:
  - name: solo
    title: Solo
    version: 1.0.0
    sources:
      - url: http://example.com/solo-1.0.0.tar.gz
    verify:
      libraries: [libsolo.a]
`
	m, user := managerUnderTest(t, userCatalog)

	uid := UID("http://example.com/solo-1.0.0.tar.gz")
	writeTree(require, filepath.Join(user, constants.PackagesDirName, "solo", uid), nil, []string{"libsolo.a"}, nil)

	// nothing pending, no fetch or build runs
	require.NoError(m.Install(context.Background(), InstallRequest{Name: "solo"}))
}

func TestManagerInstallReportsUnreachableSource(t *testing.T) {
	require := testutils.SetupTest(t)
	missing := filepath.Join(t.TempDir(), "nowhere", "solo-1.0.0.tar.gz")
	userCatalog := `
packages:
  - name: solo
    title: Solo
    version: 1.0.0
    sources:
      - url: ` + missing + `
    verify:
      libraries: [libsolo.a]
`
	m, _ := managerUnderTest(t, userCatalog)

	err := m.Install(context.Background(), InstallRequest{Name: "solo"})
	require.Error(err)
	require.Contains(err.Error(), "cannot acquire source archive")
}

func TestManagerInstallUnknownPackage(t *testing.T) {
	require := testutils.SetupTest(t)
	m, _ := managerUnderTest(t, "")

	err := m.Install(context.Background(), InstallRequest{Name: "scalasca"})
	require.Error(err)
	require.Contains(err.Error(), "unknown package")
}
