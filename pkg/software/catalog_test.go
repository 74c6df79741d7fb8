// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package software

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paratools/taucmdr/pkg/models"
	"github.com/paratools/taucmdr/pkg/platform"
	"github.com/stretchr/testify/require"
)

func TestLoadBuiltinCatalog(t *testing.T) {
	require := require.New(t)

	catalog, err := LoadCatalog("")
	require.NoError(err)
	require.Equal([]string{"binutils", "papi", "pdt", "tau"}, catalog.Names())

	papi, err := catalog.Get("papi")
	require.NoError(err)
	require.Equal("PAPI", papi.Title)
	require.Equal("5.4.1", papi.Version)
	require.Contains(papi.Verify.Libraries, "libpapi.a")

	source, err := papi.SourceFor(platform.Platform{OS: platform.Linux, Arch: platform.X8664})
	require.NoError(err)
	require.Equal("http://icl.cs.utk.edu/projects/papi/downloads/papi-5.4.1.tar.gz", source)
}

func TestCatalogGetUnknown(t *testing.T) {
	require := require.New(t)

	catalog, err := LoadCatalog("")
	require.NoError(err)

	_, err = catalog.Get("scalasca")
	require.Error(err)
	require.Contains(err.Error(), "software list")
}

func TestSourceSelection(t *testing.T) {
	require := require.New(t)

	entry := Entry{
		Name: "demo",
		Sources: []SourceSpec{
			{URL: "http://example.com/default.tar.gz"},
			{Arch: platform.Ppc64le, URL: "http://example.com/ppc64le.tar.gz"},
			{Arch: platform.X8664, OS: platform.Darwin, URL: "http://example.com/mac.tar.gz"},
		},
	}

	tests := []struct {
		name string
		plat platform.Platform
		want string
	}{
		{"default", platform.Platform{OS: platform.Linux, Arch: platform.X8664}, "http://example.com/default.tar.gz"},
		{"arch match", platform.Platform{OS: platform.Linux, Arch: platform.Ppc64le}, "http://example.com/ppc64le.tar.gz"},
		{"arch and os match", platform.Platform{OS: platform.Darwin, Arch: platform.X8664}, "http://example.com/mac.tar.gz"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := entry.SourceFor(tt.plat)
			require.NoError(err)
			require.Equal(tt.want, got)
		})
	}

	noDefault := Entry{
		Name:    "exotic",
		Sources: []SourceSpec{{Arch: platform.Ppc64le, URL: "http://example.com/ppc64le.tar.gz"}},
	}
	_, err := noDefault.SourceFor(platform.Platform{OS: platform.Linux, Arch: platform.X8664})
	require.Error(err)
	require.Contains(err.Error(), "no source")
}

func TestPdtUsesLiteSourceOnPower(t *testing.T) {
	require := require.New(t)

	catalog, err := LoadCatalog("")
	require.NoError(err)
	pdt, err := catalog.Get("pdt")
	require.NoError(err)

	source, err := pdt.SourceFor(platform.Platform{OS: platform.Linux, Arch: platform.Ppc64le})
	require.NoError(err)
	require.Equal("http://tau.uoregon.edu/pdt_lite.tgz", source)

	source, err = pdt.SourceFor(platform.Platform{OS: platform.Linux, Arch: platform.X8664})
	require.NoError(err)
	require.Equal("http://tau.uoregon.edu/pdt.tgz", source)
}

func TestEnvFor(t *testing.T) {
	require := require.New(t)

	catalog, err := LoadCatalog("")
	require.NoError(err)
	papi, err := catalog.Get("papi")
	require.NoError(err)

	env := papi.EnvFor(models.GNU)
	require.Equal(map[string]string{"CC": "gcc", "CXX": "g++"}, env)

	env = papi.EnvFor(models.Intel)
	require.Equal(map[string]string{"CC": "icc", "CXX": "icpc"}, env)

	pdt, err := catalog.Get("pdt")
	require.NoError(err)
	require.Empty(pdt.EnvFor(models.GNU))
}

func TestUserCatalogOverride(t *testing.T) {
	require := require.New(t)

	userCatalog := `
packages:
  - name: papi
    title: PAPI
    version: 6.0.0
    sources:
      - url: http://example.com/papi-6.0.0.tar.gz
    verify:
      libraries: [libpapi.a]
  - name: scorep
    title: Score-P
    version: 8.4.0
    sources:
      - url: http://example.com/scorep-8.4.tar.gz
`
	userPath := filepath.Join(t.TempDir(), "packages.yaml")
	require.NoError(os.WriteFile(userPath, []byte(userCatalog), 0o644))

	catalog, err := LoadCatalog(userPath)
	require.NoError(err)

	papi, err := catalog.Get("papi")
	require.NoError(err)
	require.Equal("6.0.0", papi.Version)

	_, err = catalog.Get("scorep")
	require.NoError(err)

	// built-ins not named in the user catalog survive
	_, err = catalog.Get("binutils")
	require.NoError(err)
}

func TestUserCatalogBadVersion(t *testing.T) {
	require := require.New(t)

	userPath := filepath.Join(t.TempDir(), "packages.yaml")
	require.NoError(os.WriteFile(userPath, []byte("packages:\n  - name: broken\n    version: not-a-version\n"), 0o644))

	_, err := LoadCatalog(userPath)
	require.Error(err)
	require.Contains(err.Error(), "bad version")
}

func TestResolveDependencies(t *testing.T) {
	require := require.New(t)

	catalog, err := LoadCatalog("")
	require.NoError(err)

	entries, err := catalog.ResolveDependencies("tau")
	require.NoError(err)

	names := make([]string, len(entries))
	for i, entry := range entries {
		names[i] = entry.Name
	}
	require.Equal([]string{"binutils", "papi", "pdt", "tau"}, names)

	// a package without dependencies resolves to itself
	entries, err = catalog.ResolveDependencies("papi")
	require.NoError(err)
	require.Len(entries, 1)
	require.Equal("papi", entries[0].Name)
}

func TestResolveDependenciesConstraintViolation(t *testing.T) {
	require := require.New(t)

	// downgrade papi below tau's ">= 5.4" constraint
	userPath := filepath.Join(t.TempDir(), "packages.yaml")
	override := `
packages:
  - name: papi
    title: PAPI
    version: 5.3.0
    sources:
      - url: http://example.com/papi-5.3.0.tar.gz
`
	require.NoError(os.WriteFile(userPath, []byte(override), 0o644))

	catalog, err := LoadCatalog(userPath)
	require.NoError(err)

	_, err = catalog.ResolveDependencies("tau")
	require.Error(err)
	require.Contains(err.Error(), "does not satisfy")
}

func TestResolveDependenciesCycle(t *testing.T) {
	require := require.New(t)

	userPath := filepath.Join(t.TempDir(), "packages.yaml")
	cyclic := `
packages:
  - name: alpha
    title: Alpha
    version: 1.0.0
    sources:
      - url: http://example.com/alpha.tar.gz
    dependencies:
      - name: beta
  - name: beta
    title: Beta
    version: 1.0.0
    sources:
      - url: http://example.com/beta.tar.gz
    dependencies:
      - name: alpha
`
	require.NoError(os.WriteFile(userPath, []byte(cyclic), 0o644))

	catalog, err := LoadCatalog(userPath)
	require.NoError(err)

	_, err = catalog.ResolveDependencies("alpha")
	require.Error(err)
	require.Contains(err.Error(), "cycle")
}
