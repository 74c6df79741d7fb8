// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package testutils

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/paratools/taucmdr/pkg/application"
	"github.com/paratools/taucmdr/pkg/config"
	"github.com/paratools/taucmdr/pkg/logging"
	"github.com/paratools/taucmdr/pkg/platform"
	"github.com/paratools/taucmdr/pkg/ux"
	"github.com/stretchr/testify/require"
)

func SetupTest(t *testing.T) *require.Assertions {
	// use io.Discard to not print anything
	ux.NewUserLog(logging.NewNop(), io.Discard)
	return require.New(t)
}

func SetupTestInTempDir(t *testing.T) *application.TauCmdr {
	testDir := t.TempDir()

	app := application.New()
	app.Setup(
		filepath.Join(testDir, "state"),
		filepath.Join(testDir, "install"),
		logging.NewNop(),
		&config.Config{},
		nil,
		nil,
		platform.Platform{OS: platform.Linux, Arch: platform.X8664},
	)
	ux.NewUserLog(logging.NewNop(), io.Discard)
	return app
}
