// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package application

import (
	"os"
	"path/filepath"

	"github.com/paratools/taucmdr/pkg/config"
	"github.com/paratools/taucmdr/pkg/constants"
	"github.com/paratools/taucmdr/pkg/download"
	"github.com/paratools/taucmdr/pkg/logging"
	"github.com/paratools/taucmdr/pkg/models"
	"github.com/paratools/taucmdr/pkg/platform"
	"github.com/paratools/taucmdr/pkg/prompts"
	"github.com/paratools/taucmdr/pkg/utils"
)

// TauCmdr carries everything a command needs: logging, configuration,
// prompting, downloads, the resolved platform, and the directory
// layout rooted at the user state dir and the install prefix.
type TauCmdr struct {
	Log        *logging.Logger
	baseDir    string
	installDir string
	Conf       *config.Config
	Prompt     prompts.Prompter
	Downloader download.Fetcher
	Platform   platform.Platform
	Cmd        interface{} // current command being executed (cobra.Command)
}

func New() *TauCmdr {
	return &TauCmdr{}
}

func (app *TauCmdr) Setup(
	baseDir string,
	installDir string,
	log *logging.Logger,
	conf *config.Config,
	prompt prompts.Prompter,
	downloader download.Fetcher,
	plat platform.Platform,
) {
	app.baseDir = baseDir
	app.installDir = installDir
	app.Log = log
	app.Conf = conf
	app.Prompt = prompt
	app.Downloader = downloader
	app.Platform = plat
}

func (app *TauCmdr) GetBaseDir() string {
	return app.baseDir
}

func (app *TauCmdr) GetLogDir() string {
	return filepath.Join(app.baseDir, constants.LogDir)
}

// GetBuildDir is the scratch area setup.py builds run in.
func (app *TauCmdr) GetBuildDir() string {
	return filepath.Join(app.baseDir, constants.BuildDirName)
}

// GetCondaDir is the prefix the bundled interpreter installs into.
func (app *TauCmdr) GetCondaDir() string {
	return filepath.Join(app.baseDir, constants.CondaDirName)
}

// GetSrcCacheDir holds downloaded source archives and installer
// payloads, keyed by file name.
func (app *TauCmdr) GetSrcCacheDir() string {
	return filepath.Join(app.baseDir, constants.SrcCacheDirName)
}

// GetPackagesDir is the user-level prefix performance tools install
// under.
func (app *TauCmdr) GetPackagesDir() string {
	return filepath.Join(app.baseDir, constants.PackagesDirName)
}

func (app *TauCmdr) GetInstallDir() string {
	return app.installDir
}

// GetSystemDir is the system storage level, shared by every user of
// the install tree.
func (app *TauCmdr) GetSystemDir() string {
	return filepath.Join(app.installDir, constants.SystemDirName)
}

// GetCatalogPath points at the user's package catalog overrides.
func (app *TauCmdr) GetCatalogPath() string {
	return filepath.Join(app.baseDir, constants.CatalogFileName)
}

func (app *TauCmdr) GetReceiptPath() string {
	return filepath.Join(app.installDir, constants.ReceiptFileName)
}

func (app *TauCmdr) GetDownloader() download.Fetcher {
	return app.Downloader
}

func (app *TauCmdr) GetVersion() string {
	return constants.Version
}

// WriteReceipt stamps the receipt with the current version and
// persists it at the root of the install tree.
func (app *TauCmdr) WriteReceipt(receipt *models.Receipt) error {
	receipt.Version = constants.Version
	path := app.GetReceiptPath()
	if err := os.MkdirAll(filepath.Dir(path), constants.DefaultPerms755); err != nil {
		return err
	}
	return utils.WriteJSON(path, receipt)
}

func (app *TauCmdr) LoadReceipt() (models.Receipt, error) {
	var receipt models.Receipt
	err := utils.ReadJSON(app.GetReceiptPath(), &receipt)
	return receipt, err
}

func (app *TauCmdr) ReceiptExists() bool {
	return utils.FileExists(app.GetReceiptPath())
}

// CaptureYesNo delegates to the injected prompter.
func (app *TauCmdr) CaptureYesNo(prompt string) (bool, error) {
	return app.Prompt.CaptureYesNo(prompt)
}
