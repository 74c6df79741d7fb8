// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package constants

import (
	"time"
)

const (
	Version = "1.4.0"

	DefaultPerms755    = 0o755
	WriteReadReadPerms = 0o644

	BaseDirName = ".taucmdr"
	LogDir      = "logs"

	BuildDirName    = "build"
	CondaDirName    = "conda"
	SrcCacheDirName = "src"
	PackagesDirName = "packages"
	SystemDirName   = "system"
	ProjectDirName  = ".tau"

	RecordsDBFileName = "records.db"
	ReceiptFileName   = "install-receipt.json"
	LockFileName      = ".tau_lock"
	TrialsDirName     = "trials"

	MaxLogFileSizeMB  = 4
	MaxNumOfLogFiles  = 5
	RetainLogFileDays = 0 // retain all old log files
	LogFileName       = "taucmdr.log"

	DownloadTimeout = 30 * time.Minute
	SubprocessGrace = 5 * time.Second

	// Install harness defaults
	DefaultInstallDirName = "taucmdr"
	SetupScriptName       = "setup.py"
	PostInstallScript     = "system_configure"
	PostInstallMinimal    = "--minimal"

	// Redistributable interpreter
	CondaVersion      = "24.11.1-0"
	CondaDownloadBase = "https://repo.anaconda.com/miniconda"
	MinPythonVersion  = "3.7"
	PackagingModule   = "setuptools"

	// Config keys
	ConfigOSKey           = "os"
	ConfigArchKey         = "arch"
	ConfigInstallDirKey   = "installdir"
	ConfigVerboseKey      = "verbose"
	ConfigDownloadToolKey = "download.tool"
	ConfigPythonKey       = "python.command"

	// Environment variables
	EnvOS           = "TAUCMDR_OS"
	EnvArch         = "TAUCMDR_ARCH"
	EnvInstallDir   = "TAUCMDR_INSTALLDIR"
	EnvVerbose      = "TAUCMDR_VERBOSE"
	EnvDownloadTool = "TAUCMDR_DOWNLOAD_TOOL"
	EnvPython       = "TAUCMDR_PYTHON"

	DefaultConfigFileName = "taucmdr"
	DefaultConfigFileType = "yaml"

	// Download tool selection
	DownloadToolAuto     = "auto"
	DownloadToolInternal = "internal"
	DownloadToolCurl     = "curl"
	DownloadToolWget     = "wget"

	// Git
	GitExtension = ".git"

	// Catalog
	CatalogFileName = "packages.yaml"

	TimeParseLayout = "2006-01-02 15:04:05"
)
