// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package logging

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/paratools/taucmdr/pkg/constants"
)

// Logger wraps the process logger and exposes the console level so
// flags parsed after construction can still adjust verbosity.
type Logger struct {
	*zap.SugaredLogger
	consoleLevel zap.AtomicLevel
}

// New builds a logger with two sinks: a rotating JSON file under dir
// capturing everything at debug level, and a console encoder on stderr
// filtered to the display level. User-facing command output does not go
// through here, only diagnostics.
func New(dir string, displayLevel string) (*Logger, error) {
	if err := os.MkdirAll(dir, constants.DefaultPerms755); err != nil {
		return nil, err
	}

	fileSink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(dir, constants.LogFileName),
		MaxSize:    constants.MaxLogFileSizeMB,
		MaxBackups: constants.MaxNumOfLogFiles,
		MaxAge:     constants.RetainLogFileDays,
	})

	consoleLevel := zap.NewAtomicLevelAt(ToLevel(displayLevel))

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	fileCore := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), fileSink, zapcore.DebugLevel)

	consoleCfg := zap.NewDevelopmentEncoderConfig()
	consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(consoleCfg),
		zapcore.Lock(os.Stderr),
		consoleLevel,
	)

	core := zapcore.NewTee(fileCore, consoleCore)
	log := zap.New(core, zap.AddCaller())
	return &Logger{
		SugaredLogger: log.Sugar(),
		consoleLevel:  consoleLevel,
	}, nil
}

// NewNop returns a logger that discards everything, for tests.
func NewNop() *Logger {
	return &Logger{
		SugaredLogger: zap.NewNop().Sugar(),
		consoleLevel:  zap.NewAtomicLevelAt(zapcore.ErrorLevel),
	}
}

// SetDisplayLevel adjusts the console verbosity after flag parsing.
func (l *Logger) SetDisplayLevel(level string) {
	l.consoleLevel.SetLevel(ToLevel(level))
}

// ToLevel parses a level name, defaulting to warn on unknown input.
func ToLevel(name string) zapcore.Level {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "INFO":
		return zapcore.InfoLevel
	case "WARN", "WARNING":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	case "FATAL":
		return zapcore.FatalLevel
	default:
		return zapcore.WarnLevel
	}
}
