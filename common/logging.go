package common

import (
	"os"
	"path/filepath"

	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// NewLogger builds the logger every long-running component of this core
// shares: prefixed text on stderr, plus an optional per-level file sink
// under logDir when logDir is non-empty.
func NewLogger(level logrus.Level, logDir string) *logrus.Logger {
	logger := logrus.New()
	logger.Level = level
	logger.Formatter = new(prefixed.TextFormatter)

	if logDir == "" {
		return logger
	}

	pathMap := lfshook.PathMap{}

	infoPath := filepath.Join(logDir, "info.log")
	if f, err := os.OpenFile(infoPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644); err == nil {
		f.Close()
		pathMap[logrus.InfoLevel] = infoPath
	}

	debugPath := filepath.Join(logDir, "debug.log")
	if f, err := os.OpenFile(debugPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644); err == nil {
		f.Close()
		pathMap[logrus.DebugLevel] = debugPath
	}

	if len(pathMap) > 0 {
		logger.Hooks.Add(lfshook.NewHook(pathMap, new(prefixed.TextFormatter)))
	}

	return logger
}

// LogLevel maps a CLI/config string to a logrus level, defaulting to Debug
// for anything unrecognized.
func LogLevel(l string) logrus.Level {
	switch l {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "panic":
		return logrus.PanicLevel
	default:
		return logrus.DebugLevel
	}
}
