// Copyright 2023 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package logger provides the package-level structured logging functions
// used throughout the command-line tools: a slog.Logger underneath, with
// text or JSON output and, when configured with a file path, rotation via
// lumberjack.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Severity is the set of recognized log levels, ordered least to most
// verbose beyond slog's own Debug.
type Severity string

const (
	OFF     Severity = "OFF"
	ERROR   Severity = "ERROR"
	WARNING Severity = "WARNING"
	INFO    Severity = "INFO"
	DEBUG   Severity = "DEBUG"
	TRACE   Severity = "TRACE"
)

// traceLevel sits one step below slog.LevelDebug, its own level so Tracef
// calls can be filtered independently of Debugf.
const traceLevel = slog.Level(-8)

var (
	programLevel  = new(slog.LevelVar)
	defaultLogger = slog.New(newHandler(os.Stderr, "json", programLevel))
)

// Config describes how to initialize the package-level logger.
type Config struct {
	Format   string // "text" or "json"
	Severity Severity
	FilePath string // empty means stderr
	MaxSizeMB int
	MaxBackups int
}

// Init reconfigures the package-level logger according to cfg. Call once at
// process startup before any other package's init-time logging.
func Init(cfg Config) {
	var w io.Writer = os.Stderr
	if cfg.FilePath != "" {
		w = &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    orDefault(cfg.MaxSizeMB, 100),
			MaxBackups: orDefault(cfg.MaxBackups, 5),
			Compress:   true,
		}
	}
	setLoggingLevel(cfg.Severity, programLevel)
	defaultLogger = slog.New(newHandler(w, cfg.Format, programLevel))
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func newHandler(w io.Writer, format string, level *slog.LevelVar) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if format == "text" {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

func setLoggingLevel(s Severity, level *slog.LevelVar) {
	switch s {
	case OFF:
		level.Set(slog.Level(1 << 20)) // nothing passes this threshold
	case ERROR:
		level.Set(slog.LevelError)
	case WARNING:
		level.Set(slog.LevelWarn)
	case INFO:
		level.Set(slog.LevelInfo)
	case DEBUG:
		level.Set(slog.LevelDebug)
	case TRACE:
		level.Set(traceLevel)
	default:
		level.Set(slog.LevelInfo)
	}
}

func Tracef(format string, args ...any) {
	defaultLogger.Log(context.Background(), traceLevel, fmt.Sprintf(format, args...))
}
func Debugf(format string, args ...any) { defaultLogger.Debug(fmt.Sprintf(format, args...)) }
func Infof(format string, args ...any)  { defaultLogger.Info(fmt.Sprintf(format, args...)) }
func Warnf(format string, args ...any)  { defaultLogger.Warn(fmt.Sprintf(format, args...)) }
func Errorf(format string, args ...any) { defaultLogger.Error(fmt.Sprintf(format, args...)) }
