/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	cnxcontext "github.com/sr9691/circleblast-nexus-sub000/internal/system/context"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// Options configure the process logger. Zero values mean INFO text on stdout.
type Options struct {
	Level  string
	Format string
	Writer io.Writer
}

var (
	logger *Logger
	mu     sync.RWMutex
)

// Logger wraps slog with the typed Field helpers used across nexus.
type Logger struct {
	internal *slog.Logger
}

// GetLogger returns the process logger, or an INFO text logger on stdout before Init.
func GetLogger() *Logger {

	mu.RLock()
	current := logger
	mu.RUnlock()
	if current != nil {
		return current
	}
	return newLogger(Options{})
}

// ForContext returns the process logger tagged with the trace id carried by ctx, if any.
func ForContext(ctx context.Context) *Logger {

	current := GetLogger()
	if traceID := cnxcontext.TraceID(ctx); traceID != "" {
		return current.With(String("trace_id", traceID))
	}
	return current
}

// Init installs a text logger on stdout at logLevel.
func Init(logLevel string) error {

	return InitWithOptions(Options{Level: logLevel})
}

func InitWithOptions(options Options) error {

	if _, err := parseLogLevel(options.Level); err != nil {
		return fmt.Errorf("error parsing log level: %w", err)
	}
	switch strings.ToLower(options.Format) {
	case "", FormatText, FormatJSON:
	default:
		return fmt.Errorf("unsupported log format %q", options.Format)
	}

	mu.Lock()
	logger = newLogger(options)
	mu.Unlock()
	return nil
}

func newLogger(options Options) *Logger {

	writer := options.Writer
	if writer == nil {
		writer = os.Stdout
	}
	level, err := parseLogLevel(options.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	handlerOptions := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(options.Format, FormatJSON) {
		handler = slog.NewJSONHandler(writer, handlerOptions)
	} else {
		handler = slog.NewTextHandler(writer, handlerOptions)
	}
	return &Logger{internal: slog.New(handler)}
}

func (l *Logger) With(fields ...Field) *Logger {
	return &Logger{
		internal: l.internal.With(convertFields(fields)...),
	}
}

func (l *Logger) Info(msg string, fields ...Field) {
	l.internal.Info(msg, convertFields(fields)...)
}

func (l *Logger) Debug(msg string, fields ...Field) {
	l.internal.Debug(msg, convertFields(fields)...)
}

func (l *Logger) Warn(msg string, fields ...Field) {
	l.internal.Warn(msg, convertFields(fields)...)
}

func (l *Logger) Error(msg string, fields ...Field) {
	l.internal.Error(msg, convertFields(fields)...)
}

// Fatal logs at ERROR and exits the process.
func (l *Logger) Fatal(msg string, fields ...Field) {
	l.internal.Error(msg, convertFields(fields)...)
	os.Exit(1)
}

// parseLogLevel accepts slog level names in any case. Empty means INFO.
func parseLogLevel(logLevel string) (slog.Level, error) {
	if strings.TrimSpace(logLevel) == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(logLevel))); err != nil {
		return slog.LevelError, err
	}
	return level, nil
}

func convertFields(fields []Field) []any {
	attrs := make([]any, len(fields))
	for i, field := range fields {
		attrs[i] = slog.Any(field.Key, field.Value)
	}
	return attrs
}
