// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

package vnc

import (
	"os"

	"github.com/rs/zerolog"
)

// ZerologLogger adapts a zerolog.Logger to the Logger interface (§2.1). It is
// the default logger used by cmd/vncclient; library callers embedding this
// package in their own service typically pass their own zerolog.Logger via
// NewZerologLogger instead of relying on NoOpLogger.
type ZerologLogger struct {
	logger zerolog.Logger
}

// NewZerologLogger wraps an existing zerolog.Logger.
func NewZerologLogger(logger zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{logger: logger}
}

// NewDefaultZerologLogger builds a console-writer zerolog.Logger at info
// level, suitable for the CLI demo and quick experimentation.
func NewDefaultZerologLogger() *ZerologLogger {
	return NewZerologLogger(zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.InfoLevel).With().Timestamp().Logger())
}

func applyFields(event *zerolog.Event, fields []Field) *zerolog.Event {
	for _, f := range fields {
		if err, ok := f.Value.(error); ok {
			event = event.AnErr(f.Key, err)
			continue
		}
		event = event.Interface(f.Key, f.Value)
	}
	return event
}

// Debug logs a debug-level message with structured fields.
func (l *ZerologLogger) Debug(msg string, fields ...Field) {
	applyFields(l.logger.Debug(), fields).Msg(msg)
}

// Info logs an info-level message with structured fields.
func (l *ZerologLogger) Info(msg string, fields ...Field) {
	applyFields(l.logger.Info(), fields).Msg(msg)
}

// Warn logs a warning-level message with structured fields.
func (l *ZerologLogger) Warn(msg string, fields ...Field) {
	applyFields(l.logger.Warn(), fields).Msg(msg)
}

// Error logs an error-level message with structured fields.
func (l *ZerologLogger) Error(msg string, fields ...Field) {
	applyFields(l.logger.Error(), fields).Msg(msg)
}

// With returns a new ZerologLogger with the given fields attached to its
// underlying zerolog.Context, so every subsequent call carries them.
func (l *ZerologLogger) With(fields ...Field) Logger {
	ctx := l.logger.With()
	for _, f := range fields {
		if err, ok := f.Value.(error); ok {
			ctx = ctx.AnErr(f.Key, err)
			continue
		}
		ctx = ctx.Interface(f.Key, f.Value)
	}
	return &ZerologLogger{logger: ctx.Logger()}
}
