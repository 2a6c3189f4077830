// Copyright 2017 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// Package log provides go-ethereum's structured "msg, key, value, ..."
// logging surface on top of log/slog, so the interpreter and call engine
// can log the way the teacher does without pulling in its full term/
// console-rendering machinery (out of scope for an embeddable core).
package log

import (
	"log/slog"
	"os"
)

var root = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

// SetDefault replaces the package-level logger, e.g. with a JSON handler
// or a lower level, for embedders that want to control verbosity.
func SetDefault(l *slog.Logger) { root = l }

func Trace(msg string, ctx ...any) { root.Debug(msg, ctx...) }
func Debug(msg string, ctx ...any) { root.Debug(msg, ctx...) }
func Info(msg string, ctx ...any)  { root.Info(msg, ctx...) }
func Warn(msg string, ctx ...any)  { root.Warn(msg, ctx...) }
func Error(msg string, ctx ...any) { root.Error(msg, ctx...) }

// Crit logs at error level and then terminates the process, matching the
// teacher's convention that Crit marks an unrecoverable invariant
// violation rather than a reportable failure.
func Crit(msg string, ctx ...any) {
	root.Error(msg, ctx...)
	os.Exit(1)
}

// New returns a child logger with ctx permanently attached, so that a
// caller can tag a series of log lines (for example with a frame's depth
// and address) without repeating them at each call site.
func New(ctx ...any) *slog.Logger {
	return root.With(ctx...)
}
