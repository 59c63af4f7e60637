// Copyright (c) 2026 The minic Contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

// Package slogx wires the driver's structured log handler: a
// colorized handler for the terminal, fanned out via slog-multi to an
// optional JSON handler writing one record per pass for offline
// inspection. This is the structured-logging replacement for the
// teacher's ad hoc colored Debug* prints and .dot dump files.
package slogx

import (
	"context"
	"log/slog"
	"os"

	"github.com/fatih/color"
	slogmulti "github.com/samber/slog-multi"
)

// New builds the root logger for one compiler invocation. When
// dumpDir is empty only the terminal handler is installed; otherwise
// a JSON handler is fanned in alongside it, writing to
// dumpDir/passes.jsonl.
func New(verbose bool, dumpDir string) (*slog.Logger, error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	handlers := []slog.Handler{newTerminalHandler(level)}

	if dumpDir != "" {
		if err := os.MkdirAll(dumpDir, 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(dumpDir+"/passes.jsonl", os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return nil, err
		}
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
	}

	return slog.New(slogmulti.Fanout(handlers...)), nil
}

// terminalHandler colorizes the message of each record by level, then
// delegates attribute rendering to slog's text handler.
type terminalHandler struct {
	next slog.Handler
}

func newTerminalHandler(level slog.Level) slog.Handler {
	return &terminalHandler{
		next: slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}),
	}
}

func (h *terminalHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *terminalHandler) Handle(ctx context.Context, r slog.Record) error {
	paint, ok := levelColor[r.Level]
	if ok {
		r.Message = paint(r.Message)
	}
	return h.next.Handle(ctx, r)
}

func (h *terminalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &terminalHandler{next: h.next.WithAttrs(attrs)}
}

func (h *terminalHandler) WithGroup(name string) slog.Handler {
	return &terminalHandler{next: h.next.WithGroup(name)}
}

var levelColor = map[slog.Level]func(format string, a ...interface{}) string{
	slog.LevelDebug: color.CyanString,
	slog.LevelInfo:  color.GreenString,
	slog.LevelWarn:  color.YellowString,
	slog.LevelError: color.RedString,
}
