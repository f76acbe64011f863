// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hashgraph/hedera-sdk-go-exec/pkg/errors"
)

const messageKey = "message"

// SlogConfig configures the levels of a handler created by [NewSlogHandler].
type SlogConfig struct {
	DefaultLevel slog.Level

	// ModuleLevels overrides the level of records with a matching "module"
	// attribute.
	ModuleLevels map[string]slog.Level
}

// ConsoleSlogWriter returns a writer that renders the JSON produced by a
// handler from [NewSlogHandler] as human-readable lines.
func ConsoleSlogWriter(w io.Writer, color bool) io.Writer {
	return &zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    !color,
		TimeFormat: time.RFC3339,
		FormatLevel: func(i interface{}) string {
			if ll, ok := i.(string); ok {
				return strings.ToUpper(ll)
			}
			return "????"
		},
		FormatMessage: func(i interface{}) string {
			if i == nil {
				return ""
			}
			if s, ok := i.(string); ok {
				return s
			}
			return fmt.Sprint(i)
		},
	}
}

// NewSlogHandler returns a handler that filters records by module, adds the
// attributes carried by the context, and writes the result to w as JSON.
func NewSlogHandler(cfg SlogConfig, w io.Writer) (slog.Handler, error) {
	if w == nil {
		return nil, errors.BadRequest.With("missing writer")
	}

	lowest := cfg.DefaultLevel
	modules := make(map[string]slog.Level, len(cfg.ModuleLevels))
	for m, l := range cfg.ModuleLevels {
		modules[strings.ToLower(m)] = l
		if l < lowest {
			lowest = l
		}
	}

	opts := &slog.HandlerOptions{
		Level: lowest,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return a
			}
			switch a.Key {
			case slog.MessageKey:
				// Moved to an attribute by the log handler
				return slog.Attr{}
			case slog.TimeKey:
				// Same layout as zerolog so the console writer can parse it
				return slog.String(slog.TimeKey, a.Value.Time().Format(time.RFC3339Nano))
			}
			return a
		},
	}

	return &logHandler{
		handler:      slog.NewJSONHandler(w, opts),
		defaultLevel: cfg.DefaultLevel,
		lowestLevel:  lowest,
		modules:      modules,
	}, nil
}

// ParseLevels parses a level specification such as "info;execute=debug". An
// entry without a module (or with module "*") sets the default level.
func ParseLevels(s string) (SlogConfig, error) {
	cfg := SlogConfig{DefaultLevel: slog.LevelInfo, ModuleLevels: map[string]slog.Level{}}
	for _, entry := range strings.FieldsFunc(s, func(r rune) bool { return r == ';' || r == ',' }) {
		module, level, ok := strings.Cut(entry, "=")
		if !ok {
			module, level = "", module
		}

		var l slog.Level
		err := l.UnmarshalText([]byte(strings.TrimSpace(level)))
		if err != nil {
			return cfg, errors.BadRequest.WithFormat("invalid log level %q: %w", level, err)
		}

		module = strings.TrimSpace(module)
		if module == "" || module == "*" {
			cfg.DefaultLevel = l
		} else {
			cfg.ModuleLevels[module] = l
		}
	}
	return cfg, nil
}

type logHandler struct {
	handler      slog.Handler
	defaultLevel slog.Level
	lowestLevel  slog.Level
	modules      map[string]slog.Level
	attrs        []slog.Attr
}

func (h *logHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	i := *h
	i.handler = h.handler.WithAttrs(attrs)
	i.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], attrs...)
	return &i
}

func (h *logHandler) WithGroup(name string) slog.Handler {
	i := *h
	i.handler = h.handler.WithGroup(name)
	return &i
}

func (h *logHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if level < h.lowestLevel {
		return false
	}
	return h.handler.Enabled(ctx, level)
}

func (h *logHandler) Handle(ctx context.Context, record slog.Record) error {
	ctxAttrs := Attrs(ctx)
	level, ok := h.levelForAttrs(ctxAttrs)
	if !ok {
		level, ok = h.levelForAttrs(h.attrs)
	}
	if !ok {
		level = h.levelForRecord(record)
	}
	if record.Level < level {
		return nil
	}

	r := slog.NewRecord(record.Time, record.Level, "", record.PC)
	r.AddAttrs(slog.String(messageKey, record.Message))
	record.Attrs(func(a slog.Attr) bool {
		r.AddAttrs(a)
		return true
	})
	r.AddAttrs(ctxAttrs...)
	return h.handler.Handle(ctx, r)
}

func (h *logHandler) levelForRecord(record slog.Record) slog.Level {
	level := h.defaultLevel
	record.Attrs(func(a slog.Attr) bool {
		if l, ok := h.moduleLevel(a); ok {
			level = l
			return false
		}
		return true
	})
	return level
}

func (h *logHandler) levelForAttrs(attrs []slog.Attr) (slog.Level, bool) {
	for _, a := range attrs {
		if l, ok := h.moduleLevel(a); ok {
			return l, true
		}
	}
	return 0, false
}

func (h *logHandler) moduleLevel(a slog.Attr) (slog.Level, bool) {
	if a.Key != "module" {
		return 0, false
	}
	l, ok := h.modules[strings.ToLower(a.Value.String())]
	return l, ok
}
