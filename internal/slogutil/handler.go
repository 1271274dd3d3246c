// Package slogutil provides the slog handler and helpers used for adaptive's
// diagnostics. Output goes to stderr (and optionally a rotated file) so that
// stdout stays reserved for command results.
package slogutil

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Handler writes one line per record:
//
//	2026-01-02T03:04:05Z [warn] Failed to load cache | file=/x error="bad json"
//
// Attributes bound with WithAttrs are rendered once and reused.
type Handler struct {
	w      io.Writer
	level  slog.Leveler
	prefix string // group path, "a.b." or ""
	bound  []byte // pre-rendered " key=value" pairs
	mu     *sync.Mutex
}

// NewHandler returns a Handler writing to w. opts may be nil.
func NewHandler(w io.Writer, opts *slog.HandlerOptions) *Handler {
	h := &Handler{w: w, level: slog.LevelInfo, mu: &sync.Mutex{}}
	if opts != nil && opts.Level != nil {
		h.level = opts.Level
	}
	return h
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	line := make([]byte, 0, 128)
	line = r.Time.UTC().AppendFormat(line, time.RFC3339)
	line = append(line, " ["...)
	line = append(line, levelString(r.Level)...)
	line = append(line, "] "...)
	line = append(line, r.Message...)

	pairs := h.bound
	if r.NumAttrs() > 0 {
		pairs = append([]byte(nil), h.bound...)
		r.Attrs(func(a slog.Attr) bool {
			pairs = appendPair(pairs, h.prefix, a)
			return true
		})
	}
	if len(pairs) > 0 {
		line = append(line, " |"...)
		line = append(line, pairs...)
	}
	line = append(line, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(line)
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	c := *h
	c.bound = append([]byte(nil), h.bound...)
	for _, a := range attrs {
		c.bound = appendPair(c.bound, h.prefix, a)
	}
	return &c
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := *h
	c.prefix = h.prefix + name + "."
	return &c
}

// appendPair renders a as " key=value". Attributes with an empty key are
// dropped.
func appendPair(dst []byte, prefix string, a slog.Attr) []byte {
	if a.Key == "" {
		return dst
	}
	dst = append(dst, ' ')
	dst = append(dst, prefix...)
	dst = append(dst, a.Key...)
	dst = append(dst, '=')
	return append(dst, formatValue(a.Value.Resolve())...)
}

func levelString(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "error"
	case level >= slog.LevelWarn:
		return "warn"
	case level >= slog.LevelInfo:
		return "info"
	}
	return "debug"
}

// formatValue quotes strings that are empty or would break key=value
// splitting.
func formatValue(v slog.Value) string {
	var s string
	switch v.Kind() {
	case slog.KindString:
		s = v.String()
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	default:
		s = fmt.Sprint(v.Any())
	}
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}
