package slogutil

import (
	"bytes"
	"context"
	"log/slog"
	"regexp"
	"strings"
	"testing"
)

var linePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z \[(debug|info|warn|error)\] .+\n$`)

func TestHandlerLineShape(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, slog.LevelInfo).Info("Detected tech stack", "framework", "go", "signals", 5)

	out := buf.String()
	if !linePattern.MatchString(out) {
		t.Fatalf("unexpected line shape: %q", out)
	}
	if !strings.HasSuffix(out, "[info] Detected tech stack | framework=go signals=5\n") {
		t.Errorf("unexpected body: %q", out)
	}
}

func TestHandlerValues(t *testing.T) {
	tests := []struct {
		name  string
		attrs []any
		want  string
	}{
		{"bare string", []any{"manager", "pnpm"}, "manager=pnpm"},
		{"spaces are quoted", []any{"path", "/tmp/my project"}, `path="/tmp/my project"`},
		{"empty is quoted", []any{"version", ""}, `version=""`},
		{"float", []any{"confidence", 0.95}, "confidence=0.95"},
		{"bool", []any{"cached", true}, "cached=true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewLogger(&buf, slog.LevelDebug).Debug("x", tt.attrs...)
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("want %s in %q", tt.want, buf.String())
			}
		})
	}
}

func TestHandlerFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelWarn)
	logger.Debug("scan detail")
	logger.Info("cache hit")
	logger.Warn("Failed to load cache")
	logger.Error("Failed to save cache metadata")

	out := buf.String()
	if strings.Contains(out, "scan detail") || strings.Contains(out, "cache hit") {
		t.Errorf("debug/info should be filtered: %q", out)
	}
	if strings.Count(out, "\n") != 2 {
		t.Errorf("want 2 lines, got %q", out)
	}
}

func TestHandlerGroupsAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo).With("run_id", "r1").WithGroup("cache").With("op", "get")
	logger.Info("miss", "key", "abc")

	out := buf.String()
	for _, want := range []string{"run_id=r1", "cache.op=get", "cache.key=abc"} {
		if !strings.Contains(out, want) {
			t.Errorf("want %s in %q", want, out)
		}
	}
}

type redacted string

func (redacted) LogValue() slog.Value { return slog.StringValue("***") }

func TestHandlerResolvesValuersAndDropsEmptyKeys(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo).With(slog.String("", "ignored"))
	logger.Info("auth", "token", redacted("secret"))

	out := buf.String()
	if !strings.HasSuffix(out, "[info] auth | token=***\n") {
		t.Errorf("unexpected body: %q", out)
	}
}

func TestLevelFromString(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		" warn ":  slog.LevelWarn,
		"Error":   slog.LevelError,
		"off":     LevelSilent,
		"verbose": slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		if got := LevelFromString(in); got != want {
			t.Errorf("LevelFromString(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLevelFromVerbosity(t *testing.T) {
	tests := []struct {
		verbosity int
		quiet     bool
		want      slog.Level
	}{
		{0, false, slog.LevelWarn},
		{1, false, slog.LevelInfo},
		{2, false, slog.LevelDebug},
		{4, false, slog.LevelDebug},
		{2, true, LevelSilent},
	}
	for _, tt := range tests {
		if got := LevelFromVerbosity(tt.verbosity, tt.quiet); got != tt.want {
			t.Errorf("LevelFromVerbosity(%d, %v) = %v, want %v", tt.verbosity, tt.quiet, got, tt.want)
		}
	}
}

func TestDiscardLoggerIsDisabled(t *testing.T) {
	if NewDiscardLogger().Enabled(context.Background(), slog.LevelError) {
		t.Error("discard logger should not be enabled at any standard level")
	}
}

func TestTeeHandlerRespectsEachLevel(t *testing.T) {
	var console, file bytes.Buffer
	logger := slog.New(NewTeeHandler(
		NewHandler(&console, &slog.HandlerOptions{Level: slog.LevelWarn}),
		NewHandler(&file, &slog.HandlerOptions{Level: slog.LevelInfo}),
	)).With("run_id", "r2")

	logger.Info("Analyzing project")
	logger.Warn("Git analysis failed")

	if strings.Contains(console.String(), "Analyzing project") {
		t.Error("console should drop info")
	}
	for _, want := range []string{"Analyzing project | run_id=r2", "Git analysis failed | run_id=r2"} {
		if !strings.Contains(file.String(), want) {
			t.Errorf("file log missing %q: %q", want, file.String())
		}
	}
}
