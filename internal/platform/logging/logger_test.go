package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

func TestNewJSONWriter_WritesKeyValues(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONWriter(&buf, LevelInfo).With("service", "fantasy-roster-api")

	logger.Info("roster member added", "league_id", "league-home", "error", errors.New("boom"), "dangling")
	if err := logger.Sync(); err != nil {
		t.Fatalf("sync: %v", err)
	}

	var entry map[string]any
	if err := sonic.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("unmarshal log line %q: %v", buf.String(), err)
	}
	for key, want := range map[string]any{
		"msg":       "roster member added",
		"service":   "fantasy-roster-api",
		"league_id": "league-home",
		"error":     "boom",
	} {
		if entry[key] != want {
			t.Fatalf("entry[%q]=%v want=%v", key, entry[key], want)
		}
	}
	if _, ok := entry["dangling"]; !ok {
		t.Fatalf("expected dangling key to be kept")
	}
}

func TestEnabled(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONWriter(&buf, LevelWarn)
	if logger.Enabled(LevelDebug) || logger.Enabled(LevelInfo) {
		t.Fatalf("expected debug and info to be disabled")
	}
	if !logger.Enabled(LevelError) {
		t.Fatalf("expected error to be enabled")
	}

	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below level, got %q", buf.String())
	}

	var nilLogger *Logger
	if nilLogger.Enabled(LevelError) {
		t.Fatalf("nil logger must report disabled")
	}
}

func TestContextAddsTraceIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONWriter(&buf, LevelInfo)

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	logger.InfoContext(ctx, "advice generated", zap.Int("recommendations", 11))

	var entry map[string]any
	if err := sonic.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("unmarshal log line %q: %v", buf.String(), err)
	}
	if entry["trace_id"] != traceID.String() || entry["span_id"] != spanID.String() {
		t.Fatalf("expected trace fields, got %v", entry)
	}
	if entry["recommendations"] != float64(11) {
		t.Fatalf("expected zap field to pass through, got %v", entry["recommendations"])
	}
	caller, _ := entry["caller"].(string)
	if !strings.HasPrefix(caller, "logging/logger_test.go") {
		t.Fatalf("expected caller to point at the test, got %q", caller)
	}
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: LevelDebug, Format: FormatConsole, Output: &buf})

	logger.Debug("cache miss", "league_id", "league-home")

	line := buf.String()
	if !strings.Contains(line, "cache miss") || !strings.Contains(line, `"league_id": "league-home"`) {
		t.Fatalf("unexpected console line %q", line)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   LevelDebug,
		" WARN ":  LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"info":    LevelInfo,
		"verbose": LevelInfo,
		"":        LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSetDefault(t *testing.T) {
	prev := Default()
	t.Cleanup(func() { SetDefault(prev) })

	var buf bytes.Buffer
	SetDefault(NewJSONWriter(&buf, LevelInfo))

	var nilLogger *Logger
	nilLogger.Warn("falls back to default")
	if !strings.Contains(buf.String(), "falls back to default") {
		t.Fatalf("expected nil logger to write through default, got %q", buf.String())
	}

	SetDefault(nil)
	if Default() == nil {
		t.Fatalf("expected SetDefault(nil) to install a nop logger")
	}
}
