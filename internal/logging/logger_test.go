package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func newBufferLogger(t *testing.T, format string) (*slog.Logger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelDebug)

	var handler slog.Handler
	switch format {
	case "json":
		handler = newJSONHandler(buf, levelVar)
	default:
		handler = newPrettyHandler(buf, levelVar)
	}
	return slog.New(handler), buf
}

func TestPrettyHandlerRendersComponentPrefix(t *testing.T) {
	logger, buf := newBufferLogger(t, "console")

	NewComponentLogger(logger, "organizer").Info("moved file", String("category", "images"))

	line := buf.String()
	if !strings.Contains(line, " INFO organizer: moved file") {
		t.Fatalf("unexpected line: %q", line)
	}
	if !strings.Contains(line, "category=images") {
		t.Fatalf("missing attribute in line: %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component should render as prefix, not kv: %q", line)
	}
}

func TestPrettyHandlerQuotesValuesWithSpaces(t *testing.T) {
	logger, buf := newBufferLogger(t, "console")

	logger.Warn("skip", String("reason", "already there"))

	if !strings.Contains(buf.String(), `reason="already there"`) {
		t.Fatalf("expected quoted value, got %q", buf.String())
	}
}

func TestJSONHandlerRenamesCoreKeys(t *testing.T) {
	logger, buf := newBufferLogger(t, "json")

	logger.Info("hello")

	line := buf.String()
	for _, key := range []string{`"ts":`, `"level":"info"`, `"msg":"hello"`} {
		if !strings.Contains(line, key) {
			t.Fatalf("missing %s in %q", key, line)
		}
	}
}

func TestWithContextAddsRequestID(t *testing.T) {
	logger, buf := newBufferLogger(t, "console")

	ctx := WithRequestID(context.Background(), "req-123")
	WithContext(ctx, logger).Info("organizing")

	if !strings.Contains(buf.String(), "request_id=req-123") {
		t.Fatalf("expected request id in output, got %q", buf.String())
	}
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	if got := parseLevel("verbose"); got != slog.LevelInfo {
		t.Fatalf("parseLevel(verbose) = %v, want info", got)
	}
	if got := parseLevel("debug"); got != slog.LevelDebug {
		t.Fatalf("parseLevel(debug) = %v, want debug", got)
	}
}
