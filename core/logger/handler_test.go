package logger

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
)

// render logs one event through a fresh handler and returns the line.
func render(t *testing.T, format logFormat, ctx context.Context, level slog.Level, event string, attrs ...slog.Attr) string {
	t.Helper()
	buf := &bytes.Buffer{}
	aw := newAsyncWriter([]io.Writer{buf}, 1024)
	h := newStructuredHandler(handlerConfig{
		level:    slog.LevelDebug,
		writer:   aw,
		format:   format,
		keyOrder: append([]string(nil), defaultKeyOrder...),
	})
	LogEvent(ctx, slog.New(h).With("component", "conversation"), level, event, attrs...)
	if err := aw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	line := strings.TrimSpace(buf.String())
	if line == "" {
		t.Fatal("expected log line")
	}
	return line
}

func assertInOrder(t *testing.T, line string, parts ...string) {
	t.Helper()
	pos := -1
	for _, p := range parts {
		idx := strings.Index(line, p)
		if idx == -1 || idx < pos {
			t.Fatalf("%q not found in order within %s", p, line)
		}
		pos = idx
	}
}

func TestStructuredHandlerKVOrder(t *testing.T) {
	ctx := WithUpdateMeta(WithRID(Background(), "rid-123"), 42, 7, 9)
	line := render(t, formatKV, ctx, slog.LevelInfo, "turn.in",
		slog.String("payload", "Alice"),
		slog.String("status", "OK"),
	)
	if !strings.HasPrefix(line, "ts=") {
		t.Fatalf("line must start with ts: %s", line)
	}
	assertInOrder(t, line, "level=INFO", "component=conversation", "event=turn.in",
		"status=ok", "rid=rid-123", "update_id=42", "user_id=7", "chat_id=9", "payload=Alice")
}

func TestStructuredHandlerJSONOrder(t *testing.T) {
	ctx := WithUpdateMeta(WithRID(Background(), "rid-json"), 11, 22, 33)
	line := render(t, formatJSON, ctx, slog.LevelError, "store.save",
		slog.String("status", "fail"),
		slog.String("err", "boom"),
	)
	if !strings.HasPrefix(line, `{"ts":`) {
		t.Fatalf("expected JSON, got %s", line)
	}
	assertInOrder(t, line, `"level":"ERROR"`, `"component":"conversation"`, `"event":"store.save"`,
		`"status":"fail"`, `"rid":"rid-json"`, `"err":"boom"`)
}

func TestStructuredHandlerCompactRID(t *testing.T) {
	raw := "123:456:789"
	ctx := WithRID(Background(), raw)

	kv := render(t, formatKV, ctx, slog.LevelInfo, "rid.test")
	if !strings.Contains(kv, "rid="+CompactRID(raw)) || strings.Contains(kv, "rid_full=") {
		t.Fatalf("kv output should carry only the compact rid: %s", kv)
	}

	js := render(t, formatJSON, ctx, slog.LevelInfo, "rid.test")
	for _, want := range []string{`"rid":"` + CompactRID(raw) + `"`, `"rid_full":"` + raw + `"`, `"ts_unix_nano"`} {
		if !strings.Contains(js, want) {
			t.Fatalf("expected %s in %s", want, js)
		}
	}
}

func TestStructuredHandlerEnumerationsAndLevels(t *testing.T) {
	line := render(t, formatKV, Background(), slog.LevelDebug, "turn.out",
		slog.String("outcome", "maybe"),
		slog.String("status", "weird"),
	)
	if strings.Contains(line, "outcome=") {
		t.Fatalf("unknown outcome must be dropped: %s", line)
	}
	if !strings.Contains(line, "status=weird") || !strings.Contains(line, "level=DEBUG") {
		t.Fatalf("unexpected line %s", line)
	}

	if got := levelName(slog.LevelWarn + 2); got != "WARN" {
		t.Fatalf("levelName = %s", got)
	}
	if got := levelName(slog.LevelError + 4); got != "ERROR" {
		t.Fatalf("levelName = %s", got)
	}
}
