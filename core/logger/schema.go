package logger

import (
	"log/slog"
	"strings"
)

// levelName renders slog levels as the upper-case names used in log lines.
func levelName(l slog.Level) string {
	switch {
	case l < slog.LevelInfo:
		return "DEBUG"
	case l < slog.LevelWarn:
		return "INFO"
	case l < slog.LevelError:
		return "WARN"
	}
	return "ERROR"
}

// Closed vocabularies for the status and outcome fields. Unknown statuses are
// kept as logged; unknown outcomes are dropped.
var (
	statusValues  = set("ok", "fail", "skip", "retry", "rate_limited", "cancelled")
	outcomeValues = set("ok", "fail", "cancelled", "rate_limited")
)

func set(values ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(values))
	for _, v := range values {
		m[v] = struct{}{}
	}
	return m
}

func sanitizeEnumerations(fields map[string]any) {
	if s, ok := fields["status"].(string); ok {
		if v := strings.ToLower(strings.TrimSpace(s)); v != "" {
			if _, known := statusValues[v]; known {
				fields["status"] = v
			}
		}
	}
	if o, ok := fields["outcome"].(string); ok && o != "" {
		v := strings.ToLower(strings.TrimSpace(o))
		if _, known := outcomeValues[v]; known {
			fields["outcome"] = v
		} else {
			delete(fields, "outcome")
		}
	}
}

// defaultKeyOrder lists known keys in output order; anything else follows
// alphabetically.
var defaultKeyOrder = []string{
	// envelope
	"ts", "level", "component", "event", "status",
	// correlation
	"rid", "rid_full", "ts_unix_nano", "update_id", "user_id", "chat_id", "chat_type", "handler",
	// turn
	"outcome", "duration_ms", "messages", "kb", "payload", "username",
	// quiz
	"state", "next_state", "task_index", "score", "tasks", "kind", "index", "photo", "users", "finished",
	// transport and storage
	"mode", "listen", "public_url", "interval", "db", "host", "port", "driver", "path",
	// failures
	"err", "err_code", "cause", "attempts", "backoff_ms",
}
