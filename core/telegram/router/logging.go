package router

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/m3rciful/quizbot/core/logger"
	tghelpers "github.com/m3rciful/quizbot/core/telegram/helpers"
	"github.com/m3rciful/quizbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// summarize wraps a command handler so it writes one handler.handled line.
func summarize(command string, h tele.HandlerFunc) tele.HandlerFunc {
	name := normalizeHandlerName(command)
	return func(c tele.Context) error {
		return run(c, name, time.Now(), h)
	}
}

// run tags the update context with name, calls h and logs the summary.
// A nil h records a skipped update.
func run(c tele.Context, name string, start time.Time, h tele.HandlerFunc) error {
	ctx := tghelpers.WithHandler(c, name)
	var err error
	if h != nil {
		err = h(c)
	}

	msgs, kb := middleware.GetCounters(c)
	status, outcome := "ok", "ok"
	switch {
	case err != nil:
		status, outcome = "fail", "fail"
	case h == nil:
		status = "skip"
	}
	attrs := []slog.Attr{
		slog.String("status", status),
		slog.String("handler", name),
		slog.String("outcome", outcome),
		slog.Int("messages", msgs),
		slog.Bool("kb", kb),
		slog.Duration("duration", logger.Took(start)),
	}
	if err != nil {
		attrs = append(attrs,
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			slog.String("err_code", errorCode(err)),
		)
	}
	logger.LogEvent(ctx, logger.Component("tg"), slog.LevelInfo, "handler.handled", attrs...)
	return err
}

func normalizeHandlerName(name string) string {
	name = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "/"))
	if name == "" {
		return "unknown"
	}
	return strings.ReplaceAll(name, " ", "_")
}

// errorCode names an error for grouping: its Code() when it has one,
// otherwise the innermost wrapped type.
func errorCode(err error) string {
	var coded interface{ Code() string }
	if errors.As(err, &coded) {
		if code := strings.TrimSpace(coded.Code()); code != "" {
			return strings.ToUpper(strings.ReplaceAll(code, " ", "_"))
		}
	}
	for {
		next := errors.Unwrap(err)
		if next == nil {
			break
		}
		err = next
	}
	name := strings.TrimLeft(fmt.Sprintf("%T", err), "*")
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return strings.ToUpper(name)
}
