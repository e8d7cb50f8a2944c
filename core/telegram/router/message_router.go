package router

import (
	"strings"
	"time"

	tg "github.com/m3rciful/quizbot/core/telegram"
	"github.com/m3rciful/quizbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// TextOptions controls fallback behaviour for text updates.
type TextOptions struct {
	UnknownText tele.HandlerFunc
}

// TextRoutes builds the handler for free text. Slash-prefixed text that
// matches a registered command or alias runs that command; anything else,
// including quiz answers, goes to the registry text fallback.
func TextRoutes(reg *tg.Registry, opts TextOptions) []tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		text := c.Text()

		if reg != nil && strings.HasPrefix(text, "/") {
			if key, cmd, ok := reg.LookupCommand(commandName(text)); ok && cmd.Handler != nil {
				return run(c, normalizeHandlerName(key), start, cmd.Handler)
			}
		}
		if reg != nil {
			if fb := reg.TextFallback(); fb != nil {
				return run(c, "text", start, fb)
			}
		}
		return run(c, "unknown_text", start, opts.UnknownText)
	}

	return []tg.Route{
		{
			Endpoint: tele.OnText,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
		},
	}
}

// commandName strips the payload and the @bot suffix: "/help@quiz x" -> "/help".
func commandName(text string) string {
	if i := strings.IndexAny(text, " \n"); i >= 0 {
		text = text[:i]
	}
	if i := strings.Index(text, "@"); i >= 0 {
		text = text[:i]
	}
	return text
}
