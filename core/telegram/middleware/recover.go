package middleware

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/m3rciful/quizbot/core/logger"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// ErrPanic is returned for an update whose handler panicked.
var ErrPanic = errors.New("telegram: handler panicked")

// RecoverMiddleware catches panics in handlers and prevents the bot from crashing.
// The panic becomes ErrPanic so the OnError hook still sees the failed update.
func RecoverMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.TG.Error("panic recovered",
					slog.String("event", "tg.panic"),
					slog.Any("err", r),
					slog.String("stack", string(debug.Stack())),
				)
				err = fmt.Errorf("%w: %v", ErrPanic, r)
			}
		}()
		return next(c)
	}
}
