package state

import (
	"log/slog"
	"time"

	"github.com/m3rciful/quizbot/core/logger"
	tghelpers "github.com/m3rciful/quizbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// slowWait is the lock wait above which a debug line is written.
const slowWait = 50 * time.Millisecond

// Serialize runs next under the sender's lock. Updates without a sender
// pass through unlocked.
func Serialize(locks *Locks) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil || locks == nil {
				return next(c)
			}
			start := time.Now()
			unlock := locks.Lock(user.ID)
			defer unlock()

			if waited := time.Since(start); waited > slowWait {
				logger.Debug(tghelpers.BuildContext(c), "tg", "lock.wait",
					slog.Int64("user_id", user.ID),
					slog.Duration("duration", logger.RoundMS(waited)),
				)
			}
			return next(c)
		}
	}
}
