package middleware

import (
	"log/slog"
	"sync"
	"time"

	coreconfig "github.com/m3rciful/quizbot/core/config"
	"github.com/m3rciful/quizbot/core/logger"
	tghelpers "github.com/m3rciful/quizbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// RateLimitOptions configures behaviour of the rate limit middleware.
type RateLimitOptions struct {
	Interval  time.Duration
	Exclude   map[string]struct{}
	OnLimited tele.HandlerFunc
}

// pruneEvery bounds how many interval lengths pass between sweeps of idle users.
const pruneEvery = 64

// rateLimiter remembers when each user was last let through.
type rateLimiter struct {
	interval time.Duration

	mu        sync.Mutex
	lastSeen  map[int64]time.Time
	lastPrune time.Time
}

func newRateLimiter(interval time.Duration) *rateLimiter {
	return &rateLimiter{interval: interval, lastSeen: make(map[int64]time.Time)}
}

// allow records now for id and reports whether the interval has elapsed
// since the previous accepted update.
func (l *rateLimiter) allow(id int64, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastPrune) >= pruneEvery*l.interval {
		for uid, seen := range l.lastSeen {
			if now.Sub(seen) >= l.interval {
				delete(l.lastSeen, uid)
			}
		}
		l.lastPrune = now
	}

	if last, ok := l.lastSeen[id]; ok && now.Sub(last) < l.interval {
		return false
	}
	l.lastSeen[id] = now
	return true
}

func (l *rateLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.lastSeen)
}

func updateKind(u tele.Update) string {
	switch {
	case u.Message != nil:
		return coreconfig.UpdateMessage
	case u.Callback != nil:
		return coreconfig.UpdateCallback
	case u.Query != nil:
		return coreconfig.UpdateInlineQuery
	}
	return "other"
}

// RateLimitMiddleware returns a middleware that enforces a minimum interval
// between updates from the same user. Limited updates are dropped after an
// optional OnLimited reply.
func RateLimitMiddleware(opts RateLimitOptions) tele.MiddlewareFunc {
	limiter := newRateLimiter(opts.Interval)
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil || opts.Interval <= 0 {
				return next(c)
			}
			if _, skip := opts.Exclude[updateKind(c.Update())]; skip {
				return next(c)
			}
			if limiter.allow(user.ID, time.Now()) {
				return next(c)
			}

			logger.Warn(tghelpers.BuildContext(c), "tg", "tg.rate_limit",
				slog.Duration("interval", opts.Interval),
			)
			if opts.OnLimited != nil {
				_ = opts.OnLimited(c)
			}
			return nil
		}
	}
}
