package middleware

import (
	tele "gopkg.in/telebot.v4"
)

const countersKey = "send_counters"

// sendCounters tracks what a handler sent during one update.
type sendCounters struct {
	messages int
	keyboard bool
}

// metricsContext counts successful sends; photos count as messages.
type metricsContext struct {
	tele.Context
	counters *sendCounters
}

func (m metricsContext) record(opts []any) {
	m.counters.messages++
	for _, o := range opts {
		switch v := o.(type) {
		case *tele.SendOptions:
			m.counters.keyboard = m.counters.keyboard || (v != nil && v.ReplyMarkup != nil)
		case *tele.ReplyMarkup:
			m.counters.keyboard = m.counters.keyboard || v != nil
		}
	}
}

// Send proxies tele.Context.Send while updating message counters.
func (m metricsContext) Send(what any, opts ...any) error {
	if err := m.Context.Send(what, opts...); err != nil {
		return err
	}
	m.record(opts)
	return nil
}

// Reply proxies tele.Context.Reply while updating message counters.
func (m metricsContext) Reply(what any, opts ...any) error {
	if err := m.Context.Reply(what, opts...); err != nil {
		return err
	}
	m.record(opts)
	return nil
}

// MessageMetricsMiddleware instruments context to track messages count and keyboard usage.
func MessageMetricsMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		counters := &sendCounters{}
		c.Set(countersKey, counters)
		return next(metricsContext{Context: c, counters: counters})
	}
}

// GetCounters reports how many messages were sent for the update and whether
// any carried a keyboard.
func GetCounters(c tele.Context) (int, bool) {
	if sc, ok := c.Get(countersKey).(*sendCounters); ok && sc != nil {
		return sc.messages, sc.keyboard
	}
	return 0, false
}
