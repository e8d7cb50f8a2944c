// Package bot adapts the quiz conversation to Telegram: it turns updates
// into service calls and replies into messages, in order.
package bot

import (
	"context"
	"log/slog"

	"github.com/m3rciful/quizbot/core/logger"
	tg "github.com/m3rciful/quizbot/core/telegram"
	"github.com/m3rciful/quizbot/core/telegram/commands"
	tghelpers "github.com/m3rciful/quizbot/core/telegram/helpers"
	"github.com/m3rciful/quizbot/core/telegram/keyboard"
	"github.com/m3rciful/quizbot/internal/conversation"
	"github.com/m3rciful/quizbot/internal/users"

	tele "gopkg.in/telebot.v4"
)

const msgTooFast = "Не так быстро! Подожди секунду и повтори."

// Handlers serves the quiz commands and free text.
type Handlers struct {
	service  *conversation.Service
	photoDir string
}

// New returns handlers bound to service. Relative photo paths are resolved
// against the catalog directory.
func New(service *conversation.Service) *Handlers {
	return &Handlers{
		service:  service,
		photoDir: service.Engine().Catalog().Dir(),
	}
}

// Register adds the quiz commands and the text handler to reg.
func (h *Handlers) Register(reg *tg.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     h.Start,
		Description: "Начать игру заново",
	})
	reg.RegisterCommand("/help", commands.Command{
		Handler:     h.Help,
		Description: "Как играть",
	})
	reg.RegisterCommand("/stats", commands.Command{
		Handler:     h.Stats,
		Description: "Статистика участников",
		AdminOnly:   true,
		Hidden:      true,
	})
	reg.SetTextFallback(h.Text)
}

// Start resets the sender's record and greets them.
func (h *Handlers) Start(c tele.Context) error {
	ctx := h.turnIn(c)
	replies, err := h.service.Start(ctx, identity(c.Sender()))
	if err != nil {
		return err
	}
	return h.deliver(ctx, c, replies)
}

// Help sends the instructions. The record is not read or touched.
func (h *Handlers) Help(c tele.Context) error {
	ctx := h.turnIn(c)
	return h.deliver(ctx, c, h.service.Help())
}

// Text advances the conversation by one message.
func (h *Handlers) Text(c tele.Context) error {
	ctx := h.turnIn(c)
	replies, err := h.service.Message(ctx, identity(c.Sender()), c.Text())
	if err != nil {
		return err
	}
	return h.deliver(ctx, c, replies)
}

// Stats sends the participant summary to the admin.
func (h *Handlers) Stats(c tele.Context) error {
	ctx := h.turnIn(c)
	st, err := h.service.Stats(ctx)
	if err != nil {
		return err
	}
	return h.deliver(ctx, c, []conversation.Reply{{Text: st.Text()}})
}

// Limited answers an update dropped by the rate limiter. The record is not
// touched, so the user resends the same answer.
func (h *Handlers) Limited(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	logger.Debug(ctx, "conversation", "turn.limited",
		slog.String("payload", logger.SanitizeLimit(c.Text(), 256)),
	)
	return tghelpers.SendText(c, msgTooFast)
}

func (h *Handlers) turnIn(c tele.Context) context.Context {
	ctx := tghelpers.BuildContext(c)
	attrs := []slog.Attr{slog.String("payload", logger.SanitizeLimit(c.Text(), 256))}
	if user := c.Sender(); user != nil {
		attrs = append(attrs, slog.Int64("user_id", user.ID))
	}
	logger.Info(ctx, "conversation", "turn.in", attrs...)
	return ctx
}

// deliver sends replies in order and stops at the first failure; the record
// has already been saved, so the user can retry from the stored state.
func (h *Handlers) deliver(ctx context.Context, c tele.Context, replies []conversation.Reply) error {
	for i, r := range replies {
		var (
			err  error
			kind string
		)
		switch {
		case r.Photo != "":
			kind = "photo"
			err = tghelpers.SendPhoto(c, resolvePhoto(r.Photo, h.photoDir))
		case len(r.Choices) > 0:
			kind = "choices"
			err = tghelpers.SendMarkup(c, r.Text, keyboard.OneTimeChoices(r.Choices))
		default:
			kind = "text"
			err = tghelpers.SendText(c, r.Text)
		}
		if err != nil {
			return err
		}
		attrs := []slog.Attr{
			slog.Int("index", i),
			slog.String("kind", kind),
		}
		if r.Photo != "" {
			attrs = append(attrs, slog.String("photo", r.Photo))
		} else {
			attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(r.Text, 256)))
		}
		logger.Info(ctx, "conversation", "turn.out", attrs...)
	}
	return nil
}

func identity(u *tele.User) users.Identity {
	if u == nil {
		return users.Identity{}
	}
	return users.Identity{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}
