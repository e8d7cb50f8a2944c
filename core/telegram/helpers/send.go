package helpers

import (
	"fmt"
	"log/slog"

	"github.com/m3rciful/quizbot/core/logger"

	tele "gopkg.in/telebot.v4"
)

// Sends are synchronous: a turn's replies must reach the chat in order and
// a failed send has to abort the rest of the turn.

func send(c tele.Context, action string, what any, opts ...any) error {
	if err := c.Send(what, opts...); err != nil {
		ctx := BuildContext(c)
		logger.Debug(ctx, "tg.sender", "send.fail",
			slog.String("action", action),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
		return fmt.Errorf("%s: %w", action, err)
	}
	return nil
}

// SendText sends raw text (no parse mode) to the current recipient.
func SendText(c tele.Context, text string, opts ...*tele.SendOptions) error {
	if len(opts) > 0 && opts[0] != nil {
		return send(c, "send.text", text, opts[0])
	}
	return send(c, "send.text", text)
}

// SendMarkup sends text with a reply markup attached.
func SendMarkup(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	if markup == nil {
		return SendText(c, text)
	}
	return send(c, "send.markup", text, markup)
}

// SendPhoto sends a photo with no caption.
func SendPhoto(c tele.Context, photo *tele.Photo) error {
	if photo == nil {
		return fmt.Errorf("send.photo: nil photo")
	}
	return send(c, "send.photo", photo)
}
