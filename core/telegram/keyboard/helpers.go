package keyboard

import tele "gopkg.in/telebot.v4"

// ReplyButtons builds a reply keyboard from rows of text.
func ReplyButtons(rows ...[]string) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{ResizeKeyboard: true}
	var keyboard []tele.Row
	for _, row := range rows {
		var buttons []tele.Btn
		for _, label := range row {
			buttons = append(buttons, markup.Text(label))
		}
		keyboard = append(keyboard, markup.Row(buttons...))
	}
	markup.Reply(keyboard...)
	return markup
}

// OneTimeChoices places every label on its own row of a reply keyboard
// that Telegram hides after the first press. Pressing a button sends the
// label as a plain text message.
func OneTimeChoices(labels []string) *tele.ReplyMarkup {
	if len(labels) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(labels))
	for _, label := range labels {
		rows = append(rows, []string{label})
	}
	markup := ReplyButtons(rows...)
	markup.OneTimeKeyboard = true
	return markup
}
