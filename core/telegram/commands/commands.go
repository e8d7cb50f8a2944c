// Package commands defines the metadata attached to a registered bot command.
package commands

import (
	tele "gopkg.in/telebot.v4"
)

// Command is a registered slash command.
type Command struct {
	Handler     tele.HandlerFunc
	Description string
	// AdminOnly commands run behind the admin check and stay out of the menu.
	AdminOnly bool
	// Hidden commands work but are not published with SetCommands.
	Hidden bool
	// Aliases match with or without the leading slash.
	Aliases []string
}
