package telegram

import (
	"testing"

	"github.com/m3rciful/quizbot/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

func noop(tele.Context) error { return nil }

func TestRegistryListCommandsHidesAdminAndHidden(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCommand("/start", commands.Command{Handler: noop, Description: "start"})
	reg.RegisterCommand("/help", commands.Command{Handler: noop, Description: "help"})
	reg.RegisterCommand("/stats", commands.Command{Handler: noop, Description: "stats", AdminOnly: true, Hidden: true})

	visible := reg.ListCommands(true)
	if len(visible) != 2 || visible[0].Text != "/help" || visible[1].Text != "/start" {
		t.Fatalf("unexpected visible commands: %+v", visible)
	}
	if all := reg.ListCommands(false); len(all) != 3 {
		t.Fatalf("expected 3 commands, got %d", len(all))
	}
}

func TestRegistryRejectsInvalidAndDuplicate(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCommand("start", commands.Command{Handler: noop, Description: "no slash"})
	reg.RegisterCommand("/empty", commands.Command{Handler: noop})
	reg.RegisterCommand("/start", commands.Command{Handler: noop, Description: "first"})
	reg.RegisterCommand("/start", commands.Command{Handler: noop, Description: "second"})

	if n := len(reg.Commands()); n != 1 {
		t.Fatalf("expected 1 command, got %d", n)
	}
	if got := reg.Commands()["/start"].Description; got != "first" {
		t.Fatalf("duplicate replaced original: %q", got)
	}
}

func TestRegistryLookupByAlias(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCommand("/help", commands.Command{Handler: noop, Description: "help", Aliases: []string{"помощь"}})

	key, _, ok := reg.LookupCommand("помощь")
	if !ok || key != "/help" {
		t.Fatalf("expected alias to resolve to /help, got %q %v", key, ok)
	}
	if _, _, ok := reg.LookupCommand("/unknown"); ok {
		t.Fatalf("unexpected match for unknown command")
	}
}
