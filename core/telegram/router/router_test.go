package router

import (
	"fmt"
	"testing"

	tg "github.com/m3rciful/quizbot/core/telegram"
	"github.com/m3rciful/quizbot/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

type fakeContext struct {
	tele.Context
	update tele.Update
	store  map[string]any
}

func newFakeContext(text string) *fakeContext {
	return &fakeContext{
		update: tele.Update{ID: 10, Message: &tele.Message{
			Text:   text,
			Sender: &tele.User{ID: 5},
			Chat:   &tele.Chat{ID: 5, Type: tele.ChatPrivate},
		}},
		store: make(map[string]any),
	}
}

func (f *fakeContext) Update() tele.Update    { return f.update }
func (f *fakeContext) Message() *tele.Message { return f.update.Message }
func (f *fakeContext) Sender() *tele.User     { return f.update.Message.Sender }
func (f *fakeContext) Chat() *tele.Chat       { return f.update.Message.Chat }
func (f *fakeContext) Text() string           { return f.update.Message.Text }
func (f *fakeContext) Get(key string) any     { return f.store[key] }
func (f *fakeContext) Set(key string, v any)  { f.store[key] = v }

func textRoute(t *testing.T, reg *tg.Registry) tele.HandlerFunc {
	t.Helper()
	routes := TextRoutes(reg, TextOptions{})
	if len(routes) != 1 || routes[0].Endpoint != tele.OnText {
		t.Fatalf("expected a single OnText route, got %+v", routes)
	}
	return routes[0].Handler
}

func TestTextRouteSendsPlainTextToFallback(t *testing.T) {
	var got []string
	reg := tg.NewRegistry()
	reg.RegisterCommand("/help", commands.Command{
		Description: "help",
		Handler: func(tele.Context) error {
			got = append(got, "help")
			return nil
		},
	})
	reg.SetTextFallback(func(c tele.Context) error {
		got = append(got, "text:"+c.Text())
		return nil
	})
	h := textRoute(t, reg)

	for _, text := range []string{"help", "/help@quizbot", "42 "} {
		if err := h(newFakeContext(text)); err != nil {
			t.Fatalf("handler(%q): %v", text, err)
		}
	}
	want := []string{"text:help", "help", "text:42 "}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestTextRouteUnknownCommandFallsThrough(t *testing.T) {
	fallback := 0
	reg := tg.NewRegistry()
	reg.SetTextFallback(func(tele.Context) error {
		fallback++
		return nil
	})
	if err := textRoute(t, reg)(newFakeContext("/unknown")); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if fallback != 1 {
		t.Fatalf("expected unknown command to reach fallback, got %d", fallback)
	}
}

func TestCommandName(t *testing.T) {
	cases := map[string]string{
		"/start":              "/start",
		"/start payload":      "/start",
		"/help@quiz_bot":      "/help",
		"/stats@quiz_bot now": "/stats",
	}
	for in, want := range cases {
		if got := commandName(in); got != want {
			t.Fatalf("commandName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeHandlerName(t *testing.T) {
	if got := normalizeHandlerName("/Stats"); got != "stats" {
		t.Fatalf("unexpected name %q", got)
	}
	if got := normalizeHandlerName("  "); got != "unknown" {
		t.Fatalf("unexpected name %q", got)
	}
}

type codedErr struct{}

func (codedErr) Error() string { return "coded" }
func (codedErr) Code() string  { return "not found" }

type plainErr struct{}

func (*plainErr) Error() string { return "plain" }

func TestErrorCode(t *testing.T) {
	if got := errorCode(fmt.Errorf("wrap: %w", codedErr{})); got != "NOT_FOUND" {
		t.Fatalf("errorCode = %q", got)
	}
	if got := errorCode(fmt.Errorf("wrap: %w", &plainErr{})); got != "PLAINERR" {
		t.Fatalf("errorCode = %q", got)
	}
}
