package helpers

import (
	"testing"

	"github.com/m3rciful/quizbot/core/logger"

	tele "gopkg.in/telebot.v4"
)

type fakeContext struct {
	tele.Context
	update tele.Update
	store  map[string]any
}

func newFakeContext(updateID int, userID int64) *fakeContext {
	return &fakeContext{
		update: tele.Update{ID: updateID, Message: &tele.Message{
			Sender: &tele.User{ID: userID},
			Chat:   &tele.Chat{ID: userID},
		}},
		store: map[string]any{},
	}
}

func (f *fakeContext) Update() tele.Update    { return f.update }
func (f *fakeContext) Message() *tele.Message { return f.update.Message }
func (f *fakeContext) Sender() *tele.User     { return f.update.Message.Sender }
func (f *fakeContext) Chat() *tele.Chat       { return f.update.Message.Chat }
func (f *fakeContext) Get(key string) any     { return f.store[key] }
func (f *fakeContext) Set(key string, v any)  { f.store[key] = v }

func TestBuildContextCarriesUpdateMeta(t *testing.T) {
	c := newFakeContext(12, 34)
	ctx := BuildContext(c)
	if got := logger.UpdateIDFrom(ctx); got != 12 {
		t.Fatalf("update id = %d", got)
	}
	if got := logger.UserIDFrom(ctx); got != 34 {
		t.Fatalf("user id = %d", got)
	}
	if logger.RIDFrom(ctx) == "" {
		t.Fatal("rid must be set")
	}
	if again := BuildContext(c); again != ctx {
		t.Fatal("context must be cached per update")
	}
}

func TestBuildContextReusesStoredRID(t *testing.T) {
	c := newFakeContext(1, 2)
	c.Set(ridStoreKey, "fixed-rid")
	if got := logger.RIDFrom(BuildContext(c)); got != "fixed-rid" {
		t.Fatalf("rid = %q", got)
	}
}

func TestWithHandlerTagsContext(t *testing.T) {
	c := newFakeContext(1, 2)
	WithHandler(c, "start")
	ctx, ok := ContextFrom(c)
	if !ok {
		t.Fatal("context not stored")
	}
	if got := logger.HandlerFrom(ctx); got != "start" {
		t.Fatalf("handler = %q", got)
	}
}
