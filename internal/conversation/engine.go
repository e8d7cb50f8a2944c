// Package conversation implements the quiz dialogue: onboarding, task
// dispatch and answer checking, as a pure function of record and text.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/looplab/fsm"

	"github.com/m3rciful/quizbot/core/logger"
	"github.com/m3rciful/quizbot/internal/quiz"
	"github.com/m3rciful/quizbot/internal/users"
)

// ErrStateMismatch means a step left the record in a state the transition table does not allow.
var ErrStateMismatch = errors.New("conversation: record does not match transition")

// ErrInvalidEmail classifies text rejected at the email prompt. The engine
// recovers by asking again; it is never returned from Handle.
var ErrInvalidEmail = errors.New("conversation: invalid email")

// Reply is one outbound message. Text alone is a plain message, Text with
// Choices carries a one-time reply keyboard, Photo is a photo reference.
type Reply struct {
	Text    string
	Choices []string
	Photo   string
}

// Turn is the outcome of one inbound message.
type Turn struct {
	Record  users.Record
	Replies []Reply
	// Changed is set when Record differs from the loaded one and must be saved.
	Changed bool
	// Path lists the states visited, starting with the state the turn began in.
	Path []State
}

// Engine runs the conversation against a fixed catalog.
type Engine struct {
	catalog *quiz.Catalog
	log     *slog.Logger
}

// New returns an engine bound to catalog. A nil log uses the conversation component logger.
func New(catalog *quiz.Catalog, log *slog.Logger) *Engine {
	if log == nil {
		log = logger.Conv
	}
	return &Engine{catalog: catalog, log: log}
}

// Catalog returns the catalog the engine was built with.
func (e *Engine) Catalog() *quiz.Catalog {
	return e.catalog
}

// Help returns the instructional text. It never touches the record.
func (e *Engine) Help() []Reply {
	return []Reply{{Text: HelpText}}
}

// Start builds a fresh record for the sender, discarding any previous
// progress, and the replies greeting them.
func (e *Engine) Start(id users.Identity) (users.Record, []Reply) {
	return users.NewRecord(id), []Reply{{Text: HelpText}, {Text: msgAskName}}
}

// Handle advances rec by one inbound text message.
func (e *Engine) Handle(ctx context.Context, rec users.Record, text string) (Turn, error) {
	n := e.catalog.Len()
	start := StateOf(rec, n)
	turn := Turn{Record: rec, Path: []State{start}}
	machine := fsm.NewFSM(string(start), transitions, fsm.Callbacks{})

	for {
		current := State(machine.Current())
		event := e.step(current, &turn, text)
		if event == "" {
			break
		}
		if err := fire(ctx, machine, event); err != nil {
			return Turn{}, fmt.Errorf("conversation: %s from %s: %w", event, current, err)
		}
		next := State(machine.Current())
		if got := StateOf(turn.Record, n); got != next {
			return Turn{}, fmt.Errorf("%w: %s leads to %s, record is %s", ErrStateMismatch, event, next, got)
		}
		turn.Changed = true
		turn.Path = append(turn.Path, next)

		e.log.LogAttrs(ctx, slog.LevelDebug, "transition",
			slog.String("event", "turn.transition"),
			slog.String("state", string(current)),
			slog.String("next_state", string(next)),
			slog.Int("task_index", turn.Record.TaskIndex),
			slog.Int("score", turn.Record.Score),
		)
		if !chained[event] {
			break
		}
	}
	return turn, nil
}

// step applies the action of state s and returns the event it fired, or ""
// when the turn ends without a transition.
func (e *Engine) step(s State, turn *Turn, text string) string {
	rec := &turn.Record
	switch s {
	case StateAwaitingName:
		if text == "" {
			turn.reply(Reply{Text: msgAskName})
			return ""
		}
		rec.Name = text
		turn.reply(Reply{Text: greeting(rec.Name)}, Reply{Text: msgAskEmail})
		return eventName

	case StateAwaitingEmail:
		if err := checkEmail(text); err != nil {
			turn.reply(Reply{Text: msgBadEmail})
			return ""
		}
		rec.Email = text
		turn.reply(Reply{Text: msgReady})
		return eventEmail

	case StateNotStarted:
		rec.TaskIndex = 0
		turn.reply(e.question(0)...)
		return eventDispatch

	case StateInProgress:
		task, _ := e.catalog.Task(rec.TaskIndex)
		// Exact comparison: no trimming, no case folding.
		if text == task.Answer {
			rec.Score++
			turn.reply(Reply{Text: msgCorrect + task.Comment})
		} else {
			turn.reply(Reply{Text: msgWrong + task.Comment})
		}
		rec.TaskIndex++
		if rec.TaskIndex < e.catalog.Len() {
			turn.reply(e.question(rec.TaskIndex)...)
			return eventAnswer
		}
		turn.reply(Reply{Text: finalScore(rec.Score)})
		return eventFinish

	default:
		turn.reply(Reply{Text: msgNoMoreTasks})
		return ""
	}
}

// checkEmail only requires an "@"; the address is stored verbatim.
func checkEmail(text string) error {
	if !strings.Contains(text, "@") {
		return ErrInvalidEmail
	}
	return nil
}

func (e *Engine) question(i int) []Reply {
	task, _ := e.catalog.Task(i)
	out := []Reply{{Text: task.Question, Choices: task.Choices}}
	if task.Photo != "" {
		out = append(out, Reply{Photo: task.Photo})
	}
	return out
}

func (t *Turn) reply(r ...Reply) {
	t.Replies = append(t.Replies, r...)
}

// fire moves the machine along event. Self-loops (answer -> next answer)
// are reported by fsm as NoTransitionError and are not failures here.
func fire(ctx context.Context, machine *fsm.FSM, event string) error {
	err := machine.Event(ctx, event)
	var same fsm.NoTransitionError
	if err == nil || errors.As(err, &same) {
		return nil
	}
	return err
}
