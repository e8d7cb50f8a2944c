package conversation

import (
	"github.com/looplab/fsm"

	"github.com/m3rciful/quizbot/internal/users"
)

// State is derived from record fields on every turn; it is never stored.
type State string

const (
	StateAwaitingName  State = "awaiting_name"
	StateAwaitingEmail State = "awaiting_email"
	StateNotStarted    State = "not_started"
	StateInProgress    State = "in_progress"
	StateCompleted     State = "completed"
)

const (
	eventName     = "name"
	eventEmail    = "email"
	eventDispatch = "dispatch"
	eventAnswer   = "answer"
	eventFinish   = "finish"
)

// transitions is the full conversation graph. /start is not part of it: it
// replaces the record instead of moving along an edge.
var transitions = fsm.Events{
	{Name: eventName, Src: []string{string(StateAwaitingName)}, Dst: string(StateAwaitingEmail)},
	{Name: eventEmail, Src: []string{string(StateAwaitingEmail)}, Dst: string(StateNotStarted)},
	{Name: eventDispatch, Src: []string{string(StateNotStarted)}, Dst: string(StateInProgress)},
	{Name: eventAnswer, Src: []string{string(StateInProgress)}, Dst: string(StateInProgress)},
	{Name: eventFinish, Src: []string{string(StateInProgress)}, Dst: string(StateCompleted)},
}

// chained events evaluate the destination state within the same turn:
// a valid email immediately sends the first task.
var chained = map[string]bool{
	eventEmail: true,
}

// StateOf evaluates the record guards in priority order.
func StateOf(rec users.Record, catalogLen int) State {
	switch {
	case rec.Name == "":
		return StateAwaitingName
	case rec.Email == "":
		return StateAwaitingEmail
	case rec.TaskIndex == users.NotStarted:
		return StateNotStarted
	case rec.TaskIndex < catalogLen:
		return StateInProgress
	default:
		return StateCompleted
	}
}
