// Package users persists the per-participant quiz record.
package users

import (
	"encoding/json"
	"errors"
	"fmt"
)

// NotStarted is the TaskIndex of a user who has not seen the first task yet.
const NotStarted = -1

var (
	// ErrNotFound is returned by Store.Load when no record exists for the id.
	ErrNotFound = errors.New("users: record not found")
	// ErrCorruptRecord marks a stored document that misses fields or breaks invariants.
	ErrCorruptRecord = errors.New("users: corrupt record")
)

// Identity is the sender metadata captured when a record is created.
type Identity struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
}

// Record is the durable state of one participant.
type Record struct {
	ID        int64  `json:"id" db:"id"`
	Username  string `json:"username" db:"username"`
	FirstName string `json:"first_name" db:"first_name"`
	LastName  string `json:"last_name" db:"last_name"`
	Name      string `json:"name" db:"name"`
	Email     string `json:"email" db:"email"`
	TaskIndex int    `json:"task" db:"task"`
	Score     int    `json:"score" db:"score"`
}

// NewRecord returns the initial record for a user: nothing collected, quiz not started.
func NewRecord(id Identity) Record {
	return Record{
		ID:        id.ID,
		Username:  id.Username,
		FirstName: id.FirstName,
		LastName:  id.LastName,
		TaskIndex: NotStarted,
	}
}

// Started reports whether the first task has been sent.
func (r Record) Started() bool {
	return r.TaskIndex > NotStarted
}

// Validate checks the invariants that hold regardless of catalog size.
func (r Record) Validate() error {
	switch {
	case r.ID == 0:
		return fmt.Errorf("%w: zero id", ErrCorruptRecord)
	case r.TaskIndex < NotStarted:
		return fmt.Errorf("%w: task %d", ErrCorruptRecord, r.TaskIndex)
	case r.Score < 0:
		return fmt.Errorf("%w: negative score", ErrCorruptRecord)
	case r.Started() && r.Score > r.TaskIndex:
		return fmt.Errorf("%w: score %d exceeds answered %d", ErrCorruptRecord, r.Score, r.TaskIndex)
	case !r.Started() && r.Score != 0:
		return fmt.Errorf("%w: score before start", ErrCorruptRecord)
	case r.Name == "" && r.Email != "":
		return fmt.Errorf("%w: email before name", ErrCorruptRecord)
	case r.Started() && (r.Name == "" || r.Email == ""):
		return fmt.Errorf("%w: quiz started before onboarding", ErrCorruptRecord)
	}
	return nil
}

// wireRecord mirrors Record with pointers so absent keys can be told apart from zero values.
type wireRecord struct {
	ID        *int64  `json:"id"`
	Username  *string `json:"username"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	TaskIndex *int    `json:"task"`
	Score     *int    `json:"score"`
}

// Encode serializes the full record document.
func Encode(r Record) ([]byte, error) {
	return json.Marshal(r)
}

// Decode parses a stored document, rejecting missing fields and broken invariants.
// username/first_name/last_name may be null: Telegram does not require them.
func Decode(data []byte) (Record, error) {
	var w wireRecord
	if err := json.Unmarshal(data, &w); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	var missing []string
	if w.ID == nil {
		missing = append(missing, "id")
	}
	if w.Name == nil {
		missing = append(missing, "name")
	}
	if w.Email == nil {
		missing = append(missing, "email")
	}
	if w.TaskIndex == nil {
		missing = append(missing, "task")
	}
	if w.Score == nil {
		missing = append(missing, "score")
	}
	if len(missing) > 0 {
		return Record{}, fmt.Errorf("%w: missing %v", ErrCorruptRecord, missing)
	}

	rec := Record{
		ID:        *w.ID,
		Username:  deref(w.Username),
		FirstName: deref(w.FirstName),
		LastName:  deref(w.LastName),
		Name:      *w.Name,
		Email:     *w.Email,
		TaskIndex: *w.TaskIndex,
		Score:     *w.Score,
	}
	if err := rec.Validate(); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
