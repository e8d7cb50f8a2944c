package users

import (
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
)

func TestNewRecordIsInitialState(t *testing.T) {
	rec := NewRecord(Identity{ID: 7, Username: "alice", FirstName: "Alice", LastName: "L"})

	if rec.Name != "" || rec.Email != "" || rec.TaskIndex != NotStarted || rec.Score != 0 {
		t.Fatalf("unexpected initial record: %+v", rec)
	}
	if rec.Username != "alice" || rec.FirstName != "Alice" || rec.LastName != "L" {
		t.Fatalf("identity not captured: %+v", rec)
	}
	if err := rec.Validate(); err != nil {
		t.Fatalf("initial record must be valid: %v", err)
	}
}

func TestDecodeAcceptsLegacyDocument(t *testing.T) {
	doc := `{"id": 42, "username": null, "first_name": "Bob", "last_name": null,
		"name": "Bob", "email": "bob@example.com", "task": 2, "score": 1}`

	rec, err := Decode([]byte(doc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.ID != 42 || rec.TaskIndex != 2 || rec.Score != 1 || rec.Username != "" {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestDecodeRejectsMissingFields(t *testing.T) {
	_, err := Decode([]byte(`{"id": 42, "name": "Bob", "email": ""}`))
	if !errors.Is(err, ErrCorruptRecord) {
		t.Fatalf("expected ErrCorruptRecord, got %v", err)
	}
}

func TestDecodeRejectsBrokenInvariants(t *testing.T) {
	docs := map[string]string{
		"score_over_task": `{"id": 1, "name": "a", "email": "a@b", "task": 1, "score": 2}`,
		"task_below":      `{"id": 1, "name": "a", "email": "a@b", "task": -2, "score": 0}`,
		"email_no_name":   `{"id": 1, "name": "", "email": "a@b", "task": -1, "score": 0}`,
		"started_no_mail": `{"id": 1, "name": "a", "email": "", "task": 0, "score": 0}`,
		"not_json":        `{"id": `,
	}
	for name, doc := range docs {
		if _, err := Decode([]byte(doc)); !errors.Is(err, ErrCorruptRecord) {
			t.Fatalf("%s: expected ErrCorruptRecord, got %v", name, err)
		}
	}
}

func TestEncodeUsesDocumentKeys(t *testing.T) {
	rec := NewRecord(Identity{ID: 5})
	data, err := Encode(rec)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if back != rec {
		t.Fatalf("round trip mismatch: %+v vs %+v", back, rec)
	}
}

func TestNormalizeDriver(t *testing.T) {
	cases := map[string]string{"": DriverFile, "JSON": DriverFile, "pg": DriverPostgres, " redis ": DriverRedis}
	for in, want := range cases {
		got, err := NormalizeDriver(in)
		if err != nil || got != want {
			t.Fatalf("NormalizeDriver(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := NormalizeDriver("mongo"); err == nil {
		t.Fatalf("expected unknown driver error")
	}
}

func TestRedisStoreKeys(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer client.Close()

	if got := newRedisStore(client, "").key(99); got != "quiz:user:99" {
		t.Fatalf("unexpected default key %q", got)
	}
	if got := newRedisStore(client, "dod:").key(99); got != "dod:99" {
		t.Fatalf("unexpected prefixed key %q", got)
	}
}
